package peers

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PolarWolf314/caselock/internal/bundle"
	"github.com/PolarWolf314/caselock/internal/configs"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/secrets"
)

// Peer is a device whose public key bundle has been imported.
type Peer struct {
	DeviceID  string    `toml:"-" json:"deviceId"`
	PublicKey string    `toml:"public_key" json:"publicKey"`
	Label     string    `toml:"label" json:"label,omitempty"`
	AddedAt   time.Time `toml:"added_at" json:"addedAt"`
}

type peersFile struct {
	Peers map[string]Peer `toml:"peers"`
}

// Directory is the set of known peers, persisted as TOML.
type Directory struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewDirectory(path string) *Directory {
	return &Directory{path: path, now: time.Now}
}

func (d *Directory) load() (*peersFile, error) {
	f := &peersFile{Peers: make(map[string]Peer)}
	if _, err := os.Stat(d.path); os.IsNotExist(err) {
		return f, nil
	}
	if err := configs.LoadTOML(d.path, f); err != nil {
		return nil, fmt.Errorf("failed to load peers: %w", err)
	}
	if f.Peers == nil {
		f.Peers = make(map[string]Peer)
	}
	return f, nil
}

func (d *Directory) save(f *peersFile) error {
	if err := configs.SaveTOML(d.path, f); err != nil {
		return fmt.Errorf("failed to save peers: %w", err)
	}
	return nil
}

// Add records a parsed bundle. An existing entry for the same device is
// ErrPeerExists unless replace is set.
func (d *Directory) Add(b *bundle.PublicKeyBundle, replace bool) (Peer, error) {
	if b == nil {
		return Peer{}, kerrors.ErrInvalidBundle
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.load()
	if err != nil {
		return Peer{}, err
	}
	if _, exists := f.Peers[b.DeviceID]; exists && !replace {
		return Peer{}, fmt.Errorf("%w: %s", kerrors.ErrPeerExists, b.DeviceID)
	}

	peer := Peer{
		DeviceID:  b.DeviceID,
		PublicKey: strings.ToLower(b.PublicKey),
		Label:     b.Label,
		AddedAt:   d.now().UTC().Truncate(time.Second),
	}
	f.Peers[b.DeviceID] = peer
	if err := d.save(f); err != nil {
		return Peer{}, err
	}
	return peer, nil
}

// Get returns the peer with the given device id.
func (d *Directory) Get(deviceID string) (Peer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.load()
	if err != nil {
		return Peer{}, err
	}
	peer, ok := f.Peers[deviceID]
	if !ok {
		return Peer{}, fmt.Errorf("%w: %s", kerrors.ErrPeerNotFound, deviceID)
	}
	peer.DeviceID = deviceID
	return peer, nil
}

// List returns all peers ordered by label, then device id.
func (d *Directory) List() ([]Peer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.load()
	if err != nil {
		return nil, err
	}
	out := make([]Peer, 0, len(f.Peers))
	for id, peer := range f.Peers {
		peer.DeviceID = id
		out = append(out, peer)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].DeviceID < out[j].DeviceID
	})
	return out, nil
}

// Remove deletes a peer.
func (d *Directory) Remove(deviceID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.load()
	if err != nil {
		return err
	}
	if _, ok := f.Peers[deviceID]; !ok {
		return fmt.Errorf("%w: %s", kerrors.ErrPeerNotFound, deviceID)
	}
	delete(f.Peers, deviceID)
	return d.save(f)
}

// Resolve turns a recipient reference into a peer. A 64 character hex
// string is used as a public key directly and yields a Peer with only
// PublicKey set; anything else is looked up as a device id, then as a
// unique label.
func (d *Directory) Resolve(ref string) (Peer, error) {
	ref = strings.TrimSpace(ref)
	if secrets.IsPublicKeyHex(ref) {
		return Peer{PublicKey: strings.ToLower(ref)}, nil
	}

	all, err := d.List()
	if err != nil {
		return Peer{}, err
	}

	var byLabel []Peer
	for _, p := range all {
		if p.DeviceID == ref {
			return p, nil
		}
		if p.Label != "" && p.Label == ref {
			byLabel = append(byLabel, p)
		}
	}
	switch len(byLabel) {
	case 0:
		return Peer{}, fmt.Errorf("%w: %s", kerrors.ErrPeerNotFound, ref)
	case 1:
		return byLabel[0], nil
	default:
		return Peer{}, fmt.Errorf("label %q matches %d peers, use a device id", ref, len(byLabel))
	}
}
