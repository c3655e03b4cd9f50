package peers

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PolarWolf314/caselock/internal/bundle"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
)

func testBundle(id, label, keyByte string) *bundle.PublicKeyBundle {
	return &bundle.PublicKeyBundle{
		Version:   bundle.Version1,
		DeviceID:  id,
		PublicKey: strings.Repeat(keyByte, 32),
		Label:     label,
	}
}

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory(filepath.Join(t.TempDir(), "peers.toml"))
	d.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return d
}

func TestDirectory_AddGetList(t *testing.T) {
	d := newTestDirectory(t)

	if _, err := d.Add(testBundle("bbbb", "ward-3", "0b"), false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := d.Add(testBundle("aaaa", "clinic", "0a"), false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	peer, err := d.Get("bbbb")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if peer.DeviceID != "bbbb" || peer.Label != "ward-3" || peer.PublicKey != strings.Repeat("0b", 32) {
		t.Errorf("Unexpected peer %+v", peer)
	}
	if !peer.AddedAt.Equal(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected AddedAt %v", peer.AddedAt)
	}

	list, err := d.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Label != "clinic" || list[1].Label != "ward-3" {
		t.Errorf("Expected peers sorted by label, got %+v", list)
	}
}

func TestDirectory_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peers.toml")
	if _, err := NewDirectory(path).Add(testBundle("aaaa", "clinic", "0a"), false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	peer, err := NewDirectory(path).Get("aaaa")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if peer.Label != "clinic" {
		t.Errorf("Expected persisted label, got %q", peer.Label)
	}
}

func TestDirectory_AddDuplicate(t *testing.T) {
	d := newTestDirectory(t)
	if _, err := d.Add(testBundle("aaaa", "old", "0a"), false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := d.Add(testBundle("aaaa", "new", "0c"), false); !errors.Is(err, kerrors.ErrPeerExists) {
		t.Errorf("Expected ErrPeerExists, got: %v", err)
	}

	if _, err := d.Add(testBundle("aaaa", "new", "0c"), true); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	peer, _ := d.Get("aaaa")
	if peer.Label != "new" || peer.PublicKey != strings.Repeat("0c", 32) {
		t.Errorf("Expected replaced peer, got %+v", peer)
	}
}

func TestDirectory_AddNil(t *testing.T) {
	if _, err := newTestDirectory(t).Add(bundle.Parse("garbage"), false); !errors.Is(err, kerrors.ErrInvalidBundle) {
		t.Errorf("Expected ErrInvalidBundle, got: %v", err)
	}
}

func TestDirectory_Remove(t *testing.T) {
	d := newTestDirectory(t)
	_, _ = d.Add(testBundle("aaaa", "clinic", "0a"), false)

	if err := d.Remove("aaaa"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := d.Get("aaaa"); !errors.Is(err, kerrors.ErrPeerNotFound) {
		t.Errorf("Expected ErrPeerNotFound after removal, got: %v", err)
	}
	if err := d.Remove("aaaa"); !errors.Is(err, kerrors.ErrPeerNotFound) {
		t.Errorf("Expected ErrPeerNotFound for second removal, got: %v", err)
	}
}

func TestDirectory_Resolve(t *testing.T) {
	d := newTestDirectory(t)
	_, _ = d.Add(testBundle("aaaa", "clinic", "0a"), false)
	_, _ = d.Add(testBundle("bbbb", "theatre", "0b"), false)
	_, _ = d.Add(testBundle("cccc", "theatre", "0c"), false)

	raw := strings.Repeat("EF", 32)
	if got, err := d.Resolve(raw); err != nil || got.PublicKey != strings.ToLower(raw) || got.DeviceID != "" {
		t.Errorf("Expected raw key passthrough, got %+v, %v", got, err)
	}
	if got, err := d.Resolve("aaaa"); err != nil || got.PublicKey != strings.Repeat("0a", 32) || got.DeviceID != "aaaa" {
		t.Errorf("Expected lookup by device id, got %+v, %v", got, err)
	}
	if got, err := d.Resolve("clinic"); err != nil || got.DeviceID != "aaaa" {
		t.Errorf("Expected lookup by label, got %+v, %v", got, err)
	}
	if _, err := d.Resolve("theatre"); err == nil {
		t.Error("Expected ambiguous label to fail")
	}
	if _, err := d.Resolve("dddd"); !errors.Is(err, kerrors.ErrPeerNotFound) {
		t.Errorf("Expected ErrPeerNotFound, got: %v", err)
	}
}
