package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/caselock/internal/audit"
	"github.com/PolarWolf314/caselock/internal/bundle"
	kerrors "github.com/PolarWolf314/caselock/internal/errors"
	"github.com/PolarWolf314/caselock/internal/peers"
)

// PeerAddOptions configures the peer add workflow.
type PeerAddOptions struct {
	// Bundle is the raw JSON received from the other device.
	Bundle string

	// Replace overwrites an existing entry for the same device id.
	Replace bool
}

// AddPeer parses a public key bundle and stores it in the peer directory.
//
// Returns ErrInvalidBundle if the bundle does not parse.
// Returns ErrPeerExists if the device is already known and Replace is false.
func AddPeer(ctx context.Context, env *Env, opts PeerAddOptions) (*peers.Peer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := bundle.Parse(strings.TrimSpace(opts.Bundle))
	if b == nil {
		return nil, kerrors.ErrInvalidBundle
	}

	peer, err := env.Peers.Add(b, opts.Replace)
	if err != nil {
		return nil, err
	}

	env.Audit.Record(audit.Entry{
		Operation: "peer add",
		Peer:      peer.DeviceID,
		PeerLabel: peer.Label,
	})
	return &peer, nil
}

// ListPeers returns every known peer.
func ListPeers(ctx context.Context, env *Env) ([]peers.Peer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return env.Peers.List()
}

// RemovePeer deletes a peer by device id or unique label.
func RemovePeer(ctx context.Context, env *Env, ref string) (*peers.Peer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	peer, err := env.Peers.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if peer.DeviceID == "" {
		return nil, fmt.Errorf("%w: remove peers by device id or label", kerrors.ErrPeerNotFound)
	}
	if err := env.Peers.Remove(peer.DeviceID); err != nil {
		return nil, err
	}

	env.Audit.Record(audit.Entry{
		Operation: "peer remove",
		Peer:      peer.DeviceID,
		PeerLabel: peer.Label,
	})
	return &peer, nil
}
