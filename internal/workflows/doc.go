// Package workflows provides high-level orchestration for caselock commands.
//
// Workflows coordinate the configs, securestore, identity, peers, wrap and
// audit packages to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, spinners, and output formatting.
//
// # Environment
//
// An Env is loaded once per command. It carries the resolved settings and
// config and opens the secure store lazily, so config commands never touch
// the system keyring.
//
// # Available Workflows
//
//   - ShowIdentity, InitIdentity: bootstrap and report the device identity
//   - ExportBundle: serialize the public key bundle
//   - AddPeer, ListPeers, RemovePeer: manage the peer directory
//   - NewCase: generate a case id and case key
//   - EncryptPayload, DecryptPayload: payload envelopes under a case key
//   - WrapCaseKey, UnwrapCaseKey: share a case key with one peer
//   - ShowConfig, SetConfig: inspect and edit config.toml
//   - Log: read and filter the audit log
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package so the
// CLI layer can map them to messages without string matching:
//
//	result, err := workflows.UnwrapCaseKey(ctx, env, raw)
//	if errors.Is(err, kerrors.ErrNotRecipient) {
//	    // Envelope was wrapped for another device
//	}
package workflows
