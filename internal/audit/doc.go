// Package audit records key-management operations performed on this device.
//
// # Log Format
//
// The audit log is JSON Lines at <data dir>/audit.jsonl. Each entry has an
// id, a UTC timestamp, the local device id and the operation name, plus
// the peer or case it concerned. Case keys, private keys, envelopes and
// plaintext are never written.
//
// # Failure Handling
//
// Audit logging is best-effort. If a write fails the operation continues.
// ReadEntries skips malformed lines to tolerate partial writes.
package audit
