// Package utils provides shared helpers for the caselock CLI.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - SanitizeLabel: normalizes device labels for bundles
//   - DefaultDeviceLabel: derives a label from the hostname
//
// # Terminal Utilities
//
//   - KeyringPrompt: hidden password prompt on the controlling terminal for
//     the keyring file backend, via golang.org/x/term
//   - ReadStdin, ArgOrStdin: piped input for envelopes and bundles
package utils
