// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with color when the terminal supports it. When NO_COLOR
// is set or the terminal doesn't support colors, text decorations are used
// instead:
//
//	ui.Code.Sprint("caselock identity show") // `caselock identity show`
//	ui.Highlight.Sprint(deviceID)            // 'deviceID'
//	ui.Muted.Sprint("optional")              // (optional)
//
// Tick, Cross and Arrow return the status markers used by command output.
package ui
