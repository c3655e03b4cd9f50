package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint styles the operands as fmt.Sprint would join them.
func (f Formatter) Sprint(a ...any) string {
	if colorDisabled() {
		return f.prefix + fmt.Sprint(a...) + f.suffix
	}
	return f.color.Sprint(fmt.Sprint(a...))
}

func (f Formatter) Sprintf(format string, a ...any) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func colorDisabled() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set || color.NoColor
}

func plain(attr color.Attribute) Formatter {
	return Formatter{color: color.New(attr)}
}

func quoted(attr color.Attribute, left, right string) Formatter {
	return Formatter{color: color.New(attr), prefix: left, suffix: right}
}

// Output styles. Styles that carry meaning without color fall back to
// delimiters when NO_COLOR is set.
var (
	Code      = quoted(color.FgYellow, "`", "`") // runnable commands
	Path      = plain(color.FgYellow)
	Flag      = plain(color.FgYellow) // --key, --to
	Success   = plain(color.FgGreen)
	Error     = plain(color.FgRed)
	Warning   = plain(color.FgYellow)
	Info      = plain(color.FgCyan)
	Highlight = quoted(color.FgCyan, "'", "'") // device ids, labels, case ids
	Key       = plain(color.Bold)              // hex key material shown on request
	Muted     = quoted(color.FgHiBlack, "(", ")")
)

// Tick marks a completed step.
func Tick() string {
	return Success.Sprint("✓")
}

// Cross marks a failed step.
func Cross() string {
	return Error.Sprint("✗")
}

// Arrow introduces a hint or next step.
func Arrow() string {
	return Info.Sprint("→")
}
