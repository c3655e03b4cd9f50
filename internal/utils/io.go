package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ReadStdin reads all content from stdin.
// Returns an error if stdin is a terminal (no piped data), empty, or cannot be read.
func ReadStdin() ([]byte, error) {
	return readPiped(os.Stdin)
}

func readPiped(f *os.File) ([]byte, error) {
	if term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("no data provided on stdin (hint: pass the value as an argument or pipe it in)")
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}

// ArgOrStdin returns args[0], or stdin with one trailing newline removed when
// no argument or "-" is given.
func ArgOrStdin(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := ReadStdin()
	if err != nil {
		return "", err
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
