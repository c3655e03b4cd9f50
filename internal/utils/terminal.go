package utils

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// ttyPath is the controlling terminal device.
func ttyPath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}

// KeyringPrompt reads the keyring file backend password without echo. It reads
// from the controlling terminal rather than stdin, because stdin often carries
// an envelope or bundle.
func KeyringPrompt(prompt string) (string, error) {
	tty, err := os.Open(ttyPath())
	if err != nil {
		return "", fmt.Errorf("cannot open %s to unlock the keyring: %w", ttyPath(), err)
	}
	defer tty.Close()

	password, err := readHidden(tty, prompt+": ")
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// readHidden prompts on stderr and reads one line from f without echo.
func readHidden(f *os.File, prompt string) ([]byte, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", f.Name())
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return secret, nil
}
