package utils

import (
	"os"
	"os/user"
	"regexp"
	"strings"
)

var (
	labelInvalidChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	labelHyphenRuns   = regexp.MustCompile(`-+`)
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// SanitizeLabel normalizes a device label: lowercase, spaces to hyphens,
// only alphanumerics, hyphens and underscores.
func SanitizeLabel(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = labelInvalidChars.ReplaceAllString(name, "")
	name = labelHyphenRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if name == "" {
		name = "device"
	}
	return name
}

// DefaultDeviceLabel derives a label from the hostname, falling back to the
// username and then to "device".
func DefaultDeviceLabel() string {
	candidates := []func() (string, error){os.Hostname, GetUsername}
	for _, get := range candidates {
		if name, err := get(); err == nil && name != "" {
			return SanitizeLabel(name)
		}
	}
	return "device"
}
