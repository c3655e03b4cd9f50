package utils

import (
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"LowercaseSimple", "iPad", "ipad"},
		{"SpacesToHyphens", "Theatre iPad", "theatre-ipad"},
		{"RemoveSpecialChars", "Ward@3#East!", "ward3east"},
		{"RemoveConsecutiveHyphens", "ward--3", "ward-3"},
		{"TrimHyphens", "-ward-3-", "ward-3"},
		{"EmptyToDefault", "", "device"},
		{"OnlySpecialChars", "@#$%", "device"},
		{"PreserveUnderscores", "ward_3", "ward_3"},
		{"TrimWhitespace", "  clinic  ", "clinic"},
		{"ComplexName", "  Dr Smith's MacBook Pro! #1  ", "dr-smiths-macbook-pro-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SanitizeLabel(tc.input)
			if result != tc.expected {
				t.Errorf("SanitizeLabel(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestDefaultDeviceLabel(t *testing.T) {
	label := DefaultDeviceLabel()
	if label == "" {
		t.Fatal("DefaultDeviceLabel returned empty string")
	}
	if SanitizeLabel(label) != label {
		t.Errorf("DefaultDeviceLabel should already be sanitized, got %q", label)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0123456789abcdef0123456789abcdef"); got != "01234567…cdef" {
		t.Errorf("Unexpected short id %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("Short ids should be unchanged, got %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("  case:v1:aa:bb \nsecond"); got != "case:v1:aa:bb" {
		t.Errorf("Unexpected first line %q", got)
	}
}

func TestArgOrStdin_Argument(t *testing.T) {
	got, err := ArgOrStdin([]string{"BMI: 27.4"})
	if err != nil || got != "BMI: 27.4" {
		t.Errorf("Expected argument, got %q, %v", got, err)
	}
}
