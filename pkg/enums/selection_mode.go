package enums

import "fmt"

// SelectionMode controls how many choices an option group accepts.
type SelectionMode string

const (
	SelectionModeSingle   SelectionMode = "single"
	SelectionModeMultiple SelectionMode = "multiple"
)

var validSelectionModes = []SelectionMode{
	SelectionModeSingle,
	SelectionModeMultiple,
}

// String implements fmt.Stringer.
func (s SelectionMode) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SelectionMode.
func (s SelectionMode) IsValid() bool {
	for _, candidate := range validSelectionModes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSelectionMode converts raw input into a SelectionMode.
func ParseSelectionMode(value string) (SelectionMode, error) {
	for _, candidate := range validSelectionModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid selection mode %q", value)
}
