package domain

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MaxNameLength is the longest accepted subscriber name, in grapheme clusters.
const MaxNameLength = 256

// forbiddenNameChars may never appear anywhere in a subscriber name.
const forbiddenNameChars = `/()"<>\{}`

// Name is a validated subscriber display name.
type Name struct {
	value string
}

// ParseName validates raw and returns it as a Name. The value is stored as
// submitted; trimming is only used to detect blank input.
func ParseName(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return Name{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if uniseg.GraphemeClusterCount(raw) > MaxNameLength {
		return Name{}, &ValidationError{Field: "name", Reason: "is too long"}
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return Name{}, &ValidationError{Field: "name", Reason: "contains forbidden characters"}
	}
	return Name{value: raw}, nil
}

// String returns the name as it was submitted.
func (n Name) String() string {
	return n.value
}
