package util

import (
	"strings"
)

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	if list != nil {
		for i := range list {
			if list[i] == item {
				return true
			}
		}
	}
	return false
}

// IsEmpty returns true if s is empty or contains only whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ContainsMarker returns true if message contains marker, ignoring case.
// The validation service composes its messages from mixed-case fragments,
// so marker checks must not be case-sensitive.
func ContainsMarker(message, marker string) bool {
	return strings.Contains(strings.ToLower(message), strings.ToLower(marker))
}
