package utils

import "strings"

// ContainsFold reports whether substr occurs in s, ignoring case. Used for
// the client-side history search over customer names and order ids.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
