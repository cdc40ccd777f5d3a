package utils

import "strings"

// NormalizeAmenities trims entries, drops blanks and repeats, and keeps the
// first-seen order. It never returns nil.
func NormalizeAmenities(amenities []string) []string {
	out := make([]string, 0, len(amenities))
	seen := make(map[string]bool, len(amenities))
	for _, a := range amenities {
		a = strings.TrimSpace(a)
		if a == "" || seen[strings.ToLower(a)] {
			continue
		}
		seen[strings.ToLower(a)] = true
		out = append(out, a)
	}
	return out
}
