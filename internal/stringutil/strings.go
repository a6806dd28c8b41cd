// Package stringutil provides common string manipulation utilities.
package stringutil

import "strings"

// IsNumeric checks if a string contains only digits.
// Returns false for empty strings.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CutAny slices s around the first occurrence of any separator in seps,
// trying them in order. It returns the text before and after the winning
// separator and whether one was found.
func CutAny(s string, seps ...string) (before, after string, found bool) {
	for _, sep := range seps {
		if b, a, ok := strings.Cut(s, sep); ok {
			return b, a, true
		}
	}
	return s, "", false
}

// FirstIndexAny returns the byte index of the earliest occurrence of any
// marker in s together with that marker, or -1 and "" when none occur.
func FirstIndexAny(s string, markers ...string) (int, string) {
	best := -1
	var bestMarker string
	for _, m := range markers {
		if m == "" {
			continue
		}
		if i := strings.Index(s, m); i >= 0 && (best < 0 || i < best) {
			best = i
			bestMarker = m
		}
	}
	return best, bestMarker
}
