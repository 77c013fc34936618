// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  Public Law 118-5 ", "Public Law 118-5", ""})
//	// Returns: []string{"Public Law 118-5"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// CollapseSpace trims s and replaces every run of whitespace with one space.
//
// Example:
//
//	CollapseSpace("  1600  Pennsylvania\tAve ")
//	// Returns: "1600 Pennsylvania Ave"
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
