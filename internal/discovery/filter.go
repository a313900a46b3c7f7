package discovery

import (
	"path/filepath"
	"strings"

	"vrt/internal/domain"
)

// Filter filters test cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the cases whose name matches pattern, preserving order.
// Supports patterns like "Hello*" or "*Pass*"; a pattern without wildcards matches as a substring.
func (f *Filter) FilterByName(cases []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []domain.TestCase
	for _, tc := range cases {
		if MatchName(tc.Name, pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// MatchName reports whether name matches the wildcard or substring pattern
func MatchName(name, pattern string) bool {
	// Try to match using filepath.Match (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible match where every non-empty part must appear in order
	if strings.Contains(pattern, "*") {
		rest := name
		hasPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasPart = true
			i := strings.Index(rest, part)
			if i < 0 {
				return false
			}
			rest = rest[i+len(part):]
		}
		return hasPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
