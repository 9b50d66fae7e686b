package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the Unicode case-folded form of s. A fresh Caser is used per
// call because cases.Caser is stateful.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// ContainsAnyFold reports whether any of needles is within s, ignoring case.
// Empty needles never match.
func ContainsAnyFold(s string, needles ...string) bool {
	folded := Fold(s)
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		if strings.Contains(folded, Fold(needle)) {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
