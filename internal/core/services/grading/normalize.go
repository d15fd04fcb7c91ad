package grading

import (
	"strings"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// Normalize applies the deterministic output transformation used on
// both actual and expected output before comparison. Line-ending and
// trailing-newline normalization always happens; whitespace collapsing
// and case folding are option-driven. The function is idempotent.
func Normalize(s string, opts domain.ComparisonOptions) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimRight(s, "\n")

	if opts.IgnoreWhitespace {
		s = strings.Join(strings.Fields(s), " ")
	}
	if opts.IgnoreCase {
		s = strings.ToLower(s)
	}
	return s
}
