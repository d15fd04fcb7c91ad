package grading

import (
	"strings"

	"gitlab.com/codearena-2026.net/internal/domain"
)

var timeoutPatterns = []string{"time limit", "timeout", "timed out", "deadline exceeded"}

var compilePatterns = []string{"compilation", "compile", "syntax"}

// deriveStatus aggregates per-test records into one verdict. Priority
// order, first match wins. Note the quirk: with zero passing tests the
// verdict is always WrongAnswer, even when every failure was a
// compilation error — callers depend on this ordering.
func deriveStatus(passed, total int, results []domain.TestCaseResult) domain.Status {
	if passed == total {
		return domain.StatusAccepted
	}
	if passed == 0 {
		return domain.StatusWrongAnswer
	}
	if anyFailureMatches(results, timeoutPatterns) {
		return domain.StatusTimeLimitExceeded
	}
	if anyFailureMatches(results, compilePatterns) {
		return domain.StatusCompilationError
	}
	return domain.StatusWrongAnswer
}

func anyFailureMatches(results []domain.TestCaseResult, patterns []string) bool {
	for _, r := range results {
		if r.Passed || r.Error == nil {
			continue
		}
		msg := strings.ToLower(*r.Error)
		for _, p := range patterns {
			if strings.Contains(msg, p) {
				return true
			}
		}
	}
	return false
}
