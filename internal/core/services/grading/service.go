package grading

import (
	"context"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// IGradingService turns a submission and its test cases into one
// terminal verdict. Grade never fails: malformed submissions and
// internal errors alike come back as a RuntimeError result, so callers
// never need error handling around "did the user's code run".
type IGradingService interface {
	Grade(ctx context.Context, sub *domain.Submission) *domain.SubmissionResult
}
