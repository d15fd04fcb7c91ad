package submission

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// ISubmissionService defines the interface for managing queued submissions
type ISubmissionService interface {
	// Enqueue stores a submission for asynchronous grading
	Enqueue(ctx context.Context, code string, language domain.Language, tests []domain.TestCase, opts domain.GradingOptions) (uuid.UUID, error)

	// GetSubmission retrieves a submission with its verdict if graded;
	// both are nil when the ID is unknown
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, *domain.SubmissionResult, error)
}
