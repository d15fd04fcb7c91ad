package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// SubmissionRepository persists submissions and their graded results
type SubmissionRepository interface {
	// SaveSubmission stores a new pending submission
	SaveSubmission(ctx context.Context, sub *domain.Submission) error

	// GetSubmission retrieves a submission by ID; nil when not found
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// GetPendingSubmissions retrieves up to limit submissions awaiting grading
	GetPendingSubmissions(ctx context.Context, limit int) ([]*domain.Submission, error)

	// MarkRunning transitions a submission from pending to running
	MarkRunning(ctx context.Context, id uuid.UUID) error

	// SaveResult stores the terminal verdict and marks the submission completed
	SaveResult(ctx context.Context, id uuid.UUID, result *domain.SubmissionResult) error

	// GetResult retrieves a stored verdict by submission ID; nil when not graded yet
	GetResult(ctx context.Context, id uuid.UUID) (*domain.SubmissionResult, error)
}
