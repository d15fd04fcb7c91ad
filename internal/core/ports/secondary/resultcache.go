package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// ResultCache is a short-lived store of recently graded results so the
// read path does not have to hit the database for hot submissions.
type ResultCache interface {
	// SaveResult caches a verdict under the submission ID
	SaveResult(ctx context.Context, id uuid.UUID, result *domain.SubmissionResult) error

	// GetResult retrieves a cached verdict; nil without error on a miss
	GetResult(ctx context.Context, id uuid.UUID) (*domain.SubmissionResult, error)
}
