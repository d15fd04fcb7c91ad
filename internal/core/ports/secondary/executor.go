package secondary

import (
	"context"
	"errors"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// ErrUnsupportedLanguage is returned by an executor that cannot run the
// requested language; the coordinator treats it like any other failure
// and falls through to the next backend.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Executor runs one execution request against a single backend and
// translates the outcome into the canonical result shape. An error
// return means the backend failed, not that the user's code failed.
type Executor interface {
	// Name identifies the backend in logs
	Name() string

	// Execute runs the request; the context carries the per-attempt deadline
	Execute(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error)
}
