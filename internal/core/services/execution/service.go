package execution

import (
	"context"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// IExecutionService produces one canonical execution result per
// (code, language, stdin) attempt, trying real backends in a fixed
// priority order and degrading to simulation when all of them fail.
type IExecutionService interface {
	// ExecuteBestEffort never fails because a backend failed; it only
	// returns an error when the terminal simulation step rejects the
	// code as structurally invalid.
	ExecuteBestEffort(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error)
}
