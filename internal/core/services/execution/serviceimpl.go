package execution

import (
	"context"
	"time"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

var _ IExecutionService = (*ExecutionService)(nil)

// ExecutionService coordinates the execution chain: an ordered list of
// backends tried in fixed priority order, with the simulator as the
// terminal, unguarded step. No backend health is remembered across
// calls.
type ExecutionService struct {
	chain     []secondary.Executor
	simulator *Simulator
	logger    primary.Logger
}

// NewExecutionService creates a coordinator over the given backend
// chain. Order matters: backends are tried front to back.
func NewExecutionService(chain []secondary.Executor, simulator *Simulator, logger primary.Logger) *ExecutionService {
	return &ExecutionService{
		chain:     chain,
		simulator: simulator,
		logger:    logger,
	}
}

// ExecuteBestEffort tries each backend with a per-attempt deadline
// derived from the request timeout. Any backend error — a timeout
// included — just triggers fallthrough to the next backend.
func (s *ExecutionService) ExecuteBestEffort(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	for _, executor := range s.chain {
		attemptCtx, cancel := context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		result, err := executor.Execute(attemptCtx, req)
		cancel()

		if err != nil {
			s.logger.Warn("Execution backend failed, falling through",
				"backend", executor.Name(),
				"language", req.Language,
				"error", err)
			continue
		}

		return result, nil
	}

	s.logger.Warn("All execution backends failed, using simulation",
		"language", req.Language)

	return s.simulator.Simulate(req)
}
