package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gitlab.com/codearena-2026.net/internal/config"
	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/services/execution"
	"gitlab.com/codearena-2026.net/internal/domain"
)

var _ IGradingService = (*GradingService)(nil)

// GradingService implements the IGradingService interface
type GradingService struct {
	executor execution.IExecutionService
	cfg      *config.GradingConfig
	logger   primary.Logger
}

// NewGradingService creates a new grading service
func NewGradingService(executor execution.IExecutionService, cfg *config.GradingConfig, logger primary.Logger) *GradingService {
	return &GradingService{
		executor: executor,
		cfg:      cfg,
		logger:   logger,
	}
}

// Grade produces the submission verdict. Validation failures and
// anything unanticipated escaping the grading loop are converted into
// a RuntimeError result with score 0.
func (s *GradingService) Grade(ctx context.Context, sub *domain.Submission) (result *domain.SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Grading panicked",
				"submissionId", sub.ID,
				"panic", r)
			result = runtimeErrorResult(fmt.Sprintf("internal error: %v", r), len(sub.Tests))
		}
	}()

	graded, err := s.evaluate(ctx, sub)
	if err != nil {
		s.logger.Warn("Submission rejected",
			"submissionId", sub.ID,
			"error", err)
		return runtimeErrorResult(err.Error(), len(sub.Tests))
	}
	return graded
}

// evaluate validates the submission, runs every test case through the
// execution chain and aggregates the per-test records. Only validation
// errors surface here; execution failures are absorbed into the
// per-test records.
func (s *GradingService) evaluate(ctx context.Context, sub *domain.Submission) (*domain.SubmissionResult, error) {
	if err := s.validate(sub); err != nil {
		return nil, err
	}

	compare := sub.Options.Comparison()
	timeoutMs := sub.Options.TimeLimitMs
	if timeoutMs <= 0 {
		timeoutMs = s.cfg.DefaultTimeLimitMs
	}

	results := make([]domain.TestCaseResult, 0, len(sub.Tests))
	passed := 0
	simulated := false
	var maxRuntime int64
	memory := "N/A"

	// Tests run sequentially; an early failure never cancels later
	// tests and the loop never aborts early.
	for _, test := range sub.Tests {
		record := s.runTestCase(ctx, sub, test, timeoutMs, compare)
		if record.Passed {
			passed++
		}
		if record.ExecutionDetails.Simulated {
			simulated = true
		}
		if record.RuntimeMs >= maxRuntime {
			maxRuntime = record.RuntimeMs
			if record.Memory != "" {
				memory = record.Memory
			}
		}
		results = append(results, record)
	}

	total := len(sub.Tests)
	summary := fmt.Sprintf("%d/%d tests passed", passed, total)
	if simulated {
		summary += " (degraded mode: results are simulated)"
	}

	return &domain.SubmissionResult{
		Status:           deriveStatus(passed, total, results),
		TestsPassed:      passed,
		TotalTests:       total,
		Results:          results,
		RuntimeMs:        maxRuntime,
		Memory:           memory,
		Score:            100 * passed / total,
		Simulated:        simulated,
		ExecutionSummary: summary,
	}, nil
}

// validate rejects malformed submissions before any backend is called
func (s *GradingService) validate(sub *domain.Submission) error {
	if !sub.Language.IsSupported() {
		return fmt.Errorf("unsupported language: %q", sub.Language)
	}
	if strings.TrimSpace(sub.Code) == "" {
		return errors.New("validation error: source code is empty")
	}

	// Coarse static checks ahead of any execution attempt
	switch sub.Language {
	case domain.LanguageJava:
		if !strings.Contains(sub.Code, "class") {
			return errors.New("validation error: java code must declare a class")
		}
	case domain.LanguageCpp:
		if !strings.Contains(sub.Code, "main") {
			return errors.New("validation error: cpp code must define a main function")
		}
	}

	if len(sub.Tests) == 0 {
		return errors.New("validation error: at least one test case is required")
	}
	if s.cfg.MaxTestCases > 0 && len(sub.Tests) > s.cfg.MaxTestCases {
		return fmt.Errorf("validation error: at most %d test cases are allowed", s.cfg.MaxTestCases)
	}
	return nil
}

// runTestCase executes one test case and grades its output. Execution
// errors become failed records, never errors.
func (s *GradingService) runTestCase(
	ctx context.Context,
	sub *domain.Submission,
	test domain.TestCase,
	timeoutMs int64,
	compare domain.ComparisonOptions,
) domain.TestCaseResult {
	record := domain.TestCaseResult{
		Input:          test.Input,
		ExpectedOutput: test.ExpectedOutput,
		Memory:         "N/A",
	}

	execResult, err := s.executor.ExecuteBestEffort(ctx, &domain.ExecutionRequest{
		Code:      sub.Code,
		Language:  sub.Language,
		Stdin:     test.Input,
		TimeoutMs: timeoutMs,
	})
	if err != nil {
		msg := err.Error()
		record.Error = &msg
		return record
	}

	record.RuntimeMs = execResult.RuntimeMs
	record.Memory = execResult.Memory
	record.ExecutionDetails = domain.ExecutionDetails{
		ExitCode:  execResult.ExitCode,
		Stderr:    execResult.Stderr,
		Stdout:    execResult.Stdout,
		Simulated: execResult.Simulated,
	}

	if execResult.Stderr != nil {
		// Execution-level failure, distinct from a wrong answer
		record.Error = execResult.Stderr
		return record
	}

	record.ActualOutput = execResult.Stdout
	record.Passed = Normalize(execResult.Stdout, compare) == Normalize(test.ExpectedOutput, compare)
	return record
}

func runtimeErrorResult(msg string, totalTests int) *domain.SubmissionResult {
	return &domain.SubmissionResult{
		Status:           domain.StatusRuntimeError,
		TestsPassed:      0,
		TotalTests:       totalTests,
		Results:          []domain.TestCaseResult{},
		Memory:           "N/A",
		Score:            0,
		ExecutionSummary: "submission was not graded: " + msg,
		ErrorMessage:     &msg,
	}
}
