package submission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

var _ ISubmissionService = (*SubmissionService)(nil)

// SubmissionService implements the ISubmissionService interface
type SubmissionService struct {
	repo   secondary.SubmissionRepository
	cache  secondary.ResultCache
	logger primary.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(repo secondary.SubmissionRepository, cache secondary.ResultCache, logger primary.Logger) *SubmissionService {
	return &SubmissionService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Enqueue stores a new pending submission for the grading engine
func (s *SubmissionService) Enqueue(ctx context.Context, code string, language domain.Language, tests []domain.TestCase, opts domain.GradingOptions) (uuid.UUID, error) {
	if !language.IsSupported() {
		return uuid.Nil, fmt.Errorf("unsupported language: %q", language)
	}

	sub := domain.NewSubmission(code, language, tests, opts)

	s.logger.Info("Enqueueing submission",
		"submissionId", sub.ID,
		"language", language,
		"tests", len(tests))

	if err := s.repo.SaveSubmission(ctx, sub); err != nil {
		s.logger.Error("Failed to save submission", "submissionId", sub.ID, "error", err)
		return uuid.Nil, fmt.Errorf("failed to save submission: %w", err)
	}

	return sub.ID, nil
}

// GetSubmission retrieves a submission and its verdict, consulting the
// result cache before the database
func (s *SubmissionService) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, *domain.SubmissionResult, error) {
	sub, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		return nil, nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, nil, nil
	}

	result, err := s.cache.GetResult(ctx, id)
	if err != nil {
		// Cache trouble must not break the read path
		s.logger.Warn("Result cache lookup failed", "submissionId", id, "error", err)
	}
	if result != nil {
		return sub, result, nil
	}

	result, err = s.repo.GetResult(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get submission result", "submissionId", id, "error", err)
		return nil, nil, fmt.Errorf("failed to get submission result: %w", err)
	}
	return sub, result, nil
}
