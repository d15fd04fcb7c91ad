package gradeworker

import (
	"context"
	"sync"
	"time"

	"gitlab.com/codearena-2026.net/internal/config"
	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/core/services/grading"
	"gitlab.com/codearena-2026.net/internal/domain"
)

// Engine polls for pending submissions and grades them with a small
// worker pool. Submissions are independent, so grading them
// concurrently is safe; test cases inside one submission still run
// sequentially.
type Engine struct {
	cfg    *config.GradeWorkerConfig
	repo   secondary.SubmissionRepository
	cache  secondary.ResultCache
	grader grading.IGradingService
	logger primary.Logger
}

// NewEngine creates a new grading engine
func NewEngine(
	cfg *config.GradeWorkerConfig,
	repo secondary.SubmissionRepository,
	cache secondary.ResultCache,
	grader grading.IGradingService,
	logger primary.Logger,
) *Engine {
	return &Engine{
		cfg:    cfg,
		repo:   repo,
		cache:  cache,
		grader: grader,
		logger: logger,
	}
}

// Start runs the polling loop until the context is cancelled
func (e *Engine) Start(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.PollInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.gradePending(ctx)
			}
		}
	}()
}

func (e *Engine) gradePending(ctx context.Context) {
	pending, err := e.repo.GetPendingSubmissions(ctx, e.cfg.BatchSize)
	if err != nil {
		e.logger.Error("Failed to get pending submissions", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	subCh := make(chan *domain.Submission, len(pending))
	go func() {
		defer close(subCh)
		for _, sub := range pending {
			subCh <- sub
		}
	}()

	var wg sync.WaitGroup
	wg.Add(e.cfg.WorkerCount)
	for i := 0; i < e.cfg.WorkerCount; i++ {
		go func() {
			defer wg.Done()
			for sub := range subCh {
				e.gradeOne(ctx, sub)
			}
		}()
	}
	wg.Wait()

	e.logger.Info("Graded pending submissions", "count", len(pending))
}

func (e *Engine) gradeOne(ctx context.Context, sub *domain.Submission) {
	if err := e.repo.MarkRunning(ctx, sub.ID); err != nil {
		// Another worker got there first
		e.logger.Debug("Skipping submission", "submissionId", sub.ID, "error", err)
		return
	}

	e.logger.Info("Grading submission", "submissionId", sub.ID, "language", sub.Language)

	result := e.grader.Grade(ctx, sub)

	if err := e.repo.SaveResult(ctx, sub.ID, result); err != nil {
		e.logger.Error("Failed to save result", "submissionId", sub.ID, "error", err)
		return
	}
	if err := e.cache.SaveResult(ctx, sub.ID, result); err != nil {
		e.logger.Warn("Failed to cache result", "submissionId", sub.ID, "error", err)
	}

	e.logger.Info("Submission graded",
		"submissionId", sub.ID,
		"status", result.Status,
		"score", result.Score)
}
