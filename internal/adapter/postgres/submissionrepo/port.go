// package submissionrepo contains the PostgreSQL implementation of the
// submission repository
package submissionrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository implements the SubmissionRepository interface
// with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

type submissionRow struct {
	ID          uuid.UUID       `db:"id"`
	Code        string          `db:"code"`
	Language    string          `db:"language"`
	Tests       json.RawMessage `db:"tests"`
	Options     json.RawMessage `db:"options"`
	State       string          `db:"state"`
	SubmittedAt time.Time       `db:"submitted_at"`
}

type optionsPayload struct {
	CompareMode      string `json:"compareMode,omitempty"`
	IgnoreWhitespace *bool  `json:"ignoreWhitespace,omitempty"`
	IgnoreCase       *bool  `json:"ignoreCase,omitempty"`
	TimeLimitMs      int64  `json:"timeLimitMs,omitempty"`
}

type testPayload struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	Hidden         bool   `json:"hidden,omitempty"`
}

// SaveSubmission stores a new pending submission
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	testsJSON, err := json.Marshal(toTestPayloads(sub.Tests))
	if err != nil {
		r.logger.Error("Failed to marshal submission tests", "error", err)
		return fmt.Errorf("failed to marshal submission tests: %w", err)
	}
	optsJSON, err := json.Marshal(optionsPayload{
		CompareMode:      string(sub.Options.CompareMode),
		IgnoreWhitespace: sub.Options.IgnoreWhitespace,
		IgnoreCase:       sub.Options.IgnoreCase,
		TimeLimitMs:      sub.Options.TimeLimitMs,
	})
	if err != nil {
		r.logger.Error("Failed to marshal submission options", "error", err)
		return fmt.Errorf("failed to marshal submission options: %w", err)
	}

	query := `
		INSERT INTO submissions (id, code, language, tests, options, state, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state
	`

	_, err = r.db.ExecContext(ctx, query,
		sub.ID,
		sub.Code,
		string(sub.Language),
		testsJSON,
		optsJSON,
		string(sub.State),
		sub.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save submission", "submissionId", sub.ID, "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}

	return nil
}

// GetSubmission retrieves a submission by ID; nil when not found
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var row submissionRow
	query := `
		SELECT id, code, language, tests, options, state, submitted_at
		FROM submissions WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return rowToSubmission(&row)
}

// GetPendingSubmissions retrieves up to limit pending submissions,
// oldest first
func (r *SubmissionRepository) GetPendingSubmissions(ctx context.Context, limit int) ([]*domain.Submission, error) {
	var rows []submissionRow
	query := `
		SELECT id, code, language, tests, options, state, submitted_at
		FROM submissions
		WHERE state = $1
		ORDER BY submitted_at ASC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &rows, query, string(domain.SubmissionStatePending), limit); err != nil {
		return nil, fmt.Errorf("failed to get pending submissions: %w", err)
	}

	subs := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		sub, err := rowToSubmission(&rows[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// MarkRunning transitions a pending submission to running
func (r *SubmissionRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE submissions SET state = $1 WHERE id = $2 AND state = $3`
	res, err := r.db.ExecContext(ctx, query,
		string(domain.SubmissionStateRunning), id, string(domain.SubmissionStatePending))
	if err != nil {
		return fmt.Errorf("failed to mark submission running: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("submission %s is not pending", id)
	}
	return nil
}

// SaveResult stores the terminal verdict and marks the submission completed
func (r *SubmissionRepository) SaveResult(ctx context.Context, id uuid.UUID, result *domain.SubmissionResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to marshal submission result", "submissionId", id, "error", err)
		return fmt.Errorf("failed to marshal submission result: %w", err)
	}

	state := domain.SubmissionStateCompleted
	if result.Status == domain.StatusRuntimeError {
		state = domain.SubmissionStateFailed
	}

	query := `
		INSERT INTO submission_results (submission_id, status, score, tests_passed, total_tests, result, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (submission_id) DO UPDATE SET
			status = EXCLUDED.status,
			score = EXCLUDED.score,
			tests_passed = EXCLUDED.tests_passed,
			total_tests = EXCLUDED.total_tests,
			result = EXCLUDED.result,
			completed_at = EXCLUDED.completed_at
	`
	_, err = r.db.ExecContext(ctx, query,
		id,
		string(result.Status),
		result.Score,
		result.TestsPassed,
		result.TotalTests,
		resultJSON,
		time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to save submission result", "submissionId", id, "error", err)
		return fmt.Errorf("failed to save submission result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `UPDATE submissions SET state = $1 WHERE id = $2`, string(state), id)
	if err != nil {
		return fmt.Errorf("failed to update submission state: %w", err)
	}
	return nil
}

// GetResult retrieves a stored verdict; nil when the submission has not
// been graded yet
func (r *SubmissionRepository) GetResult(ctx context.Context, id uuid.UUID) (*domain.SubmissionResult, error) {
	var resultJSON []byte
	query := `SELECT result FROM submission_results WHERE submission_id = $1`
	if err := r.db.GetContext(ctx, &resultJSON, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission result: %w", err)
	}

	var result domain.SubmissionResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission result: %w", err)
	}
	return &result, nil
}

func toTestPayloads(tests []domain.TestCase) []testPayload {
	payloads := make([]testPayload, 0, len(tests))
	for _, t := range tests {
		payloads = append(payloads, testPayload{
			Input:          t.Input,
			ExpectedOutput: t.ExpectedOutput,
			Hidden:         t.Hidden,
		})
	}
	return payloads
}

func rowToSubmission(row *submissionRow) (*domain.Submission, error) {
	var tests []testPayload
	if err := json.Unmarshal(row.Tests, &tests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission tests: %w", err)
	}
	var opts optionsPayload
	if err := json.Unmarshal(row.Options, &opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission options: %w", err)
	}

	domainTests := make([]domain.TestCase, 0, len(tests))
	for _, t := range tests {
		domainTests = append(domainTests, domain.TestCase{
			Input:          t.Input,
			ExpectedOutput: t.ExpectedOutput,
			Hidden:         t.Hidden,
		})
	}

	return &domain.Submission{
		ID:       row.ID,
		Code:     row.Code,
		Language: domain.Language(row.Language),
		Tests:    domainTests,
		Options: domain.GradingOptions{
			CompareMode:      domain.CompareMode(opts.CompareMode),
			IgnoreWhitespace: opts.IgnoreWhitespace,
			IgnoreCase:       opts.IgnoreCase,
			TimeLimitMs:      opts.TimeLimitMs,
		},
		State:       domain.SubmissionState(row.State),
		SubmittedAt: row.SubmittedAt,
	}, nil
}
