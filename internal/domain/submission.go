package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionState tracks a queued submission through the grading pipeline
type SubmissionState string

const (
	SubmissionStatePending   SubmissionState = "PENDING"
	SubmissionStateRunning   SubmissionState = "RUNNING"
	SubmissionStateCompleted SubmissionState = "COMPLETED"
	SubmissionStateFailed    SubmissionState = "FAILED"
)

// Submission represents user-submitted code together with the test cases
// and grading options it is judged against
type Submission struct {
	ID          uuid.UUID
	Code        string
	Language    Language
	Tests       []TestCase
	Options     GradingOptions
	State       SubmissionState
	SubmittedAt time.Time
}

// NewSubmission creates a new pending submission
func NewSubmission(code string, language Language, tests []TestCase, opts GradingOptions) *Submission {
	return &Submission{
		ID:          uuid.New(),
		Code:        code,
		Language:    language,
		Tests:       tests,
		Options:     opts,
		State:       SubmissionStatePending,
		SubmittedAt: time.Now(),
	}
}
