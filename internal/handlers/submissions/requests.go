package submissions

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/codearena-2026.net/internal/domain"
)

// TestCaseRequest carries one test case. Pointer fields distinguish a
// missing field from a legitimately empty value.
type TestCaseRequest struct {
	Input          *string `json:"input"`
	ExpectedOutput *string `json:"expectedOutput"`
	Hidden         bool    `json:"hidden,omitempty"`
}

// OptionsRequest carries the optional grading options of a submission
type OptionsRequest struct {
	CompareMode      string `json:"compareMode,omitempty"`
	IgnoreWhitespace *bool  `json:"ignoreWhitespace,omitempty"`
	IgnoreCase       *bool  `json:"ignoreCase,omitempty"`
	TimeLimitMs      int64  `json:"timeLimit,omitempty"`
}

// SubmitRequest represents a request to grade code against test cases
type SubmitRequest struct {
	Code      string            `json:"code"`
	Language  string            `json:"language"`
	TestCases []TestCaseRequest `json:"testCases"`
	Options   *OptionsRequest   `json:"options,omitempty"`
}

// SubmitResponse represents a response to an asynchronous submission
type SubmitResponse struct {
	SubmissionID uuid.UUID `json:"submissionId"`
}

// ExecuteResponse wraps a synchronous grading verdict
type ExecuteResponse struct {
	SubmissionID uuid.UUID                `json:"submissionId"`
	Result       *domain.SubmissionResult `json:"result"`
}

// SubmissionStatusResponse represents a submission lookup
type SubmissionStatusResponse struct {
	SubmissionID uuid.UUID                `json:"submissionId"`
	State        domain.SubmissionState   `json:"state"`
	Result       *domain.SubmissionResult `json:"result,omitempty"`
}

// validate checks request shape only; semantic validation (language
// support, static gates) belongs to the grader
func (r *SubmitRequest) validate() error {
	for i, tc := range r.TestCases {
		if tc.Input == nil {
			return fmt.Errorf("test case %d is missing the input field", i)
		}
		if tc.ExpectedOutput == nil {
			return fmt.Errorf("test case %d is missing the expectedOutput field", i)
		}
	}
	if r.Language == "" {
		return errors.New("language is required")
	}
	return nil
}

func (r *SubmitRequest) toDomain() (domain.Language, []domain.TestCase, domain.GradingOptions) {
	tests := make([]domain.TestCase, 0, len(r.TestCases))
	for _, tc := range r.TestCases {
		tests = append(tests, domain.TestCase{
			Input:          *tc.Input,
			ExpectedOutput: *tc.ExpectedOutput,
			Hidden:         tc.Hidden,
		})
	}

	var opts domain.GradingOptions
	if r.Options != nil {
		opts = domain.GradingOptions{
			CompareMode:      domain.CompareMode(r.Options.CompareMode),
			IgnoreWhitespace: r.Options.IgnoreWhitespace,
			IgnoreCase:       r.Options.IgnoreCase,
			TimeLimitMs:      r.Options.TimeLimitMs,
		}
	}

	return domain.Language(r.Language), tests, opts
}
