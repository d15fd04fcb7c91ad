package domain

// Status is the overall verdict of a graded submission
type Status string

const (
	StatusAccepted          Status = "Accepted"
	StatusWrongAnswer       Status = "WrongAnswer"
	StatusTimeLimitExceeded Status = "TimeLimitExceeded"
	StatusCompilationError  Status = "CompilationError"
	StatusRuntimeError      Status = "RuntimeError"
)

// ExecutionDetails carries the raw execution output for one test case
type ExecutionDetails struct {
	ExitCode  *int    `json:"exitCode"`
	Stderr    *string `json:"stderr"`
	Stdout    string  `json:"stdout"`
	Simulated bool    `json:"simulated"`
}

// TestCaseResult is the graded outcome of a single test case. Created
// during grading, never mutated afterwards.
type TestCaseResult struct {
	Input            string           `json:"input"`
	ExpectedOutput   string           `json:"expectedOutput"`
	ActualOutput     string           `json:"actualOutput"`
	Passed           bool             `json:"passed"`
	RuntimeMs        int64            `json:"runtimeMs"`
	Memory           string           `json:"memory"`
	Error            *string          `json:"error"`
	ExecutionDetails ExecutionDetails `json:"executionDetails"`
}

// SubmissionResult is the terminal verdict for one submission. The
// orchestrator never retries it; retry policy belongs to the caller.
type SubmissionResult struct {
	Status           Status           `json:"status"`
	TestsPassed      int              `json:"testsPassed"`
	TotalTests       int              `json:"totalTests"`
	Results          []TestCaseResult `json:"results"`
	RuntimeMs        int64            `json:"runtimeMs"`
	Memory           string           `json:"memory"`
	Score            int              `json:"score"`
	Simulated        bool             `json:"simulated"`
	ExecutionSummary string           `json:"executionSummary"`
	ErrorMessage     *string          `json:"errorMessage,omitempty"`
}

// CompareMode selects how outputs are compared; anything other than
// "strict" enables the lenient defaults.
type CompareMode string

const (
	CompareModeStrict  CompareMode = "strict"
	CompareModeLenient CompareMode = "lenient"
)

// ComparisonOptions are fixed for the whole submission and applied
// identically to every test case.
type ComparisonOptions struct {
	IgnoreWhitespace bool
	IgnoreCase       bool
}

// GradingOptions is the caller-facing option set of a grade call.
// Nil pointer fields mean "use the mode default".
type GradingOptions struct {
	CompareMode      CompareMode
	IgnoreWhitespace *bool
	IgnoreCase       *bool
	TimeLimitMs      int64
}

// Comparison resolves the effective comparison options: strict mode
// defaults both flags to false, any other mode defaults both to true,
// and explicit overrides win either way.
func (o GradingOptions) Comparison() ComparisonOptions {
	lenient := o.CompareMode != "" && o.CompareMode != CompareModeStrict
	opts := ComparisonOptions{
		IgnoreWhitespace: lenient,
		IgnoreCase:       lenient,
	}
	if o.IgnoreWhitespace != nil {
		opts.IgnoreWhitespace = *o.IgnoreWhitespace
	}
	if o.IgnoreCase != nil {
		opts.IgnoreCase = *o.IgnoreCase
	}
	return opts
}
