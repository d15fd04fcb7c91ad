package grading_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/codearena-2026.net/internal/config"
	"gitlab.com/codearena-2026.net/internal/core/services/grading"
	"gitlab.com/codearena-2026.net/internal/domain"
)

// fakeExecutor scripts ExecuteBestEffort per stdin and counts calls
type fakeExecutor struct {
	calls   int
	outputs map[string]string // stdin -> stdout
	stderr  *string
	err     error
}

func (f *fakeExecutor) ExecuteBestEffort(_ context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.stderr != nil {
		return &domain.ExecutionResult{Stderr: f.stderr, Memory: "N/A"}, nil
	}
	return &domain.ExecutionResult{
		Stdout:    f.outputs[req.Stdin],
		RuntimeMs: 12,
		Memory:    "16384 KB",
	}, nil
}

func testConfig() *config.GradingConfig {
	return &config.GradingConfig{DefaultTimeLimitMs: 5000, MaxTestCases: 50}
}

func newService(exec *fakeExecutor) *grading.GradingService {
	return grading.NewGradingService(exec, testConfig(), noopLogger{})
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

func submission(code string, lang domain.Language, tests []domain.TestCase) *domain.Submission {
	return domain.NewSubmission(code, lang, tests, domain.GradingOptions{})
}

func TestGradeAllTestsPass(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{outputs: map[string]string{"1": "2\n", "2": "4\n"}}
	svc := newService(exec)

	result := svc.Grade(context.Background(), submission("print(int(input())*2)", domain.LanguagePython, []domain.TestCase{
		{Input: "1", ExpectedOutput: "2"},
		{Input: "2", ExpectedOutput: "4"},
	}))

	require.Equal(t, domain.StatusAccepted, result.Status)
	require.Equal(t, 2, result.TestsPassed)
	require.Equal(t, 2, result.TotalTests)
	require.Equal(t, 100, result.Score)
	require.Len(t, result.Results, 2)
	require.Equal(t, "2/2 tests passed", result.ExecutionSummary)
	require.Equal(t, 2, exec.calls)
}

func TestGradeScoreIsIntegerPercentage(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{outputs: map[string]string{"a": "ok", "b": "ok", "c": "wrong"}}
	svc := newService(exec)

	result := svc.Grade(context.Background(), submission("code", domain.LanguagePython, []domain.TestCase{
		{Input: "a", ExpectedOutput: "ok"},
		{Input: "b", ExpectedOutput: "ok"},
		{Input: "c", ExpectedOutput: "ok"},
	}))

	require.Equal(t, 2, result.TestsPassed)
	require.Equal(t, 66, result.Score) // 100*2/3, integer division
}

func TestGradeValidationRejectsBeforeExecution(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sub  *domain.Submission
	}{
		{
			name: "empty code",
			sub:  submission("   \n", domain.LanguagePython, []domain.TestCase{{Input: "1", ExpectedOutput: "1"}}),
		},
		{
			name: "unsupported language",
			sub:  submission("code", domain.Language("ruby"), []domain.TestCase{{Input: "1", ExpectedOutput: "1"}}),
		},
		{
			name: "java without class",
			sub:  submission("public static void main() {}", domain.LanguageJava, []domain.TestCase{{Input: "1", ExpectedOutput: "1"}}),
		},
		{
			name: "cpp without main",
			sub:  submission("#include <iostream>", domain.LanguageCpp, []domain.TestCase{{Input: "1", ExpectedOutput: "1"}}),
		},
		{
			name: "no test cases",
			sub:  submission("print(1)", domain.LanguagePython, nil),
		},
		{
			name: "empty code and no test cases",
			sub:  submission("", domain.LanguagePython, nil),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			exec := &fakeExecutor{}
			svc := newService(exec)

			result := svc.Grade(context.Background(), tt.sub)

			require.Equal(t, domain.StatusRuntimeError, result.Status)
			require.Equal(t, 0, result.Score)
			require.NotNil(t, result.ErrorMessage)
			require.Equal(t, 0, exec.calls, "validation failure must not reach the execution chain")
		})
	}
}

func TestGradeMaxTestCases(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{}
	svc := grading.NewGradingService(exec, &config.GradingConfig{DefaultTimeLimitMs: 5000, MaxTestCases: 2}, noopLogger{})

	result := svc.Grade(context.Background(), submission("print(1)", domain.LanguagePython, []domain.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
		{Input: "3", ExpectedOutput: "3"},
	}))

	require.Equal(t, domain.StatusRuntimeError, result.Status)
	require.Equal(t, 0, exec.calls)
}

func TestGradeExecutionErrorsBecomeFailedRecords(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{err: errors.New("missing entry point for language \"cpp\"")}
	svc := newService(exec)

	result := svc.Grade(context.Background(), submission("int main() {}", domain.LanguageCpp, []domain.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
		{Input: "3", ExpectedOutput: "3"},
	}))

	// every test gets a record even when the chain fails each time
	require.Len(t, result.Results, 3)
	require.Equal(t, 3, exec.calls, "one failed test must not stop the remaining tests")
	require.Equal(t, 0, result.TestsPassed)
	for _, r := range result.Results {
		require.False(t, r.Passed)
		require.NotNil(t, r.Error)
	}
}

func TestGradeStderrCountsAsExecutionFailure(t *testing.T) {
	t.Parallel()
	stderr := "runtime error: division by zero"
	exec := &fakeExecutor{stderr: &stderr}
	svc := newService(exec)

	result := svc.Grade(context.Background(), submission("print(1/0)", domain.LanguagePython, []domain.TestCase{
		{Input: "", ExpectedOutput: ""},
	}))

	require.Equal(t, 0, result.TestsPassed)
	require.NotNil(t, result.Results[0].Error)
	require.Equal(t, stderr, *result.Results[0].Error)
}

func TestGradeStatusPriority(t *testing.T) {
	t.Parallel()
	timeoutMsg := "time limit exceeded"
	compileMsg := "compilation error: expected an indented block after line 2"

	tests := []struct {
		name    string
		outputs map[string]string
		stderr  *string
		want    domain.Status
	}{
		{
			name:    "partial pass with timeout failure",
			outputs: nil,
			stderr:  &timeoutMsg,
			want:    domain.StatusTimeLimitExceeded,
		},
		{
			name:    "partial pass with compile failure",
			outputs: nil,
			stderr:  &compileMsg,
			want:    domain.StatusCompilationError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// first test passes through a clean executor, second fails
			// with the scripted stderr
			clean := &fakeExecutor{outputs: map[string]string{"ok": "yes"}}
			failing := &fakeExecutor{stderr: tt.stderr}
			svc := grading.NewGradingService(&switchingExecutor{clean: clean, failing: failing}, testConfig(), noopLogger{})

			result := svc.Grade(context.Background(), submission("print(input())", domain.LanguagePython, []domain.TestCase{
				{Input: "ok", ExpectedOutput: "yes"},
				{Input: "boom", ExpectedOutput: "never"},
			}))

			require.Equal(t, 1, result.TestsPassed)
			require.Equal(t, tt.want, result.Status)
		})
	}
}

// switchingExecutor routes stdin "ok" to the clean executor and
// everything else to the failing one
type switchingExecutor struct {
	clean   *fakeExecutor
	failing *fakeExecutor
}

func (s *switchingExecutor) ExecuteBestEffort(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	if req.Stdin == "ok" {
		return s.clean.ExecuteBestEffort(ctx, req)
	}
	return s.failing.ExecuteBestEffort(ctx, req)
}

func TestGradeZeroPassedIsAlwaysWrongAnswer(t *testing.T) {
	t.Parallel()
	compileMsg := "syntax error near line 1"
	exec := &fakeExecutor{stderr: &compileMsg}
	svc := newService(exec)

	result := svc.Grade(context.Background(), submission("print(", domain.LanguagePython, []domain.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
	}))

	// zero passing tests short-circuits status derivation before the
	// compile-pattern check
	require.Equal(t, 0, result.TestsPassed)
	require.Equal(t, domain.StatusWrongAnswer, result.Status)
}

func TestGradeLenientComparison(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{outputs: map[string]string{"x": "Hello   World\n"}}
	svc := newService(exec)

	sub := domain.NewSubmission("code", domain.LanguagePython, []domain.TestCase{
		{Input: "x", ExpectedOutput: "hello world"},
	}, domain.GradingOptions{CompareMode: domain.CompareModeLenient})

	result := svc.Grade(context.Background(), sub)

	require.Equal(t, domain.StatusAccepted, result.Status)
}

func TestGradeStrictTrailingNewline(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{outputs: map[string]string{"x": "42\n"}}
	svc := newService(exec)

	result := svc.Grade(context.Background(), submission("code", domain.LanguagePython, []domain.TestCase{
		{Input: "x", ExpectedOutput: "42"},
	}))

	require.Equal(t, domain.StatusAccepted, result.Status)
}

func TestGradeSimulatedResultsFlagSummary(t *testing.T) {
	t.Parallel()
	svc := grading.NewGradingService(&simulatedExecutor{}, testConfig(), noopLogger{})

	result := svc.Grade(context.Background(), submission("code", domain.LanguagePython, []domain.TestCase{
		{Input: "x", ExpectedOutput: "out"},
	}))

	require.True(t, result.Simulated)
	require.Contains(t, result.ExecutionSummary, "degraded mode")
}

type simulatedExecutor struct{}

func (simulatedExecutor) ExecuteBestEffort(context.Context, *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	return &domain.ExecutionResult{Stdout: "out\n", Memory: "8192 KB", Simulated: true}, nil
}

func TestGradeRecoversFromPanic(t *testing.T) {
	t.Parallel()
	svc := grading.NewGradingService(panickingExecutor{}, testConfig(), noopLogger{})

	result := svc.Grade(context.Background(), submission("code", domain.LanguagePython, []domain.TestCase{
		{Input: "x", ExpectedOutput: "x"},
	}))

	require.Equal(t, domain.StatusRuntimeError, result.Status)
	require.Equal(t, 0, result.Score)
	require.NotNil(t, result.ErrorMessage)
	require.Contains(t, *result.ErrorMessage, "internal error")
}

type panickingExecutor struct{}

func (panickingExecutor) ExecuteBestEffort(context.Context, *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	panic("backend registry corrupted")
}
