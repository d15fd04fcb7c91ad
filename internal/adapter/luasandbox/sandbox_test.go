package luasandbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/codearena-2026.net/internal/adapter/luasandbox"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

func run(t *testing.T, code, stdin string, timeoutMs int64) (*domain.ExecutionResult, error) {
	t.Helper()
	return luasandbox.NewSandbox(noopLogger{}).Execute(context.Background(), &domain.ExecutionRequest{
		Code:      code,
		Language:  domain.LanguageScript,
		Stdin:     stdin,
		TimeoutMs: timeoutMs,
	})
}

func TestExecuteRejectsNonScriptLanguages(t *testing.T) {
	t.Parallel()
	sandbox := luasandbox.NewSandbox(noopLogger{})

	for _, lang := range []domain.Language{domain.LanguageJava, domain.LanguageCpp, domain.LanguagePython} {
		result, err := sandbox.Execute(context.Background(), &domain.ExecutionRequest{
			Code:      "code",
			Language:  lang,
			TimeoutMs: 1000,
		})
		require.ErrorIs(t, err, secondary.ErrUnsupportedLanguage)
		require.Nil(t, result)
	}
}

func TestExecuteCapturesPrint(t *testing.T) {
	t.Parallel()
	result, err := run(t, `print("hello", 42)`, "", 1000)

	require.NoError(t, err)
	require.Equal(t, "hello\t42\n", result.Stdout)
	require.Nil(t, result.Stderr)
	require.NotNil(t, result.ExitCode)
	require.Equal(t, 0, *result.ExitCode)
}

func TestExecuteReadPrimitives(t *testing.T) {
	t.Parallel()
	// all three aliases pull from the same line queue, in order
	code := `
local a = readLine()
local b = gets()
local c = prompt()
local d = readLine()
print(a .. "," .. b .. "," .. c .. "," .. d)
`
	result, err := run(t, code, "first\nsecond\nthird", 1000)

	require.NoError(t, err)
	require.Equal(t, "first,second,third,\n", result.Stdout, "exhausted input must read as empty string")
}

func TestExecuteNumericWork(t *testing.T) {
	t.Parallel()
	code := `
local n = tonumber(readLine())
local sum = 0
for i = 1, n do
	sum = sum + i
end
print(sum)
`
	result, err := run(t, code, "10", 1000)

	require.NoError(t, err)
	require.Equal(t, "55\n", result.Stdout)
}

func TestExecuteDeniesModuleLoading(t *testing.T) {
	t.Parallel()
	for _, call := range []string{`require("os")`, `dofile("x.lua")`, `loadfile("x.lua")`} {
		result, err := run(t, call, "", 1000)

		require.NoError(t, err, "capability denial is a script failure, not an adapter error")
		require.NotNil(t, result.Stderr)
		require.Contains(t, *result.Stderr, "not allowed")
	}
}

func TestExecuteScriptErrorGoesToStderr(t *testing.T) {
	t.Parallel()
	result, err := run(t, "print(\"before\")\nerror(\"exploded\")", "", 1000)

	require.NoError(t, err)
	require.NotNil(t, result.Stderr)
	require.Equal(t, "", result.Stdout, "stdout from a failed run is discarded")
	require.NotNil(t, result.ExitCode)
	require.Equal(t, 1, *result.ExitCode)
}

func TestExecuteSyntaxErrorGoesToStderr(t *testing.T) {
	t.Parallel()
	result, err := run(t, `print(`, "", 1000)

	require.NoError(t, err)
	require.NotNil(t, result.Stderr)
	require.Equal(t, 1, *result.ExitCode)
}

func TestExecuteTimeout(t *testing.T) {
	t.Parallel()
	result, err := run(t, `while true do end`, "", 50)

	require.NoError(t, err)
	require.NotNil(t, result.Stderr)
	require.Contains(t, *result.Stderr, "time limit exceeded after 50ms")
	require.Equal(t, 1, *result.ExitCode)
}
