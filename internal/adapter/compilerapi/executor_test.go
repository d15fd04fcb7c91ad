package compilerapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/codearena-2026.net/internal/adapter/compilerapi"
	"gitlab.com/codearena-2026.net/internal/config"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

func newExecutor(baseURL, apiKey string) *compilerapi.Executor {
	return compilerapi.NewExecutor(&config.CompilerAPIConfig{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		RequestTimeout: 2 * time.Second,
	}, noopLogger{})
}

func request(lang domain.Language) *domain.ExecutionRequest {
	return &domain.ExecutionRequest{
		Code:      "print(41)",
		Language:  lang,
		Stdin:     "",
		TimeoutMs: 3000,
	}
}

func TestExecuteUnknownLanguageFailsFast(t *testing.T) {
	t.Parallel()
	// no server: an unmapped language must never produce a request
	result, err := newExecutor("http://127.0.0.1:0", "").Execute(context.Background(), request(domain.Language("ruby")))

	require.Error(t, err)
	require.Nil(t, result)
	require.ErrorIs(t, err, secondary.ErrUnsupportedLanguage)
}

func TestExecuteSendsProviderSchema(t *testing.T) {
	t.Parallel()
	var captured map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/execute", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"output": "41\n"}`))
	}))
	defer srv.Close()

	_, err := newExecutor(srv.URL, "secret-key").Execute(context.Background(), request(domain.LanguageScript))
	require.NoError(t, err)

	require.Equal(t, "Bearer secret-key", auth)
	require.Equal(t, "lua", captured["language"])
	require.Equal(t, "5.4.4", captured["version"])
	require.Equal(t, "print(41)", captured["code"])
	require.Equal(t, float64(3000), captured["timeout"])
}

func TestExecuteFieldMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		body        string
		wantStdout  string
		wantStderr  *string
		wantRuntime int64
		wantMemory  string
	}{
		{
			name:        "output with executionTime in seconds",
			body:        `{"output": "41\n", "executionTime": 0.25, "memory": 10240}`,
			wantStdout:  "41\n",
			wantRuntime: 250,
			wantMemory:  "10240 KB",
		},
		{
			name:        "stdout with runtime in milliseconds",
			body:        `{"stdout": "41\n", "runtime": 90}`,
			wantStdout:  "41\n",
			wantRuntime: 90,
			wantMemory:  "N/A",
		},
		{
			name:       "error field maps to stderr",
			body:       `{"output": "", "error": "NameError: name 'x' is not defined"}`,
			wantStdout: "",
			wantStderr: stringPtr("NameError: name 'x' is not defined"),
			wantMemory: "N/A",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			result, err := newExecutor(srv.URL, "").Execute(context.Background(), request(domain.LanguagePython))

			require.NoError(t, err)
			require.Equal(t, tt.wantStdout, result.Stdout)
			require.Equal(t, tt.wantStderr, result.Stderr)
			require.Equal(t, tt.wantRuntime, result.RuntimeMs)
			require.Equal(t, tt.wantMemory, result.Memory)
		})
	}
}

func TestExecuteStatusClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: compilerapi.ErrRateLimited},
		{name: "bad request", status: http.StatusBadRequest, want: compilerapi.ErrBadRequest},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, want: compilerapi.ErrBadRequest},
		{name: "server error", status: http.StatusInternalServerError, want: compilerapi.ErrServerError},
		{name: "bad gateway", status: http.StatusBadGateway, want: compilerapi.ErrServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			result, err := newExecutor(srv.URL, "").Execute(context.Background(), request(domain.LanguagePython))

			require.Error(t, err)
			require.Nil(t, result)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecuteUnreachableProvider(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	result, err := newExecutor(srv.URL, "").Execute(context.Background(), request(domain.LanguagePython))

	require.Error(t, err)
	require.Nil(t, result)
	require.ErrorIs(t, err, compilerapi.ErrUnreachable)
}

func TestExecuteMissingOutputFailsClosed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"memory": 1024}`))
	}))
	defer srv.Close()

	result, err := newExecutor(srv.URL, "").Execute(context.Background(), request(domain.LanguagePython))

	require.Error(t, err)
	require.Nil(t, result)
	require.Contains(t, err.Error(), "missing the output field")
}

func stringPtr(s string) *string {
	return &s
}
