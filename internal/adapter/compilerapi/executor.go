package compilerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gitlab.com/codearena-2026.net/internal/config"
	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

var _ secondary.Executor = (*Executor)(nil)

// Failure classes of a provider call. All of them are equally non-fatal
// to the coordinator; they exist so logs can tell a rate limit from an
// outage.
var (
	ErrBadRequest  = errors.New("compiler api rejected the request format")
	ErrRateLimited = errors.New("compiler api rate limit exceeded")
	ErrServerError = errors.New("compiler api internal error")
	ErrUnreachable = errors.New("compiler api unreachable")
)

type providerLanguage struct {
	Language string `json:"language"`
	Version  string `json:"version"`
}

// providerLanguages maps internal language identifiers to the
// provider's language/version pair. Unknown languages fail fast.
var providerLanguages = map[domain.Language]providerLanguage{
	domain.LanguageJava:   {Language: "java", Version: "15.0.2"},
	domain.LanguageCpp:    {Language: "cpp", Version: "10.2.0"},
	domain.LanguagePython: {Language: "python", Version: "3.10.0"},
	domain.LanguageScript: {Language: "lua", Version: "5.4.4"},
}

// Executor delegates execution to a third-party compiler API
type Executor struct {
	cfg    *config.CompilerAPIConfig
	client *http.Client
	logger primary.Logger
}

// NewExecutor creates a new compiler API adapter
func NewExecutor(cfg *config.CompilerAPIConfig, logger primary.Logger) *Executor {
	return &Executor{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

func (e *Executor) Name() string {
	return "compiler-api"
}

type providerRequest struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Code     string `json:"code"`
	Input    string `json:"input"`
	Timeout  int64  `json:"timeout"`
}

type providerResponse struct {
	Output        *string  `json:"output"`
	Stdout        *string  `json:"stdout"`
	Errors        *string  `json:"error"`
	Stderr        *string  `json:"stderr"`
	ExecutionTime *float64 `json:"executionTime"`
	Runtime       *float64 `json:"runtime"`
	Memory        *float64 `json:"memory"`
	ExitCode      *int     `json:"exitCode"`
}

// Execute posts code/stdin/timeout in the provider's schema and maps
// the provider fields into the canonical result
func (e *Executor) Execute(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	lang, ok := providerLanguages[req.Language]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no provider mapping", secondary.ErrUnsupportedLanguage, req.Language)
	}

	payload := providerRequest{
		Language: lang.Language,
		Version:  lang.Version,
		Code:     req.Code,
		Input:    req.Stdin,
		Timeout:  req.TimeoutMs,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	if len(respBody) == 0 {
		return nil, fmt.Errorf("provider returned an empty response")
	}

	var parsed providerResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	result := &domain.ExecutionResult{
		Memory:   "N/A",
		ExitCode: parsed.ExitCode,
	}

	switch {
	case parsed.Output != nil:
		result.Stdout = *parsed.Output
		result.Stderr = nonEmpty(parsed.Errors)
	case parsed.Stdout != nil:
		result.Stdout = *parsed.Stdout
		result.Stderr = nonEmpty(parsed.Stderr)
	default:
		return nil, fmt.Errorf("provider response is missing the output field")
	}

	switch {
	case parsed.ExecutionTime != nil:
		result.RuntimeMs = int64(*parsed.ExecutionTime * 1000)
	case parsed.Runtime != nil:
		result.RuntimeMs = int64(*parsed.Runtime)
	}
	if parsed.Memory != nil {
		result.Memory = fmt.Sprintf("%.0f KB", *parsed.Memory)
	}

	e.logger.Debug("Compiler API call succeeded",
		"language", req.Language,
		"runtimeMs", result.RuntimeMs)

	return result, nil
}

// classifyStatus maps a non-2xx provider status to a typed error. The
// distinction is diagnostic only.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d)", ErrRateLimited, status)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w (status %d): %s", ErrBadRequest, status, string(body))
	default:
		return fmt.Errorf("%w (status %d): %s", ErrServerError, status, string(body))
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
