package execsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gitlab.com/codearena-2026.net/internal/config"
	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

var _ secondary.Executor = (*Executor)(nil)

// Executor delegates execution to the self-hosted execution service
// over HTTP. It fails closed: an empty, malformed or output-less
// response is an error, never a half-populated result.
type Executor struct {
	cfg    *config.ExecSvcConfig
	client *http.Client
	logger primary.Logger
}

// NewExecutor creates a new execution service adapter
func NewExecutor(cfg *config.ExecSvcConfig, logger primary.Logger) *Executor {
	return &Executor{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

func (e *Executor) Name() string {
	return "exec-service"
}

type execFile struct {
	Content string `json:"content"`
}

type execRequest struct {
	Language string     `json:"language"`
	Files    []execFile `json:"files"`
	Timeout  int64      `json:"timeout"`
	Stdin    *string    `json:"stdin,omitempty"`
}

type execRun struct {
	Output *string `json:"output"`
	Stderr *string `json:"stderr"`
}

type execResponse struct {
	Run       *execRun `json:"run"`
	Stdout    *string  `json:"stdout"`
	Stderr    *string  `json:"stderr"`
	RuntimeMs *int64   `json:"runtimeMs"`
	MemoryKb  *int64   `json:"memoryKb"`
	ExitCode  *int     `json:"exitCode"`
}

// Execute posts the request to the execution endpoint and maps the
// response into the canonical result shape
func (e *Executor) Execute(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	payload := execRequest{
		Language: string(req.Language),
		Files:    []execFile{{Content: req.Code}},
		Timeout:  req.TimeoutMs,
	}
	if req.Stdin != "" {
		payload.Stdin = &req.Stdin
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execution request: %w", err)
	}

	url := e.cfg.BaseURL + "/api/execute"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build execution request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execution service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read execution service response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("execution service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if len(respBody) == 0 {
		return nil, fmt.Errorf("execution service returned an empty response")
	}

	var parsed execResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode execution service response: %w", err)
	}

	result := &domain.ExecutionResult{
		RuntimeMs: 0,
		Memory:    "N/A",
	}

	switch {
	case parsed.Run != nil && parsed.Run.Output != nil:
		result.Stdout = *parsed.Run.Output
		result.Stderr = nonEmpty(parsed.Run.Stderr)
	case parsed.Stdout != nil:
		result.Stdout = *parsed.Stdout
		result.Stderr = nonEmpty(parsed.Stderr)
	default:
		return nil, fmt.Errorf("execution service response is missing the output field")
	}

	if parsed.RuntimeMs != nil {
		result.RuntimeMs = *parsed.RuntimeMs
	}
	if parsed.MemoryKb != nil {
		result.Memory = fmt.Sprintf("%d KB", *parsed.MemoryKb)
	}
	result.ExitCode = parsed.ExitCode

	e.logger.Debug("Execution service call succeeded",
		"language", req.Language,
		"runtimeMs", result.RuntimeMs)

	return result, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
