package config

import (
	"strconv"
	"time"
)

// ExecSvcConfig configures the self-hosted execution service adapter.
// The base URL is resolved once at startup and handed to the adapter at
// construction time.
type ExecSvcConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

func NewExecSvcConfig() *ExecSvcConfig {
	timeoutSec, err := strconv.Atoi(getEnv("EXEC_SVC_TIMEOUT_SEC", "15"))
	if err != nil {
		timeoutSec = 15
	}
	return &ExecSvcConfig{
		BaseURL:        getEnv("EXEC_SVC_URL", "http://localhost:2358"),
		RequestTimeout: time.Duration(timeoutSec) * time.Second,
	}
}

// CompilerAPIConfig configures the third-party compiler API adapter
type CompilerAPIConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

func NewCompilerAPIConfig() *CompilerAPIConfig {
	timeoutSec, err := strconv.Atoi(getEnv("COMPILER_API_TIMEOUT_SEC", "20"))
	if err != nil {
		timeoutSec = 20
	}
	return &CompilerAPIConfig{
		BaseURL:        getEnv("COMPILER_API_URL", "https://api.compilerhub.io"),
		APIKey:         getEnv("COMPILER_API_KEY", ""),
		RequestTimeout: time.Duration(timeoutSec) * time.Second,
	}
}
