package config

import (
	"strconv"
	"time"
)

// GradingConfig carries submission-wide grading defaults
type GradingConfig struct {
	DefaultTimeLimitMs int64
	MaxTestCases       int
}

func NewGradingConfig() *GradingConfig {
	timeLimitMs, err := strconv.ParseInt(getEnv("GRADING_TIME_LIMIT_MS", "5000"), 10, 64)
	if err != nil {
		timeLimitMs = 5000
	}
	maxTests, err := strconv.Atoi(getEnv("GRADING_MAX_TEST_CASES", "50"))
	if err != nil {
		maxTests = 50
	}
	return &GradingConfig{
		DefaultTimeLimitMs: timeLimitMs,
		MaxTestCases:       maxTests,
	}
}

// GradeWorkerConfig configures the background grading engine
type GradeWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	WorkerCount  int
}

func NewGradeWorkerConfig() *GradeWorkerConfig {
	pollSec, err := strconv.Atoi(getEnv("GRADE_WORKER_POLL_SEC", "2"))
	if err != nil {
		pollSec = 2
	}
	batch, err := strconv.Atoi(getEnv("GRADE_WORKER_BATCH_SIZE", "20"))
	if err != nil {
		batch = 20
	}
	workers, err := strconv.Atoi(getEnv("GRADE_WORKER_COUNT", "4"))
	if err != nil {
		workers = 4
	}
	return &GradeWorkerConfig{
		PollInterval: time.Duration(pollSec) * time.Second,
		BatchSize:    batch,
		WorkerCount:  workers,
	}
}
