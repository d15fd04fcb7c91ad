package config

import "os"

type AppConfig struct {
	DebugMode      bool
	ServerConfig   *ServerConfig
	ExecSvcConfig  *ExecSvcConfig
	CompilerConfig *CompilerAPIConfig
	GradingConfig  *GradingConfig
	WorkerConfig   *GradeWorkerConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		ServerConfig:   NewServerConfig(),
		ExecSvcConfig:  NewExecSvcConfig(),
		CompilerConfig: NewCompilerAPIConfig(),
		GradingConfig:  NewGradingConfig(),
		WorkerConfig:   NewGradeWorkerConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
	}
}

// getEnv gets an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
