package config

import (
	"strconv"
	"time"
)

type RedisConfig struct {
	DB        int
	Url       string
	Password  string
	ResultTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		db = 0
	}
	ttlMin, err := strconv.Atoi(getEnv("REDIS_RESULT_TTL_MIN", "30"))
	if err != nil {
		ttlMin = 30
	}
	return &RedisConfig{
		DB:        db,
		Url:       getEnv("REDIS_ADDR", "localhost:6379"),
		Password:  getEnv("REDIS_PASSWORD", ""),
		ResultTTL: time.Duration(ttlMin) * time.Minute,
	}
}
