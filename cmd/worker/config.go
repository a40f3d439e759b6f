package main

import (
	"github.com/rs/zerolog/log"

	"userstore-etl/internal/shared/utils"
)

// WorkerConfig holds the queue-side configuration for the worker.
type WorkerConfig struct {
	RedisAddr string
}

func loadWorkerConfig() *WorkerConfig {
	cfg := &WorkerConfig{
		RedisAddr: utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
	}

	log.Info().Str("redis", cfg.RedisAddr).Msg("Worker configured")

	return cfg
}
