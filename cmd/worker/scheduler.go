package main

import (
	"github.com/rs/zerolog/log"

	"userstore-etl/internal/config"
	"userstore-etl/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with shutdown helpers.
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *WorkerConfig, jobConfig config.JobConfig) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisAddr, jobConfig)

	if err := scheduler.RegisterPipelineJob(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register scheduled job")
	}

	go func() {
		log.Info().Msg("Scheduler starting")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("Scheduler shutting down")
	s.Scheduler.Shutdown()
	log.Info().Msg("Scheduler stopped")
}
