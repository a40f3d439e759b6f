package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"userstore-etl/internal/config"
	"userstore-etl/internal/shared"
	"userstore-etl/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterPipelineJob schedules a periodic pipeline run. A missing cron
// spec means periodic runs are disabled; runs can still be triggered
// through the API.
func (s *Scheduler) RegisterPipelineJob() error {
	if s.jobConfig.Schedule == "" {
		logger.Info("No job schedule configured, periodic runs disabled", map[string]interface{}{})
		return nil
	}

	payload, err := json.Marshal(shared.RunPipelinePayload{Count: s.jobConfig.Count})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRunPipeline, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.Schedule,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(0), // single attempt per run, the next tick will try again
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register pipeline job", err)
		return err
	}

	logger.Info("Registered pipeline job", map[string]interface{}{
		"schedule": s.jobConfig.Schedule,
		"count":    s.jobConfig.Count,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
