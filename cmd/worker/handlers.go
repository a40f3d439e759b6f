package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"userstore-etl/internal/etl"
	"userstore-etl/internal/shared"
)

// HandlerRegistry holds all task handlers.
type HandlerRegistry struct {
	runPipeline *RunPipelineHandler
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeRunPipeline, h.runPipeline.ProcessTask)
}

// RunPipelineHandler executes one pipeline run per task.
type RunPipelineHandler struct {
	pipeline *etl.Pipeline
}

func NewRunPipelineHandler(pipeline *etl.Pipeline) *RunPipelineHandler {
	return &RunPipelineHandler{pipeline: pipeline}
}

func (h *RunPipelineHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.RunPipelinePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.Count <= 0 {
		return fmt.Errorf("invalid count %d", payload.Count)
	}

	stats, err := h.pipeline.Run(ctx, payload.Count)
	if err != nil {
		return err
	}

	log.Info().Object("stats", stats).Msg("Scheduled run complete")
	return nil
}
