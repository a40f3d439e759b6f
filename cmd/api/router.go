package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hibiken/asynq"

	"userstore-etl/internal/config"
	"userstore-etl/internal/infrastructure/database"
	"userstore-etl/internal/shared"
	"userstore-etl/internal/shared/middleware"
)

func SetupRouter(cfg *config.Config, db *database.PostgresDB, queueClient *asynq.Client) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(db))
		v1.POST("/runs", triggerRunHandler(queueClient))
	}

	return router
}

func healthCheckHandler(db *database.PostgresDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "DOWN",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	}
}

type triggerRunRequest struct {
	Count int `json:"count"`
}

func (r triggerRunRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Count, validation.Required, validation.Min(1)),
	)
}

// triggerRunHandler enqueues one pipeline run. The worker executes runs
// sequentially, so concurrent triggers queue up instead of racing.
func triggerRunHandler(queueClient *asynq.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req triggerRunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		payload, err := json.Marshal(shared.RunPipelinePayload{Count: req.Count})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		task := asynq.NewTask(shared.TypeRunPipeline, payload)
		info, err := queueClient.EnqueueContext(c.Request.Context(), task,
			asynq.Queue(shared.QueueDefault),
			asynq.MaxRetry(0),
			asynq.Timeout(30*time.Minute),
		)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"success": true,
			"task_id": info.ID,
			"count":   req.Count,
		})
	}
}
