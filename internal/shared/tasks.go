package shared

// Task types routed through the queue.
const (
	TypeRunPipeline = "etl:run"
)

// Queue names.
const (
	QueueDefault = "default"
)

// RunPipelinePayload asks the worker for one pipeline run.
type RunPipelinePayload struct {
	Count int `json:"count"`
}
