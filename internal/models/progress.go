package models

// ProgressUpdate is the payload broadcast over the WebSocket hub whenever
// an enrichment run moves forward.
type ProgressUpdate struct {
	TaskID   string  `json:"task_id"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"` // e.g. "processing", "completed", "failed"
	// Optional fields for more detailed updates
	Done bool `json:"done"`
}
