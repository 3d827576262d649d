package model

import "time"

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunMetrics represents overall preprocessing run metrics
type RunMetrics struct {
	RunID         string                  `json:"run_id"`
	Status        string                  `json:"status"`
	StartTime     time.Time               `json:"start_time"`
	EndTime       *time.Time              `json:"end_time,omitempty"`
	Duration      time.Duration           `json:"duration"`
	TotalRecords  int                     `json:"total_records"`
	SourceFiles   int                     `json:"source_files"`
	DatasetCounts map[string]int          `json:"dataset_counts"`
	StageMetrics  map[string]StageMetrics `json:"stage_metrics"`
	Error         string                  `json:"error,omitempty"`
}

// StageMetrics represents metrics for a specific run stage
type StageMetrics struct {
	StageName        string        `json:"stage_name"`
	Dataset          string        `json:"dataset,omitempty"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int           `json:"records_processed"`
	Status           string        `json:"status"`
}

// RunSummary is a stored run as listed by the API
type RunSummary struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Records   int            `json:"records"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Stages    []StageMetrics `json:"stages,omitempty"`
}
