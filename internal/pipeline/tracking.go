package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/model"
)

// Run stages
const (
	StageIngestion   = "ingestion"
	StageFilter      = "filter"
	StageAggregation = "aggregation"
	StageWordcloud   = "wordcloud"
	StageExport      = "export"
)

// RunStore persists run history and result bundles
type RunStore interface {
	CreateRun(ctx context.Context, id string, spec model.RunSpec) error
	UpdateRunStatus(ctx context.Context, id, status string, records int, errMsg string) error
	SaveStage(ctx context.Context, runID string, stage model.StageMetrics) error
	SaveBundle(ctx context.Context, bundle *model.ResultBundle) error
}

// RunTracker records the stages of one preprocessing run. A run is
// sequential, so the tracker is not safe for concurrent use.
type RunTracker struct {
	Metrics *model.RunMetrics
	store   RunStore
	logger  *zap.Logger
}

// NewRunTracker creates a tracker for runID
func NewRunTracker(runID string, store RunStore, logger *zap.Logger) *RunTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunTracker{
		Metrics: &model.RunMetrics{
			RunID:         runID,
			Status:        model.RunStatusRunning,
			StartTime:     time.Now(),
			DatasetCounts: make(map[string]int),
			StageMetrics:  make(map[string]model.StageMetrics),
		},
		store:  store,
		logger: logger.With(zap.String("run_id", runID)),
	}
}

// Start registers the run with the store
func (rt *RunTracker) Start(ctx context.Context, spec model.RunSpec) error {
	if err := rt.store.CreateRun(ctx, rt.Metrics.RunID, spec); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	rt.logger.Info("🚀 Starting preprocessing run",
		zap.String("input_dir", spec.InputDir),
		zap.String("data_dir", spec.DataDir),
	)
	return nil
}

// StartStage marks the start of a run stage
func (rt *RunTracker) StartStage(stage, dataset string) {
	rt.Metrics.StageMetrics[stageKey(stage, dataset)] = model.StageMetrics{
		StageName: stage,
		Dataset:   dataset,
		StartTime: time.Now(),
		Status:    model.RunStatusRunning,
	}
	rt.logger.Debug("📊 Stage started", zap.String("stage", stage), zap.String("dataset", dataset))
}

// EndStage marks a stage completed and persists it
func (rt *RunTracker) EndStage(ctx context.Context, stage, dataset string, records int) error {
	key := stageKey(stage, dataset)
	m, ok := rt.Metrics.StageMetrics[key]
	if !ok {
		return fmt.Errorf("stage %q was never started", key)
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.RecordsProcessed = records
	m.Status = model.RunStatusCompleted
	rt.Metrics.StageMetrics[key] = m

	if err := rt.store.SaveStage(ctx, rt.Metrics.RunID, m); err != nil {
		return fmt.Errorf("failed to save stage %s: %w", key, err)
	}
	rt.logger.Info("📊 Stage completed",
		zap.String("stage", stage),
		zap.String("dataset", dataset),
		zap.Int("records", records),
		zap.Duration("duration", m.Duration),
	)
	return nil
}

// Complete marks the run as completed
func (rt *RunTracker) Complete(ctx context.Context) error {
	rt.finish(model.RunStatusCompleted, "")
	if err := rt.store.UpdateRunStatus(ctx, rt.Metrics.RunID, model.RunStatusCompleted, rt.Metrics.TotalRecords, ""); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	rt.logger.Info("🏁 Preprocessing run completed",
		zap.Int("records", rt.Metrics.TotalRecords),
		zap.Any("datasets", rt.Metrics.DatasetCounts),
		zap.Duration("duration", rt.Metrics.Duration),
	)
	return nil
}

// Fail marks the run and any running stage as failed. Store errors are logged
// so the original cause is the one reported.
func (rt *RunTracker) Fail(ctx context.Context, cause error) {
	rt.finish(model.RunStatusFailed, cause.Error())
	for key, m := range rt.Metrics.StageMetrics {
		if m.Status != model.RunStatusRunning {
			continue
		}
		m.EndTime = *rt.Metrics.EndTime
		m.Duration = m.EndTime.Sub(m.StartTime)
		m.Status = model.RunStatusFailed
		rt.Metrics.StageMetrics[key] = m
		if err := rt.store.SaveStage(ctx, rt.Metrics.RunID, m); err != nil {
			rt.logger.Warn("⚠️ Failed to save failed stage", zap.String("stage", key), zap.Error(err))
		}
	}
	if err := rt.store.UpdateRunStatus(ctx, rt.Metrics.RunID, model.RunStatusFailed, rt.Metrics.TotalRecords, cause.Error()); err != nil {
		rt.logger.Warn("⚠️ Failed to mark run failed", zap.Error(err))
	}
	rt.logger.Error("❌ Preprocessing run failed", zap.Error(cause), zap.Duration("duration", rt.Metrics.Duration))
}

func (rt *RunTracker) finish(status, errMsg string) {
	now := time.Now()
	rt.Metrics.EndTime = &now
	rt.Metrics.Duration = now.Sub(rt.Metrics.StartTime)
	rt.Metrics.Status = status
	rt.Metrics.Error = errMsg
}

func stageKey(stage, dataset string) string {
	if dataset == "" {
		return stage
	}
	return stage + ":" + dataset
}
