package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/model"
	"ngo-campaign-pipeline/pkg/utils"
)

// DefaultLoadWorkers bounds parallel input-file reads
const DefaultLoadWorkers = 4

// Runner executes offline preprocessing runs
type Runner struct {
	store  RunStore
	logger *zap.Logger
}

// NewRunner creates a runner persisting into store
func NewRunner(store RunStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, logger: logger}
}

type datasetView struct {
	name  string
	table *model.RecordTable
}

// ------------------- Pipeline Runner -------------------

// Run loads the input directory once, derives the finance view and persists
// one result bundle per dataset. Any failure aborts the whole run and marks it
// failed; metrics are returned either way.
func (r *Runner) Run(ctx context.Context, spec model.RunSpec) (metrics *model.RunMetrics, err error) {
	spec = withDefaults(spec)
	runID := uuid.New().String()
	tracker := NewRunTracker(runID, r.store, r.logger)

	if err := tracker.Start(ctx, spec); err != nil {
		return tracker.Metrics, err
	}
	defer func() {
		if err != nil {
			tracker.Fail(context.WithoutCancel(ctx), err)
		}
	}()

	tracker.StartStage(StageIngestion, "")
	table, err := LoadRecordTable(ctx, spec.InputDir, spec.LoadWorkers, r.logger)
	if err != nil {
		return tracker.Metrics, err
	}
	tracker.Metrics.TotalRecords = table.Len()
	tracker.Metrics.SourceFiles = len(table.Sources)
	if err := tracker.EndStage(ctx, StageIngestion, "", table.Len()); err != nil {
		return tracker.Metrics, err
	}

	tracker.StartStage(StageFilter, model.DatasetFinance)
	finance := FilterBySector(table, spec.FinanceKeywords)
	if err := tracker.EndStage(ctx, StageFilter, model.DatasetFinance, finance.Len()); err != nil {
		return tracker.Metrics, err
	}

	outputs := utils.NewOutputManager(spec.DataDir)
	if err := outputs.EnsureOutputDirExists(); err != nil {
		return tracker.Metrics, err
	}
	exporter := NewExportManager(runID, outputs, r.logger)

	views := []datasetView{
		{name: model.DatasetCombined, table: table},
		{name: model.DatasetFinance, table: finance},
	}
	for _, view := range views {
		if err := ctx.Err(); err != nil {
			return tracker.Metrics, err
		}
		if err := r.processDataset(ctx, tracker, exporter, spec, view); err != nil {
			return tracker.Metrics, fmt.Errorf("dataset %s: %w", view.name, err)
		}
		tracker.Metrics.DatasetCounts[view.name] = view.table.Len()
	}

	if err := tracker.Complete(ctx); err != nil {
		return tracker.Metrics, err
	}
	return tracker.Metrics, nil
}

func (r *Runner) processDataset(ctx context.Context, tracker *RunTracker, exporter *ExportManager, spec model.RunSpec, view datasetView) error {
	tracker.StartStage(StageAggregation, view.name)
	bundle, err := Analyze(view.name, view.table, spec.TopN)
	if err != nil {
		return err
	}
	bundle.RunID = tracker.Metrics.RunID
	bundle.GeneratedAt = time.Now().UTC()
	if err := tracker.EndStage(ctx, StageAggregation, view.name, view.table.Len()); err != nil {
		return err
	}

	tracker.StartStage(StageWordcloud, view.name)
	opts := DefaultWordcloudOptions()
	opts.Seed = spec.WordcloudSeed
	path := exporter.Outputs.WordcloudPath(view.name)
	keywords, err := GenerateWordcloud(view.table, path, opts)
	if err != nil {
		return err
	}
	bundle.Keywords = keywords
	bundle.WordcloudPath = path
	if err := tracker.EndStage(ctx, StageWordcloud, view.name, len(keywords)); err != nil {
		return err
	}

	tracker.StartStage(StageExport, view.name)
	if err := r.store.SaveBundle(ctx, bundle); err != nil {
		return fmt.Errorf("failed to save bundle: %w", err)
	}
	if err := exporter.ExportBundle(bundle, spec.ExportCSV); err != nil {
		return err
	}
	return tracker.EndStage(ctx, StageExport, view.name, bundle.RecordCount)
}

func withDefaults(spec model.RunSpec) model.RunSpec {
	if spec.TopN <= 0 {
		spec.TopN = DefaultTopCompanies
	}
	if spec.LoadWorkers <= 0 {
		spec.LoadWorkers = DefaultLoadWorkers
	}
	if len(spec.FinanceKeywords) == 0 {
		spec.FinanceKeywords = model.DefaultFinanceKeywords
	}
	return spec
}
