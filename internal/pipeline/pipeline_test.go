package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/model"
)

// Fake store implementing RunStore
type fakeRunStore struct {
	SaveBundleFn func(ctx context.Context, bundle *model.ResultBundle) error

	createdID string
	statuses  []string
	lastError string
	stages    []model.StageMetrics
	bundles   map[string]*model.ResultBundle
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{bundles: make(map[string]*model.ResultBundle)}
}

func (f *fakeRunStore) CreateRun(ctx context.Context, id string, spec model.RunSpec) error {
	f.createdID = id
	return nil
}

func (f *fakeRunStore) UpdateRunStatus(ctx context.Context, id, status string, records int, errMsg string) error {
	f.statuses = append(f.statuses, status)
	f.lastError = errMsg
	return nil
}

func (f *fakeRunStore) SaveStage(ctx context.Context, runID string, stage model.StageMetrics) error {
	f.stages = append(f.stages, stage)
	return nil
}

func (f *fakeRunStore) SaveBundle(ctx context.Context, bundle *model.ResultBundle) error {
	if f.SaveBundleFn != nil {
		return f.SaveBundleFn(ctx, bundle)
	}
	f.bundles[bundle.Dataset] = bundle
	return nil
}

func testSpec(t *testing.T) model.RunSpec {
	t.Helper()
	input := t.TempDir()
	writeFile(t, input, "campaigns.csv", sampleCSV)
	writeFile(t, input, "more.json", sampleJSON)
	return model.RunSpec{
		InputDir:      input,
		DataDir:       filepath.Join(t.TempDir(), "data"),
		WordcloudSeed: 7,
	}
}

// ------------------------------------------------------------
// SUCCESS: both datasets persisted
// ------------------------------------------------------------

func TestRunner_Run_PersistsBothDatasets(t *testing.T) {
	st := newFakeRunStore()
	spec := testSpec(t)
	spec.ExportCSV = true

	metrics, err := NewRunner(st, zap.NewNop()).Run(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusCompleted, metrics.Status)
	assert.Equal(t, st.createdID, metrics.RunID)
	assert.Equal(t, []string{model.RunStatusCompleted}, st.statuses)
	assert.Equal(t, 3, metrics.TotalRecords)
	assert.Equal(t, 2, metrics.SourceFiles)
	assert.Equal(t, map[string]int{model.DatasetCombined: 3, model.DatasetFinance: 2}, metrics.DatasetCounts)

	require.Len(t, st.bundles, 2)
	combined := st.bundles[model.DatasetCombined]
	assert.Equal(t, metrics.RunID, combined.RunID)
	assert.Equal(t, 3, combined.RecordCount)
	assert.FileExists(t, combined.WordcloudPath)
	assert.Equal(t, filepath.Join(spec.DataDir, "wordcloud_combined.png"), combined.WordcloudPath)

	finance := st.bundles[model.DatasetFinance]
	assert.Equal(t, 2, finance.RecordCount)
	assert.Equal(t, []model.CompanyCount{{Company: "Acme", Count: 2}}, finance.CompanyDistribution)

	assert.FileExists(t, filepath.Join(spec.DataDir, "processed_finance.json"))
	assert.FileExists(t, filepath.Join(spec.DataDir, "combined", "sentiment.csv"))
	assert.FileExists(t, filepath.Join(spec.DataDir, "finance", "keywords.csv"))

	for _, stage := range st.stages {
		assert.Equal(t, model.RunStatusCompleted, stage.Status)
	}
	// ingestion, filter, then 3 stages per dataset
	assert.Len(t, st.stages, 8)
}

func TestRunner_Run_BundleJSONHasExportInfo(t *testing.T) {
	st := newFakeRunStore()
	spec := testSpec(t)

	metrics, err := NewRunner(st, nil).Run(context.Background(), spec)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(spec.DataDir, "processed_combined.json"))
	require.NoError(t, err)

	var doc struct {
		ExportInfo struct {
			RunID       string `json:"run_id"`
			Dataset     string `json:"dataset"`
			RecordCount int    `json:"record_count"`
		} `json:"export_info"`
		Data model.ResultBundle `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, metrics.RunID, doc.ExportInfo.RunID)
	assert.Equal(t, model.DatasetCombined, doc.ExportInfo.Dataset)
	assert.Equal(t, 3, doc.ExportInfo.RecordCount)
	assert.Equal(t, 3, doc.Data.RecordCount)
	assert.NoFileExists(t, filepath.Join(spec.DataDir, "combined", "sentiment.csv"))
}

// ------------------------------------------------------------
// FAILURES: run marked failed
// ------------------------------------------------------------

func TestRunner_Run_MissingInputMarksFailed(t *testing.T) {
	st := newFakeRunStore()
	spec := model.RunSpec{InputDir: t.TempDir(), DataDir: t.TempDir()}

	metrics, err := NewRunner(st, zap.NewNop()).Run(context.Background(), spec)
	require.ErrorIs(t, err, ErrNoInputFiles)

	assert.Equal(t, model.RunStatusFailed, metrics.Status)
	assert.Equal(t, []string{model.RunStatusFailed}, st.statuses)
	assert.Contains(t, st.lastError, "no input files")
	require.Len(t, st.stages, 1)
	assert.Equal(t, StageIngestion, st.stages[0].StageName)
	assert.Equal(t, model.RunStatusFailed, st.stages[0].Status)
	assert.Empty(t, st.bundles)
}

func TestRunner_Run_StoreFailureAborts(t *testing.T) {
	st := newFakeRunStore()
	st.SaveBundleFn = func(ctx context.Context, bundle *model.ResultBundle) error {
		return errors.New("disk full")
	}

	_, err := NewRunner(st, zap.NewNop()).Run(context.Background(), testSpec(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset combined")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{model.RunStatusFailed}, st.statuses)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	st := newFakeRunStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(st, zap.NewNop()).Run(ctx, testSpec(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{model.RunStatusFailed}, st.statuses)
}

func TestWithDefaults(t *testing.T) {
	spec := withDefaults(model.RunSpec{})
	assert.Equal(t, DefaultTopCompanies, spec.TopN)
	assert.Equal(t, DefaultLoadWorkers, spec.LoadWorkers)
	assert.Equal(t, model.DefaultFinanceKeywords, spec.FinanceKeywords)
}
