package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/model"
	"ngo-campaign-pipeline/pkg/utils"
)

// ExportManager writes the artifacts of one run
type ExportManager struct {
	RunID   string
	Outputs *utils.OutputManager
	Results []model.ExportResult
	logger  *zap.Logger
}

// NewExportManager creates an export manager rooted at the output manager's data dir
func NewExportManager(runID string, outputs *utils.OutputManager, logger *zap.Logger) *ExportManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportManager{
		RunID:   runID,
		Outputs: outputs,
		Results: make([]model.ExportResult, 0),
		logger:  logger,
	}
}

// ExportBundle writes processed_<dataset>.json and, when csvTables is set, one
// CSV per table. The first failing write is returned.
func (em *ExportManager) ExportBundle(bundle *model.ResultBundle, csvTables bool) error {
	result := em.exportToJSON(bundle)
	if !result.Success {
		return fmt.Errorf("export %s: %s", result.Path, result.Error)
	}
	if !csvTables {
		return nil
	}
	for _, result := range em.exportTablesToCSV(bundle) {
		if !result.Success {
			return fmt.Errorf("export %s: %s", result.Path, result.Error)
		}
	}
	return nil
}

// exportToJSON exports the bundle with an export_info header
func (em *ExportManager) exportToJSON(bundle *model.ResultBundle) model.ExportResult {
	path := em.Outputs.BundlePath(bundle.Dataset)
	err := writeJSON(path, map[string]interface{}{
		"export_info": map[string]interface{}{
			"run_id":       em.RunID,
			"dataset":      bundle.Dataset,
			"exported_at":  time.Now().UTC(),
			"record_count": bundle.RecordCount,
			"export_type":  "result_bundle",
		},
		"data": bundle,
	})
	return em.record("json", path, bundle.RecordCount, err)
}

// exportTablesToCSV writes every bundle table under <data-dir>/<dataset>/
func (em *ExportManager) exportTablesToCSV(bundle *model.ResultBundle) []model.ExportResult {
	var results []model.ExportResult
	for _, table := range bundleTables(bundle) {
		path := em.Outputs.TablePath(bundle.Dataset, table.name)
		err := writeCSV(path, table.header, table.rows)
		results = append(results, em.record("csv", path, len(table.rows), err))
	}
	return results
}

func (em *ExportManager) record(kind, path string, count int, err error) model.ExportResult {
	result := model.ExportResult{
		Type:        kind,
		Path:        path,
		RecordCount: count,
		Success:     err == nil,
		Timestamp:   time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		em.logger.Error("❌ Export failed", zap.String("type", kind), zap.String("path", path), zap.Error(err))
	} else {
		size, _ := em.Outputs.GetFileSize(path)
		em.logger.Info("✅ Export successful",
			zap.String("type", kind),
			zap.String("path", path),
			zap.Int("records", count),
			zap.Int64("bytes", size),
		)
	}
	em.Results = append(em.Results, result)
	return result
}

type csvTable struct {
	name   string
	header []string
	rows   [][]string
}

func bundleTables(b *model.ResultBundle) []csvTable {
	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	sentiment := csvTable{name: "sentiment", header: []string{"sentiment", "value", "count", "percentage"}}
	for _, r := range b.Sentiment {
		sentiment.rows = append(sentiment.rows, []string{r.Sentiment, itoa(r.Value), itoa(r.Count), ftoa(r.Percentage)})
	}

	prominence := csvTable{name: "prominence", header: []string{"level", "value", "count", "percentage"}}
	for _, r := range b.Prominence {
		prominence.rows = append(prominence.rows, []string{r.Level, itoa(r.Value), itoa(r.Count), ftoa(r.Percentage)})
	}

	ngos := csvTable{name: "ngo_distribution", header: []string{"ngo", "count"}}
	for _, r := range b.NGODistribution {
		ngos.rows = append(ngos.rows, []string{r.NGO, itoa(r.Count)})
	}

	companies := csvTable{name: "company_distribution", header: []string{"company", "count"}}
	for _, r := range b.CompanyDistribution {
		companies.rows = append(companies.rows, []string{r.Company, itoa(r.Count)})
	}

	profiles := csvTable{name: "companies_analysis", header: []string{"company_parent", "corp_industry_sector1", "campaign_count", "avg_sentiment", "avg_prominence"}}
	for _, r := range b.CompaniesAnalysis {
		profiles.rows = append(profiles.rows, []string{r.CompanyParent, r.IndustrySector, itoa(r.CampaignCount), ftoa(r.AvgSentiment), ftoa(r.AvgProminence)})
	}

	activity := csvTable{name: "country_activity", header: []string{"country", "activity"}}
	for _, r := range b.CountryNetwork.Activity {
		activity.rows = append(activity.rows, []string{r.Country, itoa(r.Activity)})
	}

	edges := csvTable{name: "country_edges", header: []string{"source", "target", "weight"}}
	for _, r := range b.CountryNetwork.Edges {
		edges.rows = append(edges.rows, []string{r.Source, r.Target, itoa(r.Weight)})
	}

	keywords := csvTable{name: "keywords", header: []string{"text", "count", "weight"}}
	for _, r := range b.Keywords {
		keywords.rows = append(keywords.rows, []string{r.Text, itoa(r.Count), ftoa(r.Weight)})
	}

	return []csvTable{sentiment, prominence, ngos, companies, profiles, activity, edges, keywords}
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
