package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/model"
)

const (
	datasetsPrefix = "/api/v1/datasets/"
	defaultLimit   = 10
)

// RunLister provides the preprocessing run history
type RunLister interface {
	ListRuns(ctx context.Context) ([]model.RunSummary, error)
}

// DashboardHandler serves the cached result bundles. The bundle map is built
// once at startup and only read afterwards.
type DashboardHandler struct {
	bundles map[string]*model.ResultBundle
	runs    RunLister
	logger  *zap.Logger
}

// NewDashboardHandler creates a handler over bundles keyed by dataset name.
// runs may be nil, in which case the run history is empty.
func NewDashboardHandler(bundles map[string]*model.ResultBundle, runs RunLister, logger *zap.Logger) *DashboardHandler {
	if bundles == nil {
		bundles = make(map[string]*model.ResultBundle)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{bundles: bundles, runs: runs, logger: logger}
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Datasets: len(h.bundles)})
}

// ListDatasets godoc
// @Summary List datasets
// @Description Datasets available to the dataset selector, in display order
// @Tags datasets
// @Produce json
// @Success 200 {array} DatasetInfo
// @Router /api/v1/datasets [get]
func (h *DashboardHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	infos := make([]DatasetInfo, 0, len(h.bundles))
	for _, name := range h.datasetNames() {
		b := h.bundles[name]
		infos = append(infos, DatasetInfo{
			Name:        name,
			Label:       model.DatasetLabel(name),
			RecordCount: b.RecordCount,
			RunID:       b.RunID,
			HasImage:    fileExists(b.WordcloudPath),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

// GetDataset godoc
// @Summary Get dataset bundle
// @Description Full result bundle of one dataset
// @Tags datasets
// @Produce json
// @Param name path string true "Dataset name (combined | finance)"
// @Success 200 {object} model.ResultBundle
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name} [get]
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	name, rest := splitDatasetPath(r.URL.Path)
	if rest != "" {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "unknown dataset resource " + rest})
		return
	}
	b, ok := h.lookup(w, name)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GetSentiment godoc
// @Summary Sentiment distribution
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} SentimentResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/sentiment [get]
func (h *DashboardHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SentimentResponse{Dataset: b.Dataset, TotalCampaigns: b.RecordCount, Rows: b.Sentiment})
}

// GetProminence godoc
// @Summary Prominence distribution
// @Description Percentages exclude records with prominence 0
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} ProminenceResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/prominence [get]
func (h *DashboardHandler) GetProminence(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ProminenceResponse{Dataset: b.Dataset, Rows: b.Prominence})
}

// GetNGOs godoc
// @Summary Most active NGOs
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Param limit query int false "Row limit (default 10, 0 = all)"
// @Success 200 {object} NGOResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/ngos [get]
func (h *DashboardHandler) GetNGOs(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	rows := b.NGODistribution
	writeJSON(w, http.StatusOK, NGOResponse{Dataset: b.Dataset, Total: len(rows), Rows: rows[:clamp(limit, len(rows))]})
}

// GetCompanies godoc
// @Summary Most targeted companies
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Param limit query int false "Row limit (default 10, 0 = all)"
// @Success 200 {object} CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/companies [get]
func (h *DashboardHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	rows := b.CompanyDistribution
	writeJSON(w, http.StatusOK, CompanyResponse{Dataset: b.Dataset, Total: len(rows), Rows: rows[:clamp(limit, len(rows))]})
}

// GetTopCompanies godoc
// @Summary Company profiles
// @Description Campaign count, mean sentiment and mean prominence per company and sector
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} TopCompaniesResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/top-companies [get]
func (h *DashboardHandler) GetTopCompanies(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, TopCompaniesResponse{Dataset: b.Dataset, Rows: b.CompaniesAnalysis})
}

// GetCountries godoc
// @Summary Country activity
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} CountryResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/countries [get]
func (h *DashboardHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CountryResponse{Dataset: b.Dataset, Rows: b.CountryNetwork.Activity})
}

// GetNetwork godoc
// @Summary Country network
// @Description Weighted active to target country edges and per-country activity
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} NetworkResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/network [get]
func (h *DashboardHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NetworkResponse{Dataset: b.Dataset, Network: b.CountryNetwork})
}

// GetKeywords godoc
// @Summary Issue keywords
// @Tags charts
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} KeywordResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/keywords [get]
func (h *DashboardHandler) GetKeywords(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, KeywordResponse{Dataset: b.Dataset, Rows: b.Keywords})
}

// GetWordcloud godoc
// @Summary Word cloud image
// @Tags charts
// @Produce png
// @Param name path string true "Dataset name"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/datasets/{name}/wordcloud [get]
func (h *DashboardHandler) GetWordcloud(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bundleFor(w, r)
	if !ok {
		return
	}

	data, err := os.ReadFile(b.WordcloudPath)
	if err != nil {
		h.logger.Warn("⚠️ Word cloud image missing", zap.String("dataset", b.Dataset), zap.String("path", b.WordcloudPath), zap.Error(err))
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "wordcloud_not_found",
			Message: fmt.Sprintf("Word cloud image not found at %q. Run `pipeline preprocess` to generate it.", b.WordcloudPath),
		})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListRuns godoc
// @Summary Preprocessing run history
// @Tags runs
// @Produce json
// @Success 200 {array} model.RunSummary
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/runs [get]
func (h *DashboardHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeJSON(w, http.StatusOK, []model.RunSummary{})
		return
	}
	runs, err := h.runs.ListRuns(r.Context())
	if err != nil {
		h.logger.Error("❌ Failed to list runs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_server_error"})
		return
	}
	if runs == nil {
		runs = []model.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// Helper functions

func (h *DashboardHandler) bundleFor(w http.ResponseWriter, r *http.Request) (*model.ResultBundle, bool) {
	name, _ := splitDatasetPath(r.URL.Path)
	return h.lookup(w, name)
}

func (h *DashboardHandler) lookup(w http.ResponseWriter, name string) (*model.ResultBundle, bool) {
	b, ok := h.bundles[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "dataset_not_found",
			Message: fmt.Sprintf("no cached results for dataset %q", name),
		})
		return nil, false
	}
	return b, true
}

// datasetNames lists known datasets first, then any others by name
func (h *DashboardHandler) datasetNames() []string {
	names := make([]string, 0, len(h.bundles))
	seen := make(map[string]bool)
	for _, name := range model.Datasets {
		if _, ok := h.bundles[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range h.bundles {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// splitDatasetPath splits /api/v1/datasets/{name}/{rest}
func splitDatasetPath(path string) (name, rest string) {
	trimmed := strings.Trim(strings.TrimPrefix(path, datasetsPrefix), "/")
	name, rest, _ = strings.Cut(trimmed, "/")
	return name, rest
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_limit", Message: "limit must be a non-negative integer"})
		return 0, false
	}
	return limit, true
}

// clamp maps a limit of 0 to "all rows"
func clamp(limit, n int) int {
	if limit == 0 || limit > n {
		return n
	}
	return limit
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
