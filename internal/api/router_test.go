package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ngo-campaign-pipeline/internal/api/handler"
	"ngo-campaign-pipeline/internal/model"
	"ngo-campaign-pipeline/pkg/router"
)

func newTestServer() *router.Router {
	bundles := map[string]*model.ResultBundle{
		model.DatasetCombined: {
			Dataset:     model.DatasetCombined,
			RecordCount: 3,
			Keywords:    []model.KeywordWeight{{Text: "deforestation", Count: 2, Weight: 1}},
		},
	}
	r := router.New(zap.NewNop())
	RegisterRoutes(r, handler.NewDashboardHandler(bundles, nil, zap.NewNop()))
	return r
}

func TestRegisterRoutes_Dispatch(t *testing.T) {
	r := newTestServer()

	tests := []struct {
		path       string
		wantStatus int
		wantKey    string
	}{
		{"/healthz", http.StatusOK, "status"},
		{"/api/v1/runs", http.StatusOK, ""},
		{"/api/v1/datasets/combined", http.StatusOK, "record_count"},
		{"/api/v1/datasets/combined/sentiment", http.StatusOK, "total_campaigns"},
		{"/api/v1/datasets/combined/prominence", http.StatusOK, "rows"},
		{"/api/v1/datasets/combined/ngos", http.StatusOK, "total"},
		{"/api/v1/datasets/combined/companies", http.StatusOK, "total"},
		{"/api/v1/datasets/combined/top-companies", http.StatusOK, "rows"},
		{"/api/v1/datasets/combined/countries", http.StatusOK, "rows"},
		{"/api/v1/datasets/combined/network", http.StatusOK, "network"},
		{"/api/v1/datasets/combined/keywords", http.StatusOK, "rows"},
		{"/api/v1/datasets/combined/wordcloud", http.StatusNotFound, "error"},
		{"/api/v1/datasets/finance/sentiment", http.StatusNotFound, "error"},
		{"/api/v1/datasets/combined/unknown", http.StatusNotFound, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantKey == "" {
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, tt.wantKey)
		})
	}
}

func TestRegisterRoutes_KeywordsPayload(t *testing.T) {
	r := newTestServer()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/combined/keywords", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.KeywordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.DatasetCombined, resp.Dataset)
	assert.Equal(t, "deforestation", resp.Rows[0].Text)
}

func TestRegisterRoutes_SwaggerDoc(t *testing.T) {
	r := newTestServer()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "NGO Campaign Dashboard API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/v1/datasets/{name}/wordcloud")
}

func TestRegisterRoutes_MethodNotAllowed(t *testing.T) {
	r := newTestServer()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/datasets/combined/sentiment", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
