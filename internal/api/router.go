package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "ngo-campaign-pipeline/docs"
	"ngo-campaign-pipeline/internal/api/handler"
	"ngo-campaign-pipeline/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.DashboardHandler) {
	r.GET("/healthz", h.Health)
	r.GET("/api/v1/datasets", h.ListDatasets)
	r.GET("/api/v1/runs", h.ListRuns)
	// More specific routes first
	r.GET("/api/v1/datasets/*/sentiment", h.GetSentiment)
	r.GET("/api/v1/datasets/*/prominence", h.GetProminence)
	r.GET("/api/v1/datasets/*/ngos", h.GetNGOs)
	r.GET("/api/v1/datasets/*/companies", h.GetCompanies)
	r.GET("/api/v1/datasets/*/top-companies", h.GetTopCompanies)
	r.GET("/api/v1/datasets/*/countries", h.GetCountries)
	r.GET("/api/v1/datasets/*/network", h.GetNetwork)
	r.GET("/api/v1/datasets/*/keywords", h.GetKeywords)
	r.GET("/api/v1/datasets/*/wordcloud", h.GetWordcloud)
	// Generic dataset route last
	r.GET("/api/v1/datasets/*", h.GetDataset)

	r.Handle(http.MethodGet, "/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
