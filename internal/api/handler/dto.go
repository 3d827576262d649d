package handler

import "ngo-campaign-pipeline/internal/model"

// ErrorResponse is the body of every non-2xx JSON answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse reports liveness and the number of cached datasets
type HealthResponse struct {
	Status   string `json:"status"`
	Datasets int    `json:"datasets"`
}

// DatasetInfo describes one entry of the dataset selector
type DatasetInfo struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	RecordCount int    `json:"record_count"`
	RunID       string `json:"run_id"`
	HasImage    bool   `json:"has_wordcloud"`
}

// SentimentResponse carries the sentiment rows and the campaign total
type SentimentResponse struct {
	Dataset        string               `json:"dataset"`
	TotalCampaigns int                  `json:"total_campaigns"`
	Rows           []model.SentimentRow `json:"rows"`
}

// ProminenceResponse carries the prominence rows
type ProminenceResponse struct {
	Dataset string                `json:"dataset"`
	Rows    []model.ProminenceRow `json:"rows"`
}

// NGOResponse is a page of the NGO distribution; Total counts all rows
type NGOResponse struct {
	Dataset string           `json:"dataset"`
	Total   int              `json:"total"`
	Rows    []model.NGOCount `json:"rows"`
}

// CompanyResponse is a page of the company distribution; Total counts all rows
type CompanyResponse struct {
	Dataset string               `json:"dataset"`
	Total   int                  `json:"total"`
	Rows    []model.CompanyCount `json:"rows"`
}

// TopCompaniesResponse carries the company profiles
type TopCompaniesResponse struct {
	Dataset string                 `json:"dataset"`
	Rows    []model.CompanyProfile `json:"rows"`
}

// CountryResponse carries per-country activity
type CountryResponse struct {
	Dataset string                  `json:"dataset"`
	Rows    []model.CountryActivity `json:"rows"`
}

// NetworkResponse carries the country edge list and activity
type NetworkResponse struct {
	Dataset string               `json:"dataset"`
	Network model.CountryNetwork `json:"network"`
}

// KeywordResponse carries the weighted issue keywords
type KeywordResponse struct {
	Dataset string                `json:"dataset"`
	Rows    []model.KeywordWeight `json:"rows"`
}
