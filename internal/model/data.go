package model

import "time"

// SentimentRow is one row of the sentiment distribution
type SentimentRow struct {
	Sentiment  string  `json:"sentiment"`
	Value      int     `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ProminenceRow is one row of the prominence distribution
type ProminenceRow struct {
	Level      string  `json:"level"`
	Value      int     `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CompanyCount is the number of campaigns targeting a parent company
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// CompanyProfile summarizes campaigns per (company, sector)
type CompanyProfile struct {
	CompanyParent  string  `json:"company_parent"`
	IndustrySector string  `json:"industry_sector"`
	CampaignCount  int     `json:"campaign_count"`
	AvgSentiment   float64 `json:"avg_sentiment"`
	AvgProminence  float64 `json:"avg_prominence"`
}

// NGOCount is the number of campaign slots naming an NGO
type NGOCount struct {
	NGO   string `json:"ngo"`
	Count int    `json:"count"`
}

// CountryEdge is a weighted active -> target country pair
type CountryEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// CountryActivity is the total edge weight touching a country
type CountryActivity struct {
	Country  string `json:"country"`
	Activity int    `json:"activity"`
}

// CountryNetwork holds the edge list and the derived activity table
type CountryNetwork struct {
	Edges    []CountryEdge     `json:"edges"`
	Activity []CountryActivity `json:"activity"`
}

// KeywordWeight is one entry of the keyword cloud
type KeywordWeight struct {
	Text   string  `json:"text"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// ResultBundle is the precomputed set of aggregates for one dataset view
type ResultBundle struct {
	Dataset             string           `json:"dataset"`
	RunID               string           `json:"run_id"`
	GeneratedAt         time.Time        `json:"generated_at"`
	RecordCount         int              `json:"record_count"`
	Sentiment           []SentimentRow   `json:"sentiment"`
	Prominence          []ProminenceRow  `json:"prominence"`
	NGODistribution     []NGOCount       `json:"ngo_distribution"`
	CompanyDistribution []CompanyCount   `json:"company_distribution"`
	CompaniesAnalysis   []CompanyProfile `json:"companies_analysis"`
	CountryNetwork      CountryNetwork   `json:"country_network"`
	Keywords            []KeywordWeight  `json:"keywords"`
	WordcloudPath       string           `json:"wordcloud_path"`
}

// ExportResult represents the result of an export operation. Type is "json"
// or "csv".
type ExportResult struct {
	Type        string    `json:"type"`
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
