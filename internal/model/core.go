package model

// Dataset names of the two persisted views
const (
	DatasetCombined = "combined"
	DatasetFinance  = "finance"
)

// Datasets lists the views in the order they are produced and displayed
var Datasets = []string{DatasetCombined, DatasetFinance}

// DatasetLabel returns the selector label of a dataset view.
func DatasetLabel(name string) string {
	switch name {
	case DatasetCombined:
		return "All Companies"
	case DatasetFinance:
		return "Financial Sector"
	default:
		return name
	}
}

// DefaultFinanceKeywords selects the financial-sector subset by industry sector
var DefaultFinanceKeywords = []string{
	"finance", "bank", "insurance", "invest",
	"asset", "capital", "credit", "financial",
	"fund", "wealth", "securities", "trading",
}

// RunSpec defines one offline preprocessing run
type RunSpec struct {
	InputDir        string   `json:"input_dir" yaml:"input_dir"`
	DataDir         string   `json:"data_dir" yaml:"data_dir"`
	FinanceKeywords []string `json:"finance_keywords" yaml:"finance_keywords"`
	TopN            int      `json:"top_n" yaml:"top_n"`
	LoadWorkers     int      `json:"load_workers" yaml:"load_workers"`
	ExportCSV       bool     `json:"export_csv" yaml:"export_csv"`
	WordcloudSeed   int64    `json:"wordcloud_seed,omitempty" yaml:"wordcloud_seed"` // 0 = random layout
}
