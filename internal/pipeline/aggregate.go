package pipeline

import (
	"sort"

	"ngo-campaign-pipeline/internal/model"
	"ngo-campaign-pipeline/pkg/utils"
)

// DefaultTopCompanies is the row limit of the company analysis
const DefaultTopCompanies = 20

// SentimentLabels maps every documented sentiment code to its label
var SentimentLabels = map[int]string{
	-2: "Very Negative",
	-1: "Negative",
	0:  "Neutral",
	1:  "Positive",
	2:  "Very Positive",
}

// ProminenceLabels maps the non-zero prominence codes to their label
var ProminenceLabels = map[int]string{
	1: "Mentioned in document",
	2: "Mentioned in text",
	3: "First paragraph",
	4: "Headline",
}

// AnalyzeSentiment counts records per sentiment code. Percentages are relative
// to the full table.
func AnalyzeSentiment(t *model.RecordTable) ([]model.SentimentRow, error) {
	counts := make(map[int]int)
	for _, rec := range t.Records {
		if err := ValidateSentiment(rec.UID, rec.Sentiment); err != nil {
			return nil, err
		}
		counts[rec.Sentiment]++
	}

	rows := make([]model.SentimentRow, 0, len(counts))
	for _, v := range sortedKeys(counts) {
		rows = append(rows, model.SentimentRow{
			Sentiment:  SentimentLabels[v],
			Value:      v,
			Count:      counts[v],
			Percentage: percentage(counts[v], t.Len()),
		})
	}
	return rows, nil
}

// AnalyzeProminence counts records per prominence level. Records with
// prominence 0 are left out of both the counts and the denominator.
func AnalyzeProminence(t *model.RecordTable) ([]model.ProminenceRow, error) {
	counts := make(map[int]int)
	total := 0
	for _, rec := range t.Records {
		if err := ValidateProminence(rec.UID, rec.Prominence); err != nil {
			return nil, err
		}
		if rec.Prominence == 0 {
			continue
		}
		counts[rec.Prominence]++
		total++
	}

	rows := make([]model.ProminenceRow, 0, len(counts))
	for _, v := range sortedKeys(counts) {
		rows = append(rows, model.ProminenceRow{
			Level:      ProminenceLabels[v],
			Value:      v,
			Count:      counts[v],
			Percentage: percentage(counts[v], total),
		})
	}
	return rows, nil
}

// AnalyzeCompanyDistribution counts campaigns per parent company, most
// targeted first.
func AnalyzeCompanyDistribution(t *model.RecordTable) []model.CompanyCount {
	counts := make(map[string]int)
	for _, rec := range t.Records {
		if company, ok := rec.CompanyParent.Get(); ok {
			counts[company]++
		}
	}

	rows := make([]model.CompanyCount, 0, len(counts))
	for company, n := range counts {
		rows = append(rows, model.CompanyCount{Company: company, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Company < rows[j].Company
	})
	return rows
}

type companyKey struct {
	company string
	sector  string
}

type companyAccumulator struct {
	count         int
	sentimentSum  int
	prominenceSum int
}

// AnalyzeTopCompanies profiles each (company, sector) pair and returns the n
// pairs with the most campaigns. Averages include zero-prominence records.
func AnalyzeTopCompanies(t *model.RecordTable, n int) []model.CompanyProfile {
	if n <= 0 {
		n = DefaultTopCompanies
	}

	groups := make(map[companyKey]*companyAccumulator)
	for _, rec := range t.Records {
		company, ok := rec.CompanyParent.Get()
		if !ok {
			continue
		}
		sector, ok := rec.IndustrySector.Get()
		if !ok {
			continue
		}
		key := companyKey{company: company, sector: sector}
		acc, exists := groups[key]
		if !exists {
			acc = &companyAccumulator{}
			groups[key] = acc
		}
		acc.count++
		acc.sentimentSum += rec.Sentiment
		acc.prominenceSum += rec.Prominence
	}

	rows := make([]model.CompanyProfile, 0, len(groups))
	for key, acc := range groups {
		rows = append(rows, model.CompanyProfile{
			CompanyParent:  key.company,
			IndustrySector: key.sector,
			CampaignCount:  acc.count,
			AvgSentiment:   utils.Round2(float64(acc.sentimentSum) / float64(acc.count)),
			AvgProminence:  utils.Round2(float64(acc.prominenceSum) / float64(acc.count)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CampaignCount != rows[j].CampaignCount {
			return rows[i].CampaignCount > rows[j].CampaignCount
		}
		if rows[i].CompanyParent != rows[j].CompanyParent {
			return rows[i].CompanyParent < rows[j].CompanyParent
		}
		return rows[i].IndustrySector < rows[j].IndustrySector
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// AnalyzeNGODistribution counts NGO names over all name slots. Placeholder
// names were already dropped at ingestion; single-character names are noise.
func AnalyzeNGODistribution(t *model.RecordTable) []model.NGOCount {
	counts := make(map[string]int)
	for slot := 0; slot < model.NGONameSlots; slot++ {
		for _, rec := range t.Records {
			if name, ok := rec.NGONames.At(slot).Get(); ok {
				counts[name]++
			}
		}
	}

	rows := make([]model.NGOCount, 0, len(counts))
	for name, n := range counts {
		if len([]rune(name)) <= 1 {
			continue
		}
		rows = append(rows, model.NGOCount{NGO: name, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].NGO < rows[j].NGO
	})
	return rows
}

type countryPair struct {
	source string
	target string
}

// AnalyzeCountryNetwork builds the weighted active -> target country edge list
// and the per-country activity it implies.
func AnalyzeCountryNetwork(t *model.RecordTable) model.CountryNetwork {
	weights := make(map[countryPair]int)
	for _, rec := range t.Records {
		targets := rec.TargetCountries.Set()
		for _, src := range rec.ActiveCountries.Set() {
			for _, dst := range targets {
				weights[countryPair{source: src, target: dst}]++
			}
		}
	}

	edges := make([]model.CountryEdge, 0, len(weights))
	activity := make(map[string]int)
	for pair, w := range weights {
		edges = append(edges, model.CountryEdge{Source: pair.source, Target: pair.target, Weight: w})
		activity[pair.source] += w
		activity[pair.target] += w
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	rows := make([]model.CountryActivity, 0, len(activity))
	for country, a := range activity {
		rows = append(rows, model.CountryActivity{Country: country, Activity: a})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Activity != rows[j].Activity {
			return rows[i].Activity > rows[j].Activity
		}
		return rows[i].Country < rows[j].Country
	})

	return model.CountryNetwork{Edges: edges, Activity: rows}
}

// Analyze runs the six aggregators over one dataset view.
func Analyze(dataset string, t *model.RecordTable, topN int) (*model.ResultBundle, error) {
	sentiment, err := AnalyzeSentiment(t)
	if err != nil {
		return nil, err
	}
	prominence, err := AnalyzeProminence(t)
	if err != nil {
		return nil, err
	}

	return &model.ResultBundle{
		Dataset:             dataset,
		RecordCount:         t.Len(),
		Sentiment:           sentiment,
		Prominence:          prominence,
		NGODistribution:     AnalyzeNGODistribution(t),
		CompanyDistribution: AnalyzeCompanyDistribution(t),
		CompaniesAnalysis:   AnalyzeTopCompanies(t, topN),
		CountryNetwork:      AnalyzeCountryNetwork(t),
		Keywords:            []model.KeywordWeight{},
	}, nil
}

// Helper functions

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return utils.Round2(float64(count) / float64(total) * 100)
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
