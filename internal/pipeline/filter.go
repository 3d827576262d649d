package pipeline

import (
	"strings"

	"ngo-campaign-pipeline/internal/model"
)

// FilterBySector keeps the records whose industry sector contains any keyword
// (case-insensitive). Records without a sector never match.
func FilterBySector(t *model.RecordTable, keywords []string) *model.RecordTable {
	out := &model.RecordTable{Records: []model.CampaignRecord{}}
	if t == nil {
		return out
	}
	out.Sources = t.Sources

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	for _, rec := range t.Records {
		sector, ok := rec.IndustrySector.Get()
		if !ok {
			continue
		}
		sector = strings.ToLower(sector)
		for _, k := range lowered {
			if strings.Contains(sector, k) {
				out.Records = append(out.Records, rec)
				break
			}
		}
	}
	return out
}
