package pipeline

import (
	"ngo-campaign-pipeline/internal/model"
)

// campaign builds a record for aggregator tests
type campaign struct {
	sentiment  int
	prominence int
	company    string
	sector     string
	ngos       []string
	active     []string
	targets    []string
	issues     []string
}

func (c campaign) record(uid string) model.CampaignRecord {
	return model.CampaignRecord{
		UID:             uid,
		Sentiment:       c.sentiment,
		Prominence:      c.prominence,
		CompanyParent:   model.Some(c.company),
		IndustrySector:  model.Some(c.sector),
		ActiveCountries: model.NewSlots(model.ActiveCountrySlots, c.active...),
		TargetCountries: model.NewSlots(model.TargetCountrySlots, c.targets...),
		NGONames:        model.NewSlots(model.NGONameSlots, c.ngos...),
		IssueNames:      model.NewSlots(model.IssueNameSlots, c.issues...),
	}
}

func tableOf(cs ...campaign) *model.RecordTable {
	t := &model.RecordTable{Records: make([]model.CampaignRecord, 0, len(cs))}
	for i, c := range cs {
		t.Records = append(t.Records, c.record(string(rune('a'+i))))
	}
	return t
}

// scenarioTable is the three-record end-to-end example
func scenarioTable() *model.RecordTable {
	return tableOf(
		campaign{sentiment: 1, prominence: 0, company: "Acme", sector: "Banking", ngos: []string{"Greenpeace"}},
		campaign{sentiment: -1, prominence: 3, company: "Acme", sector: "Banking", ngos: []string{"0"}},
		campaign{sentiment: 0, prominence: 0, company: "Beta", sector: "Retail", ngos: []string{"WWF"}},
	)
}
