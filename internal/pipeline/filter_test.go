package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ngo-campaign-pipeline/internal/model"
)

func TestFilterBySector_Scenario(t *testing.T) {
	table := scenarioTable()
	finance := FilterBySector(table, []string{"bank"})

	assert.Equal(t, table.Records[:2], finance.Records)
}

func TestFilterBySector_CaseInsensitiveSubstring(t *testing.T) {
	table := tableOf(
		campaign{sector: "Investment BANKING"},
		campaign{sector: "Life Insurance"},
		campaign{sector: "Mining"},
		campaign{sector: "nan"},
		campaign{sector: ""},
	)
	finance := FilterBySector(table, model.DefaultFinanceKeywords)

	assert.Equal(t, 2, finance.Len())
	for _, rec := range finance.Records {
		_, ok := rec.IndustrySector.Get()
		assert.True(t, ok)
	}
}

func TestFilterBySector_Idempotent(t *testing.T) {
	table := tableOf(
		campaign{sector: "Commercial Banks"},
		campaign{sector: "Asset Management"},
		campaign{sector: "Oil & Gas"},
	)
	once := FilterBySector(table, model.DefaultFinanceKeywords)
	twice := FilterBySector(once, model.DefaultFinanceKeywords)

	assert.Equal(t, once.Records, twice.Records)
}

func TestFilterBySector_EmptyResult(t *testing.T) {
	finance := FilterBySector(tableOf(campaign{sector: "Retail"}), []string{"bank", "  "})

	assert.NotNil(t, finance.Records)
	assert.Zero(t, finance.Len())
	assert.Zero(t, FilterBySector(nil, []string{"bank"}).Len())
}
