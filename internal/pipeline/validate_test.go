package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCampaignRecord(t *testing.T) {
	rec := GenericRecord{
		"uid_archive":           "C-17",
		"sentiment":             "-1",
		"prominence":            float64(3),
		"company_parent":        "Acme Holdings",
		"corp_industry_sector1": "nan",
		"active_country1":       "United States",
		"active_country2":       "0",
		"target_country1":       "Brazil",
		"ngo_name1":             "Greenpeace",
		"ngo_name3":             "None",
		"issue_name1":           "Deforestation",
	}

	cr, err := ToCampaignRecord(rec)
	require.NoError(t, err)

	assert.Equal(t, "C-17", cr.UID)
	assert.Equal(t, -1, cr.Sentiment)
	assert.Equal(t, 3, cr.Prominence)

	company, ok := cr.CompanyParent.Get()
	assert.True(t, ok)
	assert.Equal(t, "Acme Holdings", company)
	_, ok = cr.IndustrySector.Get()
	assert.False(t, ok, "placeholder sector is absent")

	assert.Equal(t, []string{"United States"}, cr.ActiveCountries.Set())
	assert.Equal(t, []string{"Brazil"}, cr.TargetCountries.Set())
	assert.Equal(t, []string{"Greenpeace"}, cr.NGONames.Set())
	assert.Equal(t, 5, cr.NGONames.Len())
	assert.Equal(t, []string{"Deforestation"}, cr.IssueNames.Set())
}

func TestToCampaignRecord_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rec     GenericRecord
		field   string
		wantErr error
	}{
		{
			name:    "missing sentiment",
			rec:     GenericRecord{ColProminence: "1"},
			field:   ColSentiment,
			wantErr: ErrMissingField,
		},
		{
			name:    "blank prominence",
			rec:     GenericRecord{ColSentiment: "1", ColProminence: " "},
			field:   ColProminence,
			wantErr: ErrMissingField,
		},
		{
			name:    "sentiment out of range",
			rec:     GenericRecord{ColSentiment: "-3", ColProminence: "1"},
			field:   ColSentiment,
			wantErr: ErrOutOfRange,
		},
		{
			name:    "prominence out of range",
			rec:     GenericRecord{ColSentiment: "0", ColProminence: float64(7)},
			field:   ColProminence,
			wantErr: ErrOutOfRange,
		},
		{
			name:  "value label instead of code",
			rec:   GenericRecord{ColUID: "L-3", ColSentiment: "Positive", ColProminence: "1"},
			field: ColSentiment,
		},
		{
			name:  "fractional code",
			rec:   GenericRecord{ColSentiment: "1.5", ColProminence: "1"},
			field: ColSentiment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToCampaignRecord(tt.rec)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRecordUIDFallsBackToPosition(t *testing.T) {
	rec := GenericRecord{ColSentiment: "9", ColProminence: "1", sourceKey: "raw/a.csv", rowKey: 4}

	_, err := ToCampaignRecord(rec)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "raw/a.csv#4", verr.UID)
}

func TestNormalizeRecordsStopsAtFirstInvalid(t *testing.T) {
	rows := []GenericRecord{
		{ColUID: "1", ColSentiment: "1", ColProminence: "1"},
		{ColUID: "2", ColSentiment: "5", ColProminence: "1"},
	}
	records, err := NormalizeRecords(rows)
	assert.Nil(t, records)
	assert.ErrorContains(t, err, "record 2")
}

func TestToCampaignRecord_ValueLabelNamesRow(t *testing.T) {
	rec := GenericRecord{ColUID: "u1", ColSentiment: "Positive", ColProminence: "0"}

	_, err := ToCampaignRecord(rec)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "u1", verr.UID)
	assert.Equal(t, ColSentiment, verr.Field)
	assert.ErrorContains(t, err, "not an integer code")
}
