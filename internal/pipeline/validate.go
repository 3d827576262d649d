package pipeline

import (
	"fmt"
	"strings"

	"ngo-campaign-pipeline/internal/model"
	"ngo-campaign-pipeline/pkg/utils"
)

// Source column names
const (
	ColUID            = "uid_archive"
	ColSentiment      = "sentiment"
	ColProminence     = "prominence"
	ColCompanyParent  = "company_parent"
	ColIndustrySector = "corp_industry_sector1"
	ColActiveCountry  = "active_country"
	ColTargetCountry  = "target_country"
	ColNGOName        = "ngo_name"
	ColIssueName      = "issue_name"
)

// Documented domains of the coded fields
const (
	MinSentiment  = -2
	MaxSentiment  = 2
	MinProminence = 0
	MaxProminence = 4
)

// NormalizeRecords converts raw rows into campaign records. It stops at the
// first row that breaks the documented domain.
func NormalizeRecords(rows []GenericRecord) ([]model.CampaignRecord, error) {
	records := make([]model.CampaignRecord, 0, len(rows))
	for _, rec := range rows {
		cr, err := ToCampaignRecord(rec)
		if err != nil {
			return nil, err
		}
		records = append(records, cr)
	}
	return records, nil
}

// ToCampaignRecord validates a raw row and maps placeholder sentinels to
// absent values.
func ToCampaignRecord(rec GenericRecord) (model.CampaignRecord, error) {
	uid := recordUID(rec)

	sentiment, err := codedField(rec, uid, ColSentiment, MinSentiment, MaxSentiment)
	if err != nil {
		return model.CampaignRecord{}, err
	}
	prominence, err := codedField(rec, uid, ColProminence, MinProminence, MaxProminence)
	if err != nil {
		return model.CampaignRecord{}, err
	}

	return model.CampaignRecord{
		UID:             uid,
		Sentiment:       sentiment,
		Prominence:      prominence,
		CompanyParent:   model.Some(utils.StringValue(rec[ColCompanyParent])),
		IndustrySector:  model.Some(utils.StringValue(rec[ColIndustrySector])),
		ActiveCountries: slotsOf(rec, ColActiveCountry, model.ActiveCountrySlots),
		TargetCountries: slotsOf(rec, ColTargetCountry, model.TargetCountrySlots),
		NGONames:        slotsOf(rec, ColNGOName, model.NGONameSlots),
		IssueNames:      slotsOf(rec, ColIssueName, model.IssueNameSlots),
	}, nil
}

// ValidateSentiment checks a sentiment code against its enumeration.
func ValidateSentiment(uid string, v int) error {
	if v < MinSentiment || v > MaxSentiment {
		return &ValidationError{UID: uid, Field: ColSentiment, Value: v, Err: ErrOutOfRange}
	}
	return nil
}

// ValidateProminence checks a prominence code against its enumeration.
func ValidateProminence(uid string, v int) error {
	if v < MinProminence || v > MaxProminence {
		return &ValidationError{UID: uid, Field: ColProminence, Value: v, Err: ErrOutOfRange}
	}
	return nil
}

func codedField(rec GenericRecord, uid, field string, min, max int) (int, error) {
	raw, ok := rec[field]
	if !ok || raw == nil || strings.TrimSpace(utils.StringValue(raw)) == "" {
		return 0, &ValidationError{UID: uid, Field: field, Value: raw, Err: ErrMissingField}
	}
	v, ok := utils.IntValue(raw)
	if !ok {
		return 0, &ValidationError{UID: uid, Field: field, Value: raw, Err: fmt.Errorf("not an integer code")}
	}
	if v < min || v > max {
		return 0, &ValidationError{UID: uid, Field: field, Value: v, Err: ErrOutOfRange}
	}
	return v, nil
}

func slotsOf(rec GenericRecord, prefix string, capacity int) model.Slots {
	raw := make([]string, capacity)
	for i := range raw {
		raw[i] = utils.StringValue(rec[fmt.Sprintf("%s%d", prefix, i+1)])
	}
	return model.NewSlots(capacity, raw...)
}

// recordUID falls back to the file position when the row carries no id
func recordUID(rec GenericRecord) string {
	for _, key := range []string{ColUID, "uid"} {
		if v := strings.TrimSpace(utils.StringValue(rec[key])); v != "" {
			return v
		}
	}
	source := utils.StringValue(rec[sourceKey])
	return fmt.Sprintf("%s#%s", source, utils.StringValue(rec[rowKey]))
}
