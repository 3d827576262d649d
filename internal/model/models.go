package model

import "strings"

// Slot capacities of the numbered source columns
const (
	ActiveCountrySlots = 6
	TargetCountrySlots = 6
	NGONameSlots       = 5
	IssueNameSlots     = 3
)

// placeholderValues are the sentinels the source exports use instead of a real null.
var placeholderValues = map[string]bool{
	"":          true,
	"0":         true,
	"nan":       true,
	"none":      true,
	"null":      true,
	"undefined": true,
}

// IsPlaceholder reports whether s is one of the null sentinels (case-insensitive).
func IsPlaceholder(s string) bool {
	return placeholderValues[strings.ToLower(strings.TrimSpace(s))]
}

// Optional is a string value with an explicit present/absent discriminant
type Optional struct {
	Value   string `json:"value"`
	Present bool   `json:"present"`
}

// Some normalizes raw into an Optional, mapping placeholders to absent.
func Some(raw string) Optional {
	if IsPlaceholder(raw) {
		return Optional{}
	}
	return Optional{Value: strings.TrimSpace(raw), Present: true}
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) {
	return o.Value, o.Present
}

// Slots is a fixed-capacity set of optional values taken from numbered columns
// (active_country1..6, ngo_name1..5, ...).
type Slots struct {
	values []Optional
}

// NewSlots builds Slots of the given capacity. Extra raw values are ignored and
// missing ones are absent.
func NewSlots(capacity int, raw ...string) Slots {
	values := make([]Optional, capacity)
	for i := 0; i < capacity && i < len(raw); i++ {
		values[i] = Some(raw[i])
	}
	return Slots{values: values}
}

// Len returns the slot capacity.
func (s Slots) Len() int {
	return len(s.values)
}

// At returns the optional value of slot i (0-based).
func (s Slots) At(i int) Optional {
	if i < 0 || i >= len(s.values) {
		return Optional{}
	}
	return s.values[i]
}

// Set returns the distinct present values in first-seen order.
func (s Slots) Set() []string {
	seen := make(map[string]bool, len(s.values))
	out := make([]string, 0, len(s.values))
	for _, v := range s.values {
		if !v.Present || seen[v.Value] {
			continue
		}
		seen[v.Value] = true
		out = append(out, v.Value)
	}
	return out
}

// CampaignRecord is one campaign-company-NGO event
type CampaignRecord struct {
	UID             string
	Sentiment       int
	Prominence      int
	CompanyParent   Optional
	IndustrySector  Optional
	ActiveCountries Slots
	TargetCountries Slots
	NGONames        Slots
	IssueNames      Slots
}

// RecordTable is the loaded-once set of campaign records
type RecordTable struct {
	Records []CampaignRecord
	Sources []string
}

// Len returns the number of records.
func (t *RecordTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}
