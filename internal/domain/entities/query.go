package entities

import "time"

// FieldType is the value type a filterable field is compared as.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

// FieldSource tells whether a field comes from a Place attribute or straight
// from the raw record.
type FieldSource string

const (
	FieldSourceDerived FieldSource = "derived"
	FieldSourceRaw     FieldSource = "raw"
)

// RawFieldPrefix marks a field key that reads the raw record instead of the Place.
const RawFieldPrefix = "raw."

// FieldDef describes one field the advanced rule builder can target
type FieldDef struct {
	Key    string      `json:"key" yaml:"key"`
	Label  string      `json:"label" yaml:"label"`
	Type   FieldType   `json:"type" yaml:"type"`
	Source FieldSource `json:"source" yaml:"source"`
}

// RuleMode combines several predicates.
type RuleMode string

const (
	RuleModeAll RuleMode = "all"
	RuleModeAny RuleMode = "any"
)

// AdvancedRule is a single user-authored predicate
type AdvancedRule struct {
	ID     int    `json:"id" yaml:"id"`
	Field  string `json:"field" yaml:"field"`
	Op     string `json:"op" yaml:"op"`
	Value1 string `json:"value1" yaml:"value1"`
	Value2 string `json:"value2" yaml:"value2"`
}

// Coordinates is a longitude/latitude pair in the source's x/y convention.
type Coordinates struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// SortKey orders results by one field.
type SortKey struct {
	Field string `json:"field" yaml:"field"`
	Desc  bool   `json:"desc" yaml:"desc"`
}

// FilterAll disables a single-choice filter.
const FilterAll = "all"

// QueryState carries every search, filter and sort selection applied to a dataset.
// It is passed by value; the pipeline never keeps a reference to it.
type QueryState struct {
	Search          string
	MinReviewCount  float64
	MaxDistanceM    *int
	Center          *Coordinates
	ReferenceTime   time.Time
	OpenMode        string
	TopKeyword      string
	PriceTier       string
	Conveniences    []string
	ConvenienceMode RuleMode
	Rules           []AdvancedRule
	RuleMode        RuleMode
	Sort            []SortKey
}

// DefaultQueryState returns a state that keeps every place except those under
// the minimum review count.
func DefaultQueryState(minReview float64, ref time.Time) QueryState {
	return QueryState{
		MinReviewCount:  minReview,
		ReferenceTime:   ref,
		OpenMode:        FilterAll,
		TopKeyword:      FilterAll,
		PriceTier:       FilterAll,
		ConvenienceMode: RuleModeAll,
		RuleMode:        RuleModeAll,
	}
}
