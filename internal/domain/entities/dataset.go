package entities

import "time"

// ConvenienceCount is one entry of the convenience facet.
type ConvenienceCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// KeywordCount is one entry of the top-keyword facet.
type KeywordCount struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Count   int    `json:"count" yaml:"count"`
}

// PriceTierBucket groups places sharing a price tier symbol.
type PriceTierBucket struct {
	Tier       string   `json:"tier" yaml:"tier"`
	Count      int      `json:"count" yaml:"count"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Dataset is everything derived from one successfully loaded file.
// It is replaced wholesale on the next load and never modified in place.
type Dataset struct {
	ID           string
	Name         string
	Places       []Place
	Raw          map[int]RawRecord
	Fields       []FieldDef
	Conveniences []ConvenienceCount
	TopKeywords  []KeywordCount
	PriceTiers   []PriceTierBucket
	LoadedAt     time.Time
}

// FieldIndex returns the dataset's fields keyed by field key.
func (d *Dataset) FieldIndex() map[string]FieldDef {
	index := make(map[string]FieldDef, len(d.Fields))
	for _, f := range d.Fields {
		index[f.Key] = f
	}
	return index
}

// CenterCandidate is a geocoded point the user can pick as distance center.
type CenterCandidate struct {
	ID    string  `json:"id" yaml:"id"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label string  `json:"label" yaml:"label"`
}
