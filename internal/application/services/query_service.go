package services

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/pkg/coerce"
)

// ParseSearchKeywords splits comma-separated search input into lowercased,
// non-blank keywords.
func ParseSearchKeywords(input string) []string {
	var keywords []string
	for _, token := range strings.Split(input, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// WithComputedFields returns copies of the dataset's places carrying the
// distance to state.Center (nil without a center) and the open state at
// state.ReferenceTime.
func WithComputedFields(dataset *entities.Dataset, state entities.QueryState) []entities.Place {
	out := make([]entities.Place, len(dataset.Places))
	for i := range dataset.Places {
		place := dataset.Places[i]
		place.DistanceM = nil
		if state.Center != nil {
			if d, ok := DistanceMeters(place.X, place.Y, state.Center.X, state.Center.Y); ok {
				place.DistanceM = &d
			}
		}
		var detailHours any
		if raw := dataset.Raw[place.Index]; raw != nil {
			detailHours = raw["detailHours"]
		}
		out[i] = place.WithOpenState(ComputeOpenState(&place, detailHours, state.ReferenceTime))
	}
	return out
}

// ApplyQuery computes per-query fields, filters the dataset by every
// selection in state and sorts the remainder.
func ApplyQuery(dataset *entities.Dataset, state entities.QueryState) []entities.Place {
	if dataset == nil {
		return []entities.Place{}
	}

	places := WithComputedFields(dataset, state)
	fields := dataset.FieldIndex()
	keywords := ParseSearchKeywords(state.Search)

	var maxDistance *int
	if state.Center != nil {
		maxDistance = state.MaxDistanceM
	}

	result := make([]entities.Place, 0, len(places))
	for i := range places {
		p := &places[i]

		if p.ReviewCount < state.MinReviewCount {
			continue
		}
		if maxDistance != nil && (p.DistanceM == nil || *p.DistanceM > *maxDistance) {
			continue
		}
		if isActiveFilter(state.OpenMode) && p.OpenAtRefCode != state.OpenMode {
			continue
		}
		if isActiveFilter(state.TopKeyword) && p.TopKeyword != state.TopKeyword {
			continue
		}
		if isActiveFilter(state.PriceTier) && PriceTierSymbol(p.PriceCategory) != state.PriceTier {
			continue
		}
		if !matchConveniences(p.Conveniences, state.Conveniences, state.ConvenienceMode) {
			continue
		}
		if !matchKeywords(p, keywords) {
			continue
		}
		if !EvaluateRuleSet(p, state.Rules, state.RuleMode, fields, dataset.Raw) {
			continue
		}
		result = append(result, *p)
	}

	SortPlaces(result, state.Sort, dataset.Raw)
	return result
}

func isActiveFilter(v string) bool {
	return v != "" && v != entities.FilterAll
}

func matchConveniences(have, selected []string, mode entities.RuleMode) bool {
	if len(selected) == 0 {
		return true
	}
	if mode == entities.RuleModeAny {
		for _, s := range selected {
			if slices.Contains(have, s) {
				return true
			}
		}
		return false
	}
	for _, s := range selected {
		if !slices.Contains(have, s) {
			return false
		}
	}
	return true
}

func matchKeywords(p *entities.Place, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	openLabel := strings.ToLower(p.OpenAtRefLabel)
	for _, k := range keywords {
		if strings.Contains(p.SearchText, k) || strings.Contains(openLabel, k) {
			return true
		}
	}
	return false
}

// SortPlaces orders places by each key in turn. Missing values sort last in
// either direction; ties keep their current order.
func SortPlaces(places []entities.Place, keys []entities.SortKey, raw map[int]entities.RawRecord) {
	if len(keys) == 0 {
		return
	}
	col := collate.New(language.Korean, collate.Numeric)
	sort.SliceStable(places, func(i, j int) bool {
		for _, key := range keys {
			a := FieldValue(&places[i], key.Field, raw)
			b := FieldValue(&places[j], key.Field, raw)
			aMissing, bMissing := isEmptyValue(a), isEmptyValue(b)
			switch {
			case aMissing && bMissing:
				continue
			case aMissing:
				return false
			case bMissing:
				return true
			}
			c := compareValues(col, a, b)
			if c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareValues(col *collate.Collator, a, b any) int {
	if an, ok := a.(float64); ok {
		if bn, ok := b.(float64); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			}
			return 1
		}
	}
	an, aok := coerce.ToNumberOrNull(a)
	bn, bok := coerce.ToNumberOrNull(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return col.CompareString(coerce.ToText(a), coerce.ToText(b))
}
