package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

// BuildConvenienceCatalog counts each convenience across places, most
// frequent first, ties in Korean collation order.
func BuildConvenienceCatalog(places []entities.Place) []entities.ConvenienceCount {
	counts, order := countLabels(places, func(p *entities.Place) []string { return p.Conveniences })

	out := make([]entities.ConvenienceCount, 0, len(order))
	for _, name := range order {
		out = append(out, entities.ConvenienceCount{Name: name, Count: counts[name]})
	}
	col := collate.New(language.Korean)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// BuildTopKeywordCatalog counts non-blank top keywords across places.
func BuildTopKeywordCatalog(places []entities.Place) []entities.KeywordCount {
	counts, order := countLabels(places, func(p *entities.Place) []string {
		keyword := strings.TrimSpace(p.TopKeyword)
		if keyword == "" {
			return nil
		}
		return []string{keyword}
	})

	out := make([]entities.KeywordCount, 0, len(order))
	for _, keyword := range order {
		out = append(out, entities.KeywordCount{Keyword: keyword, Count: counts[keyword]})
	}
	col := collate.New(language.Korean)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return col.CompareString(out[i].Keyword, out[j].Keyword) < 0
	})
	return out
}

// BuildPriceTierCatalog buckets places by price tier symbol, lightest tier
// first. Places without a tier are left out.
func BuildPriceTierCatalog(places []entities.Place) []entities.PriceTierBucket {
	type bucket struct {
		count      int
		categories map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	var tiers []string

	for i := range places {
		category := NormalizePriceCategory(places[i].PriceCategory)
		if category == "" {
			continue
		}
		tier := PriceTierSymbol(category)
		if tier == PriceTierUnset {
			continue
		}
		b, ok := buckets[tier]
		if !ok {
			b = &bucket{categories: make(map[string]struct{})}
			buckets[tier] = b
			tiers = append(tiers, tier)
		}
		b.count++
		b.categories[category] = struct{}{}
	}

	col := collate.New(language.Korean)
	out := make([]entities.PriceTierBucket, 0, len(tiers))
	for _, tier := range tiers {
		b := buckets[tier]
		categories := make([]string, 0, len(b.categories))
		for c := range b.categories {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool {
			if c := col.CompareString(categories[i], categories[j]); c != 0 {
				return c < 0
			}
			return categories[i] < categories[j]
		})
		out = append(out, entities.PriceTierBucket{Tier: tier, Count: b.count, Categories: categories})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].Tier) < utf8.RuneCountInString(out[j].Tier)
	})
	return out
}

func countLabels(places []entities.Place, labels func(*entities.Place) []string) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for i := range places {
		for _, label := range labels(&places[i]) {
			if _, ok := counts[label]; !ok {
				order = append(order, label)
			}
			counts[label]++
		}
	}
	return counts, order
}
