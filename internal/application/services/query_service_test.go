package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

const queryFixture = `[
	{"id": "1", "name": "알파 카페", "reviewCount": 100, "options": "주차, 발렛",
	 "x": 127.001, "y": 37.001, "priceCategory": "1만원 이하",
	 "details": [{"displayName": "맛있어요", "count": 10}],
	 "detailHours": [{"day": "매일", "businessHours": {"start": "09:00", "end": "18:00"}}]},
	{"id": "2", "name": "베타 식당", "reviewCount": 60, "options": "주차",
	 "x": 127.01, "y": 37.0, "priceCategory": "2만원대",
	 "details": [{"displayName": "친절해요", "count": 5}]},
	{"id": "3", "name": "감마 바", "reviewCount": 10, "options": "와이파이",
	 "x": 127.0, "y": 37.0},
	{"id": "4", "name": "델타", "reviewCount": "80",
	 "details": [{"displayName": "맛있어요", "count": 3}]}
]`

func loadDataset(t *testing.T, doc string) *entities.Dataset {
	t.Helper()
	parsed, err := ParseDataset([]byte(doc))
	require.NoError(t, err)
	return &entities.Dataset{
		Places:       parsed.Places,
		Raw:          parsed.Raw,
		Fields:       BuildFieldCatalog(parsed.Places, parsed.Raw),
		Conveniences: BuildConvenienceCatalog(parsed.Places),
		TopKeywords:  BuildTopKeywordCatalog(parsed.Places),
		PriceTiers:   BuildPriceTierCatalog(parsed.Places),
	}
}

func ids(places []entities.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestParseSearchKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, ParseSearchKeywords(" A, ,B C ,"))
	assert.Empty(t, ParseSearchKeywords(" , "))
}

func TestApplyQuery_Filters(t *testing.T) {
	dataset := loadDataset(t, queryFixture)
	base := entities.DefaultQueryState(50, monday(12, 0))

	tests := []struct {
		name     string
		mutate   func(*entities.QueryState)
		expected []string
	}{
		{"min review only", func(s *entities.QueryState) {}, []string{"1", "2", "4"}},
		{"no minimum", func(s *entities.QueryState) { s.MinReviewCount = 0 }, []string{"1", "2", "3", "4"}},
		{"search any keyword", func(s *entities.QueryState) { s.Search = "베타, 없는말" }, []string{"2"}},
		{"search matches open label", func(s *entities.QueryState) { s.Search = "영업중" }, []string{"1"}},
		{"open mode", func(s *entities.QueryState) { s.OpenMode = entities.OpenCodeOpen }, []string{"1"}},
		{"top keyword", func(s *entities.QueryState) { s.TopKeyword = "맛있어요" }, []string{"1", "4"}},
		{"price tier", func(s *entities.QueryState) { s.PriceTier = PriceTier2 }, []string{"2"}},
		{"conveniences all", func(s *entities.QueryState) {
			s.Conveniences = []string{"주차", "발렛"}
		}, []string{"1"}},
		{"conveniences any", func(s *entities.QueryState) {
			s.Conveniences = []string{"발렛", "주차"}
			s.ConvenienceMode = entities.RuleModeAny
		}, []string{"1", "2"}},
		{"max distance without center is ignored", func(s *entities.QueryState) {
			s.MaxDistanceM = intPtr(10)
		}, []string{"1", "2", "4"}},
		{"max distance with center", func(s *entities.QueryState) {
			s.MinReviewCount = 0
			s.Center = &entities.Coordinates{X: 127, Y: 37}
			s.MaxDistanceM = intPtr(500)
		}, []string{"1", "3"}},
		{"rules", func(s *entities.QueryState) {
			s.Rules = []entities.AdvancedRule{{ID: 1, Field: "name", Op: OpContains, Value1: "카페"}}
		}, []string{"1"}},
		{"rules any", func(s *entities.QueryState) {
			s.RuleMode = entities.RuleModeAny
			s.Rules = []entities.AdvancedRule{
				{ID: 1, Field: "name", Op: OpContains, Value1: "카페"},
				{ID: 2, Field: "reviewCount", Op: OpBetween, Value1: "90", Value2: "70"},
			}
		}, []string{"1", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := base
			tt.mutate(&state)
			assert.Equal(t, tt.expected, ids(ApplyQuery(dataset, state)))
		})
	}
}

func TestApplyQuery_ComputedFields(t *testing.T) {
	dataset := loadDataset(t, queryFixture)
	state := entities.DefaultQueryState(0, monday(12, 0))
	state.Center = &entities.Coordinates{X: 127, Y: 37}

	result := ApplyQuery(dataset, state)
	require.Len(t, result, 4)
	require.NotNil(t, result[0].DistanceM)
	assert.Equal(t, 142, *result[0].DistanceM)
	assert.Equal(t, 880, *result[1].DistanceM)
	assert.Equal(t, 0, *result[2].DistanceM)
	assert.Equal(t, LabelOpen, result[0].OpenAtRefLabel)
	assert.Equal(t, entities.OpenRankOpen, result[0].OpenAtRefRank)
	assert.Equal(t, LabelUnknown, result[1].OpenAtRefLabel)

	for _, p := range dataset.Places {
		assert.Nil(t, p.DistanceM)
		assert.Empty(t, p.OpenAtRefLabel)
	}

	state.Center = nil
	for _, p := range ApplyQuery(dataset, state) {
		assert.Nil(t, p.DistanceM)
	}
}

func TestApplyQuery_NilDataset(t *testing.T) {
	assert.Empty(t, ApplyQuery(nil, entities.DefaultQueryState(0, monday(12, 0))))
}

func TestApplyQuery_Sort(t *testing.T) {
	dataset := loadDataset(t, queryFixture)
	state := entities.DefaultQueryState(0, monday(12, 0))

	state.Sort = []entities.SortKey{{Field: "reviewCount", Desc: true}}
	assert.Equal(t, []string{"1", "4", "2", "3"}, ids(ApplyQuery(dataset, state)))

	state.Sort = []entities.SortKey{{Field: "priceCategory"}}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(ApplyQuery(dataset, state)))

	state.Sort = []entities.SortKey{{Field: "priceCategory", Desc: true}}
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(ApplyQuery(dataset, state)))

	state.Sort = []entities.SortKey{{Field: "distanceM"}}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(ApplyQuery(dataset, state)))

	state.Center = &entities.Coordinates{X: 127, Y: 37}
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(ApplyQuery(dataset, state)))

	state.Sort = []entities.SortKey{{Field: "topKeyword"}, {Field: "reviewCount"}}
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(ApplyQuery(dataset, state)))
}

func TestSortPlaces_MixedValues(t *testing.T) {
	places := []entities.Place{
		{ID: "a", Index: 0},
		{ID: "b", Index: 1},
		{ID: "c", Index: 2},
		{ID: "d", Index: 3},
	}
	raw := map[int]entities.RawRecord{
		0: {"rank": "item10"},
		1: {"rank": "item2"},
		2: {},
		3: {"rank": "1,000"},
	}

	SortPlaces(places, []entities.SortKey{{Field: "raw.rank"}}, raw)
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(places))
}
