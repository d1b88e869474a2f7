package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

func catalogFixture(t *testing.T) *ParsedDataset {
	t.Helper()
	parsed, err := ParseDataset([]byte(`[
		{"id": "a", "name": "A", "distance": "300m", "detailHours": [], "custom": "", "flag": true, "zeta": "x"},
		{"id": "b", "name": "B", "custom": "1,200", "flag": false, "zeta": 3},
		{"id": "c", "name": "C", "custom": "abc", "isNx": 1}
	]`))
	require.NoError(t, err)
	return parsed
}

func fieldByKey(fields []entities.FieldDef, key string) (entities.FieldDef, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return entities.FieldDef{}, false
}

func TestBuildFieldCatalog_DerivedAndRaw(t *testing.T) {
	parsed := catalogFixture(t)
	fields := BuildFieldCatalog(parsed.Places, parsed.Raw)

	review, ok := fieldByKey(fields, "reviewCount")
	require.True(t, ok)
	assert.Equal(t, entities.FieldDef{Key: "reviewCount", Label: "리뷰수", Type: entities.FieldTypeNumber, Source: entities.FieldSourceDerived}, review)

	rawDistance, ok := fieldByKey(fields, "rawDistanceM")
	require.True(t, ok)
	assert.Equal(t, "rawDistanceM", rawDistance.Label)
	assert.Equal(t, entities.FieldTypeNumber, rawDistance.Type)

	custom, ok := fieldByKey(fields, "raw.custom")
	require.True(t, ok)
	assert.Equal(t, entities.FieldTypeNumber, custom.Type)
	assert.Equal(t, entities.FieldSourceRaw, custom.Source)

	flag, ok := fieldByKey(fields, "raw.flag")
	require.True(t, ok)
	assert.Equal(t, entities.FieldTypeBoolean, flag.Type)

	zeta, ok := fieldByKey(fields, "raw.zeta")
	require.True(t, ok)
	assert.Equal(t, entities.FieldTypeText, zeta.Type)

	hours, ok := fieldByKey(fields, "raw.detailHours")
	require.True(t, ok)
	assert.Equal(t, "영업시간 상세", hours.Label)

	nx, ok := fieldByKey(fields, "raw.isNx")
	require.True(t, ok)
	assert.Equal(t, "확장 수집 여부", nx.Label)

	for _, covered := range []string{"raw.id", "raw.name", "raw.distance"} {
		_, ok := fieldByKey(fields, covered)
		assert.False(t, ok, covered)
	}
}

func TestBuildFieldCatalog_Deterministic(t *testing.T) {
	parsed := catalogFixture(t)
	first := BuildFieldCatalog(parsed.Places, parsed.Raw)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildFieldCatalog(parsed.Places, parsed.Raw))
	}

	keys := make(map[string]struct{})
	for _, f := range first {
		_, dup := keys[f.Key]
		assert.False(t, dup, f.Key)
		keys[f.Key] = struct{}{}
	}
	assert.Len(t, first, len(entities.PlaceFieldKeys)+5)
}

func TestBuildFieldCatalog_Empty(t *testing.T) {
	assert.Empty(t, BuildFieldCatalog(nil, nil))
}

func TestInferType_IDIsAlwaysText(t *testing.T) {
	parsed, err := ParseDataset([]byte(`[{"id": 42}]`))
	require.NoError(t, err)
	assert.Equal(t, entities.FieldTypeText, InferType(parsed.Places, "raw.id", parsed.Raw))
	assert.Equal(t, entities.FieldTypeText, InferType(parsed.Places, "raw.absent", parsed.Raw))
}

func TestFieldValue(t *testing.T) {
	place := &entities.Place{Index: 1, Name: "n"}
	raw := map[int]entities.RawRecord{1: {"k": "v"}}

	assert.Equal(t, "n", FieldValue(place, "name", raw))
	assert.Equal(t, "v", FieldValue(place, "raw.k", raw))
	assert.Nil(t, FieldValue(place, "raw.k", nil))
	assert.Nil(t, FieldValue(place, "distanceM", raw))
	assert.Nil(t, FieldValue(place, "nope", raw))
}
