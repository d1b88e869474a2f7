package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

func TestDistanceMeters(t *testing.T) {
	d, ok := DistanceMeters(127.001, 37.001, 127, 37)
	require.True(t, ok)
	assert.Equal(t, 142, d)

	d, ok = DistanceMeters("127", "37", 127, 37)
	require.True(t, ok)
	assert.Zero(t, d)

	_, ok = DistanceMeters(nil, 37.0, 127, 37)
	assert.False(t, ok)
	_, ok = DistanceMeters(127.0, "north", 127, 37)
	assert.False(t, ok)
}

func ruleFixture() (*entities.Place, map[string]entities.FieldDef, map[int]entities.RawRecord) {
	place := &entities.Place{
		Index:       0,
		Name:        "Cafe Latte",
		ReviewCount: 120,
		PetFriendly: true,
		Options:     "",
	}
	fields := map[string]entities.FieldDef{
		"name":        {Key: "name", Type: entities.FieldTypeText},
		"reviewCount": {Key: "reviewCount", Type: entities.FieldTypeNumber},
		"petFriendly": {Key: "petFriendly", Type: entities.FieldTypeBoolean},
		"options":     {Key: "options", Type: entities.FieldTypeText},
		"raw.score":   {Key: "raw.score", Type: entities.FieldTypeNumber, Source: entities.FieldSourceRaw},
		"raw.missing": {Key: "raw.missing", Type: entities.FieldTypeText, Source: entities.FieldSourceRaw},
	}
	raw := map[int]entities.RawRecord{0: {"score": "1,500"}}
	return place, fields, raw
}

func TestEvaluateRule_Text(t *testing.T) {
	place, fields, raw := ruleFixture()

	tests := []struct {
		op, value string
		expected  bool
	}{
		{OpContains, "LATTE", true},
		{OpContains, "", true},
		{OpContains, "mocha", false},
		{OpNotContains, "mocha", true},
		{OpNotContains, "", true},
		{OpEq, "cafe latte", true},
		{OpEq, "", false},
		{OpNeq, "cafe", true},
		{OpStartsWith, "cafe", true},
		{OpEndsWith, "latte", true},
		{OpEndsWith, "cafe", false},
	}

	for _, tt := range tests {
		rule := entities.AdvancedRule{Field: "name", Op: tt.op, Value1: tt.value}
		assert.Equal(t, tt.expected, EvaluateRule(place, rule, fields, raw), "%s %q", tt.op, tt.value)
	}
}

func TestEvaluateRule_Number(t *testing.T) {
	place, fields, raw := ruleFixture()

	tests := []struct {
		field, op, v1, v2 string
		expected          bool
	}{
		{"reviewCount", OpGte, "120", "", true},
		{"reviewCount", OpGt, "120", "", false},
		{"reviewCount", OpLt, "1,000", "", true},
		{"reviewCount", OpLte, "119", "", false},
		{"reviewCount", OpEq, "120", "", true},
		{"reviewCount", OpNeq, "120", "", false},
		{"reviewCount", OpGte, "", "", false},
		{"reviewCount", OpGte, "many", "", false},
		{"reviewCount", OpBetween, "100", "200", true},
		{"reviewCount", OpBetween, "200", "100", true},
		{"reviewCount", OpBetween, "100", "", false},
		{"raw.score", OpGt, "1000", "", true},
	}

	for _, tt := range tests {
		rule := entities.AdvancedRule{Field: tt.field, Op: tt.op, Value1: tt.v1, Value2: tt.v2}
		assert.Equal(t, tt.expected, EvaluateRule(place, rule, fields, raw), "%s %s %q %q", tt.field, tt.op, tt.v1, tt.v2)
	}
}

func TestEvaluateRule_BetweenIsOrderIndependent(t *testing.T) {
	place, fields, raw := ruleFixture()
	for _, bounds := range [][2]string{{"0", "120"}, {"120", "0"}, {"120", "120"}, {"121", "500"}, {"500", "121"}} {
		a := entities.AdvancedRule{Field: "reviewCount", Op: OpBetween, Value1: bounds[0], Value2: bounds[1]}
		b := entities.AdvancedRule{Field: "reviewCount", Op: OpBetween, Value1: bounds[1], Value2: bounds[0]}
		assert.Equal(t, EvaluateRule(place, a, fields, raw), EvaluateRule(place, b, fields, raw), "%v", bounds)
	}
}

func TestEvaluateRule_EmptyAndBoolean(t *testing.T) {
	place, fields, raw := ruleFixture()

	assert.True(t, EvaluateRule(place, entities.AdvancedRule{Field: "options", Op: OpIsEmpty}, fields, raw))
	assert.True(t, EvaluateRule(place, entities.AdvancedRule{Field: "raw.missing", Op: OpIsEmpty}, fields, raw))
	assert.True(t, EvaluateRule(place, entities.AdvancedRule{Field: "name", Op: OpNotEmpty}, fields, raw))
	assert.True(t, EvaluateRule(place, entities.AdvancedRule{Field: "petFriendly", Op: OpIsTrue}, fields, raw))
	assert.False(t, EvaluateRule(place, entities.AdvancedRule{Field: "petFriendly", Op: OpIsFalse}, fields, raw))
}

func TestEvaluateRule_UnknownFieldPasses(t *testing.T) {
	place, fields, raw := ruleFixture()
	rule := entities.AdvancedRule{Field: "raw.nothing", Op: OpEq, Value1: "x"}
	assert.True(t, EvaluateRule(place, rule, fields, raw))
}

func TestEvaluateRuleSet(t *testing.T) {
	place, fields, raw := ruleFixture()
	pass := entities.AdvancedRule{Field: "name", Op: OpContains, Value1: "cafe"}
	fail := entities.AdvancedRule{Field: "name", Op: OpContains, Value1: "bar"}

	assert.True(t, EvaluateRuleSet(place, nil, entities.RuleModeAll, fields, raw))
	assert.True(t, EvaluateRuleSet(place, nil, entities.RuleModeAny, fields, raw))

	assert.True(t, EvaluateRuleSet(place, []entities.AdvancedRule{pass, pass}, entities.RuleModeAll, fields, raw))
	assert.False(t, EvaluateRuleSet(place, []entities.AdvancedRule{pass, fail}, entities.RuleModeAll, fields, raw))
	assert.True(t, EvaluateRuleSet(place, []entities.AdvancedRule{fail, pass}, entities.RuleModeAny, fields, raw))
	assert.False(t, EvaluateRuleSet(place, []entities.AdvancedRule{fail, fail}, entities.RuleModeAny, fields, raw))
}

func TestOpsForType(t *testing.T) {
	assert.Equal(t, OpGte, DefaultOpForType(entities.FieldTypeNumber))
	assert.Equal(t, OpContains, DefaultOpForType(entities.FieldTypeText))
	assert.Equal(t, OpIsTrue, DefaultOpForType(entities.FieldTypeBoolean))
	assert.Equal(t, OpsForType(entities.FieldTypeText), OpsForType("date"))
	assert.Len(t, OpsForType(entities.FieldTypeBoolean), 2)

	assert.False(t, OpNeedsValue(OpIsEmpty))
	assert.True(t, OpNeedsValue(OpBetween))
	assert.True(t, OpNeedsSecondValue(OpBetween))
	assert.False(t, OpNeedsSecondValue(OpEq))
	assert.Equal(t, "숫자", TypeLabel(entities.FieldTypeNumber))
}

func TestRuleBuilder(t *testing.T) {
	fields := []entities.FieldDef{
		{Key: "reviewCount", Label: "리뷰수", Type: entities.FieldTypeNumber},
		{Key: "name", Label: "장소명", Type: entities.FieldTypeText},
		{Key: "petFriendly", Label: "반려동물 동반", Type: entities.FieldTypeBoolean},
	}
	b := NewRuleBuilder(fields)

	first, err := b.Add()
	require.NoError(t, err)
	assert.Equal(t, entities.AdvancedRule{ID: 1, Field: "reviewCount", Op: OpGte}, first)

	second, err := b.Append("reviewCount", OpEq, "10", "20")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
	assert.Empty(t, second.Value2)

	_, err = b.Append("name", OpGte, "1", "")
	assert.Error(t, err)
	_, err = b.Append("unknown", OpEq, "1", "")
	assert.Error(t, err)

	require.NoError(t, b.UpdateValues(1, "5", "9"))
	require.NoError(t, b.UpdateOp(1, OpBetween))
	assert.Equal(t, "9", b.Rules()[0].Value2)
	require.NoError(t, b.UpdateOp(1, OpGt))
	assert.Equal(t, "5", b.Rules()[0].Value1)
	assert.Empty(t, b.Rules()[0].Value2)

	require.NoError(t, b.UpdateField(1, "petFriendly"))
	assert.Equal(t, entities.AdvancedRule{ID: 1, Field: "petFriendly", Op: OpIsTrue}, b.Rules()[0])
	assert.Error(t, b.UpdateField(99, "name"))

	b.Remove(1)
	require.Len(t, b.Rules(), 1)
	assert.Equal(t, 2, b.Rules()[0].ID)

	b.Clear()
	third, err := b.Add()
	require.NoError(t, err)
	assert.Equal(t, 3, third.ID)

	b.Reset()
	assert.Empty(t, b.Rules())
	again, err := b.Add()
	require.NoError(t, err)
	assert.Equal(t, 1, again.ID)
}

func TestRuleBuilder_NoFields(t *testing.T) {
	_, err := NewRuleBuilder(nil).Add()
	assert.Error(t, err)
}
