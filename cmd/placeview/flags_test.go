package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		in       string
		expected ruleSpec
	}{
		{"name:contains:카페", ruleSpec{Field: "name", Op: "contains", Value1: "카페"}},
		{"reviewCount:between:10:200", ruleSpec{Field: "reviewCount", Op: "between", Value1: "10", Value2: "200"}},
		{"raw.detailHours:is_empty", ruleSpec{Field: "raw.detailHours", Op: "is_empty"}},
		{"openDesc:eq:10:00:extra", ruleSpec{Field: "openDesc", Op: "eq", Value1: "10", Value2: "00:extra"}},
	}
	for _, tt := range tests {
		got, err := parseRule(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected, got, tt.in)
	}

	for _, bad := range []string{"", "name", ":contains", "name: "} {
		_, err := parseRule(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseCenter(t *testing.T) {
	c, err := parseCenter("127.0688, 37.2979")
	require.NoError(t, err)
	assert.Equal(t, &entities.Coordinates{X: 127.0688, Y: 37.2979}, c)

	for _, bad := range []string{"127.0", "east,37", "127,north"} {
		_, err := parseCenter(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSort(t *testing.T) {
	keys, err := parseSort([]string{"-reviewCount", "name", "avgRating:desc", "x:ASC", " "})
	require.NoError(t, err)
	assert.Equal(t, []entities.SortKey{
		{Field: "reviewCount", Desc: true},
		{Field: "name"},
		{Field: "avgRating", Desc: true},
		{Field: "x"},
	}, keys)

	_, err = parseSort([]string{"name:sideways"})
	assert.Error(t, err)
	_, err = parseSort([]string{"-"})
	assert.Error(t, err)
}

func TestParseAt(t *testing.T) {
	tests := []struct {
		in, date, clock string
	}{
		{"2024-05-01 19:30", "2024-05-01", "19:30"},
		{"2024-05-01T07:05", "2024-05-01", "07:05"},
		{"2024-05-01", "2024-05-01", ""},
		{"19:30", "", "19:30"},
		{"", "", ""},
	}
	for _, tt := range tests {
		date, clock := parseAt(tt.in)
		assert.Equal(t, tt.date, date, tt.in)
		assert.Equal(t, tt.clock, clock, tt.in)
	}
}

func TestParseModes(t *testing.T) {
	mode, err := parseMode("rule mode", "ANY")
	require.NoError(t, err)
	assert.Equal(t, entities.RuleModeAny, mode)
	_, err = parseMode("rule mode", "some")
	assert.Error(t, err)

	open, err := parseOpenMode("")
	require.NoError(t, err)
	assert.Equal(t, entities.FilterAll, open)
	open, err = parseOpenMode("Break")
	require.NoError(t, err)
	assert.Equal(t, entities.OpenCodeBreak, open)
	_, err = parseOpenMode("holiday")
	assert.Error(t, err)
}
