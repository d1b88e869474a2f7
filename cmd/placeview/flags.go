package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

// ruleSpec is a --rule value before it is checked against a field catalog.
type ruleSpec struct {
	Field  string
	Op     string
	Value1 string
	Value2 string
}

// parseRule reads "field:op[:value1[:value2]]". Everything after the third
// colon belongs to value2.
func parseRule(s string) (ruleSpec, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return ruleSpec{}, fmt.Errorf("invalid rule %q, want field:op[:value1[:value2]]", s)
	}
	spec := ruleSpec{
		Field: strings.TrimSpace(parts[0]),
		Op:    strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		spec.Value1 = parts[2]
	}
	if len(parts) > 3 {
		spec.Value2 = parts[3]
	}
	return spec, nil
}

// parseCenter reads "x,y" (longitude first).
func parseCenter(s string) (*entities.Coordinates, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid center %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid center longitude %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid center latitude %q: %w", ys, err)
	}
	return &entities.Coordinates{X: x, Y: y}, nil
}

// parseSort reads sort keys such as "reviewCount", "-avgRating" or
// "name:desc".
func parseSort(values []string) ([]entities.SortKey, error) {
	var keys []entities.SortKey
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := entities.SortKey{Field: v}
		if field, ok := strings.CutPrefix(v, "-"); ok {
			key = entities.SortKey{Field: field, Desc: true}
		} else if field, dir, ok := strings.Cut(v, ":"); ok {
			switch strings.ToLower(dir) {
			case "asc":
				key = entities.SortKey{Field: field}
			case "desc":
				key = entities.SortKey{Field: field, Desc: true}
			default:
				return nil, fmt.Errorf("invalid sort direction %q in %q", dir, v)
			}
		}
		if key.Field == "" {
			return nil, fmt.Errorf("invalid sort key %q", v)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// parseAt splits "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM", a bare date or a
// bare clock into its date and clock parts.
func parseAt(s string) (date, clock string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if d, c, ok := strings.Cut(strings.Replace(s, "T", " ", 1), " "); ok {
		return strings.TrimSpace(d), strings.TrimSpace(c)
	}
	if strings.Contains(s, ":") {
		return "", s
	}
	return s, ""
}

func parseMode(name, v string) (entities.RuleMode, error) {
	switch entities.RuleMode(strings.ToLower(v)) {
	case entities.RuleModeAll:
		return entities.RuleModeAll, nil
	case entities.RuleModeAny:
		return entities.RuleModeAny, nil
	}
	return "", fmt.Errorf("invalid %s %q, want all or any", name, v)
}

func parseOpenMode(v string) (string, error) {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case "", entities.FilterAll:
		return entities.FilterAll, nil
	case entities.OpenCodeOpen, entities.OpenCodeBreak, entities.OpenCodeClosed, entities.OpenCodeUnknown:
		return v, nil
	}
	return "", fmt.Errorf("invalid open mode %q", v)
}
