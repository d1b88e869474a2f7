// Package coerce converts loosely typed JSON values into numbers and text.
//
// Every function here is total: malformed input degrades to a zero value or a
// "no value" flag instead of an error, so a single bad field never aborts the
// normalization of a record.
package coerce

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumberOrNull returns the numeric value of v and whether one exists.
// Strings are trimmed and stripped of thousands separators before parsing.
func ToNumberOrNull(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case json.Number:
		return parseNumber(string(t))
	case string:
		return parseNumber(t)
	default:
		return 0, false
	}
}

// ToNumber is ToNumberOrNull with 0 standing in for "no value".
func ToNumber(v any) float64 {
	n, ok := ToNumberOrNull(v)
	if !ok {
		return 0
	}
	return n
}

// ToText renders v as display text. Arrays are joined with ", " and objects
// fall back to their JSON form.
func ToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return string(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = ToText(item)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return fmt.Sprint(t)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}

// ParseDistanceMeters reads a distance hint such as 350, "350m" or "1.2km"
// and returns it in whole meters.
func ParseDistanceMeters(v any) (int, bool) {
	if !Truthy(v) {
		return 0, false
	}
	if n, ok := v.(float64); ok {
		return int(RoundHalfUp(n)), true
	}

	text := strings.ToLower(strings.TrimSpace(ToText(v)))
	if strings.HasSuffix(text, "km") {
		return int(RoundHalfUp(ToNumber(strings.Replace(text, "km", "", 1)) * 1000)), true
	}
	if strings.HasSuffix(text, "m") {
		return int(RoundHalfUp(ToNumber(strings.Replace(text, "m", "", 1)))), true
	}
	n, ok := ToNumberOrNull(text)
	if !ok {
		return 0, false
	}
	return int(RoundHalfUp(n)), true
}

// Truthy reports whether v would pass a JavaScript-style boolean test:
// nil, false, 0, NaN and "" are false, everything else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		n, err := t.Float64()
		return err != nil || n != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// CollapseSpace trims s and folds every whitespace run into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RoundHalfUp rounds to the nearest integer with halves going toward +Inf.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseNumber(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, false
	}

	lower := strings.ToLower(cleaned)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseInt(lower, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	// ParseFloat accepts spellings such as "inf" and "nan" that are not numbers here.
	if strings.ContainsAny(lower, "in_") {
		return 0, false
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
