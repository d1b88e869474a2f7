package services

import (
	"math"
	"strings"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/pkg/coerce"
)

// Rule operators.
const (
	OpContains    = "contains"
	OpNotContains = "not_contains"
	OpEq          = "eq"
	OpNeq         = "neq"
	OpStartsWith  = "starts_with"
	OpEndsWith    = "ends_with"
	OpIsEmpty     = "is_empty"
	OpNotEmpty    = "not_empty"
	OpGte         = "gte"
	OpGt          = "gt"
	OpLte         = "lte"
	OpLt          = "lt"
	OpBetween     = "between"
	OpIsTrue      = "is_true"
	OpIsFalse     = "is_false"
)

// Operator is one choice offered for a field type.
type Operator struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

var opsByType = map[entities.FieldType][]Operator{
	entities.FieldTypeText: {
		{OpContains, "포함"},
		{OpNotContains, "미포함"},
		{OpEq, "="},
		{OpNeq, "!="},
		{OpStartsWith, "시작 일치"},
		{OpEndsWith, "끝 일치"},
		{OpIsEmpty, "비어 있음"},
		{OpNotEmpty, "비어 있지 않음"},
	},
	entities.FieldTypeNumber: {
		{OpGte, ">="},
		{OpGt, ">"},
		{OpLte, "<="},
		{OpLt, "<"},
		{OpEq, "="},
		{OpNeq, "!="},
		{OpBetween, "범위"},
		{OpIsEmpty, "비어 있음"},
		{OpNotEmpty, "비어 있지 않음"},
	},
	entities.FieldTypeBoolean: {
		{OpIsTrue, "참"},
		{OpIsFalse, "거짓"},
	},
}

// OpsForType returns the operators valid for a field type. Unknown types get
// the text operators.
func OpsForType(t entities.FieldType) []Operator {
	if ops, ok := opsByType[t]; ok {
		return ops
	}
	return opsByType[entities.FieldTypeText]
}

// DefaultOpForType is the first operator offered for t.
func DefaultOpForType(t entities.FieldType) string {
	ops := OpsForType(t)
	if len(ops) == 0 {
		return OpContains
	}
	return ops[0].Value
}

// TypeLabel is the display name of a field type.
func TypeLabel(t entities.FieldType) string {
	switch t {
	case entities.FieldTypeNumber:
		return "숫자"
	case entities.FieldTypeBoolean:
		return "불리언"
	default:
		return "텍스트"
	}
}

// OpNeedsValue reports whether op compares against value1.
func OpNeedsValue(op string) bool {
	switch op {
	case OpIsEmpty, OpNotEmpty, OpIsTrue, OpIsFalse:
		return false
	}
	return true
}

// OpNeedsSecondValue reports whether op also reads value2.
func OpNeedsSecondValue(op string) bool {
	return op == OpBetween
}

// EvaluateRule tests one rule against a place. A rule on a field missing
// from fields is ignored and passes.
func EvaluateRule(place *entities.Place, rule entities.AdvancedRule, fields map[string]entities.FieldDef, raw map[int]entities.RawRecord) bool {
	def, ok := fields[rule.Field]
	if !ok {
		return true
	}

	left := FieldValue(place, rule.Field, raw)

	switch rule.Op {
	case OpIsEmpty:
		return isEmptyValue(left)
	case OpNotEmpty:
		return !isEmptyValue(left)
	case OpIsTrue:
		return coerce.Truthy(left)
	case OpIsFalse:
		return !coerce.Truthy(left)
	}

	if def.Type == entities.FieldTypeNumber {
		return evaluateNumberRule(left, rule)
	}
	return evaluateTextRule(left, rule)
}

func evaluateNumberRule(leftRaw any, rule entities.AdvancedRule) bool {
	left, ok := coerce.ToNumberOrNull(leftRaw)
	if !ok {
		return false
	}
	right, hasRight := coerce.ToNumberOrNull(rule.Value1)

	switch rule.Op {
	case OpGt:
		return hasRight && left > right
	case OpGte:
		return hasRight && left >= right
	case OpLt:
		return hasRight && left < right
	case OpLte:
		return hasRight && left <= right
	case OpEq:
		return hasRight && left == right
	case OpNeq:
		return hasRight && left != right
	case OpBetween:
		right2, hasRight2 := coerce.ToNumberOrNull(rule.Value2)
		if !hasRight || !hasRight2 {
			return false
		}
		return left >= math.Min(right, right2) && left <= math.Max(right, right2)
	}
	return false
}

func evaluateTextRule(leftRaw any, rule entities.AdvancedRule) bool {
	left := strings.ToLower(coerce.ToText(leftRaw))
	right := strings.ToLower(rule.Value1)

	switch rule.Op {
	case OpContains:
		return right == "" || strings.Contains(left, right)
	case OpNotContains:
		return right == "" || !strings.Contains(left, right)
	case OpEq:
		return left == right
	case OpNeq:
		return left != right
	case OpStartsWith:
		return right == "" || strings.HasPrefix(left, right)
	case OpEndsWith:
		return right == "" || strings.HasSuffix(left, right)
	}
	return true
}

// EvaluateRuleSet combines rules with AND (RuleModeAll) or OR (RuleModeAny).
// An empty rule set passes.
func EvaluateRuleSet(place *entities.Place, rules []entities.AdvancedRule, mode entities.RuleMode, fields map[string]entities.FieldDef, raw map[int]entities.RawRecord) bool {
	if len(rules) == 0 {
		return true
	}
	if mode == entities.RuleModeAny {
		for _, rule := range rules {
			if EvaluateRule(place, rule, fields, raw) {
				return true
			}
		}
		return false
	}
	for _, rule := range rules {
		if !EvaluateRule(place, rule, fields, raw) {
			return false
		}
	}
	return true
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
