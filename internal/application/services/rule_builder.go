package services

import (
	"github.com/zatekoja/placeviewer/internal/domain/entities"
	apperrors "github.com/zatekoja/placeviewer/pkg/errors"
)

// RuleBuilder keeps an editable list of advanced rules for one field catalog.
// Rule ids start at 1 and are never reused until Reset.
type RuleBuilder struct {
	fields []entities.FieldDef
	index  map[string]entities.FieldDef
	rules  []entities.AdvancedRule
	nextID int
}

// NewRuleBuilder creates an empty builder over the given fields.
func NewRuleBuilder(fields []entities.FieldDef) *RuleBuilder {
	b := &RuleBuilder{nextID: 1}
	b.SetFields(fields)
	return b
}

// SetFields swaps the field catalog without touching existing rules.
func (b *RuleBuilder) SetFields(fields []entities.FieldDef) {
	b.fields = fields
	b.index = make(map[string]entities.FieldDef, len(fields))
	for _, f := range fields {
		b.index[f.Key] = f
	}
}

// Add appends a rule on the first catalog field with that field's default
// operator.
func (b *RuleBuilder) Add() (entities.AdvancedRule, error) {
	if len(b.fields) == 0 {
		return entities.AdvancedRule{}, apperrors.NewValidationError("no fields available for rules")
	}
	first := b.fields[0]
	rule := entities.AdvancedRule{
		ID:    b.nextID,
		Field: first.Key,
		Op:    DefaultOpForType(first.Type),
	}
	b.nextID++
	b.rules = append(b.rules, rule)
	return rule, nil
}

// Append adds a fully specified rule and assigns it the next id.
func (b *RuleBuilder) Append(field, op, value1, value2 string) (entities.AdvancedRule, error) {
	def, ok := b.index[field]
	if !ok {
		return entities.AdvancedRule{}, apperrors.NewValidationError("unknown field: " + field)
	}
	if !opAllowed(def.Type, op) {
		return entities.AdvancedRule{}, apperrors.NewValidationError("operator " + op + " is not valid for " + string(def.Type) + " field " + field)
	}
	if !OpNeedsValue(op) {
		value1, value2 = "", ""
	} else if !OpNeedsSecondValue(op) {
		value2 = ""
	}
	rule := entities.AdvancedRule{ID: b.nextID, Field: field, Op: op, Value1: value1, Value2: value2}
	b.nextID++
	b.rules = append(b.rules, rule)
	return rule, nil
}

// Remove deletes the rule with the given id.
func (b *RuleBuilder) Remove(id int) {
	for i, r := range b.rules {
		if r.ID == id {
			b.rules = append(b.rules[:i], b.rules[i+1:]...)
			return
		}
	}
}

// Clear drops every rule but keeps the id sequence.
func (b *RuleBuilder) Clear() {
	b.rules = nil
}

// Reset drops every rule and restarts ids at 1.
func (b *RuleBuilder) Reset() {
	b.rules = nil
	b.nextID = 1
}

// UpdateField retargets a rule, resetting its operator to the new field's
// default and clearing both values.
func (b *RuleBuilder) UpdateField(id int, field string) error {
	return b.update(id, func(r *entities.AdvancedRule) {
		t := entities.FieldTypeText
		if def, ok := b.index[field]; ok {
			t = def.Type
		}
		r.Field = field
		r.Op = DefaultOpForType(t)
		r.Value1 = ""
		r.Value2 = ""
	})
}

// UpdateOp changes a rule's operator and drops values the operator no longer reads.
func (b *RuleBuilder) UpdateOp(id int, op string) error {
	return b.update(id, func(r *entities.AdvancedRule) {
		r.Op = op
		if !OpNeedsValue(op) {
			r.Value1 = ""
			r.Value2 = ""
		} else if !OpNeedsSecondValue(op) {
			r.Value2 = ""
		}
	})
}

// UpdateValues sets both operand slots of a rule.
func (b *RuleBuilder) UpdateValues(id int, value1, value2 string) error {
	return b.update(id, func(r *entities.AdvancedRule) {
		r.Value1 = value1
		r.Value2 = value2
	})
}

// Rules returns a copy of the current rules, nil when there are none.
func (b *RuleBuilder) Rules() []entities.AdvancedRule {
	if len(b.rules) == 0 {
		return nil
	}
	out := make([]entities.AdvancedRule, len(b.rules))
	copy(out, b.rules)
	return out
}

func (b *RuleBuilder) update(id int, fn func(*entities.AdvancedRule)) error {
	for i := range b.rules {
		if b.rules[i].ID == id {
			fn(&b.rules[i])
			return nil
		}
	}
	return apperrors.NewNotFoundError("rule not found")
}

func opAllowed(t entities.FieldType, op string) bool {
	for _, o := range OpsForType(t) {
		if o.Value == op {
			return true
		}
	}
	return false
}
