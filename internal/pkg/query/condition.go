package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is the first free parameter number; a condition that binds
	// n values uses p{paramIndex} through p{paramIndex+n-1}.
	SQL(paramIndex int) (string, map[string]any)
}

// compareCondition implements binary comparisons (field <op> value).
type compareCondition struct {
	field string
	op    string
	value any
}

func (c *compareCondition) SQL(paramIndex int) (string, map[string]any) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, paramName), map[string]any{paramName: c.value}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("plan_name", "Keto") generates "plan_name = @p0"
func Eq(field string, value any) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Lt creates a "field < value" condition.
func Lt(field string, value any) Condition {
	return &compareCondition{field: field, op: "<", value: value}
}

// Gte creates a "field >= value" condition.
func Gte(field string, value any) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("valid_to") generates "valid_to IS NULL"
func IsNull(field string) Condition {
	return &nullCondition{field: field}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
func IsNotNull(field string) Condition {
	return &nullCondition{field: field, not: true}
}

type nullCondition struct {
	field string
	not   bool
}

func (c *nullCondition) SQL(int) (string, map[string]any) {
	if c.not {
		return c.field + " IS NOT NULL", map[string]any{}
	}
	return c.field + " IS NULL", map[string]any{}
}

// And joins conditions with AND.
func And(conditions ...Condition) Condition {
	return &groupCondition{op: " AND ", conditions: conditions}
}

// Or joins conditions with OR and wraps the result in parentheses.
// Example: Or(IsNull("valid_to"), Gte("valid_to", t)) generates
// "(valid_to IS NULL OR valid_to >= @p0)"
func Or(conditions ...Condition) Condition {
	return &groupCondition{op: " OR ", conditions: conditions, wrap: true}
}

type groupCondition struct {
	op         string
	conditions []Condition
	wrap       bool
}

func (c *groupCondition) SQL(paramIndex int) (string, map[string]any) {
	parts := make([]string, 0, len(c.conditions))
	params := make(map[string]any)
	for _, cond := range c.conditions {
		fragment, condParams := cond.SQL(paramIndex)
		parts = append(parts, fragment)
		for k, v := range condParams {
			params[k] = v
		}
		paramIndex += len(condParams)
	}

	sql := strings.Join(parts, c.op)
	if c.wrap && len(parts) > 1 {
		sql = "(" + sql + ")"
	}
	return sql, params
}
