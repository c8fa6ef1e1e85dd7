package query

import "fmt"

// Condition is a WHERE clause fragment. paramIndex is the first free
// parameter number; implementations name their parameters @p<paramIndex>,
// @p<paramIndex+1> and so on, and return exactly the parameters they use.
type Condition interface {
	SQL(paramIndex int) (string, map[string]any)
}

type compareCondition struct {
	field string
	op    string
	value any
}

func (c *compareCondition) SQL(paramIndex int) (string, map[string]any) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, name), map[string]any{name: c.value}
}

// Eq generates "field = @pN".
func Eq(field string, value any) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Gt generates "field > @pN".
// Example: Gt("discount_percent", int64(0)) selects discounted products.
func Gt(field string, value any) Condition {
	return &compareCondition{field: field, op: ">", value: value}
}

// In generates "field IN UNNEST(@pN)" for a Spanner array parameter.
// An empty list yields a nil Condition, which Builder.Where ignores.
func In(field string, values []string) Condition {
	if len(values) == 0 {
		return nil
	}
	return &inCondition{field: field, values: values}
}

type inCondition struct {
	field  string
	values []string
}

func (c *inCondition) SQL(paramIndex int) (string, map[string]any) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, name), map[string]any{name: c.values}
}

// IsNull generates "field IS NULL".
func IsNull(field string) Condition {
	return &nullCondition{field: field}
}

// IsNotNull generates "field IS NOT NULL".
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
