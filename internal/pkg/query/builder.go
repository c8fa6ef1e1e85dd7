package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

type orderClause struct {
	column    string
	direction Direction
}

// Builder constructs SELECT statements for Cloud Spanner.
// Every method returns a copy, so a base builder can be shared between a
// page query and its Count query. Parameter names are generated.
type Builder struct {
	table        string
	selectCols   []string
	whereClauses []Condition
	orderBy      []orderClause
	limitVal     int64
	offsetVal    int64
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{
		table:        table,
		selectCols:   []string{},
		whereClauses: []Condition{},
	}
}

// Select appends columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.selectCols = append(nb.selectCols, columns...)
	return nb
}

// Where adds a condition. Multiple calls are combined with AND.
// A nil condition is ignored, which keeps optional filters inline.
func (b *Builder) Where(condition Condition) *Builder {
	if condition == nil {
		return b
	}
	nb := b.clone()
	nb.whereClauses = append(nb.whereClauses, condition)
	return nb
}

// OrderBy replaces the ordering with a single column.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.orderBy = []orderClause{{column: column, direction: direction}}
	return nb
}

// ThenBy adds a tie-breaking column after OrderBy.
func (b *Builder) ThenBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.orderBy = append(nb.orderBy, orderClause{column: column, direction: direction})
	return nb
}

func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limitVal = limit
	return nb
}

func (b *Builder) Offset(offset int64) *Builder {
	nb := b.clone()
	nb.offsetVal = offset
	return nb
}

// Count returns a COUNT(*) builder with the same FROM and WHERE, without
// ordering or pagination.
func (b *Builder) Count() *Builder {
	nb := b.clone()
	nb.selectCols = []string{"COUNT(*)"}
	nb.limitVal = 0
	nb.offsetVal = 0
	nb.orderBy = nil
	return nb
}

// Build constructs the final spanner.Statement.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]any)

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.whereClauses) > 0 {
		sql.WriteString(" WHERE ")
		parts := make([]string, 0, len(b.whereClauses))
		paramIndex := 0
		for _, condition := range b.whereClauses {
			fragment, condParams := condition.SQL(paramIndex)
			parts = append(parts, fragment)
			for k, v := range condParams {
				params[k] = v
			}
			paramIndex += len(condParams)
		}
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		parts := make([]string, 0, len(b.orderBy))
		for _, o := range b.orderBy {
			dir := "ASC"
			if o.direction == Desc {
				dir = "DESC"
			}
			parts = append(parts, o.column+" "+dir)
		}
		sql.WriteString(strings.Join(parts, ", "))
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limitVal
	}

	if b.offsetVal > 0 {
		sql.WriteString(" OFFSET @offset")
		params["offset"] = b.offsetVal
	}

	return spanner.Statement{
		SQL:    sql.String(),
		Params: params,
	}
}

func (b *Builder) clone() *Builder {
	nb := &Builder{
		table:        b.table,
		selectCols:   make([]string, len(b.selectCols)),
		whereClauses: make([]Condition, len(b.whereClauses)),
		orderBy:      make([]orderClause, len(b.orderBy)),
		limitVal:     b.limitVal,
		offsetVal:    b.offsetVal,
	}
	copy(nb.selectCols, b.selectCols)
	copy(nb.whereClauses, b.whereClauses)
	copy(nb.orderBy, b.orderBy)
	return nb
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}
