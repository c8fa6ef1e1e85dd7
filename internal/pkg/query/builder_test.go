package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("products").
		Select("product_id", "name", "category").
		Build()

	assert.Equal(t, "SELECT product_id, name, category FROM products", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("products").Build()

	assert.Equal(t, "SELECT * FROM products", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	stmt := From("products").
		Select("product_id").
		Where(Eq("category", "Decants")).
		Where(Gt("discount_percent", int64(0))).
		Build()

	assert.Equal(t, "SELECT product_id FROM products WHERE category = @p0 AND discount_percent > @p1", stmt.SQL)
	assert.Equal(t, map[string]any{
		"p0": "Decants",
		"p1": int64(0),
	}, stmt.Params)
}

func TestBuilder_WhereIn(t *testing.T) {
	t.Run("category filter", func(t *testing.T) {
		stmt := From("products").
			Select("product_id").
			Where(In("category", []string{"Parfums", "Decants"})).
			Where(Gt("discount_percent", int64(0))).
			Build()

		assert.Equal(t, "SELECT product_id FROM products WHERE category IN UNNEST(@p0) AND discount_percent > @p1", stmt.SQL)
		assert.Equal(t, []string{"Parfums", "Decants"}, stmt.Params["p0"])
		assert.Equal(t, int64(0), stmt.Params["p1"])
	})

	t.Run("empty filter is dropped", func(t *testing.T) {
		stmt := From("products").
			Select("product_id").
			Where(In("category", nil)).
			Build()

		assert.Equal(t, "SELECT product_id FROM products", stmt.SQL)
		assert.Empty(t, stmt.Params)
	})
}

func TestBuilder_Ordering(t *testing.T) {
	t.Run("single column", func(t *testing.T) {
		stmt := From("products").Select("product_id").OrderBy("created_at", Desc).Build()
		assert.Equal(t, "SELECT product_id FROM products ORDER BY created_at DESC", stmt.SQL)
	})

	t.Run("tie breaker", func(t *testing.T) {
		stmt := From("products").
			Select("product_id").
			OrderBy("created_at", Desc).
			ThenBy("product_id", Asc).
			Build()
		assert.Equal(t, "SELECT product_id FROM products ORDER BY created_at DESC, product_id ASC", stmt.SQL)
	})

	t.Run("OrderBy resets previous ordering", func(t *testing.T) {
		stmt := From("products").
			Select("product_id").
			OrderBy("created_at", Desc).
			OrderBy("name", Asc).
			Build()
		assert.Equal(t, "SELECT product_id FROM products ORDER BY name ASC", stmt.SQL)
	})
}

func TestBuilder_LimitAndOffset(t *testing.T) {
	stmt := From("products").
		Select("product_id", "name").
		Limit(10).
		Offset(20).
		Build()

	assert.Equal(t, "SELECT product_id, name FROM products LIMIT @limit OFFSET @offset", stmt.SQL)
	assert.Equal(t, map[string]any{
		"limit":  int64(10),
		"offset": int64(20),
	}, stmt.Params)
}

func TestBuilder_CompleteQuery(t *testing.T) {
	stmt := From("outbox_events").
		Select("event_id", "event_type").
		Where(Eq("event_type", "product.discount.applied")).
		Where(Eq("aggregate_id", "p-1")).
		OrderBy("created_at", Desc).
		Limit(50).
		Offset(100).
		Build()

	expectedSQL := "SELECT event_id, event_type FROM outbox_events WHERE event_type = @p0 AND aggregate_id = @p1 ORDER BY created_at DESC LIMIT @limit OFFSET @offset"
	assert.Equal(t, expectedSQL, stmt.SQL)
	assert.Equal(t, map[string]any{
		"p0":     "product.discount.applied",
		"p1":     "p-1",
		"limit":  int64(50),
		"offset": int64(100),
	}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	builder := From("products").
		Select("product_id", "name").
		Where(Eq("category", "Decants")).
		OrderBy("created_at", Desc).
		Limit(50).
		Offset(100)

	mainStmt := builder.Build()
	assert.Contains(t, mainStmt.SQL, "LIMIT @limit")

	countStmt := builder.Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE category = @p0", countStmt.SQL)
	assert.Equal(t, map[string]any{"p0": "Decants"}, countStmt.Params)

	assert.Equal(t, mainStmt.SQL, builder.Build().SQL)
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("products").Select("product_id")

	stmt1 := base.Where(Eq("category", "Parfums")).Build()
	stmt2 := base.Where(Gt("discount_percent", int64(0))).Build()

	assert.Contains(t, stmt1.SQL, "category = @p0")
	assert.NotContains(t, stmt1.SQL, "discount_percent")

	assert.Contains(t, stmt2.SQL, "discount_percent > @p0")
	assert.NotContains(t, stmt2.SQL, "category")
}

func TestCondition_ParamIndex(t *testing.T) {
	sql, params := Eq("category", "Decants").SQL(5)
	assert.Equal(t, "category = @p5", sql)
	assert.Equal(t, map[string]any{"p5": "Decants"}, params)
}

func TestCondition_Null(t *testing.T) {
	sql, params := IsNull("default_variant_key").SQL(0)
	assert.Equal(t, "default_variant_key IS NULL", sql)
	assert.Empty(t, params)

	sql, params = IsNotNull("default_variant_key").SQL(0)
	assert.Equal(t, "default_variant_key IS NOT NULL", sql)
	assert.Empty(t, params)
}

func TestBuilder_NullDoesNotConsumeParams(t *testing.T) {
	stmt := From("products").
		Select("product_id").
		Where(IsNotNull("default_variant_key")).
		Where(Eq("category", "Decants")).
		Build()

	assert.Equal(t, "SELECT product_id FROM products WHERE default_variant_key IS NOT NULL AND category = @p0", stmt.SQL)
}

func TestBuilder_String(t *testing.T) {
	str := From("products").Select("product_id").Where(Eq("category", "Decants")).String()
	require.NotEmpty(t, str)
	assert.Contains(t, str, "SQL:")
	assert.Contains(t, str, "Params:")
}
