package list_products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/display"
	"github.com/light-bringer/decant-catalog/internal/app/product/testutil"
)

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock()
	store := testutil.NewStore(clk)
	store.Put(testutil.NewProductBuilder("candle").WithCategory("Candles").WithBasePrice(1000).WithDiscount(10).Build(t, clk))
	store.Put(testutil.NewProductBuilder("decant").WithVariants(map[string]int64{"5ml": 600, "10ml": 1100}).Build(t, clk))
	q := NewQuery(store, display.NewPricer(clk))

	t.Run("all products priced", func(t *testing.T) {
		resp, err := q.Execute(ctx, &Request{VariantKey: "5ml"})
		require.NoError(t, err)

		require.Len(t, resp.Products, 2)
		assert.Equal(t, int64(2), resp.TotalCount)
		assert.Equal(t, "900", resp.Products[0].DisplayPrice)
		assert.Equal(t, "600", resp.Products[1].DisplayPrice)
	})

	t.Run("category filter", func(t *testing.T) {
		resp, err := q.Execute(ctx, &Request{Category: domain.VariantCategory})
		require.NoError(t, err)

		require.Len(t, resp.Products, 1)
		assert.Equal(t, "1100", resp.Products[0].DisplayPrice)
	})
}
