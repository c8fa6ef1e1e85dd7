package remove_bulk_discount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/testutil"
)

func TestRemoveBulkDiscount(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Interactor, *testutil.Store, *testutil.Outbox, *testutil.Cache) {
		t.Helper()
		clk := testutil.NewClock()
		store := testutil.NewStore(clk)
		for _, b := range []*testutil.ProductBuilder{
			testutil.NewProductBuilder("candle").WithCategory("Candles").WithBasePrice(1000).WithDiscount(10),
			testutil.NewProductBuilder("decant").WithVariants(map[string]int64{"5ml": 600, "10ml": 1100}).WithDiscount(20),
			testutil.NewProductBuilder("soap").WithCategory("Soaps").WithBasePrice(250),
		} {
			store.Put(b.Build(t, clk))
		}
		outbox := &testutil.Outbox{}
		cache := testutil.NewCache()
		uc := NewInteractor(store, outbox, &testutil.History{}, cache, &testutil.Transactor{}, clk, 2, zap.NewNop())
		return uc, store, outbox, cache
	}

	t.Run("restores undiscounted prices", func(t *testing.T) {
		uc, store, outbox, cache := setup(t)

		result, err := uc.Execute(ctx, &Request{})
		require.NoError(t, err)

		assert.Equal(t, []string{"candle", "decant"}, result.UpdatedIDs)
		assert.Equal(t, "1000", store.Product("candle").ComputedPrice().String())

		decant := store.Product("decant")
		assert.False(t, decant.HasDiscount())
		assert.Empty(t, decant.DiscountedVariantPrices())
		assert.Equal(t, []string{domain.EventDiscountRemoved, domain.EventDiscountRemoved}, outbox.EventTypes())
		assert.Equal(t, 1, cache.Flushes)
	})

	t.Run("category filter", func(t *testing.T) {
		uc, store, _, _ := setup(t)

		result, err := uc.Execute(ctx, &Request{Categories: []string{domain.VariantCategory}})
		require.NoError(t, err)

		assert.Equal(t, []string{"decant"}, result.UpdatedIDs)
		assert.True(t, store.Product("candle").HasDiscount())
	})

	t.Run("product without discount is skipped", func(t *testing.T) {
		uc, store, _, cache := setup(t)
		clk := testutil.NewClock()
		store.BeforeLoad = func(id string) {
			store.Put(testutil.NewProductBuilder(id).WithCategory("Candles").Build(t, clk))
		}

		result, err := uc.Execute(ctx, &Request{Categories: []string{"Candles"}})
		require.NoError(t, err)
		assert.Zero(t, result.Updated)
		assert.Zero(t, cache.Flushes)
	})

	t.Run("nothing to remove", func(t *testing.T) {
		uc, _, _, _ := setup(t)

		result, err := uc.Execute(ctx, &Request{Categories: []string{"Soaps"}})
		require.NoError(t, err)
		assert.Zero(t, result.Updated)
		assert.Empty(t, result.Failed)
	})
}
