package update_product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/testutil"
)

type fixture struct {
	store   *testutil.Store
	outbox  *testutil.Outbox
	history *testutil.History
	cache   *testutil.Cache
	tx      *testutil.Transactor
	uc      *Interactor
}

func newFixture(t *testing.T, builders ...*testutil.ProductBuilder) *fixture {
	t.Helper()
	clk := testutil.NewClock()
	f := &fixture{
		store:   testutil.NewStore(clk),
		outbox:  &testutil.Outbox{},
		history: &testutil.History{},
		cache:   testutil.NewCache(),
		tx:      &testutil.Transactor{},
	}
	for _, b := range builders {
		f.store.Put(b.Build(t, clk))
	}
	f.uc = NewInteractor(f.store, f.outbox, f.history, f.cache, f.tx, clk)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("variant price edit re-derives discounted table", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1").
			WithVariants(map[string]int64{"5ml": 600, "10ml": 1100}).
			WithDiscount(20))

		dto, err := f.uc.Execute(ctx, &Request{
			ProductID: "p1",
			VariantPrices: ptr(domain.VariantPrices{
				"5ml":  domain.MustMoney(700),
				"10ml": domain.MustMoney(1300),
			}),
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"5ml": "560", "10ml": "1040"}, dto.DiscountedVariantPrices)
		assert.Equal(t, "1300", dto.BasePrice)
		assert.Equal(t, []string{"p1"}, f.cache.Invalidated)

		records, err := f.history.GetByProductID(ctx, "p1", 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "1100", records[0].OldPrice.String())
		assert.Equal(t, "1300", records[0].NewPrice.String())
	})

	t.Run("dropping a variant prunes availability and default", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1").
			WithVariants(map[string]int64{"5ml": 600, "10ml": 1100}))

		dto, err := f.uc.Execute(ctx, &Request{
			ProductID:     "p1",
			VariantPrices: ptr(domain.VariantPrices{"5ml": domain.MustMoney(600)}),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"5ml"}, dto.AvailableVariantKeys)
		assert.Empty(t, dto.DefaultVariantKey)
	})

	t.Run("switching category to Decants accepts variant prices", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1"))

		dto, err := f.uc.Execute(ctx, &Request{
			ProductID:            "p1",
			Category:             ptr(domain.VariantCategory),
			VariantPrices:        ptr(domain.VariantPrices{"5ml": domain.MustMoney(600)}),
			AvailableVariantKeys: ptr([]string{"5ml"}),
			DefaultVariantKey:    ptr("5ml"),
		})
		require.NoError(t, err)

		assert.Equal(t, domain.VariantCategory, dto.Category)
		assert.Equal(t, "5ml", dto.DefaultVariantKey)
	})

	t.Run("invalid discount is rejected before reading", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1"))

		_, err := f.uc.Execute(ctx, &Request{ProductID: "p1", DiscountPercent: ptr(int64(101))})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Zero(t, f.tx.Commits())
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Execute(ctx, &Request{ProductID: "nope", Name: ptr("x")})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Empty(t, f.cache.Invalidated)
	})

	t.Run("default must be available", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1").
			WithVariants(map[string]int64{"5ml": 600, "10ml": 1100}))

		_, err := f.uc.Execute(ctx, &Request{
			ProductID:            "p1",
			AvailableVariantKeys: ptr([]string{"5ml"}),
			DefaultVariantKey:    ptr("10ml"),
		})
		assert.ErrorIs(t, err, domain.ErrVariantNotAvailable)
	})

	t.Run("no-op edit commits nothing", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1").WithName("Same"))

		dto, err := f.uc.Execute(ctx, &Request{ProductID: "p1", Name: ptr("Same")})
		require.NoError(t, err)
		assert.Zero(t, f.tx.Commits())
		assert.Equal(t, int64(1), dto.Version)
	})

	t.Run("edit bumps the version", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1").WithName("Old"))

		dto, err := f.uc.Execute(ctx, &Request{ProductID: "p1", Name: ptr("New")})
		require.NoError(t, err)
		assert.Equal(t, int64(2), dto.Version)
		assert.Equal(t, int64(2), f.store.Product("p1").Version())
	})

	t.Run("new variant price is offered at checkout", func(t *testing.T) {
		f := newFixture(t, testutil.NewProductBuilder("p1").
			WithVariants(map[string]int64{"10ml": 1100}))

		dto, err := f.uc.Execute(ctx, &Request{
			ProductID: "p1",
			VariantPrices: ptr(domain.VariantPrices{
				"10ml": domain.MustMoney(1100),
				"30ml": domain.MustMoney(2900),
			}),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"10ml", "30ml"}, dto.AvailableVariantKeys)
		assert.True(t, f.store.Product("p1").IsVariantAvailable("30ml"))
	})
}
