package create_product

import (
	"context"
	"errors"
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
	tx      *testutil.Transactor
	uc      *Interactor
}

func newFixture() *fixture {
	clk := testutil.NewClock()
	f := &fixture{
		store:   testutil.NewStore(clk),
		outbox:  &testutil.Outbox{},
		history: &testutil.History{},
		tx:      &testutil.Transactor{},
	}
	f.uc = NewInteractor(f.store, f.outbox, f.history, f.tx, clk)
	return f
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("simple product", func(t *testing.T) {
		f := newFixture()

		dto, err := f.uc.Execute(ctx, &Request{
			Name:      "Oud Wood Candle",
			Category:  "Candles",
			BasePrice: domain.MustMoney(1500),
		})
		require.NoError(t, err)

		assert.Equal(t, "1500", dto.BasePrice)
		assert.Equal(t, "1500", dto.ComputedPrice)
		assert.Empty(t, dto.VariantPrices)
		assert.Contains(t, dto.Slug, "oud-wood-candle-")
		assert.Equal(t, 1, f.tx.Commits())
		assert.Equal(t, []string{domain.EventProductCreated}, f.outbox.EventTypes())

		records, err := f.history.GetByProductID(ctx, dto.ProductID, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].OldPrice)
		assert.Equal(t, "created", records[0].ChangedReason)
	})

	t.Run("decant product mirrors canonical variant", func(t *testing.T) {
		f := newFixture()

		dto, err := f.uc.Execute(ctx, &Request{
			Name:      "Baccarat Rouge",
			Category:  domain.VariantCategory,
			BasePrice: domain.MustMoney(1),
			VariantPrices: domain.VariantPrices{
				"5ml":  domain.MustMoney(600),
				"10ml": domain.MustMoney(1100),
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "1100", dto.BasePrice)
		assert.Equal(t, "10ml", dto.DefaultVariantKey)
		assert.Equal(t, []string{"10ml", "5ml"}, dto.AvailableVariantKeys)
	})

	t.Run("rejects variant prices outside Decants", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Execute(ctx, &Request{
			Name:          "Soap",
			Category:      "Soaps",
			BasePrice:     domain.MustMoney(100),
			VariantPrices: domain.VariantPrices{"5ml": domain.MustMoney(50)},
		})
		assert.ErrorIs(t, err, domain.ErrNotVariantProduct)
		assert.Zero(t, f.tx.Commits())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Execute(ctx, &Request{Category: "Soaps", BasePrice: domain.MustMoney(100)})
		assert.ErrorIs(t, err, domain.ErrEmptyName)
	})

	t.Run("commit failure is wrapped", func(t *testing.T) {
		f := newFixture()
		f.tx.Err = errors.New("spanner unavailable")

		_, err := f.uc.Execute(ctx, &Request{Name: "Soap", Category: "Soaps", BasePrice: domain.MustMoney(100)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "rose-and-oud-12345678", Slug("Rose & Oud", "12345678-aaaa"))
	assert.Equal(t, "abc", Slug("!!!", "abc"))
}
