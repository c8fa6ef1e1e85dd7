package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDiscount(t *testing.T, p int64) DiscountPercent {
	t.Helper()
	d, err := NewDiscountPercent(p)
	require.NoError(t, err)
	return d
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		discount int64
		want     string
	}{
		{"ten percent", 1000, 10, "900"},
		{"twenty percent", 1500, 20, "1200"},
		{"rounds half up", 15, 10, "14"},
		{"rounds down below half", 1234, 5, "1172"},
		{"full discount", 1000, 100, "0"},
		{"zero amount", 0, 35, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyDiscount(MustMoney(tt.amount), mustDiscount(t, tt.discount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestApplyDiscount_ZeroDiscountIdentity(t *testing.T) {
	for _, s := range []string{"0", "1", "999", "12.50", "1000000"} {
		amount, err := ParseMoney(s)
		require.NoError(t, err)

		got, err := ApplyDiscount(amount, NoDiscount)
		require.NoError(t, err)
		assert.Equal(t, amount.String(), got.String(), "no rounding for %s", s)
	}
}

func TestApplyDiscount_Monotonic(t *testing.T) {
	amount := MustMoney(999)
	prev, err := ApplyDiscount(amount, NoDiscount)
	require.NoError(t, err)

	for p := int64(1); p <= 100; p++ {
		got, err := ApplyDiscount(amount, mustDiscount(t, p))
		require.NoError(t, err)
		assert.True(t, got.LessThan(prev) || got.Equals(prev), "discount %d raised the price", p)
		prev = got
	}
}

func TestApplyDiscount_DomainRejection(t *testing.T) {
	pc := NewPricingCalculator()

	t.Run("negative amount", func(t *testing.T) {
		_, err := pc.ApplyPercent(decimal.NewFromInt(-1), 10)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("percent above 100", func(t *testing.T) {
		_, err := pc.ApplyPercent(decimal.NewFromInt(100), 150)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("unvalidated values still fail", func(t *testing.T) {
		_, err := pc.ApplyDiscount(Money{amount: decimal.NewFromInt(-1)}, mustDiscount(t, 10))
		assert.ErrorIs(t, err, ErrNegativeAmount)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = pc.ApplyDiscount(MustMoney(100), DiscountPercent{percentage: 150})
		assert.ErrorIs(t, err, ErrInvalidDiscountPercent)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestDeriveSimplePricing(t *testing.T) {
	t.Run("base 1000 with 10 percent", func(t *testing.T) {
		got, err := DeriveSimplePricing(MustMoney(1000), mustDiscount(t, 10))
		require.NoError(t, err)
		assert.Equal(t, "900", got.ComputedPrice.String())
	})

	t.Run("idempotent", func(t *testing.T) {
		d := mustDiscount(t, 17)
		first, err := DeriveSimplePricing(MustMoney(4321), d)
		require.NoError(t, err)
		second, err := DeriveSimplePricing(MustMoney(4321), d)
		require.NoError(t, err)
		assert.Equal(t, first.ComputedPrice.String(), second.ComputedPrice.String())
	})
}

func decantPrices() VariantPrices {
	return VariantPrices{
		"10ml": MustMoney(1500),
		"20ml": MustMoney(2500),
		"30ml": MustMoney(3500),
	}
}

func TestDeriveVariantPricing(t *testing.T) {
	t.Run("twenty percent discounts every variant", func(t *testing.T) {
		got, err := DeriveVariantPricing(decantPrices(), mustDiscount(t, 20))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"10ml": "1200", "20ml": "2000", "30ml": "2800"}, got.DiscountedVariantPrices.Strings())
		require.NotNil(t, got.CanonicalBasePrice)
		assert.Equal(t, "1500", got.CanonicalBasePrice.String())
	})

	t.Run("zero discount yields an empty table", func(t *testing.T) {
		got, err := DeriveVariantPricing(decantPrices(), NoDiscount)
		require.NoError(t, err)
		assert.NotNil(t, got.DiscountedVariantPrices)
		assert.Empty(t, got.DiscountedVariantPrices)
	})

	t.Run("variant consistency", func(t *testing.T) {
		prices := VariantPrices{"10ml": MustMoney(1499), "5ml": MustMoney(777), "50ml": MustMoney(9999)}
		for _, p := range []int64{1, 15, 33, 99} {
			d := mustDiscount(t, p)
			got, err := DeriveVariantPricing(prices, d)
			require.NoError(t, err)
			for k, v := range prices {
				want, err := ApplyDiscount(v, d)
				require.NoError(t, err)
				assert.True(t, want.Equals(got.DiscountedVariantPrices[k]), "key %s at %d%%", k, p)
			}
		}
	})

	t.Run("no canonical variant leaves base price undefined", func(t *testing.T) {
		got, err := DeriveVariantPricing(VariantPrices{"20ml": MustMoney(2500)}, mustDiscount(t, 10))
		require.NoError(t, err)
		assert.Nil(t, got.CanonicalBasePrice)
	})

	t.Run("negative variant price fails", func(t *testing.T) {
		_, err := DeriveVariantPricing(VariantPrices{"10ml": {amount: decimal.NewFromInt(-5)}}, mustDiscount(t, 10))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
