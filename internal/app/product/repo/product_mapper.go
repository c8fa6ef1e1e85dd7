package repo

import (
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/models/m_product"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
)

func productToData(p *domain.Product) *m_product.Data {
	data := &m_product.Data{
		ProductID:               p.ID(),
		Name:                    p.Name(),
		Slug:                    p.Slug(),
		Description:             p.Description(),
		Category:                p.Category(),
		DiscountPercent:         p.Discount().Percentage(),
		VariantPrices:           encodeVariantPrices(p.VariantPrices()),
		DiscountedVariantPrices: encodeVariantPrices(p.DiscountedVariantPrices()),
		AvailableVariantKeys:    p.AvailableVariantKeys(),
		DefaultVariantKey:       nullString(p.DefaultVariantKey()),
		Version:                 p.Version(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	}
	data.BasePrice.Set(moneyToNumeric(p.BasePrice()))
	data.ComputedPrice.Set(moneyToNumeric(p.ComputedPrice()))
	return data
}

func productFromData(data *m_product.Data, clk clock.Clock) (*domain.Product, error) {
	state, err := stateFromData(data)
	if err != nil {
		return nil, err
	}
	return domain.ReconstructProduct(state, clk), nil
}

func stateFromData(data *m_product.Data) (domain.ProductState, error) {
	base, err := numericToMoney(&data.BasePrice)
	if err != nil {
		return domain.ProductState{}, fmt.Errorf("product %s base price: %w", data.ProductID, err)
	}
	computed, err := numericToMoney(&data.ComputedPrice)
	if err != nil {
		return domain.ProductState{}, fmt.Errorf("product %s computed price: %w", data.ProductID, err)
	}
	discount, err := domain.NewDiscountPercent(data.DiscountPercent)
	if err != nil {
		return domain.ProductState{}, fmt.Errorf("product %s discount: %w", data.ProductID, err)
	}
	prices, err := DecodeVariantPrices(jsonValue(data.VariantPrices))
	if err != nil {
		return domain.ProductState{}, fmt.Errorf("product %s variant prices: %w", data.ProductID, err)
	}
	discounted, err := DecodeVariantPrices(jsonValue(data.DiscountedVariantPrices))
	if err != nil {
		return domain.ProductState{}, fmt.Errorf("product %s discounted variant prices: %w", data.ProductID, err)
	}

	return domain.ProductState{
		ID:                      data.ProductID,
		Name:                    data.Name,
		Slug:                    data.Slug,
		Description:             data.Description,
		Category:                data.Category,
		BasePrice:               base,
		Discount:                discount,
		ComputedPrice:           computed,
		VariantPrices:           prices,
		DiscountedVariantPrices: discounted,
		AvailableVariantKeys:    data.AvailableVariantKeys,
		DefaultVariantKey:       data.DefaultVariantKey.StringVal,
		Version:                 data.Version,
		CreatedAt:               data.CreatedAt,
		UpdatedAt:               data.UpdatedAt,
	}, nil
}

func dtoFromData(data *m_product.Data) (*contracts.ProductDTO, error) {
	state, err := stateFromData(data)
	if err != nil {
		return nil, err
	}

	available := state.AvailableVariantKeys
	if available == nil {
		available = []string{}
	}

	return &contracts.ProductDTO{
		ProductID:               state.ID,
		Name:                    state.Name,
		Slug:                    state.Slug,
		Description:             state.Description,
		Category:                state.Category,
		BasePrice:               state.BasePrice.String(),
		DiscountPercent:         state.Discount.Percentage(),
		ComputedPrice:           state.ComputedPrice.String(),
		VariantPrices:           state.VariantPrices.Strings(),
		DiscountedVariantPrices: state.DiscountedVariantPrices.Strings(),
		AvailableVariantKeys:    available,
		DefaultVariantKey:       state.DefaultVariantKey,
		Version:                 state.Version,
		CreatedAt:               state.CreatedAt,
		UpdatedAt:               state.UpdatedAt,
	}, nil
}

func jsonValue(j spanner.NullJSON) any {
	if !j.Valid {
		return nil
	}
	return j.Value
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}
