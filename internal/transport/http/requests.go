package http

import (
	"encoding/json"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/quote_cart"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/create_product"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_product"
)

// Amounts are accepted as JSON numbers or decimal strings.

type createProductRequest struct {
	Name          string                 `json:"name" binding:"required"`
	Description   string                 `json:"description"`
	Category      string                 `json:"category" binding:"required"`
	BasePrice     json.Number            `json:"basePrice" binding:"required"`
	VariantPrices map[string]json.Number `json:"variantPrices"`
}

func (r *createProductRequest) toUseCase() (*create_product.Request, error) {
	base, err := domain.ParseMoney(r.BasePrice.String())
	if err != nil {
		return nil, err
	}
	prices, err := variantPrices(r.VariantPrices)
	if err != nil {
		return nil, err
	}
	return &create_product.Request{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		BasePrice:     base,
		VariantPrices: prices,
	}, nil
}

type updateProductRequest struct {
	Name                 *string                 `json:"name"`
	Description          *string                 `json:"description"`
	Category             *string                 `json:"category"`
	BasePrice            *json.Number            `json:"basePrice"`
	VariantPrices        *map[string]json.Number `json:"variantPrices"`
	AvailableVariantKeys *[]string               `json:"availableVariantKeys"`
	DefaultVariantKey    *string                 `json:"defaultVariantKey"`
	DiscountPercent      *int64                  `json:"discountPercent"`
}

func (r *updateProductRequest) toUseCase(productID string) (*update_product.Request, error) {
	req := &update_product.Request{
		ProductID:            productID,
		Name:                 r.Name,
		Description:          r.Description,
		Category:             r.Category,
		AvailableVariantKeys: r.AvailableVariantKeys,
		DefaultVariantKey:    r.DefaultVariantKey,
		DiscountPercent:      r.DiscountPercent,
	}
	if r.BasePrice != nil {
		base, err := domain.ParseMoney(r.BasePrice.String())
		if err != nil {
			return nil, err
		}
		req.BasePrice = &base
	}
	if r.VariantPrices != nil {
		prices, err := variantPrices(*r.VariantPrices)
		if err != nil {
			return nil, err
		}
		req.VariantPrices = &prices
	}
	return req, nil
}

type updateDiscountRequest struct {
	DiscountPercent *int64       `json:"discountPercent" binding:"required"`
	BasePrice       *json.Number `json:"basePrice"`
}

func (r *updateDiscountRequest) toUseCase(productID string) (*update_discount.Request, error) {
	req := &update_discount.Request{
		ProductID:       productID,
		DiscountPercent: *r.DiscountPercent,
	}
	if r.BasePrice != nil {
		base, err := domain.ParseMoney(r.BasePrice.String())
		if err != nil {
			return nil, err
		}
		req.BasePrice = &base
	}
	return req, nil
}

type bulkDiscountRequest struct {
	DiscountPercent *int64   `json:"discountPercent" binding:"required"`
	Categories      []string `json:"categories"`
}

type bulkRemoveRequest struct {
	Categories []string `json:"categories"`
}

type quoteLine struct {
	ProductID  string `json:"productId" binding:"required"`
	VariantKey string `json:"variantKey"`
	Quantity   int64  `json:"quantity"`
}

type quoteRequest struct {
	Lines []quoteLine `json:"lines" binding:"required,dive"`
}

func (r *quoteRequest) toQuery() *quote_cart.Request {
	req := &quote_cart.Request{Lines: make([]quote_cart.Line, 0, len(r.Lines))}
	for _, l := range r.Lines {
		req.Lines = append(req.Lines, quote_cart.Line{
			ProductID:  l.ProductID,
			VariantKey: l.VariantKey,
			Quantity:   l.Quantity,
		})
	}
	return req
}

func variantPrices(raw map[string]json.Number) (domain.VariantPrices, error) {
	strs := make(map[string]string, len(raw))
	for k, v := range raw {
		strs[k] = v.String()
	}
	return domain.NewVariantPrices(strs)
}

type bulkFailure struct {
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

type bulkResponse struct {
	Updated    int           `json:"updated"`
	UpdatedIDs []string      `json:"updatedIds"`
	Failed     []bulkFailure `json:"failed"`
	Pending    []string      `json:"pending,omitempty"`
	Error      string        `json:"error,omitempty"`
}
