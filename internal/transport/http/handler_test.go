package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/display"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/get_price_history"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/get_product"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/list_events"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/list_products"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/quote_cart"
	"github.com/light-bringer/decant-catalog/internal/app/product/testutil"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/apply_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/create_product"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/remove_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_product"
)

type stubEvents struct{}

func (stubEvents) ListEvents(_ context.Context, filter *contracts.EventFilter) ([]*contracts.EventDTO, error) {
	return []*contracts.EventDTO{{EventID: "e1", EventType: filter.EventType}}, nil
}

type testServer struct {
	router *gin.Engine
	store  *testutil.Store
	tx     *testutil.Transactor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := testutil.NewClock()
	store := testutil.NewStore(clk)
	store.Put(testutil.NewProductBuilder("candle").WithCategory("Candles").WithBasePrice(1000).Build(t, clk))
	store.Put(testutil.NewProductBuilder("decant").WithVariants(map[string]int64{"5ml": 600, "10ml": 1100}).Build(t, clk))

	outbox := &testutil.Outbox{}
	history := &testutil.History{}
	cache := testutil.NewCache()
	tx := &testutil.Transactor{}
	logger := zap.NewNop()
	pricer := display.NewPricer(clk)

	h := NewHandler(Commands{
		CreateProduct:      create_product.NewInteractor(store, outbox, history, tx, clk),
		UpdateProduct:      update_product.NewInteractor(store, outbox, history, cache, tx, clk),
		UpdateDiscount:     update_discount.NewInteractor(store, outbox, history, cache, tx, clk),
		ApplyBulkDiscount:  apply_bulk_discount.NewInteractor(store, outbox, history, cache, tx, clk, 1, logger),
		RemoveBulkDiscount: remove_bulk_discount.NewInteractor(store, outbox, history, cache, tx, clk, 1, logger),
	}, Queries{
		GetProduct:      get_product.NewQuery(store, pricer),
		ListProducts:    list_products.NewQuery(store, pricer),
		GetPriceHistory: get_price_history.NewQuery(store, history),
		QuoteCart:       quote_cart.NewQuery(store, pricer),
		ListEvents:      list_events.NewQuery(stubEvents{}),
	}, logger)

	return &testServer{router: NewRouter(h, logger), store: store, tx: tx}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestProductRoutes(t *testing.T) {
	t.Run("create decant product", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodPost, "/api/v1/products", map[string]any{
			"name":          "Ombre Leather",
			"category":      domain.VariantCategory,
			"basePrice":     "1",
			"variantPrices": map[string]any{"5ml": 550, "10ml": "1000"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "1000", body["basePrice"])
		assert.Equal(t, "10ml", body["defaultVariantKey"])
	})

	t.Run("create rejects missing name", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodPost, "/api/v1/products", map[string]any{"category": "Candles", "basePrice": 10})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create rejects negative price", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodPost, "/api/v1/products", map[string]any{"name": "x", "category": "Candles", "basePrice": -10})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get with variant selector", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodGet, "/api/v1/products/decant?variant=5ml", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "600", body["displayPrice"])
		assert.Equal(t, "5ml", body["variantKey"])
	})

	t.Run("get unknown product", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodGet, "/api/v1/products/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("list", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodGet, "/api/v1/products?category=Candles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body["products"], 1)
	})

	t.Run("list rejects bad limit", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodGet, "/api/v1/products?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("discount edit", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodPut, "/api/v1/products/decant/discount", map[string]any{"discountPercent": 20})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"5ml": "480", "10ml": "880"}, body["discountedVariantPrices"])
	})

	t.Run("discount out of range", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodPut, "/api/v1/products/candle/discount", map[string]any{"discountPercent": 120})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, s.tx.Commits())
	})

	t.Run("discount requires percent", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodPut, "/api/v1/products/candle/discount", map[string]any{"basePrice": 10})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("patch default variant", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodPatch, "/api/v1/products/decant", map[string]any{"defaultVariantKey": "5ml"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5ml", body["defaultVariantKey"])
	})

	t.Run("patch unknown variant key", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodPatch, "/api/v1/products/decant", map[string]any{"availableVariantKeys": []string{"2ml"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("price history", func(t *testing.T) {
		s := newTestServer(t)

		s.do(t, http.MethodPut, "/api/v1/products/candle/discount", map[string]any{"discountPercent": 0, "basePrice": 1200})
		rec, body := s.do(t, http.MethodGet, "/api/v1/products/candle/price-history", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		history := body["history"].([]any)
		require.Len(t, history, 1)
		assert.Equal(t, "1000", history[0].(map[string]any)["oldPrice"])
	})
}

func TestCartAndAdminRoutes(t *testing.T) {
	t.Run("quote", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodPost, "/api/v1/cart/quote", map[string]any{
			"lines": []map[string]any{
				{"productId": "candle", "quantity": 2},
				{"productId": "decant", "variantKey": "5ml", "quantity": 1},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2600", body["total"])
	})

	t.Run("quote unknown product", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodPost, "/api/v1/cart/quote", map[string]any{
			"lines": []map[string]any{{"productId": "nope", "quantity": 1}},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bulk apply then remove", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodPost, "/api/v1/admin/discounts/bulk", map[string]any{
			"discountPercent": 10,
			"categories":      []string{"Candles"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), body["updated"])
		assert.Equal(t, []any{"candle"}, body["updatedIds"])
		assert.Empty(t, body["failed"])
		assert.Equal(t, "900", s.store.Product("candle").ComputedPrice().String())

		rec, body = s.do(t, http.MethodPost, "/api/v1/admin/discounts/bulk/remove", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), body["updated"])
		assert.False(t, s.store.Product("candle").HasDiscount())
	})

	t.Run("interrupted bulk reports the committed part", func(t *testing.T) {
		s := newTestServer(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s.store.BeforeLoad = func(id string) {
			if id == "candle" {
				cancel()
			}
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/discounts/bulk",
			bytes.NewBufferString(`{"discountPercent": 10}`)).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["updated"])
		assert.Equal(t, []any{"candle"}, body["updatedIds"])
		assert.Equal(t, []any{"decant"}, body["pending"])
		assert.NotEmpty(t, body["error"])
		assert.False(t, s.store.Product("decant").HasDiscount())
	})

	t.Run("bulk validation error", func(t *testing.T) {
		s := newTestServer(t)

		rec, _ := s.do(t, http.MethodPost, "/api/v1/admin/discounts/bulk", map[string]any{"discountPercent": -5})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("events", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodGet, "/api/v1/admin/events?event_type=product.created", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), body["totalCount"])
	})

	t.Run("healthz", func(t *testing.T) {
		s := newTestServer(t)

		rec, body := s.do(t, http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body["status"])
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrProductNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrProductNotFound), http.StatusNotFound},
		{domain.ErrInvalidDiscountPercent, http.StatusBadRequest},
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrVariantNotAvailable, http.StatusBadRequest},
		{domain.ErrNotVariantProduct, http.StatusBadRequest},
		{errors.New("spanner: deadline exceeded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
