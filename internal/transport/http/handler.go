package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/queries/get_price_history"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/get_product"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/list_events"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/list_products"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/quote_cart"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/apply_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/bulkrun"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/create_product"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/remove_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_product"
)

// Handler serves the catalog HTTP API.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands
	createProduct      *create_product.Interactor
	updateProduct      *update_product.Interactor
	updateDiscount     *update_discount.Interactor
	applyBulkDiscount  *apply_bulk_discount.Interactor
	removeBulkDiscount *remove_bulk_discount.Interactor

	// Queries
	getProduct      *get_product.Query
	listProducts    *list_products.Query
	getPriceHistory *get_price_history.Query
	quoteCart       *quote_cart.Query
	listEvents      *list_events.Query

	logger *zap.Logger
}

// Commands groups the write side for NewHandler.
type Commands struct {
	CreateProduct      *create_product.Interactor
	UpdateProduct      *update_product.Interactor
	UpdateDiscount     *update_discount.Interactor
	ApplyBulkDiscount  *apply_bulk_discount.Interactor
	RemoveBulkDiscount *remove_bulk_discount.Interactor
}

// Queries groups the read side for NewHandler.
type Queries struct {
	GetProduct      *get_product.Query
	ListProducts    *list_products.Query
	GetPriceHistory *get_price_history.Query
	QuoteCart       *quote_cart.Query
	ListEvents      *list_events.Query
}

// NewHandler creates a new HTTP handler.
func NewHandler(cmds Commands, queries Queries, logger *zap.Logger) *Handler {
	return &Handler{
		createProduct:      cmds.CreateProduct,
		updateProduct:      cmds.UpdateProduct,
		updateDiscount:     cmds.UpdateDiscount,
		applyBulkDiscount:  cmds.ApplyBulkDiscount,
		removeBulkDiscount: cmds.RemoveBulkDiscount,
		getProduct:         queries.GetProduct,
		listProducts:       queries.ListProducts,
		getPriceHistory:    queries.GetPriceHistory,
		quoteCart:          queries.QuoteCart,
		listEvents:         queries.ListEvents,
		logger:             logger,
	}
}

// CreateProduct handles POST /api/v1/products.
func (h *Handler) CreateProduct(c *gin.Context) {
	var input createProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	req, err := input.toUseCase()
	if err != nil {
		h.writeError(c, err)
		return
	}

	dto, err := h.createProduct.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// UpdateProduct handles PATCH /api/v1/products/:id.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var input updateProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	req, err := input.toUseCase(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	dto, err := h.updateProduct.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// UpdateDiscount handles PUT /api/v1/products/:id/discount.
func (h *Handler) UpdateDiscount(c *gin.Context) {
	var input updateDiscountRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	req, err := input.toUseCase(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	dto, err := h.updateDiscount.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// GetProduct handles GET /api/v1/products/:id.
func (h *Handler) GetProduct(c *gin.Context) {
	view, err := h.getProduct.Execute(c.Request.Context(), &get_product.Request{
		ProductID:  c.Param("id"),
		VariantKey: c.Query("variant"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListProducts handles GET /api/v1/products.
func (h *Handler) ListProducts(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	resp, err := h.listProducts.Execute(c.Request.Context(), &list_products.Request{
		Category:   c.Query("category"),
		VariantKey: c.Query("variant"),
		PageSize:   limit,
		PageToken:  c.Query("page_token"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPriceHistory handles GET /api/v1/products/:id/price-history.
func (h *Handler) GetPriceHistory(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	records, err := h.getPriceHistory.Execute(c.Request.Context(), &get_price_history.Request{
		ProductID: c.Param("id"),
		Limit:     limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, r := range records {
		item := gin.H{
			"historyId":       r.HistoryID,
			"newPrice":        r.NewPrice,
			"discountPercent": r.DiscountPercent,
			"reason":          r.ChangedReason,
			"changedAt":       r.ChangedAt,
		}
		if r.OldPrice != nil {
			item["oldPrice"] = *r.OldPrice
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"productId": c.Param("id"), "history": items})
}

// QuoteCart handles POST /api/v1/cart/quote.
func (h *Handler) QuoteCart(c *gin.Context) {
	var input quoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.quoteCart.Execute(c.Request.Context(), input.toQuery())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ApplyBulkDiscount handles POST /api/v1/admin/discounts/bulk.
func (h *Handler) ApplyBulkDiscount(c *gin.Context) {
	var input bulkDiscountRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.applyBulkDiscount.Execute(c.Request.Context(), &apply_bulk_discount.Request{
		DiscountPercent: *input.DiscountPercent,
		Categories:      input.Categories,
	})
	h.writeBulk(c, result, err)
}

// RemoveBulkDiscount handles POST /api/v1/admin/discounts/bulk/remove.
// An empty body removes discounts across the whole catalog.
func (h *Handler) RemoveBulkDiscount(c *gin.Context) {
	var input bulkRemoveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
	}

	result, err := h.removeBulkDiscount.Execute(c.Request.Context(), &remove_bulk_discount.Request{
		Categories: input.Categories,
	})
	h.writeBulk(c, result, err)
}

// ListEvents handles GET /api/v1/admin/events.
func (h *Handler) ListEvents(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	events, err := h.listEvents.Execute(c.Request.Context(), &list_events.Request{
		EventType:   c.Query("event_type"),
		AggregateID: c.Query("aggregate_id"),
		Status:      c.Query("status"),
		Limit:       int64(limit),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "totalCount": len(events)})
}

// writeBulk renders a bulk outcome. An interrupted batch still reports the
// products it committed and the ones it never reached.
func (h *Handler) writeBulk(c *gin.Context, result *bulkrun.Result, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, toBulkResponse(result))
	case errors.Is(err, bulkrun.ErrInterrupted) && result != nil:
		h.logger.Warn("bulk repricing interrupted",
			zap.String("path", c.FullPath()),
			zap.Int("updated", result.Updated),
			zap.Int("pending", len(result.Pending)),
			zap.Error(err))
		resp := toBulkResponse(result)
		resp.Error = "interrupted before every product was repriced"
		c.JSON(http.StatusServiceUnavailable, resp)
	default:
		h.writeError(c, err)
	}
}

func toBulkResponse(result *bulkrun.Result) bulkResponse {
	resp := bulkResponse{
		Updated:    result.Updated,
		UpdatedIDs: result.UpdatedIDs,
		Failed:     make([]bulkFailure, 0, len(result.Failed)),
		Pending:    result.Pending,
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, bulkFailure{
			ProductID: f.ProductID,
			Error:     failureMessage(f.Err),
		})
	}
	return resp
}

// failureMessage hides infrastructure details the same way writeError does.
func failureMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// intQuery parses an optional integer query parameter, writing a 400 on garbage.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
