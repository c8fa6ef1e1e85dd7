package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.PATCH("/:id", h.UpdateProduct)
		products.PUT("/:id/discount", h.UpdateDiscount)
		products.GET("/:id/price-history", h.GetPriceHistory)

		v1.POST("/cart/quote", h.QuoteCart)

		admin := v1.Group("/admin")
		admin.POST("/discounts/bulk", h.ApplyBulkDiscount)
		admin.POST("/discounts/bulk/remove", h.RemoveBulkDiscount)
		admin.GET("/events", h.ListEvents)
	}

	return router
}
