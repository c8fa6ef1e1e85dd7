package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrNotVariantProduct),
		errors.Is(err, domain.ErrUnknownVariantKey),
		errors.Is(err, domain.ErrVariantNotAvailable):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Internal errors are logged and hidden from the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(code, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
}
