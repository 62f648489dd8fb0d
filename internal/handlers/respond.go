package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/apperrors"
)

// fail maps err to a status and a {success:false} body. message is the
// user-facing text of a 500.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation error",
			"errors":  ve.Messages(),
			"fields":  ve.Map(),
		})
	case errors.Is(err, apperrors.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Order must contain at least one item",
		})
	case errors.Is(err, apperrors.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("❌ " + message)
		detail := message
		if h.Development {
			detail = err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": message,
			"error":   detail,
		})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

func unavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": message})
}

// NotFound answers every unmatched route.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": "Route not found",
		"path":    c.Request.URL.Path,
	})
}
