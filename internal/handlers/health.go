package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "Welcome to the Groundnut API",
		"database": h.Database,
		"status":   "Connected",
	})
}
