package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// 🛍️ GET /api/products?category=&q=
func (h *Handler) ListProducts(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	query := strings.TrimSpace(c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": h.Catalog.Find(category, query),
	})
}

// 🛍️ GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	p, ok := h.Catalog.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}
