package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"groundnut_back_end/internal/cart"
)

// CartIDHeader identifies a server-side cart.
const CartIDHeader = "X-Cart-ID"

var cartIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// cartID reads the cart id from the header, or from ?cartId= for clients
// that cannot set headers (browser websockets).
func cartID(c *gin.Context) (string, bool) {
	id := c.GetHeader(CartIDHeader)
	if id == "" {
		id = c.Query("cartId")
	}
	if !cartIDPattern.MatchString(id) {
		badRequest(c, "A valid "+CartIDHeader+" header is required")
		return "", false
	}
	return id, true
}

// openCart loads the cart of the request. It answers the request itself and
// returns nil when no cart can be opened.
func (h *Handler) openCart(c *gin.Context) *cart.Store {
	if h.Carts == nil {
		unavailable(c, "Server carts are disabled")
		return nil
	}
	id, ok := cartID(c)
	if !ok {
		return nil
	}
	return cart.Open(c.Request.Context(), h.Carts, id)
}

func cartView(s *cart.Store) gin.H {
	return gin.H{
		"success": true,
		"items":   s.Items(),
		"total":   s.Total(),
		"count":   s.Count(),
	}
}

// 🛒 GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	s := h.openCart(c)
	if s == nil {
		return
	}
	c.JSON(http.StatusOK, cartView(s))
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
}

// 🛒 POST /api/cart/items
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		badRequest(c, "productId is required")
		return
	}
	product, ok := h.Catalog.ByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
		return
	}

	s := h.openCart(c)
	if s == nil {
		return
	}
	if err := s.Add(c.Request.Context(), product.CartItem()); err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, cartView(s))
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// 🛒 PATCH /api/cart/items/:productId
func (h *Handler) SetCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}

	s := h.openCart(c)
	if s == nil {
		return
	}
	if err := s.SetQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity); err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, cartView(s))
}

// 🛒 DELETE /api/cart/items/:productId
func (h *Handler) RemoveFromCart(c *gin.Context) {
	s := h.openCart(c)
	if s == nil {
		return
	}
	if err := s.Remove(c.Request.Context(), c.Param("productId")); err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, cartView(s))
}

// 🛒 DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	s := h.openCart(c)
	if s == nil {
		return
	}
	if err := s.Clear(c.Request.Context()); err != nil {
		h.fail(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, cartView(s))
}
