package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/export"
	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/validation"
)

// 🧾 POST /api/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var in models.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		ve := &apperrors.ValidationError{}
		ve.Add("body", "Request body must be a valid order")
		h.fail(c, ve, "Failed to save order")
		return
	}

	if err := validation.ValidateOrder(in); err != nil {
		h.fail(c, err, "Failed to save order")
		return
	}

	order, err := h.Orders.Append(c.Request.Context(), in.ToOrder())
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.OrderFailures.Inc()
		}
		h.fail(c, err, "Failed to save order")
		return
	}
	if h.Metrics != nil {
		h.Metrics.OrdersCreated.Inc()
	}

	if in.TotalAmount != nil && !in.TotalAmount.Equal(order.TotalAmount) {
		log.Warn().
			Str("order_id", order.OrderID).
			Str("client_total", in.TotalAmount.String()).
			Str("total", order.TotalAmount.String()).
			Msg("⚠️ Client total differs from recomputed total")
	}

	log.Info().Str("order_id", order.OrderID).Str("total", order.TotalAmount.String()).Msg("✅ Order saved")
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// 🧾 GET /api/orders
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// 🧾 GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// 📦 GET /api/orders/export[?upload=true]
func (h *Handler) ExportOrders(c *gin.Context) {
	ctx := c.Request.Context()
	upload := c.Query("upload") == "true"
	if upload && !h.Exports.Enabled() {
		unavailable(c, "Export upload is disabled")
		return
	}

	orders, err := h.Orders.List(ctx)
	if err != nil {
		h.fail(c, err, "Failed to export orders")
		return
	}

	if upload {
		url, err := h.Exports.Upload(ctx, orders)
		if err != nil {
			h.fail(c, err, "Failed to upload export")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
		return
	}

	data, err := export.CSV(orders)
	if err != nil {
		h.fail(c, err, "Failed to export orders")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(time.Now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// 🔍 GET /api/orders/search?q=
func (h *Handler) SearchOrders(c *gin.Context) {
	if !h.Index.Enabled() {
		unavailable(c, "Order search is disabled")
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "Query parameter 'q' is required")
		return
	}

	orders, err := h.Index.Search(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err, "Order search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

type notifyRequest struct {
	OrderDetails *models.Order `json:"orderDetails"`
}

// 📣 POST /api/orders/notify
func (h *Handler) NotifyOrder(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderDetails == nil {
		badRequest(c, "Order details are required")
		return
	}

	if err := h.Notifier.Notify(c.Request.Context(), *req.OrderDetails); err != nil {
		log.Warn().Err(err).Str("channel", h.Notifier.Channel()).Msg("⚠️ Order notification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification sent successfully"})
}
