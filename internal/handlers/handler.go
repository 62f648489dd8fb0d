// Package handlers implements the gin handlers of the storefront API.
package handlers

import (
	"groundnut_back_end/internal/cart"
	"groundnut_back_end/internal/catalog"
	"groundnut_back_end/internal/export"
	"groundnut_back_end/internal/metrics"
	"groundnut_back_end/internal/notify"
	"groundnut_back_end/internal/search"
	"groundnut_back_end/internal/store"
)

// Handler carries the collaborators of every route. Index, Exports and
// Carts are optional; the routes using them answer 503 when they are nil.
type Handler struct {
	Orders   store.OrderStore
	Contacts store.ContactStore
	Notifier notify.Dispatcher
	Catalog  *catalog.Catalog
	Index    *search.OrderIndex
	Exports  *export.Uploader
	Carts    *cart.RedisStorage
	Metrics  *metrics.Metrics

	// Database names the order backend in GET /api.
	Database string
	// Development exposes internal error details in 500 responses.
	Development bool
	// Origins allowed to open the cart websocket; empty allows any.
	Origins []string
}
