package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/handlers"
	"groundnut_back_end/internal/middleware"
)

// Options are the route-level switches of the API.
type Options struct {
	Origins []string
	// AdminSecret protects the order reads when set.
	AdminSecret string
	// RateLimiter enables the per-IP limit on public writes when set.
	RateLimiter  *redis.Client
	RateLimitMax int
}

// New builds the engine with the global middleware and every route.
func New(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log.Logger))
	// Metrics wraps Recovery so recovered panics are counted as 500s.
	if h.Metrics != nil {
		r.Use(middleware.Metrics(h.Metrics))
	}
	r.Use(middleware.Recovery(log.Logger), cors.New(corsConfig(opts.Origins)))
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	RegisterRoutes(r, h, opts)
	r.NoRoute(handlers.NotFound)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", handlers.CartIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	api := r.Group("/api")
	api.GET("", h.Health)

	// Catalog
	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)

	// Public writes
	limit := func(name string) gin.HandlerFunc {
		if opts.RateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(opts.RateLimiter, name, opts.RateLimitMax, time.Minute)
	}
	api.POST("/contact", limit("contact"), h.CreateContact)
	api.POST("/orders", limit("orders"), h.CreateOrder)
	api.POST("/orders/notify", limit("notify"), h.NotifyOrder)

	// Admin reads
	admin := api.Group("/orders")
	if opts.AdminSecret != "" {
		admin.Use(middleware.AdminRequired([]byte(opts.AdminSecret)))
	} else {
		log.Warn().Msg("⚠️ ADMIN_JWT_SECRET not set, order reads are public")
	}
	admin.GET("", h.ListOrders)
	admin.GET("/export", h.ExportOrders)
	admin.GET("/search", h.SearchOrders)
	admin.GET("/:id", h.GetOrder)

	// Server-side carts
	carts := api.Group("/cart")
	carts.GET("", h.GetCart)
	carts.DELETE("", h.ClearCart)
	carts.POST("/items", h.AddToCart)
	carts.PATCH("/items/:productId", h.SetCartQuantity)
	carts.DELETE("/items/:productId", h.RemoveFromCart)
	carts.GET("/ws", h.CartWebSocket)
}
