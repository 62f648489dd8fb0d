package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"groundnut_back_end/internal/cache"
	"groundnut_back_end/internal/cart"
	"groundnut_back_end/internal/catalog"
	"groundnut_back_end/internal/config"
	"groundnut_back_end/internal/database"
	"groundnut_back_end/internal/export"
	"groundnut_back_end/internal/handlers"
	"groundnut_back_end/internal/logging"
	"groundnut_back_end/internal/metrics"
	"groundnut_back_end/internal/notify"
	"groundnut_back_end/internal/routes"
	"groundnut_back_end/internal/search"
	"groundnut_back_end/internal/store"
	"groundnut_back_end/internal/utils"
)

func main() {
	adminSubject := flag.String("admin-token", "", "print an admin bearer token for this subject and exit")
	adminTTL := flag.Duration("admin-token-ttl", 24*time.Hour, "validity of the token printed by -admin-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.IsDevelopment())

	if *adminSubject != "" {
		token, err := utils.NewAdminToken([]byte(cfg.AdminJWTSecret), *adminSubject, *adminTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Cannot issue admin token, is ADMIN_JWT_SECRET set?")
		}
		fmt.Println(token)
		return
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Amounts go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	conns, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Database connection failed")
	}

	m := metrics.New()
	h, err := buildHandler(ctx, cfg, conns, m)
	if err != nil {
		conns.Close(ctx)
		log.Fatal().Err(err).Msg("❌ Startup failed")
	}

	r := routes.New(h, routes.Options{
		Origins:      cfg.Origins(),
		AdminSecret:  cfg.AdminJWTSecret,
		RateLimiter:  rateLimiter(cfg, conns),
		RateLimitMax: cfg.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("🛑 Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("❌ Server shutdown")
		}
		if closer, ok := h.Notifier.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Warn().Err(err).Msg("⚠️ Notifier close")
			}
		}
		conns.Close(shutdownCtx)
	}()

	log.Info().Str("port", cfg.Port).Str("orders", h.Database).Msg("🚀 Groundnut API listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("❌ Server failed")
	}
	<-done
	log.Info().Msg("👋 Server stopped")
}

func buildHandler(ctx context.Context, cfg *config.Config, conns *database.Connections, m *metrics.Metrics) (*handlers.Handler, error) {
	h := &handlers.Handler{
		Catalog:     catalog.Default(),
		Metrics:     m,
		Development: cfg.IsDevelopment(),
		Origins:     cfg.Origins(),
	}

	var orders store.OrderStore
	if conns.Scylla != nil {
		scylla := store.NewScyllaOrderStore(conns.Scylla)
		if err := scylla.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		orders, h.Database = scylla, "ScyllaDB"
	} else {
		fileOrders, err := store.NewFileOrderStore(filepath.Join(cfg.DataDir, "orders.json"))
		if err != nil {
			return nil, err
		}
		orders, h.Database = fileOrders, "JSON file"
	}

	if conns.Elastic != nil {
		h.Index = search.NewOrderIndex(conns.Elastic, cfg.ElasticIndex)
		orders = search.NewIndexingStore(orders, h.Index)
	}
	if conns.Redis != nil {
		orders = cache.NewOrderStore(orders, conns.Redis)
	}
	h.Orders = orders

	if conns.MongoDB != nil {
		h.Contacts = store.NewMongoContactStore(conns.MongoDB)
	} else {
		contacts, err := store.NewFileContactStore(filepath.Join(cfg.DataDir, "contacts.json"))
		if err != nil {
			return nil, err
		}
		h.Contacts = contacts
	}

	if conns.MinIO != nil {
		h.Exports = export.NewUploader(conns.MinIO, cfg.MinioBucket, cfg.ExportURLTTL)
		if err := h.Exports.EnsureBucket(ctx); err != nil {
			log.Warn().Err(err).Msg("⚠️ Export bucket unavailable, export upload disabled")
			h.Exports = nil
		}
	}

	if conns.Redis != nil {
		h.Carts = cart.NewRedisStorage(conns.Redis)
	}

	notifier, err := notify.New(cfg, m.ObserveNotification)
	if err != nil {
		return nil, err
	}
	h.Notifier = notifier
	return h, nil
}

func rateLimiter(cfg *config.Config, conns *database.Connections) *redis.Client {
	if !cfg.RateLimitEnabled {
		return nil
	}
	return conns.Redis
}
