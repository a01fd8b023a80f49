package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	cartapp "github.com/vgclassic/storefront/internal/cart/app"
	cartcache "github.com/vgclassic/storefront/internal/cart/infra/cache"
	cartpg "github.com/vgclassic/storefront/internal/cart/infra/postgres"
	catalogapp "github.com/vgclassic/storefront/internal/catalog/app"
	catalogpg "github.com/vgclassic/storefront/internal/catalog/infra/postgres"
	checkoutapp "github.com/vgclassic/storefront/internal/checkout/app"
	checkoutdomain "github.com/vgclassic/storefront/internal/checkout/domain"
	"github.com/vgclassic/storefront/internal/checkout/infra/adapter"
	"github.com/vgclassic/storefront/internal/inventory"
	orderapp "github.com/vgclassic/storefront/internal/order/app"
	orderpg "github.com/vgclassic/storefront/internal/order/infra/postgres"
	"github.com/vgclassic/storefront/internal/web"
	"github.com/vgclassic/storefront/pkg/config"
	"github.com/vgclassic/storefront/pkg/logger"
	"github.com/vgclassic/storefront/pkg/metrics"
	"github.com/vgclassic/storefront/pkg/postgres"
	"github.com/vgclassic/storefront/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db := mustDB(log, cfg)
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	// Catalog
	productRepo := catalogpg.NewProductRepo(db)
	catalogSvc := catalogapp.NewService(productRepo)

	// Inventory gate over the catalog
	stock := inventory.NewValidator(adapter.NewCatalogServiceReader(catalogSvc))

	// Cart
	cartRepo := cartpg.NewCartRepo(db)
	cartSvc := cartapp.NewService(cartRepo, stock, cartcache.NewRedisCache(redisClient))

	// Orders
	orderRepo := orderpg.NewOrderRepo(db)
	orderSvc := orderapp.NewService(orderRepo)

	// Checkout orchestrator
	cartReader := adapter.NewCartServiceReader(cartSvc)
	checkoutSvc := checkoutapp.NewService(
		cartReader,
		stock,
		adapter.NewOrderServiceWriter(orderSvc),
		cartReader,
		checkoutdomain.PricingConfig{ShippingFlat: cfg.ShippingFlat, TaxRate: cfg.TaxRate},
		10,
	)

	reg := prometheus.NewRegistry()
	m := metrics.NewServerMetrics(reg, "api")

	router := web.NewRouter(web.Services{
		Cart:     cartSvc,
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		Products: catalogSvc,
	}, m, reg)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

func mustDB(log *slog.Logger, cfg config.Config) *sql.DB {
	db, err := postgres.Open(postgres.Config{
		Host: cfg.Postgres.Host,
		Port: cfg.Postgres.Port,
		User: cfg.Postgres.User,
		Pass: cfg.Postgres.Pass,
		DB:   cfg.Postgres.DB,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}

	if err := postgres.Migrate(db, cfg.Postgres.MigrationsDir); err != nil {
		log.Error("migrations failed", slog.Any("err", err))
		os.Exit(1)
	}

	return db
}
