package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mercadia/mercadia-backend/api/routes"
	"github.com/mercadia/mercadia-backend/internal/cart"
	"github.com/mercadia/mercadia-backend/internal/checkout"
	"github.com/mercadia/mercadia-backend/internal/coupons"
	"github.com/mercadia/mercadia-backend/internal/orders"
	"github.com/mercadia/mercadia-backend/internal/pricing"
	"github.com/mercadia/mercadia-backend/pkg/config"
	pkgdb "github.com/mercadia/mercadia-backend/pkg/db"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	"github.com/mercadia/mercadia-backend/pkg/metrics"
	"github.com/mercadia/mercadia-backend/pkg/migrate"
	"github.com/mercadia/mercadia-backend/pkg/platform"
	pkgredis "github.com/mercadia/mercadia-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "mercadia-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := context.Background()

	dbClient, err := pkgdb.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "database connection failed", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if sqlDB, err := dbClient.SQLDB(); err == nil {
		if err := migrate.MaybeRunDev(ctx, cfg, logg, sqlDB); err != nil {
			logg.Error(ctx, "migrations failed", err)
			os.Exit(1)
		}
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "redis connection failed", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gormDB := dbClient.DB()
	rpc := platform.New(gormDB)

	pricer, err := pricing.NewResolver(pricing.NewRepository(gormDB))
	if err != nil {
		logg.Error(ctx, "pricing resolver init failed", err)
		os.Exit(1)
	}
	cartRepo := cart.NewRepository(gormDB)
	couponSvc, err := coupons.NewService(coupons.NewRepository(gormDB), rpc, logg, checkoutMetrics)
	if err != nil {
		logg.Error(ctx, "coupon service init failed", err)
		os.Exit(1)
	}
	checkoutSvc, err := checkout.NewService(pricer, cartRepo, couponSvc, rpc, logg, checkoutMetrics)
	if err != nil {
		logg.Error(ctx, "checkout service init failed", err)
		os.Exit(1)
	}
	orderSvc, err := orders.NewService(orders.NewRepository(gormDB), checkoutSvc, cartRepo, rpc, logg, checkoutMetrics)
	if err != nil {
		logg.Error(ctx, "order service init failed", err)
		os.Exit(1)
	}

	handler := routes.New(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Registry: registry,
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		Coupons:  couponSvc,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "server.start")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "server.shutdown")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server failed", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
}
