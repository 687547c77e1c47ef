package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/verdant-shop/verdant/internal/app"
	"github.com/verdant-shop/verdant/internal/cart"
	"github.com/verdant-shop/verdant/internal/catalog"
	"github.com/verdant-shop/verdant/internal/importer"
	"github.com/verdant-shop/verdant/internal/orders"
	"github.com/verdant-shop/verdant/internal/platform/cache"
	"github.com/verdant-shop/verdant/internal/platform/db"
	"github.com/verdant-shop/verdant/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	adminOnly := app.AdminOnly(cfg, logger)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, adminOnly)

	pipeline := importer.NewPipeline(catalogRepo, logger, cfg.ImportMaxRows)
	runStore := importer.NewRunStore(dbpool)
	importHandler := importer.NewHandler(logger, pipeline, runStore, jobsClient)

	snapshots := cart.NewRedisSnapshots(redisClient, cfg.CartSnapshotTTL)
	cartHandler := cart.NewHandler(logger, snapshots, cfg.IsProduction())

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo, snapshots, logger)
	ordersHandler := orders.NewHandler(logger, ordersService)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalogHandler,
		ImportHandler:  importHandler,
		CartHandler:    cartHandler,
		OrdersHandler:  ordersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
