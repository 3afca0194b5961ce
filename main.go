package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/cache"
	"github.com/yumyai/keggmap/pkg/config"
	"github.com/yumyai/keggmap/pkg/db"
	"github.com/yumyai/keggmap/pkg/fetch"
	"github.com/yumyai/keggmap/pkg/handler"
	"github.com/yumyai/keggmap/pkg/middle"
	"github.com/yumyai/keggmap/pkg/wizard"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {

	// Establish logger
	VERSION := "0.1.0"

	if err := logger.InitLogger(zapcore.InfoLevel); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.LogLevel != zapcore.InfoLevel {
		if err := logger.InitLogger(cfg.LogLevel); err != nil {
			panic(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DataDir)
	if err != nil {
		logger.Fatal("Could not open data directory", zap.String("dir", cfg.DataDir), zap.Error(err))
	}
	defer store.Close()

	metrics := middle.NewMetrics()

	kegg, err := wizard.New(ctx, cfg.Orgs, store)
	if err != nil {
		logger.Fatal("Could not start wizard", zap.Error(err))
	}
	kegg.Warnings = metrics.Warnings

	var svgCache cache.Cache = cache.NewNullCache()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, rendering without cache", zap.Error(err))
		} else {
			svgCache = redisCache
		}
	}
	loader := cache.NewLoader(svgCache, cfg.CacheTTL)
	defer loader.Close()

	app := handler.NewApp(kegg, loader, fetch.NewDownloader(store), metrics)

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Serving", zap.String("wizard", kegg.String()), zap.String("data", cfg.DataDir))

	mux := handler.NewRouter(app)

	// Apply middleware
	h := middle.Chain(mux,
		middle.RequestIDMiddleware(logger.L()),
		middle.LoggingMiddleware(logger.L()),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Server starting", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Error starting server:", zap.String("error message", err.Error()))
	}
}
