package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/costbook/backend/internal/app"
	"github.com/costbook/backend/internal/config"
	"github.com/costbook/backend/internal/handler"
	"github.com/costbook/backend/internal/logging"
	"github.com/costbook/backend/internal/repository"
)

func main() {
	logging.Setup(logging.Options{Service: "costbook-api"})

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logging.Fatal("startup failed", "error", err)
	}
	defer a.Close()

	h := handler.New(a.Pool, cfg.FrontendURL)
	if a.Redis != nil {
		h.WithCache(repository.RedisPinger{Client: a.Redis})
	}
	costHandler := handler.NewCostHandler(a.Costs)
	snapshotHandler := handler.NewSnapshotHandler(a.Snapshots)
	popularityHandler := handler.NewPopularityHandler(a.Popularity)

	mux := h.Routes(costHandler, snapshotHandler, popularityHandler, handler.Budgets{
		Read:      handler.NewRateLimiter(ctx, "read", cfg.RateLimits.Read),
		Calculate: handler.NewRateLimiter(ctx, "calculate", cfg.RateLimits.Calculate),
		Capture:   handler.NewRateLimiter(ctx, "capture", cfg.RateLimits.Capture),
	})
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // batch and snapshot requests
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
