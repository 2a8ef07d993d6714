package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/config"
	"github.com/hamed0406/statusforge/internal/httpapi"
	apimw "github.com/hamed0406/statusforge/internal/httpapi/middleware"
	"github.com/hamed0406/statusforge/internal/logging"
	"github.com/hamed0406/statusforge/internal/probe"
	"github.com/hamed0406/statusforge/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel, cfg.LogStdout)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store_open_failed", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}

	var prober probe.Prober = probe.Unconfigured
	if cfg.ProberURL != "" {
		prober = probe.NewHTTPProber(cfg.ProberURL, cfg.ProberToken, cfg.ProbeTimeout)
	} else {
		logger.Warn("prober_not_configured")
	}
	svc := service.New(logger, store, store, prober, cfg.ProbeTimeout)
	api := httpapi.NewServer(logger, svc, store)

	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.String("driver", cfg.DatabaseDriver),
			zap.Bool("auth", len(keys.Public)+len(keys.Admin) > 0),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("api_shutdown")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_serve_failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = multierr.Combine(srv.Shutdown(shutdownCtx), store.Close())
	if err != nil {
		logger.Error("api_shutdown_error", zap.Error(err))
	}
	_ = logger.Sync()
}
