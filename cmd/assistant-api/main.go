// cmd/assistant-api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"voice-assistant/internal/api"
	"voice-assistant/internal/assistant"
	"voice-assistant/internal/assistant/gemini"
	"voice-assistant/internal/common/config"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/observability"
	"voice-assistant/pkg/registry"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service": cfg.Observability.ServiceName,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting voice assistant API...",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address()),
	)

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		TracingEnabled: cfg.Observability.TracingEnabled,
	})
	defer obs.Shutdown()

	// --- Intent table ---
	table := registry.LoadOrEmpty(cfg.Intents.Path, log)

	// --- Remote fallback ---
	remote := gemini.NewHandler(gemini.FromAppConfig(cfg.Gemini), log)
	if cfg.Gemini.APIKey == "" {
		zapLog.Warn("GEMINI_API_KEY not set, remote answers disabled")
	}

	resolver := assistant.NewResolver(assistant.FromAppConfig(cfg), table, remote, log, obs)
	handlers := api.NewHandlers(resolver, remote, cfg.App, log)

	var tracerProvider trace.TracerProvider
	if cfg.Observability.TracingEnabled {
		tracerProvider = obs.TracerProvider()
	}
	router := api.NewRouter(handlers, log, api.RouterOptions{
		ServiceName:    cfg.Observability.ServiceName,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
		TracerProvider: tracerProvider,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr), zap.Int("intents", table.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Voice assistant API stopped gracefully")
}
