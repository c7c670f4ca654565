// Package main provides the entrypoint for the order event worker.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/orderpush/orderpush/internal/api/handler"
	"github.com/orderpush/orderpush/internal/app"
	"github.com/orderpush/orderpush/internal/config"
	"github.com/orderpush/orderpush/internal/telemetry"
	"github.com/orderpush/orderpush/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "orderpush-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting orderpush worker")

	cfg := config.FromEnv()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	pipeline, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize notification pipeline")
	}

	projectID := cfg.PubSubProjectID
	if projectID == "" {
		projectID = pipeline.ProjectID
	}

	pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        projectID,
		SubscriptionName: cfg.PubSubSubscription,
		Processor:        worker.NewProcessor(pipeline.Notifier, log),
		Logger:           log,
		ClientOptions:    []option.ClientOption{option.WithCredentialsJSON(pipeline.Credentials)},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub handler")
	}

	// Worker also exposes health endpoints for Cloud Run
	opsHandler := handler.NewOpsHandler(Version, BuildTime, pipeline.Providers)
	r := chi.NewRouter()
	r.Get("/health", opsHandler.HealthCheck)
	r.Get("/health/providers", opsHandler.ProviderStatus)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := pubsubHandler.Start(ctx); err != nil {
			log.Error().Err(err).Msg("pubsub receive stopped")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}

	log.Info().Msg("shutting down worker")
	cancel()
	<-done

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}
	if err := pubsubHandler.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close pubsub client")
	}
	if err := pipeline.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close stores")
	}

	log.Info().Msg("worker stopped")
}
