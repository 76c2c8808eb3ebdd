package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dev-Abood/GlucoTwin/internal/application/usecase"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/port"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/service"
	"github.com/Dev-Abood/GlucoTwin/internal/infrastructure/artifact"
	"github.com/Dev-Abood/GlucoTwin/internal/infrastructure/config"
	"github.com/Dev-Abood/GlucoTwin/internal/infrastructure/messaging"
	"github.com/Dev-Abood/GlucoTwin/internal/presentation/rest"
	"github.com/Dev-Abood/GlucoTwin/pkg/kafka"
	"github.com/Dev-Abood/GlucoTwin/pkg/observability"
	"github.com/Dev-Abood/GlucoTwin/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting gdm-api",
		"address", cfg.Address(),
		"environment", cfg.Environment,
	)

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			logger.Error("meter provider shutdown error", slog.String("error", err.Error()))
		}
	}()

	predictionMetrics, err := observability.NewPredictionMetrics(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		logger.Error("failed to create prediction metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load artifacts once; the predictor is read-only afterwards.
	artifacts := artifact.Load(artifact.Paths{
		Model:    cfg.Artifacts.ModelPath,
		Scaler:   cfg.Artifacts.ScalerPath,
		Encoders: cfg.Artifacts.EncodersPath,
	}, logger)
	predictor := service.NewPredictor(artifacts.Classifier(), artifacts.StandardScaler(), logger)

	// Initialize event publisher.
	publisher, closePublisher, err := newPublisher(cfg.Kafka, logger)
	if err != nil {
		logger.Error("failed to create event publisher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closePublisher()

	// Initialize use cases.
	predictRiskUC := usecase.NewPredictRisk(predictor, publisher, predictionMetrics, logger)
	modelStatusUC := usecase.NewGetModelStatus(predictor, cfg.Artifacts.ModelPath)

	// Initialize HTTP server.
	router := rest.NewRouter(rest.RouterConfig{
		Prediction:      rest.NewPredictionHandler(predictRiskUC, modelStatusUC, logger),
		Health:          rest.NewHealthHandler(modelStatusUC, logger),
		Metrics:         metricsHandler,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Logger:          logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if cfg.TLSEnabled() {
		tlsCfg, err := tlsutil.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			logger.Error("failed to load TLS key pair", slog.String("error", err.Error()))
			os.Exit(1)
		}
		httpServer.TLSConfig = tlsCfg
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			slog.String("address", cfg.Address()),
			slog.Bool("tls", cfg.TLSEnabled()),
		)
		var err error
		if cfg.TLSEnabled() {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("gdm-api started",
		slog.Bool("model_loaded", predictor.Loaded()),
		slog.Bool("events_enabled", cfg.Kafka.Enabled()),
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		logger.Error("server error", slog.String("error", err.Error()))
	}

	// Graceful shutdown.
	logger.Info("shutting down gdm-api")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("gdm-api stopped")
}

// newPublisher returns a Kafka publisher when brokers are configured and a
// logging publisher otherwise.
func newPublisher(cfg config.KafkaConfig, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if !cfg.Enabled() {
		logger.Info("no Kafka brokers configured, prediction events will be logged only")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := kafka.NewProducer(cfg.Producer())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing prediction events",
		slog.String("topic", producer.Topic()),
		slog.Any("brokers", cfg.Brokers),
	)

	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	return messaging.NewKafkaPublisher(producer, logger), closeFn, nil
}
