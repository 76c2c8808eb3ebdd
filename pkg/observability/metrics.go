package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string

	// Registry receives the exporter's collectors. Nil uses a fresh registry.
	Registry *prometheus.Registry
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for /metrics endpoint.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	return provider, handler, nil
}

// PredictionMetrics records prediction counts and latencies.
type PredictionMetrics struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewPredictionMetrics creates the prediction instruments on meter.
func NewPredictionMetrics(meter metric.Meter) (*PredictionMetrics, error) {
	count, err := meter.Int64Counter("gdm.predictions",
		metric.WithDescription("Prediction requests by outcome"))
	if err != nil {
		return nil, fmt.Errorf("prediction counter: %w", err)
	}
	duration, err := meter.Float64Histogram("gdm.prediction.duration",
		metric.WithDescription("Prediction latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("prediction histogram: %w", err)
	}
	return &PredictionMetrics{count: count, duration: duration}, nil
}

// RecordPrediction adds one observation for outcome.
func (m *PredictionMetrics) RecordPrediction(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.count.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
