package port

import (
	"context"
	"time"

	"github.com/Dev-Abood/GlucoTwin/pkg/events"
)

// Classifier is the capability a trained model artifact must provide.
type Classifier interface {
	// Predict returns the predicted class for one feature row.
	Predict(row []float64) (int, error)

	// PredictProba returns the class probability vector for one feature row.
	PredictProba(row []float64) ([]float64, error)

	// FeatureImportances returns one global importance score per feature,
	// in training column order.
	FeatureImportances() []float64
}

// Scaler is the capability a fitted standardization artifact must provide.
type Scaler interface {
	// Transform rescales one row. The row width must equal NFeatures.
	Transform(row []float64) ([]float64, error)

	// NFeatures reports how many columns the scaler was fit on.
	NFeatures() int
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// PredictionRecorder receives per-request prediction measurements.
type PredictionRecorder interface {
	RecordPrediction(ctx context.Context, outcome string, elapsed time.Duration)
}
