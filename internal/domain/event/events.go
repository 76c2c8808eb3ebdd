package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypePredictionCompleted is emitted when a risk prediction finishes.
	EventTypePredictionCompleted = "gdm.prediction.completed"

	// AggregateTypeRiskAssessment names the aggregate that emits prediction events.
	AggregateTypeRiskAssessment = "RiskAssessment"
)

// PredictionCompleted is published after a successful prediction. It carries
// the verdict only; patient data never leaves the service.
type PredictionCompleted struct {
	AssessmentID   uuid.UUID `json:"assessment_id"`
	Prediction     string    `json:"prediction"`
	Confidence     float64   `json:"confidence"`
	GDMProbability float64   `json:"gdm_probability"`
	Factors        []string  `json:"factors"`
	ModelVersion   string    `json:"model_version"`
	AssessedAt     time.Time `json:"assessed_at"`
}

// EventType returns the event type identifier.
func (e PredictionCompleted) EventType() string {
	return EventTypePredictionCompleted
}

// AggregateID returns the assessment ID as the aggregate identifier.
func (e PredictionCompleted) AggregateID() uuid.UUID {
	return e.AssessmentID
}
