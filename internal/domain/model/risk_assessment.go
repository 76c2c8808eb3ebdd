package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/event"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/valueobject"
	"github.com/Dev-Abood/GlucoTwin/pkg/events"
)

// ModelVersion is reported with every prediction.
const ModelVersion = "1.0"

var hundred = decimal.NewFromInt(100)

// RiskAssessment is the aggregate root for one GDM risk prediction.
type RiskAssessment struct {
	events.EventCollector

	assessedAt     time.Time
	label          valueobject.RiskLabel
	modelVersion   string
	factors        []string
	confidence     decimal.Decimal
	gdmProbability decimal.Decimal
	id             uuid.UUID
}

// NewRiskAssessment records a prediction. Percentages are rounded to two
// decimal places and must lie in [0, 100].
func NewRiskAssessment(class int, confidence, gdmProbability float64, factors []string) (*RiskAssessment, error) {
	c, err := percentage("confidence", confidence)
	if err != nil {
		return nil, err
	}
	g, err := percentage("gdm probability", gdmProbability)
	if err != nil {
		return nil, err
	}

	a := &RiskAssessment{
		id:             uuid.New(),
		label:          valueobject.RiskLabelFromClass(class),
		confidence:     c,
		gdmProbability: g,
		factors:        append([]string(nil), factors...),
		modelVersion:   ModelVersion,
		assessedAt:     time.Now().UTC(),
	}

	evt, err := events.NewJSONEvent(
		event.EventTypePredictionCompleted,
		a.id,
		event.AggregateTypeRiskAssessment,
		event.PredictionCompleted{
			AssessmentID:   a.id,
			Prediction:     a.label.String(),
			Confidence:     a.confidence.InexactFloat64(),
			GDMProbability: a.gdmProbability.InexactFloat64(),
			Factors:        a.factors,
			ModelVersion:   a.modelVersion,
			AssessedAt:     a.assessedAt,
		},
	)
	if err != nil {
		return nil, err
	}
	a.Record(evt)

	return a, nil
}

func percentage(name string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) {
		return decimal.Zero, fmt.Errorf("%s is NaN", name)
	}
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("%s must be between 0 and 100, got %s", name, d)
	}
	return d, nil
}

// --- Accessors ---

func (a *RiskAssessment) ID() uuid.UUID                   { return a.id }
func (a *RiskAssessment) Label() valueobject.RiskLabel    { return a.label }
func (a *RiskAssessment) Confidence() decimal.Decimal     { return a.confidence }
func (a *RiskAssessment) GDMProbability() decimal.Decimal { return a.gdmProbability }
func (a *RiskAssessment) Factors() []string               { return a.factors }
func (a *RiskAssessment) ModelVersion() string            { return a.modelVersion }
func (a *RiskAssessment) AssessedAt() time.Time           { return a.assessedAt }
