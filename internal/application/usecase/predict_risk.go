package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dev-Abood/GlucoTwin/internal/application/dto"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/model"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/port"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/service"
)

// ErrNoPatientData is returned when the request carries no usable patient data.
var ErrNoPatientData = errors.New("no patient data provided")

// Outcome labels recorded per prediction.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeFailed       = "prediction_error"
	OutcomeInternal     = "internal_error"
)

// PredictRisk is the use case for scoring one patient.
type PredictRisk struct {
	predictor *service.Predictor
	publisher port.EventPublisher
	recorder  port.PredictionRecorder
	logger    *slog.Logger
}

// NewPredictRisk creates a new PredictRisk use case. publisher and recorder
// may be nil.
func NewPredictRisk(
	predictor *service.Predictor,
	publisher port.EventPublisher,
	recorder port.PredictionRecorder,
	logger *slog.Logger,
) *PredictRisk {
	return &PredictRisk{
		predictor: predictor,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
	}
}

// Execute validates the patient data, runs the predictor and publishes the
// resulting domain events. Event publishing never fails the prediction.
func (uc *PredictRisk) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	start := time.Now()

	resp, err := uc.execute(ctx, req)

	if uc.recorder != nil {
		uc.recorder.RecordPrediction(ctx, classify(err), time.Since(start))
	}
	return resp, err
}

func (uc *PredictRisk) execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	// 1. Validate the envelope.
	if !Truthy(req.PatientData) {
		return dto.PredictionResponse{}, ErrNoPatientData
	}
	patient, ok := req.PatientData.(map[string]any)
	if !ok {
		return dto.PredictionResponse{}, &service.PredictionError{
			Msg: "data preprocessing failed",
			Err: fmt.Errorf("patientData must be an object, got %s", jsonKind(req.PatientData)),
		}
	}

	// 2. Run the model.
	outcome, err := uc.predictor.Predict(patient)
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	// 3. Record the verdict.
	assessment, err := model.NewRiskAssessment(outcome.Class, outcome.Confidence, outcome.GDMProbability, outcome.Factors)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to record assessment: %w", err)
	}

	// 4. Publish domain events.
	if evts := assessment.DomainEvents(); len(evts) > 0 && uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish prediction events",
				slog.String("assessment_id", assessment.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return dto.FromModel(assessment), nil
}

func classify(err error) string {
	var predErr *service.PredictionError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNoPatientData):
		return OutcomeInvalidInput
	case errors.As(err, &predErr):
		return OutcomeFailed
	default:
		return OutcomeInternal
	}
}

// Truthy reports whether a decoded JSON value counts as present: null, false,
// zero, empty strings, empty arrays and empty objects do not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
