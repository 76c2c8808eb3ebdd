package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-Abood/GlucoTwin/internal/application/dto"
	"github.com/Dev-Abood/GlucoTwin/internal/application/usecase"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/event"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/service"
	"github.com/Dev-Abood/GlucoTwin/pkg/events"
	"github.com/Dev-Abood/GlucoTwin/pkg/testutil"
)

// --- Mock implementations ---

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	err             error
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if m.err != nil {
		return m.err
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockRecorder struct {
	outcomes []string
}

func (m *mockRecorder) RecordPrediction(_ context.Context, outcome string, _ time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadedPredictor(t *testing.T) *service.Predictor {
	t.Helper()
	clf, scaler := testutil.TrainedModel(t)
	return service.NewPredictor(clf, scaler, discardLogger())
}

// --- Tests ---

func TestPredictRisk_Execute(t *testing.T) {
	t.Run("successful prediction publishes one event", func(t *testing.T) {
		publisher := &mockEventPublisher{}
		recorder := &mockRecorder{}
		uc := usecase.NewPredictRisk(loadedPredictor(t), publisher, recorder, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.PredictRequest{PatientData: testutil.HighRiskPatient()})
		require.NoError(t, err)

		assert.Contains(t, []string{"GDM Risk", "No GDM Risk"}, resp.Prediction)
		assert.Equal(t, "1.0", resp.ModelVersion)
		assert.Len(t, resp.Factors, 5)
		assert.GreaterOrEqual(t, resp.Confidence, 50.0)
		assert.LessOrEqual(t, resp.Confidence, 100.0)

		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, event.EventTypePredictionCompleted, publisher.publishedEvents[0].EventType())
		assert.Equal(t, []string{usecase.OutcomeSuccess}, recorder.outcomes)
	})

	t.Run("publish failure does not fail the prediction", func(t *testing.T) {
		publisher := &mockEventPublisher{err: errors.New("broker down")}
		uc := usecase.NewPredictRisk(loadedPredictor(t), publisher, nil, discardLogger())

		_, err := uc.Execute(context.Background(), dto.PredictRequest{PatientData: testutil.LowRiskPatient()})
		assert.NoError(t, err)
	})

	t.Run("nil publisher and recorder", func(t *testing.T) {
		uc := usecase.NewPredictRisk(loadedPredictor(t), nil, nil, discardLogger())

		_, err := uc.Execute(context.Background(), dto.PredictRequest{PatientData: testutil.LowRiskPatient()})
		assert.NoError(t, err)
	})
}

func TestPredictRisk_MissingPatientData(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{name: "absent", data: nil},
		{name: "empty object", data: map[string]any{}},
		{name: "false", data: false},
		{name: "zero", data: 0.0},
		{name: "empty string", data: ""},
		{name: "empty array", data: []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &mockRecorder{}
			uc := usecase.NewPredictRisk(loadedPredictor(t), nil, recorder, discardLogger())

			_, err := uc.Execute(context.Background(), dto.PredictRequest{PatientData: tt.data})

			assert.ErrorIs(t, err, usecase.ErrNoPatientData)
			assert.Equal(t, []string{usecase.OutcomeInvalidInput}, recorder.outcomes)
		})
	}
}

func TestPredictRisk_NonObjectPatientData(t *testing.T) {
	uc := usecase.NewPredictRisk(loadedPredictor(t), nil, nil, discardLogger())

	_, err := uc.Execute(context.Background(), dto.PredictRequest{PatientData: "abc"})

	var predErr *service.PredictionError
	require.ErrorAs(t, err, &predErr)
	assert.Contains(t, err.Error(), "patientData must be an object, got string")
}

func TestPredictRisk_ModelNotLoaded(t *testing.T) {
	publisher := &mockEventPublisher{}
	recorder := &mockRecorder{}
	uc := usecase.NewPredictRisk(service.NewPredictor(nil, nil, discardLogger()), publisher, recorder, discardLogger())

	_, err := uc.Execute(context.Background(), dto.PredictRequest{PatientData: testutil.HighRiskPatient()})

	assert.ErrorIs(t, err, service.ErrModelNotLoaded)
	assert.Empty(t, publisher.publishedEvents)
	assert.Equal(t, []string{usecase.OutcomeFailed}, recorder.outcomes)
}

func TestTruthy(t *testing.T) {
	assert.True(t, usecase.Truthy(map[string]any{"a": 1.0}))
	assert.True(t, usecase.Truthy("x"))
	assert.True(t, usecase.Truthy(true))
	assert.True(t, usecase.Truthy(-1.0))
	assert.True(t, usecase.Truthy([]any{nil}))
	assert.False(t, usecase.Truthy(nil))
	assert.False(t, usecase.Truthy(map[string]any{}))
}
