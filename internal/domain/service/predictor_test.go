package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/service"
	"github.com/Dev-Abood/GlucoTwin/pkg/testutil"
)

type mockClassifier struct {
	class       int
	proba       []float64
	importances []float64
	predictErr  error
	probaErr    error
	rows        [][]float64
}

func (m *mockClassifier) Predict(row []float64) (int, error) {
	m.rows = append(m.rows, row)
	return m.class, m.predictErr
}

func (m *mockClassifier) PredictProba(_ []float64) ([]float64, error) {
	return m.proba, m.probaErr
}

func (m *mockClassifier) FeatureImportances() []float64 {
	return m.importances
}

func rankedImportances() []float64 {
	// fastingBloodGlucose, twoHourGlucose, oneHourGlucose, bmiBaseline, ageYears lead.
	imp := make([]float64, feature.Count)
	imp[feature.Index(feature.FastingBloodGlucose)] = 0.30
	imp[feature.Index(feature.TwoHourGlucose)] = 0.20
	imp[feature.Index(feature.OneHourGlucose)] = 0.15
	imp[feature.Index(feature.BMIBaseline)] = 0.10
	imp[feature.Index(feature.AgeYears)] = 0.05
	imp[feature.Index(feature.Height)] = 0.05
	return imp
}

func TestPredictor_ModelNotLoaded(t *testing.T) {
	p := service.NewPredictor(nil, nil, discardLogger())

	assert.False(t, p.Loaded())

	for _, patient := range []map[string]any{testutil.HighRiskPatient(), {}} {
		_, err := p.Predict(patient)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrModelNotLoaded)

		var predErr *service.PredictionError
		assert.True(t, errors.As(err, &predErr))
	}
}

func TestPredictor_Outcome(t *testing.T) {
	clf := &mockClassifier{class: 1, proba: []float64{0.2, 0.8}, importances: rankedImportances()}
	p := service.NewPredictor(clf, nil, discardLogger())

	out, err := p.Predict(testutil.HighRiskPatient())
	require.NoError(t, err)

	assert.True(t, out.Positive())
	assert.InDelta(t, 80.0, out.Confidence, 1e-9)
	assert.InDelta(t, 80.0, out.GDMProbability, 1e-9)
	assert.Equal(t, []string{
		feature.FastingBloodGlucose,
		feature.TwoHourGlucose,
		feature.OneHourGlucose,
		feature.BMIBaseline,
		feature.AgeYears,
	}, out.Factors)
	require.Len(t, clf.rows, 1)
	assert.Len(t, clf.rows[0], feature.Count)
}

func TestPredictor_NegativeConfidence(t *testing.T) {
	clf := &mockClassifier{class: 0, proba: []float64{0.9, 0.1}, importances: rankedImportances()}
	p := service.NewPredictor(clf, nil, discardLogger())

	out, err := p.Predict(testutil.LowRiskPatient())
	require.NoError(t, err)

	assert.False(t, out.Positive())
	assert.InDelta(t, 90.0, out.Confidence, 1e-9)
	assert.InDelta(t, 10.0, out.GDMProbability, 1e-9)
}

func TestPredictor_SingleProbability(t *testing.T) {
	clf := &mockClassifier{class: 0, proba: []float64{1}, importances: rankedImportances()}
	p := service.NewPredictor(clf, nil, discardLogger())

	out, err := p.Predict(testutil.LowRiskPatient())
	require.NoError(t, err)

	assert.InDelta(t, 100.0, out.Confidence, 1e-9)
	assert.Zero(t, out.GDMProbability)
}

func TestPredictor_InferenceErrors(t *testing.T) {
	tests := []struct {
		name string
		clf  *mockClassifier
	}{
		{name: "predict fails", clf: &mockClassifier{predictErr: errors.New("bad row"), importances: rankedImportances()}},
		{name: "proba fails", clf: &mockClassifier{probaErr: errors.New("bad row"), importances: rankedImportances()}},
		{name: "empty proba", clf: &mockClassifier{proba: []float64{}, importances: rankedImportances()}},
		{name: "importance width", clf: &mockClassifier{proba: []float64{0.5, 0.5}, importances: []float64{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := service.NewPredictor(tt.clf, nil, discardLogger())

			_, err := p.Predict(testutil.HighRiskPatient())

			var predErr *service.PredictionError
			require.ErrorAs(t, err, &predErr)
			assert.NotErrorIs(t, err, service.ErrModelNotLoaded)
		})
	}
}

func TestPredictor_TopFactorsStableOnTies(t *testing.T) {
	clf := &mockClassifier{importances: make([]float64, feature.Count)}
	p := service.NewPredictor(clf, nil, discardLogger())

	factors, err := p.TopFactors(service.TopFactorCount)
	require.NoError(t, err)

	assert.Equal(t, feature.Names()[:5], factors)
}

func TestPredictor_FactorsAreGlobal(t *testing.T) {
	clf, scaler := testutil.TrainedModel(t)
	p := service.NewPredictor(clf, scaler, discardLogger())

	high, err := p.Predict(testutil.HighRiskPatient())
	require.NoError(t, err)
	low, err := p.Predict(testutil.LowRiskPatient())
	require.NoError(t, err)

	assert.Len(t, high.Factors, service.TopFactorCount)
	assert.Equal(t, high.Factors, low.Factors)
	for _, out := range []service.Outcome{high, low} {
		assert.GreaterOrEqual(t, out.Confidence, 0.0)
		assert.LessOrEqual(t, out.Confidence, 100.0)
		assert.GreaterOrEqual(t, out.GDMProbability, 0.0)
		assert.LessOrEqual(t, out.GDMProbability, 100.0)
	}
}
