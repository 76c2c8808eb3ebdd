package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/boost"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/preprocessing"
)

// Fixed UUIDs for deterministic testing
var (
	TestPredictionID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestRequestID    = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// HighRiskPatient returns frontend patient data with elevated glucose values.
func HighRiskPatient() map[string]any {
	return map[string]any{
		"oneHourGlucose":            "11.2",
		"bpSystolic":                "132",
		"bmiBaseline":               "34.1",
		"fastingBloodGlucose":       "6.4",
		"weightKg":                  "92",
		"pulseHeartRate":            "88",
		"hypertensiveDisorders":     "Yes",
		"typeOfTreatment":           "Metformin",
		"twoHourGlucose":            "9.8",
		"nationality":               "UAE",
		"ageYears":                  "36",
		"bpDiastolic":               "84",
		"height":                    "160",
		"weightGainDuringPregnancy": "14",
	}
}

// LowRiskPatient returns frontend patient data with normal glucose values.
func LowRiskPatient() map[string]any {
	return map[string]any{
		"oneHourGlucose":            7.1,
		"bpSystolic":                110,
		"bmiBaseline":               22.5,
		"fastingBloodGlucose":       4.3,
		"weightKg":                  61,
		"pulseHeartRate":            76,
		"hypertensiveDisorders":     "No",
		"typeOfTreatment":           "No Treatment",
		"twoHourGlucose":            5.9,
		"nationality":               "India",
		"ageYears":                  27,
		"bpDiastolic":               70,
		"height":                    165,
		"weightGainDuringPregnancy": 9,
	}
}

// TrainedModel fits a small classifier and a scaler over all feature columns.
// Rows with fasting glucose above 5.1 are labelled positive.
func TrainedModel(t testing.TB) (*boost.Classifier, *preprocessing.StandardScaler) {
	t.Helper()

	const rows = 40
	data := make([]float64, 0, rows*feature.Count)
	labels := make([]float64, rows)
	fasting := feature.Index(feature.FastingBloodGlucose)
	for i := 0; i < rows; i++ {
		row := make([]float64, feature.Count)
		for j := range row {
			row[j] = float64((i*7+j*3)%11) + 1
		}
		row[fasting] = 4 + float64(i%10)*0.3
		if row[fasting] > 5.1 {
			labels[i] = 1
		}
		data = append(data, row...)
	}

	x := mat.NewDense(rows, feature.Count, data)
	scaler := preprocessing.NewStandardScaler()
	scaled, err := scaler.FitTransform(x, feature.Names())
	require.NoError(t, err)

	params := boost.DefaultParams()
	params.NEstimators = 20
	params.MaxDepth = 3
	clf := boost.NewClassifier(params)
	require.NoError(t, clf.Fit(scaled, labels))

	return clf, scaler
}
