package dto

import (
	"github.com/Dev-Abood/GlucoTwin/internal/domain/model"
)

// PredictRequest is the input DTO for the PredictRisk use case. PatientData
// holds whatever the client sent under "patientData".
type PredictRequest struct {
	PatientData any `json:"patientData"`
}

// PredictionResponse is the body returned by a successful prediction.
type PredictionResponse struct {
	Prediction      string   `json:"prediction"`
	ModelVersion    string   `json:"model_version"`
	Factors         []string `json:"factors"`
	Confidence      float64  `json:"confidence"`
	GDMProbability  float64  `json:"gdm_probability"`
	APIResponseTime int64    `json:"apiResponseTime"`
}

// FromModel maps a domain model to the response DTO. APIResponseTime is
// filled in by the transport layer.
func FromModel(a *model.RiskAssessment) PredictionResponse {
	return PredictionResponse{
		Prediction:     a.Label().String(),
		Confidence:     a.Confidence().InexactFloat64(),
		GDMProbability: a.GDMProbability().InexactFloat64(),
		Factors:        a.Factors(),
		ModelVersion:   a.ModelVersion(),
	}
}

// ModelStatusResponse describes the loaded model.
type ModelStatusResponse struct {
	ModelPath      string   `json:"model_path"`
	ModelType      string   `json:"model_type"`
	FeatureColumns []string `json:"feature_columns"`
	ModelLoaded    bool     `json:"model_loaded"`
}

// ServiceInfoResponse is returned by the root endpoint.
type ServiceInfoResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
