package usecase

import (
	"github.com/Dev-Abood/GlucoTwin/internal/application/dto"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/model"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/service"
)

const (
	// ModelType is the fixed label reported by the model status endpoint.
	ModelType = "GDM Risk Classifier"

	serviceStatus = "GDM Predict AI API is running"
)

// GetModelStatus reports what the service has loaded.
type GetModelStatus struct {
	predictor *service.Predictor
	modelPath string
}

// NewGetModelStatus creates a new GetModelStatus use case.
func NewGetModelStatus(predictor *service.Predictor, modelPath string) *GetModelStatus {
	return &GetModelStatus{predictor: predictor, modelPath: modelPath}
}

// Execute returns the model status.
func (uc *GetModelStatus) Execute() dto.ModelStatusResponse {
	return dto.ModelStatusResponse{
		ModelLoaded:    uc.predictor.Loaded(),
		ModelPath:      uc.modelPath,
		FeatureColumns: feature.Names(),
		ModelType:      ModelType,
	}
}

// ServiceInfo returns the root endpoint payload.
func (uc *GetModelStatus) ServiceInfo() dto.ServiceInfoResponse {
	return dto.ServiceInfoResponse{
		Status:      serviceStatus,
		Version:     model.ModelVersion,
		ModelLoaded: uc.predictor.Loaded(),
	}
}

// ModelLoaded reports whether predictions can succeed.
func (uc *GetModelStatus) ModelLoaded() bool {
	return uc.predictor.Loaded()
}
