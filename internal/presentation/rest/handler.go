package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dev-Abood/GlucoTwin/internal/application/dto"
	"github.com/Dev-Abood/GlucoTwin/internal/application/usecase"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/service"
)

const (
	maxBodyBytes = 1 << 20

	msgNoPredictionData = "no prediction data provided"
	msgInvalidBody      = "invalid request body"
)

// PredictionHandler serves the prediction and model information endpoints.
type PredictionHandler struct {
	predict *usecase.PredictRisk
	status  *usecase.GetModelStatus
	logger  *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predict *usecase.PredictRisk, status *usecase.GetModelStatus, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{
		predict: predict,
		status:  status,
		logger:  logger,
	}
}

// RegisterRoutes registers the prediction endpoints on the provided ServeMux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /model/status", h.ModelStatus)
}

// Predict handles POST /predict with a {"patientData": {...}} body.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read request body",
			slog.String("request_id", RequestIDFromContext(ctx)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, msgNoPredictionData)
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if !usecase.Truthy(payload) {
		writeError(w, http.StatusBadRequest, msgNoPredictionData)
		return
	}
	envelope, ok := payload.(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resp, err := h.predict.Execute(ctx, dto.PredictRequest{PatientData: envelope["patientData"]})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp.APIResponseTime = time.Since(start).Milliseconds()
	h.logger.InfoContext(ctx, "prediction served",
		slog.String("request_id", RequestIDFromContext(ctx)),
		slog.String("prediction", resp.Prediction),
		slog.Float64("confidence", resp.Confidence),
		slog.Int64("api_response_time_ms", resp.APIResponseTime),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (h *PredictionHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var predErr *service.PredictionError
	switch {
	case errors.Is(err, usecase.ErrNoPatientData):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &predErr):
		h.logger.WarnContext(r.Context(), "prediction failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "unexpected prediction error",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

// Root handles GET / with service liveness and version.
func (h *PredictionHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.ServiceInfo())
}

// ModelStatus handles GET /model/status.
func (h *PredictionHandler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Execute())
}
