package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/model"
)

// ModelChecker reports whether the model is loaded.
type ModelChecker interface {
	ModelLoaded() bool
}

// HealthHandler provides the HTTP health check endpoint.
type HealthHandler struct {
	checker ModelChecker
	logger  *slog.Logger
	now     func() time.Time
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(checker ModelChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger,
		now:     time.Now,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	ModelStatus string `json:"model_status"`
	Version     string `json:"version"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
}

// Health reports the service as healthy whether or not the model is loaded;
// model availability is reported separately.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	modelStatus := "not_loaded"
	if h.checker.ModelLoaded() {
		modelStatus = "loaded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Timestamp:   h.now().UTC().Format(time.RFC3339),
		ModelStatus: modelStatus,
		Version:     model.ModelVersion,
	})
}
