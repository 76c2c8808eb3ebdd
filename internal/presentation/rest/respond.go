package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dev-Abood/GlucoTwin/internal/application/dto"
)

const msgInternalError = "Internal server error occurred"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
