package rest

import (
	"log/slog"
	"net/http"
)

// RouterConfig collects what NewRouter wires together.
type RouterConfig struct {
	Prediction      *PredictionHandler
	Health          *HealthHandler
	Metrics         http.Handler
	CORSAllowOrigin string
	Logger          *slog.Logger
}

// NewRouter registers all routes and wraps them in the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Prediction.RegisterRoutes(mux)
	cfg.Health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return Chain(mux,
		RequestID(),
		Logging(cfg.Logger),
		Recover(cfg.Logger),
		CORS(cfg.CORSAllowOrigin),
	)
}
