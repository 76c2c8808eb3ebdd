package service

import (
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/port"
)

// Preprocessor turns loosely typed patient data into the model's feature row.
type Preprocessor struct {
	scaler port.Scaler
	logger *slog.Logger
}

// NewPreprocessor creates a Preprocessor. scaler may be nil, in which case
// rows are passed to the model unscaled.
func NewPreprocessor(scaler port.Scaler, logger *slog.Logger) *Preprocessor {
	return &Preprocessor{scaler: scaler, logger: logger}
}

// Align maps, coerces and recodes patient data into a row in canonical
// column order. Missing columns are 0. Align never fails.
func (p *Preprocessor) Align(patient map[string]any) []float64 {
	mapped := feature.MapFields(patient)

	row := make([]float64, feature.Count)
	for i, name := range feature.Names() {
		raw, ok := mapped[name]
		if !ok {
			continue
		}
		if feature.IsCategorical(name) {
			row[i] = feature.Lookup(name, raw)
		} else {
			row[i] = coerceNumeric(raw)
		}
	}
	return row
}

// Prepare aligns patient data and applies the scaler when one is loaded.
func (p *Preprocessor) Prepare(patient map[string]any) []float64 {
	row := p.Align(patient)
	if p.scaler == nil {
		p.logger.Debug("no scaler loaded, skipping scaling")
		return row
	}

	if p.scaler.NFeatures() == feature.Count {
		scaled, err := p.scaler.Transform(row)
		if err != nil {
			p.logger.Warn("could not apply scaler, skipping scaling", "error", err)
			return row
		}
		p.logger.Debug("applied scaling to all features")
		return scaled
	}

	numeric := feature.NumericNames()
	subset := make([]float64, len(numeric))
	for i, name := range numeric {
		subset[i] = row[feature.Index(name)]
	}
	scaled, err := p.scaler.Transform(subset)
	if err != nil {
		p.logger.Warn("could not apply scaler, skipping scaling", "error", err)
		return row
	}
	out := append([]float64(nil), row...)
	for i, name := range numeric {
		out[feature.Index(name)] = scaled[i]
	}
	p.logger.Debug("applied scaling to numerical features only")
	return out
}

// coerceNumeric parses raw leniently: strings are trimmed, bools become 1/0,
// and null, NaN or anything unparseable becomes 0.
func coerceNumeric(raw any) float64 {
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
