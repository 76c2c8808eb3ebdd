package artifact

import (
	"errors"
	"log/slog"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/port"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/boost"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/preprocessing"
)

// Paths locates the artifacts the prediction service loads.
type Paths struct {
	Model    string
	Scaler   string
	Encoders string
}

// Set is the loaded artifacts. Any member may be missing.
type Set struct {
	Model    *boost.Classifier
	Scaler   *preprocessing.StandardScaler
	Encoders Encoders
}

// Load reads every artifact it can. A missing or unreadable model is logged
// as an error, a missing scaler as a warning and missing encodings at debug
// level; none of them stops startup.
func Load(paths Paths, logger *slog.Logger) Set {
	var set Set

	model, err := LoadModel(paths.Model)
	if err != nil {
		logger.Error("failed to load model", "path", paths.Model, "error", err)
	} else {
		set.Model = model
		logger.Info("model loaded", "path", paths.Model, "trees", len(model.Trees), "features", model.NFeatures)
		if model.NFeatures != feature.Count {
			logger.Warn("model feature count differs from the feature contract",
				"model_features", model.NFeatures, "expected", feature.Count)
		}
	}

	scaler, err := LoadScaler(paths.Scaler)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Warn("scaler file not found, will skip scaling", "path", paths.Scaler)
	case err != nil:
		logger.Error("failed to load scaler, will skip scaling", "path", paths.Scaler, "error", err)
	default:
		set.Scaler = scaler
		logger.Info("scaler loaded", "path", paths.Scaler, "features", scaler.NFeatures())
	}

	encoders, err := LoadEncoders(paths.Encoders)
	if err != nil {
		logger.Debug("encodings not loaded", "path", paths.Encoders, "error", err)
	} else {
		set.Encoders = encoders
		for _, m := range feature.CompareEncodings(encoders) {
			logger.Warn("categorical encoding mismatch", "detail", m.String())
		}
	}

	return set
}

// Classifier returns the model as a port, or a nil interface when absent.
func (s Set) Classifier() port.Classifier {
	if s.Model == nil {
		return nil
	}
	return s.Model
}

// StandardScaler returns the scaler as a port, or a nil interface when absent.
func (s Set) StandardScaler() port.Scaler {
	if s.Scaler == nil {
		return nil
	}
	return s.Scaler
}
