package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/internal/domain/port"
)

// TopFactorCount is how many feature names a prediction reports.
const TopFactorCount = 5

// ErrModelNotLoaded is returned for every prediction when no model artifact
// was available at startup.
var ErrModelNotLoaded = errors.New("model is not loaded")

// PredictionError is a preprocessing or inference failure caused by the
// request or the loaded artifacts. Callers report it to clients verbatim.
type PredictionError struct {
	Msg string
	Err error
}

func (e *PredictionError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Outcome is the raw result of one prediction.
type Outcome struct {
	Class          int
	Confidence     float64 // percent, probability of the predicted class
	GDMProbability float64 // percent, probability of class 1
	Factors        []string
}

// Positive reports whether the predicted class is the GDM class.
func (o Outcome) Positive() bool { return o.Class == 1 }

// Predictor holds the loaded classifier and preprocessing state. It is
// constructed once and only read afterwards.
type Predictor struct {
	classifier   port.Classifier
	preprocessor *Preprocessor
	logger       *slog.Logger
}

// NewPredictor creates a Predictor. classifier may be nil when the model
// artifact could not be loaded; every Predict call then fails.
func NewPredictor(classifier port.Classifier, scaler port.Scaler, logger *slog.Logger) *Predictor {
	if classifier == nil {
		logger.Error("model not loaded, predictions will fail")
	}
	return &Predictor{
		classifier:   classifier,
		preprocessor: NewPreprocessor(scaler, logger),
		logger:       logger,
	}
}

// Loaded reports whether a model is available.
func (p *Predictor) Loaded() bool {
	return p.classifier != nil
}

// Predict runs the full pipeline for one patient.
func (p *Predictor) Predict(patient map[string]any) (Outcome, error) {
	if p.classifier == nil {
		return Outcome{}, &PredictionError{Msg: "prediction failed", Err: ErrModelNotLoaded}
	}

	row := p.preprocessor.Prepare(patient)

	class, err := p.classifier.Predict(row)
	if err != nil {
		return Outcome{}, &PredictionError{Msg: "prediction failed", Err: err}
	}
	proba, err := p.classifier.PredictProba(row)
	if err != nil {
		return Outcome{}, &PredictionError{Msg: "prediction failed", Err: err}
	}
	if len(proba) == 0 {
		return Outcome{}, &PredictionError{Msg: "prediction failed", Err: errors.New("empty probability vector")}
	}

	confidence := proba[0]
	for _, v := range proba[1:] {
		if v > confidence {
			confidence = v
		}
	}
	var gdm float64
	if len(proba) > 1 {
		gdm = proba[1]
	}

	factors, err := p.TopFactors(TopFactorCount)
	if err != nil {
		return Outcome{}, err
	}

	p.logger.Debug("prediction computed",
		"class", class,
		"probabilities", proba,
		"factors", factors,
	)

	return Outcome{
		Class:          class,
		Confidence:     confidence * 100,
		GDMProbability: gdm * 100,
		Factors:        factors,
	}, nil
}

// TopFactors returns the n feature names with the highest global importance.
// The ranking depends only on the model, never on the patient.
func (p *Predictor) TopFactors(n int) ([]string, error) {
	if p.classifier == nil {
		return nil, &PredictionError{Msg: "feature importance unavailable", Err: ErrModelNotLoaded}
	}
	importances := p.classifier.FeatureImportances()
	if len(importances) != feature.Count {
		return nil, &PredictionError{
			Msg: "feature importance unavailable",
			Err: fmt.Errorf("model reports %d importances for %d features", len(importances), feature.Count),
		}
	}

	names := feature.Names()
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return importances[order[a]] > importances[order[b]]
	})

	if n > len(order) {
		n = len(order)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = names[order[i]]
	}
	return out, nil
}
