// Package boost implements a binary gradient-boosted tree classifier with
// logistic loss, second-order leaf weights and gain-based feature importance.
//
// The defaults mirror the common XGBoost classifier defaults so a model fit
// here behaves like one trained with "no parameters".
package boost

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned by prediction methods on an unfitted classifier.
var ErrNotFitted = errors.New("boost: classifier is not fitted")

// Params are the boosting hyperparameters.
type Params struct {
	NEstimators    int
	MaxDepth       int
	LearningRate   float64
	Lambda         float64
	Gamma          float64
	MinChildWeight float64
	BaseScore      float64
}

// DefaultParams returns the library defaults.
func DefaultParams() Params {
	return Params{
		NEstimators:    100,
		MaxDepth:       6,
		LearningRate:   0.3,
		Lambda:         1,
		Gamma:          0,
		MinChildWeight: 1,
		BaseScore:      0.5,
	}
}

// Classifier is a fitted or unfitted boosted ensemble. Exported fields allow
// encoding/gob serialization of a fitted model.
type Classifier struct {
	Params      Params
	BaseMargin  float64
	Trees       []Tree
	NFeatures   int
	Importances []float64
}

// NewClassifier creates an unfitted classifier.
func NewClassifier(params Params) *Classifier {
	return &Classifier{Params: params}
}

// Fit trains the ensemble on x with binary labels y (0 or 1).
func (c *Classifier) Fit(x *mat.Dense, y []float64) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("boost: cannot fit on %dx%d matrix", rows, cols)
	}
	if len(y) != rows {
		return fmt.Errorf("boost: %d labels for %d rows", len(y), rows)
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("boost: label at row %d is %v, want 0 or 1", i, v)
		}
	}
	if c.Params.NEstimators <= 0 {
		return fmt.Errorf("boost: n_estimators must be positive, got %d", c.Params.NEstimators)
	}
	if c.Params.BaseScore <= 0 || c.Params.BaseScore >= 1 {
		return fmt.Errorf("boost: base score must be in (0, 1), got %v", c.Params.BaseScore)
	}

	b := &treeBuilder{
		params:  c.Params,
		columns: make([][]float64, cols),
		order:   make([][]int, cols),
		grad:    make([]float64, rows),
		hess:    make([]float64, rows),
		inNode:  make([]bool, rows),
		gain:    make([]float64, cols),
		splits:  make([]int, cols),
	}
	for f := 0; f < cols; f++ {
		col := mat.Col(nil, f, x)
		idx := make([]int, rows)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return col[idx[a]] < col[idx[b]] })
		b.columns[f] = col
		b.order[f] = idx
	}

	all := make([]int, rows)
	for i := range all {
		all[i] = i
	}

	c.BaseMargin = logit(c.Params.BaseScore)
	c.NFeatures = cols
	c.Trees = make([]Tree, 0, c.Params.NEstimators)

	margin := make([]float64, rows)
	for i := range margin {
		margin[i] = c.BaseMargin
	}
	row := make([]float64, cols)
	for round := 0; round < c.Params.NEstimators; round++ {
		for i := range margin {
			p := sigmoid(margin[i])
			b.grad[i] = p - y[i]
			b.hess[i] = math.Max(p*(1-p), 1e-16)
		}
		tree := b.build(all)
		c.Trees = append(c.Trees, tree)
		for i := range margin {
			mat.Row(row, i, x)
			margin[i] += tree.predict(row)
		}
	}

	c.Importances = make([]float64, cols)
	for f := range c.Importances {
		if b.splits[f] > 0 {
			c.Importances[f] = b.gain[f] / float64(b.splits[f])
		}
	}
	if total := floats.Sum(c.Importances); total > 0 {
		floats.Scale(1/total, c.Importances)
	}
	return nil
}

// PredictProba returns [P(class 0), P(class 1)] for one row.
func (c *Classifier) PredictProba(row []float64) ([]float64, error) {
	if len(c.Trees) == 0 {
		return nil, ErrNotFitted
	}
	if len(row) != c.NFeatures {
		return nil, fmt.Errorf("boost: model expects %d features, got %d", c.NFeatures, len(row))
	}
	m := c.BaseMargin
	for _, t := range c.Trees {
		m += t.predict(row)
	}
	p := sigmoid(m)
	return []float64{1 - p, p}, nil
}

// Predict returns the class label (0 or 1) for one row.
func (c *Classifier) Predict(row []float64) (int, error) {
	proba, err := c.PredictProba(row)
	if err != nil {
		return 0, err
	}
	if proba[1] > 0.5 {
		return 1, nil
	}
	return 0, nil
}

// Score returns the accuracy of the classifier on x against labels y.
func (c *Classifier) Score(x *mat.Dense, y []float64) (float64, error) {
	rows, cols := x.Dims()
	if len(y) != rows {
		return 0, fmt.Errorf("boost: %d labels for %d rows", len(y), rows)
	}
	if rows == 0 {
		return 0, nil
	}
	row := make([]float64, cols)
	correct := 0
	for i := 0; i < rows; i++ {
		mat.Row(row, i, x)
		label, err := c.Predict(row)
		if err != nil {
			return 0, err
		}
		if float64(label) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(rows), nil
}

// FeatureImportances returns the normalized average split gain per feature.
// The ranking is global to the model and does not depend on any input row.
func (c *Classifier) FeatureImportances() []float64 {
	return append([]float64(nil), c.Importances...)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
