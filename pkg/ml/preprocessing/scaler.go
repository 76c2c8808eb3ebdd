// Package preprocessing provides the feature transforms shared by the trainer
// and the prediction service: column standardization and label encoding.
package preprocessing

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned when a transform is used before Fit.
var ErrNotFitted = errors.New("preprocessing: transform used before fit")

// StandardScaler removes the mean and scales each column to unit variance.
// Statistics are population statistics (divide by n), and columns with zero
// variance are left unscaled.
//
// Fields are exported so the fitted scaler can be serialized with encoding/gob.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
	Names []string
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and standard deviation. names records the
// feature names the scaler was fit on and must match the column count.
func (s *StandardScaler) Fit(x *mat.Dense, names []string) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("preprocessing: cannot fit scaler on %dx%d matrix", rows, cols)
	}
	if len(names) != cols {
		return fmt.Errorf("preprocessing: %d feature names for %d columns", len(names), cols)
	}

	s.Mean = make([]float64, cols)
	s.Scale = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		if std < 1e-12 {
			std = 1
		}
		s.Scale[j] = std
	}
	s.Names = append([]string(nil), names...)
	return nil
}

// NFeatures reports how many columns the scaler was fit on.
func (s *StandardScaler) NFeatures() int {
	return len(s.Mean)
}

// FeatureNames returns a copy of the names recorded at fit time.
func (s *StandardScaler) FeatureNames() []string {
	return append([]string(nil), s.Names...)
}

// Transform standardizes a single row.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(s.Mean) == 0 {
		return nil, ErrNotFitted
	}
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("preprocessing: scaler expects %d features, got %d", len(s.Mean), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformMatrix standardizes every row of x into a new matrix.
func (s *StandardScaler) TransformMatrix(x *mat.Dense) (*mat.Dense, error) {
	if len(s.Mean) == 0 {
		return nil, ErrNotFitted
	}
	rows, cols := x.Dims()
	if cols != len(s.Mean) {
		return nil, fmt.Errorf("preprocessing: scaler expects %d features, got %d", len(s.Mean), cols)
	}
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, x)
	return out, nil
}

// FitTransform fits the scaler and returns the standardized matrix.
func (s *StandardScaler) FitTransform(x *mat.Dense, names []string) (*mat.Dense, error) {
	if err := s.Fit(x, names); err != nil {
		return nil, err
	}
	return s.TransformMatrix(x)
}
