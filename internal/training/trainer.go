// Package training fits the GDM classifier and its scaler from the shaped CSV.
package training

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gonum.org/v1/gonum/mat"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/internal/infrastructure/artifact"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/boost"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/preprocessing"
)

// Columns is the required CSV width: every feature plus the label.
const Columns = feature.Count + 1

// ErrColumnCount is returned when the CSV does not have exactly Columns columns.
var ErrColumnCount = errors.New("unexpected column count")

// Report summarizes a training run.
type Report struct {
	Rows              int
	Positives         int
	Accuracy          float64 // on the training data itself
	SamplePrediction  int
	SampleProbability []float64
	ModelPath         string
	ScalerPath        string
	EncodersPath      string
}

// Trainer fits and saves the model artifacts.
type Trainer struct {
	params boost.Params
	logger *slog.Logger
}

// NewTrainer creates a Trainer with the given boosting parameters.
func NewTrainer(params boost.Params, logger *slog.Logger) *Trainer {
	return &Trainer{params: params, logger: logger}
}

// Dataset is the encoded training data.
type Dataset struct {
	X        *mat.Dense
	Y        []float64
	Encoders artifact.Encoders
}

// Load reads the shaped CSV. Headers are replaced positionally by the
// canonical names, empty cells become "0", categorical columns are label
// encoded and numeric columns are parsed leniently.
func Load(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return Dataset{}, errors.New("dataset is empty")
	}
	if len(records[0]) != Columns {
		return Dataset{}, fmt.Errorf("%w: dataset has %d columns, want %d", ErrColumnCount, len(records[0]), Columns)
	}
	rows := records[1:]
	if len(rows) == 0 {
		return Dataset{}, errors.New("dataset has no rows")
	}

	names := feature.Names()
	x := mat.NewDense(len(rows), feature.Count, nil)
	encoders := artifact.Encoders{}

	for j, name := range names {
		column := make([]string, len(rows))
		for i, r := range rows {
			column[i] = fillEmpty(r[j])
		}

		if feature.IsCategorical(name) {
			enc := preprocessing.NewLabelEncoder()
			codes := enc.FitTransform(column)
			for i, c := range codes {
				x.Set(i, j, float64(c))
			}
			encoders[name] = enc.Mapping()
			continue
		}

		for i, v := range column {
			x.Set(i, j, parseNumeric(v))
		}
	}

	y := make([]float64, len(rows))
	for i, r := range rows {
		v, err := cast.ToFloat64E(strings.TrimSpace(fillEmpty(r[feature.Count])))
		if err != nil {
			return Dataset{}, fmt.Errorf("row %d: label %q is not numeric", i+1, r[feature.Count])
		}
		y[i] = v
	}

	return Dataset{X: x, Y: y, Encoders: encoders}, nil
}

// Train fits the scaler and classifier on csvPath and writes the artifacts
// into outDir.
func (t *Trainer) Train(csvPath, outDir string) (Report, error) {
	t.logger.Info("loading dataset", "path", csvPath)
	data, err := Load(csvPath)
	if err != nil {
		return Report{}, err
	}

	rows, cols := data.X.Dims()
	positives := 0
	for _, v := range data.Y {
		if v == 1 {
			positives++
		}
	}
	t.logger.Info("dataset loaded",
		"rows", rows,
		"features", cols,
		"gdm", positives,
		"ngdm", rows-positives,
	)

	scaler := preprocessing.NewStandardScaler()
	scaled, err := scaler.FitTransform(data.X, feature.Names())
	if err != nil {
		return Report{}, fmt.Errorf("fit scaler: %w", err)
	}
	t.logger.Info("features scaled")

	clf := boost.NewClassifier(t.params)
	if err := clf.Fit(scaled, data.Y); err != nil {
		return Report{}, fmt.Errorf("fit classifier: %w", err)
	}
	t.logger.Info("model training completed", "trees", len(clf.Trees))

	report := Report{
		Rows:         rows,
		Positives:    positives,
		ModelPath:    filepath.Join(outDir, artifact.ModelFile),
		ScalerPath:   filepath.Join(outDir, artifact.ScalerFile),
		EncodersPath: filepath.Join(outDir, artifact.EncodersFile),
	}

	if err := artifact.SaveModel(report.ModelPath, clf); err != nil {
		return Report{}, fmt.Errorf("save model: %w", err)
	}
	t.logger.Info("model saved", "path", report.ModelPath)
	if err := artifact.SaveScaler(report.ScalerPath, scaler); err != nil {
		return Report{}, fmt.Errorf("save scaler: %w", err)
	}
	t.logger.Info("scaler saved", "path", report.ScalerPath)
	if err := artifact.SaveEncoders(report.EncodersPath, data.Encoders); err != nil {
		return Report{}, fmt.Errorf("save encoders: %w", err)
	}
	t.logger.Info("encoders saved", "path", report.EncodersPath)

	for _, m := range feature.CompareEncodings(data.Encoders) {
		t.logger.Warn("fitted encoding differs from inference lookup table", "detail", m.String())
	}

	report.Accuracy, err = clf.Score(scaled, data.Y)
	if err != nil {
		return Report{}, fmt.Errorf("score: %w", err)
	}
	sample := scaled.RawRowView(0)
	if report.SamplePrediction, err = clf.Predict(sample); err != nil {
		return Report{}, fmt.Errorf("sample prediction: %w", err)
	}
	if report.SampleProbability, err = clf.PredictProba(sample); err != nil {
		return Report{}, fmt.Errorf("sample probability: %w", err)
	}

	t.logger.Info("training accuracy", "accuracy", fmt.Sprintf("%.4f", report.Accuracy))
	t.logger.Info("sample prediction",
		"prediction", report.SamplePrediction,
		"probability", report.SampleProbability,
	)
	return report, nil
}

func fillEmpty(v string) string {
	if v == "" {
		return "0"
	}
	return v
}

func parseNumeric(v string) float64 {
	f, err := cast.ToFloat64E(strings.TrimSpace(v))
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}
