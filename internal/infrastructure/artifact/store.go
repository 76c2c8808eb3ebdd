// Package artifact persists the trained model, the fitted scaler and the
// fitted label encodings as flat files.
package artifact

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Dev-Abood/GlucoTwin/pkg/ml/boost"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/preprocessing"
)

// Default file names written by the trainer.
const (
	ModelFile    = "model.gob"
	ScalerFile   = "scaler.gob"
	EncodersFile = "encoders.json"
)

// ErrNotFound is returned when an artifact file does not exist.
var ErrNotFound = errors.New("artifact not found")

// Encoders maps a categorical column to its fitted value→code table.
type Encoders map[string]map[string]int

// SaveModel writes a fitted classifier.
func SaveModel(path string, clf *boost.Classifier) error {
	return writeGob(path, clf)
}

// LoadModel reads a classifier written by SaveModel.
func LoadModel(path string) (*boost.Classifier, error) {
	var clf boost.Classifier
	if err := readGob(path, &clf); err != nil {
		return nil, err
	}
	if len(clf.Trees) == 0 {
		return nil, fmt.Errorf("model %s has no trees", path)
	}
	return &clf, nil
}

// SaveScaler writes a fitted scaler.
func SaveScaler(path string, scaler *preprocessing.StandardScaler) error {
	return writeGob(path, scaler)
}

// LoadScaler reads a scaler written by SaveScaler.
func LoadScaler(path string) (*preprocessing.StandardScaler, error) {
	var scaler preprocessing.StandardScaler
	if err := readGob(path, &scaler); err != nil {
		return nil, err
	}
	if scaler.NFeatures() == 0 {
		return nil, fmt.Errorf("scaler %s is not fitted", path)
	}
	return &scaler, nil
}

// SaveEncoders writes the fitted encodings as indented JSON.
func SaveEncoders(path string, enc Encoders) error {
	return writeAtomic(path, func(w io.Writer) error {
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(enc)
	})
}

// LoadEncoders reads encodings written by SaveEncoders.
func LoadEncoders(path string) (Encoders, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var enc Encoders
	if err := json.NewDecoder(f).Decode(&enc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return enc, nil
}

func writeGob(path string, v any) error {
	return writeAtomic(path, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(v)
	})
}

func readGob(path string, v any) error {
	f, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// writeAtomic writes to a temporary file in the target directory and renames
// it into place, so readers never observe a partial artifact.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
