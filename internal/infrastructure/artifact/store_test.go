package artifact_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-Abood/GlucoTwin/internal/domain/feature"
	"github.com/Dev-Abood/GlucoTwin/internal/infrastructure/artifact"
	"github.com/Dev-Abood/GlucoTwin/pkg/testutil"
)

func TestModelRoundTrip(t *testing.T) {
	clf, scaler := testutil.TrainedModel(t)
	dir := t.TempDir()
	path := filepath.Join(dir, artifact.ModelFile)

	require.NoError(t, artifact.SaveModel(path, clf))
	loaded, err := artifact.LoadModel(path)
	require.NoError(t, err)

	assert.Equal(t, clf.FeatureImportances(), loaded.FeatureImportances())

	row, err := scaler.Transform(make([]float64, feature.Count))
	require.NoError(t, err)
	want, err := clf.PredictProba(row)
	require.NoError(t, err)
	got, err := loaded.PredictProba(row)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestScalerRoundTrip(t *testing.T) {
	_, scaler := testutil.TrainedModel(t)
	path := filepath.Join(t.TempDir(), artifact.ScalerFile)

	require.NoError(t, artifact.SaveScaler(path, scaler))
	loaded, err := artifact.LoadScaler(path)
	require.NoError(t, err)

	assert.Equal(t, scaler.Mean, loaded.Mean)
	assert.Equal(t, scaler.Scale, loaded.Scale)
	assert.Equal(t, feature.Names(), loaded.FeatureNames())
}

func TestEncodersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.EncodersFile)
	enc := artifact.Encoders{
		feature.HypertensiveDisorders: {"Nil": 0, "No": 1, "Yes": 2},
	}

	require.NoError(t, artifact.SaveEncoders(path, enc))
	loaded, err := artifact.LoadEncoders(path)
	require.NoError(t, err)
	assert.Equal(t, enc, loaded)
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := artifact.LoadModel(filepath.Join(dir, "missing.gob"))
	assert.ErrorIs(t, err, artifact.ErrNotFound)

	_, err = artifact.LoadScaler(filepath.Join(dir, "missing.gob"))
	assert.ErrorIs(t, err, artifact.ErrNotFound)

	_, err = artifact.LoadEncoders(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob"), 0o600))

	_, err := artifact.LoadModel(path)
	testutil.AssertErrorContains(t, err, "decode "+path)
	assert.NotErrorIs(t, err, artifact.ErrNotFound)
}

func TestLoadSet(t *testing.T) {
	clf, scaler := testutil.TrainedModel(t)
	dir := t.TempDir()
	paths := artifact.Paths{
		Model:    filepath.Join(dir, artifact.ModelFile),
		Scaler:   filepath.Join(dir, artifact.ScalerFile),
		Encoders: filepath.Join(dir, artifact.EncodersFile),
	}
	require.NoError(t, artifact.SaveModel(paths.Model, clf))
	require.NoError(t, artifact.SaveScaler(paths.Scaler, scaler))
	require.NoError(t, artifact.SaveEncoders(paths.Encoders, artifact.Encoders{
		feature.HypertensiveDisorders: {"Nil": 0, "No": 1, "Yes": 2},
	}))

	var logs bytes.Buffer
	set := artifact.Load(paths, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.NotNil(t, set.Classifier())
	assert.NotNil(t, set.StandardScaler())
	assert.Contains(t, logs.String(), "categorical encoding mismatch")
}

func TestLoadSetMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	set := artifact.Load(artifact.Paths{
		Model:    filepath.Join(dir, "model.gob"),
		Scaler:   filepath.Join(dir, "scaler.gob"),
		Encoders: filepath.Join(dir, "encoders.json"),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Nil(t, set.Classifier())
	assert.Nil(t, set.StandardScaler())
	assert.Nil(t, set.Encoders)
}
