package estimator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatelab/wardnavi/internal/domain"
)

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-artifact.bin"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingArtifact)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.bin")
	require.NoError(t, os.WriteFile(path, []byte("definitely not msgpack"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingArtifact)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.bin")
	original := testForest()
	original.TrainedAt = "2026-08-01"
	original.Samples = 1234

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.TrainedAt, loaded.TrainedAt)
	assert.Equal(t, original.Samples, loaded.Samples)

	// The decoded model must predict identically to the in-memory one.
	feat := Features{FloorArea: 60, BuildingAge: 5, WalkMinutes: 3, Ward: domain.WardMinato}
	want, err := original.Predict(feat)
	require.NoError(t, err)
	got, err := loaded.Predict(feat)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRejectsInvalidForest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.bin")
	err := Save(path, &Forest{})
	require.Error(t, err)
}
