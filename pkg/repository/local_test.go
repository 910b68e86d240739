package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/repository"
	"github.com/m-mizutani/gt"
)

func testArtifact() *model.Artifact {
	return &model.Artifact{
		Coefficients: []float64{2.0, -1.5},
		Intercept:    0.5,
		FeatureNames: []string{"size", "age"},
		TargetName:   "price",
		Scaler: model.Scaler{
			Mean: []float64{10, 5},
			Std:  []float64{2, 1},
		},
		TargetStats: model.TargetStats{Mean: 100, Std: 20, Min: 50, Max: 150},
		FeatureRanges: []model.FeatureRange{
			{Min: 5, Max: 15},
			{Min: 2, Max: 8},
		},
	}
}

func testMetadata() *model.Metadata {
	return &model.Metadata{
		ModelType:      "Linear Regression",
		Algorithm:      "least_squares",
		Features:       []string{"size", "age"},
		TargetVariable: "price",
		Performance:    map[string]float64{"test_r2": 0.93},
		ModelSummary:   map[string]any{"n_features": 2},
		TrainingData:   [][]float64{{1, 2, 3}, {4, 5, 6}},
	}
}

func TestLocalSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	id, err := repo.Save(ctx, testArtifact(), testMetadata())
	gt.NoError(t, err)
	gt.NotEqual(t, string(id), "")

	artifact := gt.R1(repo.Load(ctx, id)).NoError(t)
	gt.V(t, artifact).NotNil()

	// Loaded artifact must predict identically to the original
	row := []float64{12, 4}
	want := gt.R1(testArtifact().Predict(row)).NoError(t)
	got := gt.R1(artifact.Predict(row)).NoError(t)
	gt.Equal(t, got, want)
}

func TestLocalSaveAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	seen := map[model.ModelID]bool{}
	for i := 0; i < 10; i++ {
		id, err := repo.Save(ctx, testArtifact(), testMetadata())
		gt.NoError(t, err)
		gt.False(t, seen[id])
		seen[id] = true
	}
}

func TestLocalGetMetadata(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	id := gt.R1(repo.Save(ctx, testArtifact(), testMetadata())).NoError(t)

	rec := gt.R1(repo.GetMetadata(ctx, id)).NoError(t)
	gt.V(t, rec).NotNil()
	gt.Equal(t, rec.ID, id)
	gt.Equal(t, rec.ModelType, "Linear Regression")
	gt.Equal(t, rec.Algorithm, "least_squares")
	gt.Equal(t, rec.TargetVariable, "price")
	gt.NotEqual(t, rec.TrainingDataHash, "")
	gt.False(t, rec.CreatedAt.IsZero())
}

func TestLocalGetMetadataMissing(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	// Absence is not an error
	rec, err := repo.GetMetadata(ctx, model.NewModelID())
	gt.NoError(t, err)
	gt.Nil(t, rec)
}

func TestLocalListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	var ids []model.ModelID
	for i := 0; i < 3; i++ {
		id := gt.R1(repo.Save(ctx, testArtifact(), testMetadata())).NoError(t)
		ids = append(ids, id)
		time.Sleep(5 * time.Millisecond)
	}

	records := gt.R1(repo.List(ctx, "")).NoError(t)
	gt.A(t, records).Length(3)
	gt.Equal(t, records[0].ID, ids[2])
	gt.Equal(t, records[1].ID, ids[1])
	gt.Equal(t, records[2].ID, ids[0])
}

func TestLocalListFilterCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	meta := testMetadata()
	gt.R1(repo.Save(ctx, testArtifact(), meta)).NoError(t)

	other := testMetadata()
	other.ModelType = "Random Forest"
	gt.R1(repo.Save(ctx, testArtifact(), other)).NoError(t)

	records := gt.R1(repo.List(ctx, "linear regression")).NoError(t)
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].ModelType, "Linear Regression")

	records = gt.R1(repo.List(ctx, "LINEAR REGRESSION")).NoError(t)
	gt.A(t, records).Length(1)

	records = gt.R1(repo.List(ctx, "gradient boosting")).NoError(t)
	gt.A(t, records).Length(0)
}

func TestLocalDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := repository.NewLocal(dir)

	id := gt.R1(repo.Save(ctx, testArtifact(), testMetadata())).NoError(t)

	deleted := gt.R1(repo.Delete(ctx, id)).NoError(t)
	gt.True(t, deleted)

	// Second delete is a no-op, not an error
	deleted = gt.R1(repo.Delete(ctx, id)).NoError(t)
	gt.False(t, deleted)

	rec := gt.R1(repo.GetMetadata(ctx, id)).NoError(t)
	gt.Nil(t, rec)

	_, err := repo.Load(ctx, id)
	gt.Error(t, err)

	// Artifact file must be gone too
	_, statErr := os.Stat(filepath.Join(dir, string(id)+".gob"))
	gt.True(t, os.IsNotExist(statErr))
}

func TestLocalDeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	deleted, err := repo.Delete(ctx, model.NewModelID())
	gt.NoError(t, err)
	gt.False(t, deleted)
}

func TestLocalDeleteKeepsOthers(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	keep := gt.R1(repo.Save(ctx, testArtifact(), testMetadata())).NoError(t)
	drop := gt.R1(repo.Save(ctx, testArtifact(), testMetadata())).NoError(t)

	gt.R1(repo.Delete(ctx, drop)).NoError(t)

	records := gt.R1(repo.List(ctx, "")).NoError(t)
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].ID, keep)

	artifact := gt.R1(repo.Load(ctx, keep)).NoError(t)
	gt.V(t, artifact).NotNil()
}

func TestLocalLoadMissingModel(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	_, err := repo.Load(ctx, model.NewModelID())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrModelNotFound))
}

func TestLocalLoadMissingArtifact(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := repository.NewLocal(dir)

	id := gt.R1(repo.Save(ctx, testArtifact(), testMetadata())).NoError(t)

	// Record exists but the artifact file was removed out of band
	gt.NoError(t, os.Remove(filepath.Join(dir, string(id)+".gob")))

	_, err := repo.Load(ctx, id)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrStorage))
}

func TestLocalCorruptDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := repository.NewLocal(dir)

	gt.R1(repo.Save(ctx, testArtifact(), testMetadata())).NoError(t)

	gt.NoError(t, os.WriteFile(filepath.Join(dir, "models.json"), []byte("{not json"), 0644))

	_, err := repo.List(ctx, "")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrSchema))
}

func TestLocalEmptyRegistry(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	records := gt.R1(repo.List(ctx, "")).NoError(t)
	gt.A(t, records).Length(0)
}

func TestLocalSaveValidatesMetadata(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	meta := testMetadata()
	meta.ModelType = ""
	_, err := repo.Save(ctx, testArtifact(), meta)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))

	meta = testMetadata()
	meta.Features = nil
	_, err = repo.Save(ctx, testArtifact(), meta)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}

func TestHashTrainingData(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}}

	h1 := gt.R1(repository.HashTrainingData(data)).NoError(t)
	h2 := gt.R1(repository.HashTrainingData(data)).NoError(t)
	gt.Equal(t, h1, h2)
	gt.Equal(t, len(h1), 32) // md5 hex

	h3 := gt.R1(repository.HashTrainingData([][]float64{{1, 2}, {3, 5}})).NoError(t)
	gt.NotEqual(t, h3, h1)
}

func TestHashTrainingDataEmpty(t *testing.T) {
	for _, data := range []any{nil, []float64{}, map[string]any{}, ""} {
		h := gt.R1(repository.HashTrainingData(data)).NoError(t)
		gt.Equal(t, h, "")
	}
}

func TestLocalConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocal(t.TempDir())

	const workers = 8
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := repo.Save(ctx, testArtifact(), testMetadata())
			done <- err
		}()
	}
	for i := 0; i < workers; i++ {
		gt.NoError(t, <-done)
	}

	records := gt.R1(repo.List(ctx, "")).NoError(t)
	gt.A(t, records).Length(workers)
}
