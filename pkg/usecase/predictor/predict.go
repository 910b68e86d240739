package predictor

import (
	"context"
	"time"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// PredictInput references a saved model and new feature rows
type PredictInput struct {
	ModelID model.ModelID `json:"model_id"`
	Rows    [][]float64   `json:"rows"`
}

// ModelInfo is the metadata echoed back with predictions
type ModelInfo struct {
	CreatedAt   time.Time          `json:"created_at"`
	Performance map[string]float64 `json:"performance"`
	Features    []string           `json:"features"`
	Target      string             `json:"target"`
}

// PredictOutput carries predictions with simple confidence intervals
type PredictOutput struct {
	ModelID             model.ModelID `json:"model_id"`
	ModelType           string        `json:"model_type"`
	Predictions         []float64     `json:"predictions"`
	PredictionIntervals [][2]float64  `json:"prediction_intervals"`
	InputRows           [][]float64   `json:"input_data"`
	ModelMetadata       ModelInfo     `json:"model_metadata"`
}

// Predict applies a saved model to new feature rows. The deserialized
// artifact is fetched through the cache; a cache miss loads from the
// registry.
func (u *UseCase) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	if len(input.Rows) == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "no input rows")
	}

	rec, err := u.registry.GetMetadata(ctx, input.ModelID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, goerr.Wrap(model.ErrModelNotFound, "no such model",
			goerr.V("model_id", input.ModelID))
	}

	artifact, ok := u.cache.Get(input.ModelID)
	if !ok {
		artifact, err = u.registry.Load(ctx, input.ModelID)
		if err != nil {
			return nil, err
		}
		u.cache.Put(input.ModelID, artifact)
	} else {
		logging.From(ctx).Debug("artifact cache hit", "model_id", input.ModelID)
	}

	predictions := make([]float64, len(input.Rows))
	intervals := make([][2]float64, len(input.Rows))

	// Simple interval from training target spread
	stdError := artifact.TargetStats.Std * 0.1
	for i, row := range input.Rows {
		pred, err := artifact.Predict(row)
		if err != nil {
			return nil, goerr.Wrap(err, "prediction failed",
				goerr.V("row", i), goerr.V("expected_features", artifact.FeatureNames))
		}
		predictions[i] = pred
		intervals[i] = [2]float64{pred - 1.96*stdError, pred + 1.96*stdError}
	}

	return &PredictOutput{
		ModelID:             input.ModelID,
		ModelType:           rec.ModelType,
		Predictions:         predictions,
		PredictionIntervals: intervals,
		InputRows:           input.Rows,
		ModelMetadata: ModelInfo{
			CreatedAt:   rec.CreatedAt,
			Performance: rec.Performance,
			Features:    artifact.FeatureNames,
			Target:      artifact.TargetName,
		},
	}, nil
}
