package predictor

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	minTrainingSamples = 5
	testSplitRatio     = 0.3
	splitSeed          = 42
)

// TrainingSample is one row of labeled training data
type TrainingSample struct {
	Features []float64 `json:"features"`
	Target   float64   `json:"target"`
}

// TrainInput carries labeled samples plus optional naming and training
// configuration
type TrainInput struct {
	Samples         []TrainingSample `json:"training_data"`
	Hyperparameters map[string]any   `json:"hyperparameters,omitempty"`
	FeatureNames    []string         `json:"feature_names,omitempty"`
	TargetName      string           `json:"target_variable,omitempty"`
}

// TrainOutput reports the saved model and its holdout performance
type TrainOutput struct {
	ModelID           model.ModelID      `json:"model_id"`
	ModelType         string             `json:"model_type"`
	Performance       map[string]float64 `json:"performance"`
	ModelSummary      map[string]any     `json:"model_summary"`
	SamplePredictions []float64          `json:"sample_predictions"`
	ActualValues      []float64          `json:"actual_values"`
	TrainingDataUsed  int                `json:"training_data_used"`
	Message           string             `json:"message"`
}

// Train fits a linear regression on standardized features with a 70/30
// holdout split and saves the artifact plus metadata through the registry.
func (u *UseCase) Train(ctx context.Context, input *TrainInput) (*TrainOutput, error) {
	n := len(input.Samples)
	if n < minTrainingSamples {
		return nil, goerr.Wrap(model.ErrValidation, "not enough training data",
			goerr.V("required", minTrainingSamples), goerr.V("got", n))
	}

	p := len(input.Samples[0].Features)
	if p == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "samples have no features")
	}
	for i, s := range input.Samples {
		if len(s.Features) != p {
			return nil, goerr.Wrap(model.ErrValidation, "inconsistent feature dimensions",
				goerr.V("sample", i), goerr.V("expected", p), goerr.V("got", len(s.Features)))
		}
	}

	featureNames := input.FeatureNames
	if len(featureNames) == 0 {
		featureNames = make([]string, p)
		for i := range featureNames {
			featureNames[i] = fmt.Sprintf("feature_%d", i)
		}
	} else if len(featureNames) != p {
		return nil, goerr.Wrap(model.ErrValidation, "feature name count mismatch",
			goerr.V("features", p), goerr.V("names", len(featureNames)))
	}

	targetName := input.TargetName
	if targetName == "" {
		targetName = "target"
	}

	// Deterministic shuffle so repeated training on the same data yields
	// the same split
	idx := rand.New(rand.NewSource(splitSeed)).Perm(n)
	testN := int(float64(n) * testSplitRatio)
	if testN < 1 {
		testN = 1
	}
	trainIdx, testIdx := idx[testN:], idx[:testN]

	trainX, trainY := subset(input.Samples, trainIdx)
	testX, testY := subset(input.Samples, testIdx)

	scaler := fitScaler(trainX)
	coefs, intercept, err := leastSquares(scale(scaler, trainX), trainY)
	if err != nil {
		return nil, err
	}

	artifact := &model.Artifact{
		Coefficients:  coefs,
		Intercept:     intercept,
		FeatureNames:  featureNames,
		TargetName:    targetName,
		Scaler:        *scaler,
		TargetStats:   targetStats(input.Samples),
		FeatureRanges: featureRanges(input.Samples),
	}

	trainPred := predictAll(artifact, trainX)
	testPred := predictAll(artifact, testX)

	testMSE := meanSquaredError(testY, testPred)
	performance := map[string]float64{
		"train_r2":  rSquared(trainY, trainPred),
		"test_r2":   rSquared(testY, testPred),
		"train_mse": meanSquaredError(trainY, trainPred),
		"test_mse":  testMSE,
		"train_mae": meanAbsoluteError(trainY, trainPred),
		"test_mae":  meanAbsoluteError(testY, testPred),
		"rmse":      math.Sqrt(testMSE),
	}

	summary := map[string]any{
		"coefficients": coefs,
		"intercept":    intercept,
		"n_features":   p,
		"n_samples":    n,
	}

	// Only a small sample of training data goes into the change detection
	// hash input
	hashSample := input.Samples
	if len(hashSample) > 10 {
		hashSample = hashSample[:10]
	}

	meta := &model.Metadata{
		ModelType:       "Linear Regression",
		Algorithm:       "least_squares",
		DataShape:       []int{n, p},
		Features:        featureNames,
		TargetVariable:  targetName,
		Performance:     performance,
		ModelSummary:    summary,
		Hyperparameters: input.Hyperparameters,
		TrainingData:    hashSample,
	}

	id, err := u.registry.Save(ctx, artifact, meta)
	if err != nil {
		return nil, err
	}

	return &TrainOutput{
		ModelID:           id,
		ModelType:         meta.ModelType,
		Performance:       performance,
		ModelSummary:      summary,
		SamplePredictions: head(testPred, 5),
		ActualValues:      head(testY, 5),
		TrainingDataUsed:  n,
		Message:           fmt.Sprintf("model trained and saved with ID %.8s", id),
	}, nil
}

func subset(samples []TrainingSample, idx []int) ([][]float64, []float64) {
	x := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for i, j := range idx {
		x[i] = samples[j].Features
		y[i] = samples[j].Target
	}
	return x, y
}

func head(vals []float64, n int) []float64 {
	if len(vals) > n {
		return vals[:n]
	}
	return vals
}

func fitScaler(x [][]float64) *model.Scaler {
	p := len(x[0])
	mean := make([]float64, p)
	std := make([]float64, p)

	for _, row := range x {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(x))
	}
	for _, row := range x {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / float64(len(x)))
	}
	return &model.Scaler{Mean: mean, Std: std}
}

func scale(s *model.Scaler, x [][]float64) [][]float64 {
	scaled := make([][]float64, len(x))
	for i, row := range x {
		scaled[i] = s.Transform(row)
	}
	return scaled
}

func predictAll(a *model.Artifact, x [][]float64) []float64 {
	preds := make([]float64, len(x))
	for i, row := range x {
		preds[i], _ = a.Predict(row)
	}
	return preds
}

func targetStats(samples []TrainingSample) model.TargetStats {
	stats := model.TargetStats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, s := range samples {
		stats.Mean += s.Target
		stats.Min = math.Min(stats.Min, s.Target)
		stats.Max = math.Max(stats.Max, s.Target)
	}
	stats.Mean /= float64(len(samples))

	var ss float64
	for _, s := range samples {
		d := s.Target - stats.Mean
		ss += d * d
	}
	stats.Std = math.Sqrt(ss / float64(len(samples)))
	return stats
}

func featureRanges(samples []TrainingSample) []model.FeatureRange {
	p := len(samples[0].Features)
	ranges := make([]model.FeatureRange, p)
	for j := range ranges {
		ranges[j] = model.FeatureRange{Min: math.Inf(1), Max: math.Inf(-1)}
	}
	for _, s := range samples {
		for j, v := range s.Features {
			ranges[j].Min = math.Min(ranges[j].Min, v)
			ranges[j].Max = math.Max(ranges[j].Max, v)
		}
	}
	return ranges
}

// leastSquares solves ordinary least squares with an intercept term via
// the normal equations
func leastSquares(x [][]float64, y []float64) ([]float64, float64, error) {
	n := len(x)
	p := len(x[0])
	dim := p + 1

	// Design matrix rows are [1, x1..xp]; build X'X and X'y directly
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	for k := 0; k < n; k++ {
		row := make([]float64, dim)
		row[0] = 1
		copy(row[1:], x[k])
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * y[k]
		}
	}

	w, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return nil, 0, err
	}
	return w[1:], w[0], nil
}

// solveLinearSystem applies Gaussian elimination with partial pivoting
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	dim := len(b)

	for col := 0; col < dim; col++ {
		pivot := col
		for r := col + 1; r < dim; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, goerr.Wrap(model.ErrValidation,
				"features are collinear or constant, cannot fit regression")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < dim; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < dim; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	w := make([]float64, dim)
	for i := dim - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < dim; j++ {
			sum -= a[i][j] * w[j]
		}
		w[i] = sum / a[i][i]
	}
	return w, nil
}

func rSquared(actual, predicted []float64) float64 {
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssTotal, ssResidual float64
	for i, v := range actual {
		ssTotal += (v - mean) * (v - mean)
		ssResidual += (v - predicted[i]) * (v - predicted[i])
	}
	if ssTotal == 0 {
		return 0
	}
	return 1 - ssResidual/ssTotal
}

func meanSquaredError(actual, predicted []float64) float64 {
	var sum float64
	for i, v := range actual {
		d := v - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}

func meanAbsoluteError(actual, predicted []float64) float64 {
	var sum float64
	for i, v := range actual {
		sum += math.Abs(v - predicted[i])
	}
	return sum / float64(len(actual))
}
