package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// Scaler standardizes feature vectors to zero mean and unit variance,
// using the statistics fitted on the training split.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// Transform returns the standardized copy of row
func (s *Scaler) Transform(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for i, v := range row {
		std := s.Std[i]
		if std == 0 {
			std = 1
		}
		scaled[i] = (v - s.Mean[i]) / std
	}
	return scaled
}

// TargetStats holds distribution statistics of the target variable,
// captured at training time for prediction intervals and sample generation.
type TargetStats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// FeatureRange is the observed [Min, Max] of one feature in training data
type FeatureRange struct {
	Min float64
	Max float64
}

// Artifact is the serialized form of a trained model: regression weights
// plus the fitted scaler and whatever is needed to reproduce predictions.
// It is stored separately from the registry document, addressed by model ID.
type Artifact struct {
	Coefficients  []float64
	Intercept     float64
	FeatureNames  []string
	TargetName    string
	Scaler        Scaler
	TargetStats   TargetStats
	FeatureRanges []FeatureRange
}

// Predict applies the scaler and regression weights to one feature vector
func (a *Artifact) Predict(row []float64) (float64, error) {
	if len(row) != len(a.Coefficients) {
		return 0, goerr.Wrap(ErrValidation, "feature dimension mismatch",
			goerr.V("expected", len(a.Coefficients)), goerr.V("got", len(row)))
	}

	scaled := a.Scaler.Transform(row)
	y := a.Intercept
	for i, c := range a.Coefficients {
		y += c * scaled[i]
	}
	return y, nil
}
