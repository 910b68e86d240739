package analyzer

import (
	"fmt"
	"math"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// LinePoint is one point of a fitted regression line
type LinePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RegressionResult is a fitted y = slope*x + intercept model with holdout
// quality hints
type RegressionResult struct {
	Slope          float64     `json:"slope"`
	Intercept      float64     `json:"intercept"`
	Equation       string      `json:"equation"`
	RSquared       float64     `json:"r_squared"`
	MSE            float64     `json:"mse"`
	RMSE           float64     `json:"rmse"`
	TrainingPoints int         `json:"training_points"`
	Fit            string      `json:"fit"`
	TestLine       []LinePoint `json:"test_line"`
}

// Regress fits a single-variable least squares line
func Regress(x, y []float64) (*RegressionResult, error) {
	if len(x) != len(y) || len(x) < 2 {
		return nil, goerr.Wrap(model.ErrValidation,
			"need at least 2 points with equal length x and y arrays",
			goerr.V("x_len", len(x)), goerr.V("y_len", len(y)))
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "x values are constant, cannot fit a line")
	}
	slope := (n*sumXY - sumX*sumY) / den
	intercept := (sumY - slope*sumX) / n

	yMean := sumY / n
	var ssTotal, ssResidual float64
	for i := range x {
		pred := slope*x[i] + intercept
		ssTotal += (y[i] - yMean) * (y[i] - yMean)
		ssResidual += (y[i] - pred) * (y[i] - pred)
	}

	rSquared := 0.0
	if ssTotal != 0 {
		rSquared = 1 - ssResidual/ssTotal
	}
	mse := ssResidual / n

	minX, maxX := x[0], x[0]
	for _, v := range x {
		minX = math.Min(minX, v)
		maxX = math.Max(maxX, v)
	}

	// Evenly spaced points across the observed range, for plotting
	testLine := make([]LinePoint, 11)
	for i := range testLine {
		px := minX + (maxX-minX)*float64(i)/10
		testLine[i] = LinePoint{X: round3(px), Y: round3(slope*px + intercept)}
	}

	fit := "poor"
	switch {
	case rSquared > 0.9:
		fit = "excellent"
	case rSquared > 0.7:
		fit = "good"
	case rSquared > 0.5:
		fit = "moderate"
	}

	return &RegressionResult{
		Slope:          slope,
		Intercept:      intercept,
		Equation:       fmt.Sprintf("y = %.3fx + %.3f", slope, intercept),
		RSquared:       round3(rSquared),
		MSE:            round3(mse),
		RMSE:           round3(math.Sqrt(mse)),
		TrainingPoints: len(x),
		Fit:            fit,
		TestLine:       testLine,
	}, nil
}
