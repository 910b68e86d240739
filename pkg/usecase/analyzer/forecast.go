package analyzer

import (
	"math"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Trend dampening per forecast step
const forecastDampening = 0.9

// ForecastResult projects a numeric series forward by trend extrapolation
// over a short moving average
type ForecastResult struct {
	OriginalData   []float64 `json:"original_data"`
	MovingAverages []float64 `json:"moving_averages"`
	Forecasts      []float64 `json:"forecasts"`
	Mean           float64   `json:"mean"`
	StdDeviation   float64   `json:"std_deviation"`
	RecentTrend    float64   `json:"recent_trend"`
	OverallTrend   float64   `json:"overall_trend"`
	Volatility     string    `json:"volatility"`
	Confidence     string    `json:"forecast_confidence"`
}

// Forecast projects periods future values from the recent moving average
// trend, dampened per step
func Forecast(values []float64, periods int) (*ForecastResult, error) {
	if len(values) < 3 {
		return nil, goerr.Wrap(model.ErrValidation,
			"need at least 3 data points for time series analysis",
			goerr.V("got", len(values)))
	}
	if periods <= 0 {
		periods = 5
	}

	window := 3
	if half := len(values) / 2; half < window {
		window = half
	}

	movingAverages := make([]float64, 0, len(values)-window+1)
	for i := window - 1; i < len(values); i++ {
		var sum float64
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		movingAverages = append(movingAverages, round3(sum/float64(window)))
	}

	var recentTrend, overallTrend float64
	if len(movingAverages) >= 2 {
		recentTrend = movingAverages[len(movingAverages)-1] - movingAverages[len(movingAverages)-2]
		overallTrend = (movingAverages[len(movingAverages)-1] - movingAverages[0]) /
			float64(len(movingAverages)-1)
	}

	forecasts := make([]float64, periods)
	last := values[len(values)-1]
	for i := 0; i < periods; i++ {
		damp := math.Pow(forecastDampening, float64(i))
		forecasts[i] = round3(last + recentTrend*float64(i+1)*damp)
	}

	m := mean(values)
	sd := stddev(values, m)

	volatility := "low"
	switch {
	case sd > m*0.3:
		volatility = "high"
	case sd > m*0.1:
		volatility = "medium"
	}

	confidence := "medium"
	if math.Abs(recentTrend) < sd {
		confidence = "high"
	}

	return &ForecastResult{
		OriginalData:   values,
		MovingAverages: movingAverages,
		Forecasts:      forecasts,
		Mean:           round3(m),
		StdDeviation:   round3(sd),
		RecentTrend:    round3(recentTrend),
		OverallTrend:   round3(overallTrend),
		Volatility:     volatility,
		Confidence:     confidence,
	}, nil
}
