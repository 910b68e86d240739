package analyzer_test

import (
	"errors"
	"math"
	"testing"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/usecase/analyzer"
	"github.com/m-mizutani/gt"
)

func TestAnalyze(t *testing.T) {
	dataset := make([]map[string]any, 0, 12)
	for i := 0; i < 12; i++ {
		region := "east"
		if i%3 == 0 {
			region = "west"
		}
		dataset = append(dataset, map[string]any{
			"sales":  float64(100 + i*10),
			"visits": float64(50 + i*5),
			"region": region,
		})
	}

	result := gt.R1(analyzer.Analyze(dataset)).NoError(t)

	gt.Equal(t, result.NumRecords, 12)
	gt.Equal(t, result.NumericColumns, []string{"sales", "visits"})
	gt.Equal(t, result.CategoricalColumns, []string{"region"})

	sales := result.NumericAnalysis["sales"]
	gt.Equal(t, sales.Count, 12)
	gt.Equal(t, sales.Min, 100.0)
	gt.Equal(t, sales.Max, 210.0)
	gt.Equal(t, sales.Range, 110.0)

	region := result.CategoricalStats["region"]
	gt.Equal(t, region.UniqueValues, 2)
	gt.Equal(t, region.MostFrequent, "east")
	gt.Equal(t, region.Distribution["west"], 4)

	// visits moves in lockstep with sales
	gt.Equal(t, result.Correlations["sales_vs_visits"], 1.0)
	gt.Equal(t, result.DataQuality, "good")
}

func TestAnalyzeSmallDataset(t *testing.T) {
	result := gt.R1(analyzer.Analyze([]map[string]any{
		{"x": 1.0},
		{"x": 2.0},
	})).NoError(t)

	gt.Equal(t, result.DataQuality, "limited")
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	_, err := analyzer.Analyze(nil)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}

func TestAnalyzeIntegerValues(t *testing.T) {
	result := gt.R1(analyzer.Analyze([]map[string]any{
		{"n": 1},
		{"n": 2},
		{"n": 3},
	})).NoError(t)

	gt.Equal(t, result.NumericColumns, []string{"n"})
	gt.Equal(t, result.NumericAnalysis["n"].Mean, 2.0)
}

func TestRegressPerfectLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{3, 5, 7, 9, 11} // y = 2x + 1

	result := gt.R1(analyzer.Regress(x, y)).NoError(t)

	if math.Abs(result.Slope-2) > 1e-9 {
		t.Errorf("slope = %f, want 2", result.Slope)
	}
	if math.Abs(result.Intercept-1) > 1e-9 {
		t.Errorf("intercept = %f, want 1", result.Intercept)
	}
	gt.Equal(t, result.RSquared, 1.0)
	gt.Equal(t, result.Fit, "excellent")
	gt.A(t, result.TestLine).Length(11)
	gt.Equal(t, result.TestLine[0].X, 1.0)
	gt.Equal(t, result.TestLine[10].X, 5.0)
}

func TestRegressNoisyData(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2.1, 3.9, 6.2, 7.8, 10.1, 11.9}

	result := gt.R1(analyzer.Regress(x, y)).NoError(t)
	gt.True(t, result.RSquared > 0.9)
	gt.Equal(t, result.TrainingPoints, 6)
}

func TestRegressValidation(t *testing.T) {
	_, err := analyzer.Regress([]float64{1}, []float64{2})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))

	_, err = analyzer.Regress([]float64{1, 2, 3}, []float64{1, 2})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))

	// Constant x has no defined slope
	_, err = analyzer.Regress([]float64{2, 2, 2}, []float64{1, 2, 3})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}

func TestClassifyWithCenters(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}, {10, 10}, {11, 9}}
	centers := [][]float64{{0, 0}, {10, 10}}

	result := gt.R1(analyzer.Classify(points, centers)).NoError(t)

	gt.Equal(t, result.TotalPoints, 4)
	gt.Equal(t, result.NumClusters, 2)
	gt.Equal(t, result.Points[0].Cluster, 0)
	gt.Equal(t, result.Points[1].Cluster, 0)
	gt.Equal(t, result.Points[2].Cluster, 1)
	gt.Equal(t, result.Points[3].Cluster, 1)
	gt.Equal(t, result.Points[2].Distance, 0.0)

	gt.Equal(t, result.Clusters["cluster_0"].PointCount, 2)
	gt.Equal(t, result.Clusters["cluster_1"].PointCount, 2)
}

func TestClassifyDefaultCenters(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}, {9, 9}, {10, 10}}

	result := gt.R1(analyzer.Classify(points, nil)).NoError(t)

	gt.Equal(t, result.NumClusters, 2)
	// Low corner points join the lower quartile center
	gt.Equal(t, result.Points[0].Cluster, 0)
	gt.Equal(t, result.Points[3].Cluster, 1)
}

func TestClassifyValidation(t *testing.T) {
	_, err := analyzer.Classify(nil, nil)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))

	_, err = analyzer.Classify([][]float64{{1}}, nil)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}

func TestForecast(t *testing.T) {
	values := []float64{10, 12, 14, 16, 18, 20}

	result := gt.R1(analyzer.Forecast(values, 3)).NoError(t)

	gt.A(t, result.Forecasts).Length(3)
	gt.A(t, result.MovingAverages).Length(4)
	gt.Equal(t, result.RecentTrend, 2.0)

	// A steady upward series keeps rising in the forecast
	gt.True(t, result.Forecasts[0] > values[len(values)-1])
	gt.True(t, result.Forecasts[1] > result.Forecasts[0])
}

func TestForecastDefaultPeriods(t *testing.T) {
	result := gt.R1(analyzer.Forecast([]float64{5, 6, 7, 8}, 0)).NoError(t)
	gt.A(t, result.Forecasts).Length(5)
}

func TestForecastFlatSeries(t *testing.T) {
	result := gt.R1(analyzer.Forecast([]float64{5, 5, 5, 5, 5, 5}, 2)).NoError(t)

	gt.Equal(t, result.RecentTrend, 0.0)
	gt.Equal(t, result.Forecasts, []float64{5, 5})
	gt.Equal(t, result.Volatility, "low")
}

func TestForecastTooFewPoints(t *testing.T) {
	_, err := analyzer.Forecast([]float64{1, 2}, 5)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}
