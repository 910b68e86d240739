// Package analyzer implements ad-hoc statistics over inline datasets:
// column summaries, simple regression, nearest-center classification and
// trend forecasting.
package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// ColumnStats summarizes one numeric column
type ColumnStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
}

// CategoryStats summarizes one non-numeric column
type CategoryStats struct {
	UniqueValues int            `json:"unique_values"`
	MostFrequent string         `json:"most_frequent"`
	Distribution map[string]int `json:"distribution"`
}

// DatasetResult is the full statistical profile of a dataset
type DatasetResult struct {
	NumRecords         int                      `json:"num_records"`
	NumericColumns     []string                 `json:"numeric_columns"`
	CategoricalColumns []string                 `json:"categorical_columns"`
	NumericAnalysis    map[string]ColumnStats   `json:"numeric_analysis"`
	CategoricalStats   map[string]CategoryStats `json:"categorical_analysis"`
	Correlations       map[string]float64       `json:"correlations"`
	DataQuality        string                   `json:"data_quality"`
	Recommendation     string                   `json:"recommendation"`
}

// Analyze profiles a dataset of records: numeric columns get summary
// statistics and pairwise Pearson correlation, the rest get frequency
// counts. Column kinds are decided by the first record.
func Analyze(dataset []map[string]any) (*DatasetResult, error) {
	if len(dataset) == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "no dataset provided")
	}

	var numericCols, categoricalCols []string
	for key, value := range dataset[0] {
		if _, ok := toFloat(value); ok {
			numericCols = append(numericCols, key)
		} else {
			categoricalCols = append(categoricalCols, key)
		}
	}
	sort.Strings(numericCols)
	sort.Strings(categoricalCols)

	numericAnalysis := map[string]ColumnStats{}
	columnValues := map[string][]float64{}
	for _, col := range numericCols {
		var values []float64
		for _, rec := range dataset {
			if v, ok := toFloat(rec[col]); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		columnValues[col] = values
		numericAnalysis[col] = columnStats(values)
	}

	categoricalStats := map[string]CategoryStats{}
	for _, col := range categoricalCols {
		counts := map[string]int{}
		for _, rec := range dataset {
			counts[fmt.Sprint(rec[col])]++
		}

		mostFrequent := ""
		for v, c := range counts {
			if mostFrequent == "" || c > counts[mostFrequent] {
				mostFrequent = v
			}
		}
		categoricalStats[col] = CategoryStats{
			UniqueValues: len(counts),
			MostFrequent: mostFrequent,
			Distribution: counts,
		}
	}

	correlations := map[string]float64{}
	for i, col1 := range numericCols {
		for _, col2 := range numericCols[i+1:] {
			v1, v2 := columnValues[col1], columnValues[col2]
			if len(v1) != len(v2) || len(v1) < 2 {
				continue
			}
			if r, ok := pearson(v1, v2); ok {
				correlations[col1+"_vs_"+col2] = round3(r)
			}
		}
	}

	quality := "limited"
	recommendation := "consider collecting more data for robust analysis"
	if len(dataset) > 10 {
		quality = "good"
		if len(numericCols) > 2 {
			recommendation = "dataset is suitable for analysis"
		}
	}

	return &DatasetResult{
		NumRecords:         len(dataset),
		NumericColumns:     numericCols,
		CategoricalColumns: categoricalCols,
		NumericAnalysis:    numericAnalysis,
		CategoricalStats:   categoricalStats,
		Correlations:       correlations,
		DataQuality:        quality,
		Recommendation:     recommendation,
	}, nil
}

func columnStats(values []float64) ColumnStats {
	m := mean(values)
	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	return ColumnStats{
		Count:  len(values),
		Mean:   round3(m),
		Median: round3(median(values)),
		StdDev: round3(stddev(values, m)),
		Min:    minV,
		Max:    maxV,
		Range:  maxV - minV,
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stddev is the sample standard deviation; zero for fewer than 2 values
func stddev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

func pearson(v1, v2 []float64) (float64, bool) {
	m1, m2 := mean(v1), mean(v2)
	var num, ss1, ss2 float64
	for i := range v1 {
		d1, d2 := v1[i]-m1, v2[i]-m2
		num += d1 * d2
		ss1 += d1 * d1
		ss2 += d2 * d2
	}
	den := math.Sqrt(ss1 * ss2)
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
