package sampledata_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/usecase/sampledata"
	"github.com/m-mizutani/gt"
)

func testProfile() sampledata.ModelProfile {
	return sampledata.ModelProfile{
		FeatureCount: 2,
		ModelType:    "Linear Regression",
		FeatureRanges: []model.FeatureRange{
			{Min: 0, Max: 100},
			{Min: -10, Max: 10},
		},
		FeatureMeans: []float64{50, 0},
		FeatureStds:  []float64{15, 3},
	}
}

func TestGenerate(t *testing.T) {
	gen := sampledata.New(1)

	result := gt.R1(gen.Generate(testProfile(), 10)).NoError(t)

	gt.Equal(t, result.SampleCount, 10)
	gt.A(t, result.Data).Length(10)
	gt.Equal(t, result.Method, "intelligent")
	for _, row := range result.Data {
		gt.A(t, row).Length(2)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	first := gt.R1(sampledata.New(7).Generate(testProfile(), 5)).NoError(t)
	second := gt.R1(sampledata.New(7).Generate(testProfile(), 5)).NoError(t)

	gt.Equal(t, first.Data, second.Data)
}

func TestGenerateDefaultCount(t *testing.T) {
	result := gt.R1(sampledata.New(1).Generate(testProfile(), 0)).NoError(t)
	gt.Equal(t, result.SampleCount, 3)
}

func TestGenerateFallbackWithoutRanges(t *testing.T) {
	profile := sampledata.ModelProfile{FeatureCount: 3}

	result := gt.R1(sampledata.New(1).Generate(profile, 5)).NoError(t)

	gt.Equal(t, result.Method, "fallback")
	// Default range is [0, 10]
	for _, row := range result.Data {
		gt.A(t, row).Length(3)
		for _, v := range row {
			gt.True(t, v >= 0 && v <= 10)
		}
	}
}

func TestGenerateInvalidProfile(t *testing.T) {
	_, err := sampledata.New(1).Generate(sampledata.ModelProfile{}, 5)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}

func TestScenarioEdgeCases(t *testing.T) {
	result := gt.R1(sampledata.New(1).Scenario(testProfile(), "edge_cases")).NoError(t)

	gt.Equal(t, result.Scenario, "edge_cases")
	gt.A(t, result.Data).Length(4)
	// min row then max row
	gt.Equal(t, result.Data[0], []float64{0, -10})
	gt.Equal(t, result.Data[1], []float64{100, 10})
	// zero fits inside both ranges
	gt.Equal(t, result.Data[2], []float64{0, 0})
}

func TestScenarioBoundaryValues(t *testing.T) {
	result := gt.R1(sampledata.New(1).Scenario(testProfile(), "boundary_values")).NoError(t)

	gt.A(t, result.Data).Length(3)
	gt.Equal(t, result.Data[0], []float64{0, -10})
	gt.Equal(t, result.Data[1], []float64{25, -5})
}

func TestScenarioPerformanceStress(t *testing.T) {
	result := gt.R1(sampledata.New(1).Scenario(testProfile(), "performance_stress")).NoError(t)

	gt.A(t, result.Data).Length(100)
	for _, row := range result.Data {
		gt.True(t, row[0] >= 0 && row[0] <= 100)
		gt.True(t, row[1] >= -10 && row[1] <= 10)
	}
}

func TestScenarioUnknown(t *testing.T) {
	_, err := sampledata.New(1).Scenario(testProfile(), "chaos_monkey")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}

func TestProfileFromArtifact(t *testing.T) {
	artifact := &model.Artifact{
		FeatureNames:  []string{"a", "b"},
		Scaler:        model.Scaler{Mean: []float64{1, 2}, Std: []float64{0.5, 0.5}},
		FeatureRanges: []model.FeatureRange{{Min: 0, Max: 2}, {Min: 1, Max: 3}},
	}

	profile := sampledata.ProfileFromArtifact(artifact, "Linear Regression")

	gt.Equal(t, profile.FeatureCount, 2)
	gt.Equal(t, profile.ModelType, "Linear Regression")
	gt.Equal(t, profile.FeatureMeans, []float64{1, 2})
	gt.A(t, profile.FeatureRanges).Length(2)
}
