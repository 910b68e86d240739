package model_test

import (
	"testing"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestNewResponse(t *testing.T) {
	payload := struct {
		ModelID string  `json:"model_id"`
		Score   float64 `json:"score"`
	}{ModelID: "abc", Score: 0.97}

	resp := gt.R1(model.NewResponse(payload)).NoError(t)

	gt.Equal(t, resp["success"], true)
	gt.Equal(t, resp["model_id"], "abc")
	gt.Equal(t, resp["score"], 0.97)
}

func TestNewResponseRejectsNonObject(t *testing.T) {
	_, err := model.NewResponse([]int{1, 2, 3})
	gt.Error(t, err)
}

func TestNewErrorResponseClassification(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"validation": {goerr.Wrap(model.ErrValidation, "bad input"), "validation"},
		"not found":  {model.ErrModelNotFound, "not_found"},
		"storage":    {goerr.Wrap(model.ErrStorage, "disk full"), "storage"},
		"schema":     {goerr.Wrap(model.ErrSchema, "bad gob"), "schema"},
		"internal":   {goerr.New("boom"), "internal"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := model.NewErrorResponse(tc.err)
			gt.Equal(t, resp["success"], false)
			gt.Equal[any](t, resp["error_type"], tc.want)
			gt.NotEqual(t, resp["error"], "")
		})
	}
}

func TestMetadataValidate(t *testing.T) {
	meta := &model.Metadata{ModelType: "Linear Regression", Features: []string{"x"}}
	gt.NoError(t, meta.Validate())

	gt.Error(t, (&model.Metadata{Features: []string{"x"}}).Validate())
	gt.Error(t, (&model.Metadata{ModelType: "Linear Regression"}).Validate())
}

func TestArtifactPredict(t *testing.T) {
	artifact := &model.Artifact{
		Coefficients: []float64{2, 3},
		Intercept:    1,
		Scaler: model.Scaler{
			Mean: []float64{0, 0},
			Std:  []float64{1, 1},
		},
	}

	got := gt.R1(artifact.Predict([]float64{4, 5})).NoError(t)
	gt.Equal(t, got, 2*4.0+3*5+1)

	_, err := artifact.Predict([]float64{1})
	gt.Error(t, err)
}

func TestScalerTransform(t *testing.T) {
	s := model.Scaler{Mean: []float64{10, 5}, Std: []float64{2, 0}}

	// Zero deviation features pass through unscaled
	got := s.Transform([]float64{14, 8})
	gt.Equal(t, got, []float64{2, 3})
}
