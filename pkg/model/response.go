package model

import (
	"errors"

	json "github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
)

// Response is the process boundary envelope consumed by the host
// application. Every operation result is reduced to this shape: a success
// flag plus either the payload fields or an error description. Nothing
// propagates past the boundary as a crash.
type Response map[string]any

// NewResponse flattens payload into an envelope with "success": true.
// payload must marshal to a JSON object.
func NewResponse(payload any) (Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal payload")
	}

	resp := Response{}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, goerr.Wrap(err, "payload is not a JSON object")
	}

	resp["success"] = true
	return resp, nil
}

// NewErrorResponse converts any error into the failure envelope with an
// error_type classification
func NewErrorResponse(err error) Response {
	return Response{
		"success":    false,
		"error":      err.Error(),
		"error_type": classify(err),
	}
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrModelNotFound):
		return "not_found"
	case errors.Is(err, ErrStorage):
		return "storage"
	case errors.Is(err, ErrSchema):
		return "schema"
	default:
		return "internal"
	}
}
