package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrModelNotFound means the referenced model_id does not exist in the
	// registry. Callers decide the next action.
	ErrModelNotFound = goerr.New("model not found")

	// ErrStorage is an I/O level failure: disk, permission, missing
	// artifact file. Never retried automatically.
	ErrStorage = goerr.New("storage operation failed")

	// ErrSchema means an artifact or registry document failed to
	// deserialize into the expected shape.
	ErrSchema = goerr.New("unexpected data schema")

	// ErrValidation means caller-supplied parameters fail domain
	// constraints. Always recoverable locally.
	ErrValidation = goerr.New("invalid parameter")
)
