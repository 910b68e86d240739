package repository

import (
	"context"

	"github.com/m-mizutani/burrow/pkg/model"
)

// Registry defines the interface for trained model persistence. It owns the
// mapping from model ID to metadata record and artifact bytes; a record is
// created once on Save, never mutated, and removed only by Delete.
type Registry interface {
	// Save stores the artifact and appends a new record built from meta.
	// The artifact is written before the registry document, so a failed
	// Save never leaves a record pointing at a missing artifact.
	Save(ctx context.Context, artifact *model.Artifact, meta *model.Metadata) (model.ModelID, error)

	// Load reads and deserializes the artifact of a stored model. Returns
	// model.ErrModelNotFound when the ID is unknown, model.ErrStorage when
	// the artifact file is missing.
	Load(ctx context.Context, id model.ModelID) (*model.Artifact, error)

	// GetMetadata returns the record for the ID, or (nil, nil) when
	// absent. Callers routinely probe for existence, so absence is not an
	// error here.
	GetMetadata(ctx context.Context, id model.ModelID) (*model.ModelRecord, error)

	// List returns all records, newest first. A non-empty modelType
	// filters by case-insensitive exact match.
	List(ctx context.Context, modelType string) ([]*model.ModelRecord, error)

	// Delete removes the artifact and the record. Returns false without
	// error when the ID is unknown; deleting twice is harmless.
	Delete(ctx context.Context, id model.ModelID) (bool, error)
}
