package predictor

import (
	"context"

	"github.com/m-mizutani/burrow/pkg/model"
)

// ListOutput is the model inventory
type ListOutput struct {
	Models []*model.ModelRecord `json:"models"`
	Count  int                  `json:"count"`
}

// List returns stored models, newest first, optionally filtered by type
func (u *UseCase) List(ctx context.Context, modelType string) (*ListOutput, error) {
	records, err := u.registry.List(ctx, modelType)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*model.ModelRecord{}
	}
	return &ListOutput{Models: records, Count: len(records)}, nil
}

// ShowOutput wraps a single model record
type ShowOutput struct {
	Model *model.ModelRecord `json:"model"`
}

// Show returns the metadata of one model
func (u *UseCase) Show(ctx context.Context, id model.ModelID) (*ShowOutput, error) {
	rec, err := u.registry.GetMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, model.ErrModelNotFound
	}
	return &ShowOutput{Model: rec}, nil
}

// DeleteOutput reports the result of a delete
type DeleteOutput struct {
	ModelID model.ModelID `json:"model_id"`
	Deleted bool          `json:"deleted"`
	Message string        `json:"message"`
}

// Delete removes a model from the registry. The cache entry is dropped
// first so no caller can keep predicting with a deleted model. Deleting an
// unknown ID is not an error.
func (u *UseCase) Delete(ctx context.Context, id model.ModelID) (*DeleteOutput, error) {
	u.cache.Invalidate(id)

	deleted, err := u.registry.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	msg := "model not found"
	if deleted {
		msg = "model deleted"
	}
	return &DeleteOutput{ModelID: id, Deleted: deleted, Message: msg}, nil
}
