package repository

import (
	"context"
	"encoding/gob"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/burrow/pkg/adapter"
	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const modelCollection = "models"

// Firestore implements Registry with metadata records in a Firestore
// collection and artifact blobs in a Storage adapter. Firestore gives the
// read-modify-write safety the local document needs a file lock for, since
// each record is its own document.
type Firestore struct {
	client  *firestore.Client
	storage adapter.Storage
}

// NewFirestore creates a Firestore backed registry. opts may point the
// client at an emulator.
func NewFirestore(ctx context.Context, projectID, databaseID string, store adapter.Storage, opts ...option.ClientOption) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{
		client:  client,
		storage: store,
	}, nil
}

// Close releases the underlying Firestore client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func artifactKey(id model.ModelID) string {
	return string(id) + ".gob"
}

func (r *Firestore) Save(ctx context.Context, artifact *model.Artifact, meta *model.Metadata) (model.ModelID, error) {
	if artifact == nil {
		return "", goerr.Wrap(model.ErrValidation, "artifact is nil")
	}
	if err := meta.Validate(); err != nil {
		return "", err
	}

	id := model.NewModelID()
	key := artifactKey(id)

	hash, err := HashTrainingData(meta.TrainingData)
	if err != nil {
		return "", err
	}

	w, err := r.storage.Put(ctx, key)
	if err != nil {
		return "", err
	}
	if err := gob.NewEncoder(w).Encode(artifact); err != nil {
		w.Close()
		return "", goerr.Wrap(model.ErrStorage, "failed to encode artifact",
			goerr.V("key", key), goerr.V("cause", err.Error()))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(model.ErrStorage, "failed to commit artifact",
			goerr.V("key", key), goerr.V("cause", err.Error()))
	}

	rec := &model.ModelRecord{
		ID:               id,
		CreatedAt:        time.Now(),
		ModelType:        meta.ModelType,
		Algorithm:        meta.Algorithm,
		DataShape:        meta.DataShape,
		Features:         meta.Features,
		TargetVariable:   meta.TargetVariable,
		Performance:      meta.Performance,
		TrainingHistory:  meta.TrainingHistory,
		ModelSummary:     meta.ModelSummary,
		Hyperparameters:  meta.Hyperparameters,
		TrainingDataHash: hash,
		FilePath:         key,
	}

	if _, err := r.client.Collection(modelCollection).Doc(string(id)).Set(ctx, rec); err != nil {
		// Keep the artifact-before-record invariant: no record may point
		// at a blob that failed to land, and a failed record write must
		// not strand the blob.
		if derr := r.storage.Delete(ctx, key); derr != nil {
			logging.From(ctx).Warn("failed to clean up artifact blob", "key", key, "err", derr)
		}
		return "", goerr.Wrap(model.ErrStorage, "failed to write model record",
			goerr.V("model_id", id), goerr.V("cause", err.Error()))
	}

	logging.From(ctx).Debug("saved model", "model_id", id, "model_type", meta.ModelType)
	return id, nil
}

func (r *Firestore) Load(ctx context.Context, id model.ModelID) (*model.Artifact, error) {
	rec, err := r.GetMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, goerr.Wrap(model.ErrModelNotFound, "no such model", goerr.V("model_id", id))
	}

	rd, err := r.storage.Get(ctx, artifactKey(id))
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	var artifact model.Artifact
	if err := gob.NewDecoder(rd).Decode(&artifact); err != nil {
		return nil, goerr.Wrap(model.ErrSchema, "failed to decode artifact",
			goerr.V("model_id", id), goerr.V("cause", err.Error()))
	}
	return &artifact, nil
}

func (r *Firestore) GetMetadata(ctx context.Context, id model.ModelID) (*model.ModelRecord, error) {
	snap, err := r.client.Collection(modelCollection).Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(model.ErrStorage, "failed to get model record",
			goerr.V("model_id", id), goerr.V("cause", err.Error()))
	}

	var rec model.ModelRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(model.ErrSchema, "model record has unexpected shape",
			goerr.V("model_id", id), goerr.V("cause", err.Error()))
	}
	return &rec, nil
}

func (r *Firestore) List(ctx context.Context, modelType string) ([]*model.ModelRecord, error) {
	iter := r.client.Collection(modelCollection).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var records []*model.ModelRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(model.ErrStorage, "failed to list model records",
				goerr.V("cause", err.Error()))
		}

		var rec model.ModelRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(model.ErrSchema, "model record has unexpected shape",
				goerr.V("doc", snap.Ref.ID), goerr.V("cause", err.Error()))
		}

		// Firestore cannot filter case-insensitively server side
		if modelType != "" && !strings.EqualFold(rec.ModelType, modelType) {
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

func (r *Firestore) Delete(ctx context.Context, id model.ModelID) (bool, error) {
	rec, err := r.GetMetadata(ctx, id)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	// Blob first, record second: an interrupted delete may orphan a blob
	// but never leaves a dangling record.
	if err := r.storage.Delete(ctx, artifactKey(id)); err != nil {
		return false, err
	}

	if _, err := r.client.Collection(modelCollection).Doc(string(id)).Delete(ctx); err != nil {
		return false, goerr.Wrap(model.ErrStorage, "failed to delete model record",
			goerr.V("model_id", id), goerr.V("cause", err.Error()))
	}

	logging.From(ctx).Debug("deleted model", "model_id", id)
	return true, nil
}
