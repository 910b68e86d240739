package repository

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/gob"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const documentName = "models.json"

// Local implements Registry on a storage directory: one JSON document
// listing every record, plus one gob file per artifact. The document is
// rewritten wholesale on each mutation under an advisory file lock, and
// always via temp file + rename so a reader never observes a torn write.
type Local struct {
	dir          string
	documentPath string

	// The file lock fences other processes; it is per-process, so mu
	// serializes goroutines sharing this registry.
	mu   sync.RWMutex
	lock *flock.Flock
}

// NewLocal creates a file backed registry rooted at dir. The directory and
// an empty document are created lazily on first use.
func NewLocal(dir string) *Local {
	return &Local{
		dir:          dir,
		documentPath: filepath.Join(dir, documentName),
		lock:         flock.New(filepath.Join(dir, "."+documentName+".lock")),
	}
}

func (r *Local) artifactPath(id model.ModelID) string {
	return filepath.Join(r.dir, string(id)+".gob")
}

func (r *Local) ensure() error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return goerr.Wrap(model.ErrStorage, "failed to create storage directory",
			goerr.V("dir", r.dir), goerr.V("cause", err.Error()))
	}
	if _, err := os.Stat(r.documentPath); os.IsNotExist(err) {
		if err := os.WriteFile(r.documentPath, []byte("[]"), 0644); err != nil {
			return goerr.Wrap(model.ErrStorage, "failed to initialize registry document",
				goerr.V("path", r.documentPath), goerr.V("cause", err.Error()))
		}
	}
	return nil
}

func (r *Local) acquire(ctx context.Context, shared bool) (func(), error) {
	try := r.lock.TryLockContext
	if shared {
		r.mu.RLock()
		try = r.lock.TryRLockContext
	} else {
		r.mu.Lock()
	}

	unlockMu := func() {
		if shared {
			r.mu.RUnlock()
		} else {
			r.mu.Unlock()
		}
	}

	if _, err := try(ctx, 25*time.Millisecond); err != nil {
		unlockMu()
		return nil, goerr.Wrap(model.ErrStorage, "failed to lock registry document",
			goerr.V("cause", err.Error()))
	}
	return func() {
		if err := r.lock.Unlock(); err != nil {
			logging.Default().Warn("failed to unlock registry document", "err", err)
		}
		unlockMu()
	}, nil
}

func (r *Local) readDocument() ([]*model.ModelRecord, error) {
	raw, err := os.ReadFile(r.documentPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(model.ErrStorage, "failed to read registry document",
			goerr.V("path", r.documentPath), goerr.V("cause", err.Error()))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var records []*model.ModelRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, goerr.Wrap(model.ErrSchema, "registry document is not a record array",
			goerr.V("path", r.documentPath), goerr.V("cause", err.Error()))
	}
	return records, nil
}

func (r *Local) writeDocument(records []*model.ModelRecord) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal registry document")
	}

	tmp, err := os.CreateTemp(r.dir, "."+documentName+".*")
	if err != nil {
		return goerr.Wrap(model.ErrStorage, "failed to create temp document",
			goerr.V("dir", r.dir), goerr.V("cause", err.Error()))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return goerr.Wrap(model.ErrStorage, "failed to write registry document",
			goerr.V("path", tmpPath), goerr.V("cause", err.Error()))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(model.ErrStorage, "failed to close temp document",
			goerr.V("path", tmpPath), goerr.V("cause", err.Error()))
	}
	if err := os.Rename(tmpPath, r.documentPath); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(model.ErrStorage, "failed to replace registry document",
			goerr.V("path", r.documentPath), goerr.V("cause", err.Error()))
	}
	return nil
}

func (r *Local) Save(ctx context.Context, artifact *model.Artifact, meta *model.Metadata) (model.ModelID, error) {
	if artifact == nil {
		return "", goerr.Wrap(model.ErrValidation, "artifact is nil")
	}
	if err := meta.Validate(); err != nil {
		return "", err
	}
	if err := r.ensure(); err != nil {
		return "", err
	}

	release, err := r.acquire(ctx, false)
	if err != nil {
		return "", err
	}
	defer release()

	id := model.NewModelID()
	path := r.artifactPath(id)

	hash, err := HashTrainingData(meta.TrainingData)
	if err != nil {
		return "", err
	}

	if err := writeArtifact(path, artifact); err != nil {
		return "", err
	}

	records, err := r.readDocument()
	if err != nil {
		os.Remove(path)
		return "", err
	}

	records = append(records, &model.ModelRecord{
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
		FilePath:         path,
	})

	// Artifact first, document second: a failed document write must not
	// leave a record referencing a missing artifact.
	if err := r.writeDocument(records); err != nil {
		os.Remove(path)
		return "", err
	}

	logging.From(ctx).Debug("saved model", "model_id", id, "model_type", meta.ModelType)
	return id, nil
}

func (r *Local) Load(ctx context.Context, id model.ModelID) (*model.Artifact, error) {
	release, err := r.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := r.readDocument()
	if err != nil {
		return nil, err
	}

	rec := findRecord(records, id)
	if rec == nil {
		return nil, goerr.Wrap(model.ErrModelNotFound, "no such model", goerr.V("model_id", id))
	}

	// The artifact path is derived from the ID and the configured
	// directory; the recorded file_path is informational so a relocated
	// storage directory keeps working.
	return readArtifact(r.artifactPath(id))
}

func (r *Local) GetMetadata(ctx context.Context, id model.ModelID) (*model.ModelRecord, error) {
	release, err := r.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := r.readDocument()
	if err != nil {
		return nil, err
	}
	return findRecord(records, id), nil
}

func (r *Local) List(ctx context.Context, modelType string) ([]*model.ModelRecord, error) {
	release, err := r.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := r.readDocument()
	if err != nil {
		return nil, err
	}

	if modelType != "" {
		filtered := make([]*model.ModelRecord, 0, len(records))
		for _, rec := range records {
			if strings.EqualFold(rec.ModelType, modelType) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (r *Local) Delete(ctx context.Context, id model.ModelID) (bool, error) {
	release, err := r.acquire(ctx, false)
	if err != nil {
		return false, err
	}
	defer release()

	records, err := r.readDocument()
	if err != nil {
		return false, err
	}

	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	// Artifact first, document second: an interrupted delete may orphan an
	// artifact file but never leaves a dangling record.
	if err := os.Remove(r.artifactPath(id)); err != nil && !os.IsNotExist(err) {
		return false, goerr.Wrap(model.ErrStorage, "failed to remove artifact file",
			goerr.V("model_id", id), goerr.V("cause", err.Error()))
	}

	if err := r.writeDocument(append(records[:idx], records[idx+1:]...)); err != nil {
		return false, err
	}

	logging.From(ctx).Debug("deleted model", "model_id", id)
	return true, nil
}

func findRecord(records []*model.ModelRecord, id model.ModelID) *model.ModelRecord {
	for _, rec := range records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func writeArtifact(path string, artifact *model.Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(model.ErrStorage, "failed to create artifact file",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(artifact); err != nil {
		os.Remove(path)
		return goerr.Wrap(model.ErrStorage, "failed to encode artifact",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	return nil
}

func readArtifact(path string) (*model.Artifact, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, goerr.Wrap(model.ErrStorage, "artifact file is missing", goerr.V("path", path))
	}
	if err != nil {
		return nil, goerr.Wrap(model.ErrStorage, "failed to open artifact file",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	defer f.Close()

	var artifact model.Artifact
	if err := gob.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, goerr.Wrap(model.ErrSchema, "failed to decode artifact",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	return &artifact, nil
}

// HashTrainingData produces the change detection hash of a training data
// sample: MD5 over canonical JSON with sorted keys. Empty input hashes to
// the empty string by contract, not an error. The hash is not
// security-sensitive.
func HashTrainingData(data any) (string, error) {
	if data == nil {
		return "", nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", goerr.Wrap(model.ErrValidation, "training data is not serializable",
			goerr.V("cause", err.Error()))
	}

	switch string(raw) {
	case "null", "[]", "{}", `""`:
		return "", nil
	}

	sum := md5.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
