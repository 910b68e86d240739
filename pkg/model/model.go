package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type ModelID string

// NewModelID generates a new unique ModelID
func NewModelID() ModelID {
	return ModelID(uuid.New().String())
}

// ModelRecord is one entry of the registry document. Field names match the
// on-disk models.json layout, so registries written by older tooling keep
// loading.
type ModelRecord struct {
	ID               ModelID            `json:"model_id" firestore:"model_id"`
	CreatedAt        time.Time          `json:"created_at" firestore:"created_at"`
	ModelType        string             `json:"model_type" firestore:"model_type"`
	Algorithm        string             `json:"algorithm" firestore:"algorithm"`
	DataShape        []int              `json:"data_shape,omitempty" firestore:"data_shape"`
	Features         []string           `json:"features" firestore:"features"`
	TargetVariable   string             `json:"target_variable" firestore:"target_variable"`
	Performance      map[string]float64 `json:"performance" firestore:"performance"`
	TrainingHistory  map[string]any     `json:"training_history,omitempty" firestore:"training_history"`
	ModelSummary     map[string]any     `json:"model_summary" firestore:"model_summary"`
	Hyperparameters  map[string]any     `json:"hyperparameters" firestore:"hyperparameters"`
	TrainingDataHash string             `json:"training_data_hash" firestore:"training_data_hash"`
	FilePath         string             `json:"file_path" firestore:"file_path"`
}

// Metadata is the caller-supplied part of a ModelRecord. The registry fills
// in the ID, creation time, training data hash and artifact location.
type Metadata struct {
	ModelType       string
	Algorithm       string
	DataShape       []int
	Features        []string
	TargetVariable  string
	Performance     map[string]float64
	TrainingHistory map[string]any
	ModelSummary    map[string]any
	Hyperparameters map[string]any

	// TrainingData is hashed for change detection only; the registry never
	// stores it. An empty value hashes to the empty string.
	TrainingData any
}

// Validate checks if the metadata can form a registry record
func (m *Metadata) Validate() error {
	if m.ModelType == "" {
		return goerr.Wrap(ErrValidation, "model_type is empty")
	}
	if len(m.Features) == 0 {
		return goerr.Wrap(ErrValidation, "features are empty")
	}
	return nil
}
