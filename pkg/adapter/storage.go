package adapter

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// Storage is the interface for artifact blob storage
type Storage interface {
	// Put returns a writer to save an artifact blob under key
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Get loads an artifact blob by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob. A missing key is not an error; the caller
	// treats it as already deleted.
	Delete(ctx context.Context, key string) error
}

// storageClient implements Storage interface using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client. opts may carry an emulator
// endpoint for tests.
func NewStorage(ctx context.Context, bucketName string, opts ...option.ClientOption) (Storage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	return obj.NewWriter(ctx), nil
}

func (s *storageClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	reader, err := obj.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, goerr.Wrap(model.ErrStorage, "artifact blob is missing", goerr.V("key", key))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage", goerr.V("key", key))
	}

	return reader, nil
}

func (s *storageClient) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucketName).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return goerr.Wrap(err, "failed to delete from storage", goerr.V("key", key))
	}
	return nil
}

// dirStorage implements Storage on a plain directory. Used as the artifact
// store in tests and for registries that keep metadata in Firestore but
// artifacts on a shared volume.
type dirStorage struct {
	dir string
}

// NewDirStorage creates a directory backed Storage
func NewDirStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(model.ErrStorage, "failed to create storage directory",
			goerr.V("dir", dir), goerr.V("cause", err.Error()))
	}
	return &dirStorage{dir: dir}, nil
}

func (s *dirStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return nil, goerr.Wrap(model.ErrStorage, "failed to create artifact blob",
			goerr.V("key", key), goerr.V("cause", err.Error()))
	}
	return f, nil
}

func (s *dirStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil, goerr.Wrap(model.ErrStorage, "artifact blob is missing", goerr.V("key", key))
	}
	if err != nil {
		return nil, goerr.Wrap(model.ErrStorage, "failed to open artifact blob",
			goerr.V("key", key), goerr.V("cause", err.Error()))
	}
	return f, nil
}

func (s *dirStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(model.ErrStorage, "failed to delete artifact blob",
			goerr.V("key", key), goerr.V("cause", err.Error()))
	}
	return nil
}
