package predictor

import (
	"github.com/m-mizutani/burrow/pkg/repository"
)

// UseCase provides model training, prediction and lifecycle operations.
// It owns the artifact cache explicitly; the registry itself never caches.
type UseCase struct {
	registry repository.Registry
	cache    *Cache
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithCache replaces the default artifact cache
func WithCache(c *Cache) Option {
	return func(uc *UseCase) {
		uc.cache = c
	}
}

// New creates a new predictor UseCase instance
func New(registry repository.Registry, opts ...Option) *UseCase {
	uc := &UseCase{
		registry: registry,
		cache:    NewCache(defaultCacheSize),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
