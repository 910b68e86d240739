package predictor_test

import (
	"testing"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/burrow/pkg/usecase/predictor"
	"github.com/m-mizutani/gt"
)

func TestCachePutGet(t *testing.T) {
	cache := predictor.NewCache(4)
	id := model.NewModelID()
	artifact := &model.Artifact{Intercept: 1.5}

	_, ok := cache.Get(id)
	gt.False(t, ok)

	cache.Put(id, artifact)
	got, ok := cache.Get(id)
	gt.True(t, ok)
	gt.Equal(t, got.Intercept, 1.5)
	gt.Equal(t, cache.Len(), 1)
}

func TestCacheEvictsOldest(t *testing.T) {
	cache := predictor.NewCache(2)

	first := model.NewModelID()
	second := model.NewModelID()
	third := model.NewModelID()

	cache.Put(first, &model.Artifact{})
	cache.Put(second, &model.Artifact{})
	cache.Put(third, &model.Artifact{})

	gt.Equal(t, cache.Len(), 2)
	_, ok := cache.Get(first)
	gt.False(t, ok)
	_, ok = cache.Get(second)
	gt.True(t, ok)
	_, ok = cache.Get(third)
	gt.True(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	cache := predictor.NewCache(2)
	id := model.NewModelID()

	cache.Put(id, &model.Artifact{})
	cache.Invalidate(id)

	_, ok := cache.Get(id)
	gt.False(t, ok)
	gt.Equal(t, cache.Len(), 0)

	// Invalidating an absent entry is a no-op
	cache.Invalidate(model.NewModelID())
}

func TestCacheReplaceExisting(t *testing.T) {
	cache := predictor.NewCache(2)
	id := model.NewModelID()

	cache.Put(id, &model.Artifact{Intercept: 1})
	cache.Put(id, &model.Artifact{Intercept: 2})

	got, ok := cache.Get(id)
	gt.True(t, ok)
	gt.Equal(t, got.Intercept, 2.0)
	gt.Equal(t, cache.Len(), 1)
}
