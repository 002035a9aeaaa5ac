package projects

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

const (
	cacheKeyAll      = "projects:list:all"
	cacheKeyFeatured = "projects:list:featured"
)

// CachedRepository is a read-through redis cache over a Repository. Only the
// two hottest listings are cached (the full list and the featured strip on
// the home page); filtered queries always hit the inner repository. Cache
// faults fail open.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedRepository wraps inner with a redis cache.
func NewCachedRepository(inner Repository, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if client == nil {
		panic("projects: redis client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

// List serves the unfiltered and featured-only listings from cache when warm.
func (r *CachedRepository) List(ctx context.Context, filter ListFilter) ([]*Project, error) {
	key := cacheKey(filter)
	if key == "" {
		return r.inner.List(ctx, filter)
	}

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var cached []*Project
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Poisoned entry: drop it and fall through.
		r.client.Del(ctx, key)
	}

	list, err := r.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(list); err == nil {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.logger.Error("project cache write failed", "error", err, "key", key)
		}
	}
	return list, nil
}

// GetBySlug passes through to the inner repository.
func (r *CachedRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	return r.inner.GetBySlug(ctx, slug)
}

// Save writes through and invalidates the cached listings.
func (r *CachedRepository) Save(ctx context.Context, project *Project) (*Project, error) {
	saved, err := r.inner.Save(ctx, project)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return saved, nil
}

// Delete writes through and invalidates the cached listings.
func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, cacheKeyAll, cacheKeyFeatured).Err(); err != nil {
		r.logger.Error("project cache invalidation failed", "error", err)
	}
}

func cacheKey(filter ListFilter) string {
	switch filter {
	case ListFilter{}:
		return cacheKeyAll
	case ListFilter{FeaturedOnly: true}:
		return cacheKeyFeatured
	}
	return ""
}
