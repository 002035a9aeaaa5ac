package blog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for blog post storage.
type Repository interface {
	List(ctx context.Context, category string) ([]*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Save(ctx context.Context, post *Post) (*Post, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*Post
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{posts: make(map[string]*Post)}
}

// List returns posts newest-first, optionally filtered by category.
func (r *InMemoryRepository) List(ctx context.Context, category string) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Post, 0, len(r.posts))
	for _, p := range r.posts {
		if category != "" && p.Category != category {
			continue
		}
		dup := *p
		out = append(out, &dup)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out, nil
}

// GetBySlug retrieves one post by its URL slug.
func (r *InMemoryRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.Slug == slug {
			dup := *p
			return &dup, nil
		}
	}
	return nil, ErrPostNotFound
}

// Save upserts a post, assigning id, slug and publish date when absent.
func (r *InMemoryRepository) Save(ctx context.Context, post *Post) (*Post, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	dup := *post
	if dup.ID == "" {
		dup.ID = uuid.NewString()
	}
	if dup.Slug == "" {
		dup.Slug = Slugify(dup.Title)
	}
	if dup.PublishedAt.IsZero() {
		dup.PublishedAt = time.Now().UTC()
	}

	r.mu.Lock()
	stored := dup
	r.posts[dup.ID] = &stored
	r.mu.Unlock()
	return &dup, nil
}

// Delete removes a post; unknown ids are a no-op.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.posts, id)
	r.mu.Unlock()
	return nil
}
