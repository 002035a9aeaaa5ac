package testimonials

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for testimonial storage.
type Repository interface {
	List(ctx context.Context) ([]*Testimonial, error)
	Save(ctx context.Context, t *Testimonial) (*Testimonial, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Testimonial
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*Testimonial)}
}

// List returns testimonials newest-first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Testimonial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Testimonial, 0, len(r.items))
	for _, t := range r.items {
		dup := *t
		out = append(out, &dup)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Save upserts a testimonial, assigning id and timestamp when absent.
func (r *InMemoryRepository) Save(ctx context.Context, t *Testimonial) (*Testimonial, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	dup := *t
	if dup.ID == "" {
		dup.ID = uuid.NewString()
	}
	if dup.CreatedAt.IsZero() {
		dup.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	stored := dup
	r.items[dup.ID] = &stored
	r.mu.Unlock()
	return &dup, nil
}

// Delete removes a testimonial; unknown ids are a no-op.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
	return nil
}
