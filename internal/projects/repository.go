package projects

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Repository defines the interface for project storage. Save upserts: an
// existing id replaces the stored record, a missing id creates one.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	Save(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]*Project
	order    []string // insertion order, newest first
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		projects: make(map[string]*Project),
	}
}

// List returns matching projects, newest first.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Project, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.projects[id]; ok && filter.Matches(p) {
			dup := *p
			out = append(out, &dup)
		}
	}
	return out, nil
}

// GetBySlug retrieves one project by its URL slug.
func (r *InMemoryRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if p.Slug == slug {
			dup := *p
			return &dup, nil
		}
	}
	return nil, ErrProjectNotFound
}

// Save upserts a project, assigning id and slug when absent.
func (r *InMemoryRepository) Save(ctx context.Context, project *Project) (*Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}

	dup := *project
	if dup.ID == "" {
		dup.ID = uuid.NewString()
	}
	if dup.Slug == "" {
		dup.Slug = Slugify(dup.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.projects[dup.ID]; !exists {
		r.order = append([]string{dup.ID}, r.order...)
	}
	stored := dup
	r.projects[dup.ID] = &stored
	return &dup, nil
}

// Delete removes a project; unknown ids are a no-op.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return nil
	}
	delete(r.projects, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// sortByName is used by tests that need deterministic ordering regardless of
// insertion sequence.
func sortByName(list []*Project) {
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
}
