package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage. List is ordered
// newest-first by creation timestamp. UpdateStatus and Delete are silent
// no-ops for unknown ids; the qualification writeback is not, so a lost
// record is visible to the error sink.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	SetQualification(ctx context.Context, id string, intent IntentLevel, notes string) error
	AddInteraction(ctx context.Context, id string, interaction Interaction) error
}

// InMemoryRepository is a Repository backed by process memory. It serves
// development and tests, and mirrors the durable implementation's ordering
// and no-op semantics.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	seq   map[string]uint64
	next  uint64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
		seq:   make(map[string]uint64),
	}
}

// Create creates a new lead in memory. The phone policy is the caller's
// concern; Create only enforces structural invariants.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	lead := &Lead{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Source:       req.Source,
		ProjectID:    req.ProjectID,
		ProjectName:  req.ProjectName,
		Budget:       req.Budget,
		LocationPref: req.LocationPref,
		BHK:          req.BHK,
		Purpose:      req.Purpose,
		Message:      req.Message,
		CreatedAt:    time.Now().UTC(),
		Status:       StatusNew,
		Interactions: []Interaction{},
	}

	r.mu.Lock()
	r.next++
	r.leads[lead.ID] = lead
	r.seq[lead.ID] = r.next
	r.mu.Unlock()

	return copyLead(lead), nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return copyLead(lead), nil
}

// List returns leads newest-first, applying the filter.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if filter.Matches(lead) {
			out = append(out, copyLead(lead))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		// Same-instant creations fall back to insertion order so a lead is
		// always first in the list that follows its own Create.
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return r.seq[out[i].ID] > r.seq[out[j].ID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus sets the lifecycle status; unknown ids are a no-op.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if lead, ok := r.leads[id]; ok {
		lead.Status = status
	}
	return nil
}

// Delete removes a lead; unknown ids are a no-op.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.leads, id)
	delete(r.seq, id)
	return nil
}

// SetQualification records the verdict of a qualification run. A later run
// may overwrite an earlier one.
func (r *InMemoryRepository) SetQualification(ctx context.Context, id string, intent IntentLevel, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.AIIntentLevel = intent
	lead.AINotes = notes
	return nil
}

// AddInteraction appends to the lead's contact history.
func (r *InMemoryRepository) AddInteraction(ctx context.Context, id string, interaction Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.Interactions = append(lead.Interactions, interaction)
	return nil
}

func copyLead(l *Lead) *Lead {
	dup := *l
	dup.Interactions = append([]Interaction(nil), l.Interactions...)
	return &dup
}
