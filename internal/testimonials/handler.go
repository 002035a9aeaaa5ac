package testimonials

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/impyreal/realty-ai-platform/internal/http/middleware"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// AuditRecorder records admin mutations for the back-office audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entity, entityID string, detail any) error
}

// Handler serves the public testimonial list and the admin CRUD surface.
type Handler struct {
	repo   Repository
	audit  AuditRecorder
	logger *logging.Logger
}

// NewHandler creates a testimonials handler. audit may be nil.
func NewHandler(repo Repository, audit AuditRecorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, audit: audit, logger: logger}
}

// ListResponse is the response for listing testimonials.
type ListResponse struct {
	Testimonials []*Testimonial `json:"testimonials"`
	Count        int            `json:"count"`
}

// List handles GET /testimonials.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list testimonials", "error", err)
		http.Error(w, "failed to list testimonials", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Testimonial{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Testimonials: list, Count: len(list)})
}

// Save handles POST /admin/testimonials (create or update by id).
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var t Testimonial
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := h.repo.Save(r.Context(), &t)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAuthor), errors.Is(err, ErrInvalidQuote), errors.Is(err, ErrInvalidRating):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to save testimonial", "error", err)
			http.Error(w, "failed to save testimonial", http.StatusInternalServerError)
		}
		return
	}

	h.recordAudit(r, "testimonial.saved", saved.ID, map[string]string{"author": saved.Author})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// Delete handles DELETE /admin/testimonials/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete testimonial", "error", err, "id", id)
		http.Error(w, "failed to delete testimonial", http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "testimonial.deleted", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, detail any) {
	if h.audit == nil {
		return
	}
	actor, _ := middleware.AdminSubjectFromContext(r.Context())
	if err := h.audit.Record(r.Context(), actor, action, "testimonial", entityID, detail); err != nil {
		h.logger.Error("audit record failed", "error", err, "action", action)
	}
}
