package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/impyreal/realty-ai-platform/internal/http/middleware"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// AuditRecorder records admin mutations for the back-office audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entity, entityID string, detail any) error
}

// Handler serves the public catalogue and the admin CRUD surface.
type Handler struct {
	repo   Repository
	audit  AuditRecorder
	logger *logging.Logger
}

// NewHandler creates a projects handler. audit may be nil.
func NewHandler(repo Repository, audit AuditRecorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, audit: audit, logger: logger}
}

// ListResponse is the response for listing projects.
type ListResponse struct {
	Projects []*Project `json:"projects"`
	Count    int        `json:"count"`
}

// List handles GET /projects with optional filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		City:         q.Get("city"),
		PropertyType: q.Get("type"),
		Status:       Status(q.Get("status")),
		Query:        q.Get("q"),
		FeaturedOnly: q.Get("featured") == "true",
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, ErrInvalidStatus.Error(), http.StatusBadRequest)
		return
	}
	if budget := q.Get("max_budget"); budget != "" {
		parsed, err := strconv.ParseInt(budget, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid max_budget", http.StatusBadRequest)
			return
		}
		filter.MaxBudget = parsed
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		http.Error(w, "failed to list projects", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Project{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Projects: list, Count: len(list)})
}

// GetBySlug handles GET /projects/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load project", "error", err, "slug", slug)
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(project)
}

// Save handles POST /admin/projects (create or update by id).
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var project Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := h.repo.Save(r.Context(), &project)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriceRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to save project", "error", err)
			http.Error(w, "failed to save project", http.StatusInternalServerError)
		}
		return
	}

	h.recordAudit(r, "project.saved", saved.ID, map[string]string{"name": saved.Name})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// Delete handles DELETE /admin/projects/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete project", "error", err, "id", id)
		http.Error(w, "failed to delete project", http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "project.deleted", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, detail any) {
	if h.audit == nil {
		return
	}
	actor, _ := middleware.AdminSubjectFromContext(r.Context())
	if err := h.audit.Record(r.Context(), actor, action, "project", entityID, detail); err != nil {
		h.logger.Error("audit record failed", "error", err, "action", action)
	}
}
