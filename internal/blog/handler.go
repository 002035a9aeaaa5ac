package blog

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

// Handler serves public articles and the admin CRUD surface.
type Handler struct {
	repo   Repository
	audit  AuditRecorder
	logger *logging.Logger
}

// NewHandler creates a blog handler. audit may be nil.
func NewHandler(repo Repository, audit AuditRecorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, audit: audit, logger: logger}
}

// ListResponse is the response for listing posts.
type ListResponse struct {
	Posts []*Post `json:"posts"`
	Count int     `json:"count"`
}

// List handles GET /blog?category=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Posts: list, Count: len(list)})
}

// GetBySlug handles GET /blog/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load post", "error", err, "slug", slug)
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// Save handles POST /admin/blog (create or update by id).
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var post Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := h.repo.Save(r.Context(), &post)
	if err != nil {
		if errors.Is(err, ErrInvalidTitle) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to save post", "error", err)
		http.Error(w, "failed to save post", http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "blog.saved", saved.ID, map[string]string{"title": saved.Title})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// Delete handles DELETE /admin/blog/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete post", "error", err, "id", id)
		http.Error(w, "failed to delete post", http.StatusInternalServerError)
		return
	}

	h.recordAudit(r, "blog.deleted", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, detail any) {
	if h.audit == nil {
		return
	}
	actor, _ := middleware.AdminSubjectFromContext(r.Context())
	if err := h.audit.Record(r.Context(), actor, action, "blog_post", entityID, detail); err != nil {
		h.logger.Error("audit record failed", "error", err, "action", action)
	}
}
