package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/impyreal/realty-ai-platform/internal/http/middleware"
	"github.com/impyreal/realty-ai-platform/internal/observability/metrics"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// LeadArchiver copies a lead to cold storage before irreversible deletion.
type LeadArchiver interface {
	ArchiveLead(ctx context.Context, lead *Lead) error
}

// AuditRecorder records admin mutations for the back-office audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entity, entityID string, detail any) error
}

// AdminHandler is the operator mutation surface over the lead collection.
type AdminHandler struct {
	repo     Repository
	archiver LeadArchiver
	audit    AuditRecorder
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewAdminHandler creates the admin lead console handler. archiver and audit
// may be nil.
func NewAdminHandler(repo Repository, archiver LeadArchiver, audit AuditRecorder, m *metrics.LeadMetrics, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{
		repo:     repo,
		archiver: archiver,
		audit:    audit,
		metrics:  m,
		logger:   logger,
	}
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
	Count int     `json:"count"`
}

// ListLeads handles GET /admin/leads?status=&q=. Storage faults are logged
// and downgraded to an empty list: the console stays available even when the
// store is not.
func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status: Status(r.URL.Query().Get("status")),
		Query:  r.URL.Query().Get("q"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, ErrInvalidStatus.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads, serving empty list", "error", err)
		h.metrics.ObserveSwallowedFault("store")
		list = nil
	}
	if list == nil {
		list = []*Lead{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListLeadsResponse{Leads: list, Count: len(list)})
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PATCH /admin/leads/{id}/status. Any status is
// reachable from any other; unknown ids are a silent no-op.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Status.Valid() {
		http.Error(w, ErrInvalidStatus.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Error("failed to update lead status", "error", err, "id", id)
		writeError(w, err)
		return
	}

	h.recordAudit(r, "lead.status_changed", "lead", id, map[string]string{"status": string(req.Status)})
	w.WriteHeader(http.StatusNoContent)
}

type addInteractionRequest struct {
	Note string `json:"note"`
	By   string `json:"by"`
}

// AddInteraction handles POST /admin/leads/{id}/interactions.
func (h *AdminHandler) AddInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req addInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Note == "" {
		http.Error(w, "note is required", http.StatusBadRequest)
		return
	}
	if req.By == "" {
		req.By, _ = middleware.AdminSubjectFromContext(r.Context())
	}

	interaction := Interaction{Date: time.Now().UTC(), Note: req.Note, By: req.By}
	if err := h.repo.AddInteraction(r.Context(), id, interaction); err != nil {
		writeError(w, err)
		return
	}

	h.recordAudit(r, "lead.interaction_added", "lead", id, interaction)
	w.WriteHeader(http.StatusCreated)
}

// DeleteLead handles DELETE /admin/leads/{id}. The record is archived
// best-effort before the irreversible delete; repeating the delete is a
// no-op.
func (h *AdminHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if h.archiver != nil {
		lead, err := h.repo.GetByID(r.Context(), id)
		switch {
		case err == nil:
			if err := h.archiver.ArchiveLead(r.Context(), lead); err != nil {
				h.logger.Error("lead archive failed, deleting anyway", "error", err, "id", id)
				h.metrics.ObserveSwallowedFault("archive")
			}
		case !errors.Is(err, ErrLeadNotFound):
			h.logger.Error("failed to load lead for archive", "error", err, "id", id)
			h.metrics.ObserveSwallowedFault("archive")
		}
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete lead", "error", err, "id", id)
		writeError(w, err)
		return
	}

	h.recordAudit(r, "lead.deleted", "lead", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) recordAudit(r *http.Request, action, entity, entityID string, detail any) {
	if h.audit == nil {
		return
	}
	actor, _ := middleware.AdminSubjectFromContext(r.Context())
	if err := h.audit.Record(r.Context(), actor, action, entity, entityID, detail); err != nil {
		h.logger.Error("audit record failed", "error", err, "action", action, "entity_id", entityID)
		h.metrics.ObserveSwallowedFault("audit")
	}
}
