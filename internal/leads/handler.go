package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/impyreal/realty-ai-platform/internal/observability/metrics"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// QualificationDispatcher hands a freshly stored lead to the qualification
// pipeline. Dispatch must not block and must never report failure to the
// submission flow.
type QualificationDispatcher interface {
	Dispatch(lead *Lead)
}

// EventPublisher pushes lead events to live subscribers (admin console feed).
type EventPublisher interface {
	Publish(event string, payload any)
}

// Handler handles the public lead intake endpoint.
type Handler struct {
	repo       Repository
	dispatcher QualificationDispatcher
	guard      SubmissionGuard
	events     EventPublisher
	metrics    *metrics.LeadMetrics
	logger     *logging.Logger
}

// NewHandler creates a new lead intake handler. dispatcher, guard, events and
// m may be nil; the corresponding step is skipped.
func NewHandler(repo Repository, dispatcher QualificationDispatcher, guard SubmissionGuard, events EventPublisher, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:       repo,
		dispatcher: dispatcher,
		guard:      guard,
		events:     events,
		metrics:    m,
		logger:     logger,
	}
}

// CreateWebLead handles POST /leads/web requests from every public form. The
// source tag decides the phone policy; everything else is shared.
func (h *Handler) CreateWebLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Source == "" {
		req.Source = "website"
	}

	if err := req.Validate(PolicyForSource(req.Source)); err != nil {
		h.metrics.ObserveIntake(req.Source, "rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.guard != nil {
		ok, err := h.guard.Reserve(r.Context(), req.Phone, req.Source)
		if err == nil && !ok {
			h.metrics.ObserveIntake(req.Source, "duplicate")
			http.Error(w, ErrDuplicateSubmission.Error(), http.StatusTooManyRequests)
			return
		}
	}

	lead, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		// A failed creation is a distinguishable outcome: the form shows a
		// failure acknowledgment instead of silently pretending success.
		h.logger.Error("failed to create lead", "error", err, "source", req.Source)
		h.metrics.ObserveIntake(req.Source, "error")
		http.Error(w, "unable to save enquiry, please try again", http.StatusInternalServerError)
		return
	}

	h.logger.Info("lead created", "id", lead.ID, "source", lead.Source, "project", lead.ProjectName)
	h.metrics.ObserveIntake(req.Source, "created")

	if h.events != nil {
		h.events.Publish("lead.created", lead)
	}
	// Fire-and-forget: the submission flow never waits on qualification.
	if h.dispatcher != nil {
		h.dispatcher.Dispatch(lead)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lead)
}

// writeError maps repository sentinels to HTTP statuses for the admin surface.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPurpose):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
