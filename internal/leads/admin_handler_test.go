package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

type recordingArchiver struct {
	mu       sync.Mutex
	archived []*Lead
	err      error
}

func (a *recordingArchiver) ArchiveLead(ctx context.Context, lead *Lead) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.archived = append(a.archived, lead)
	return nil
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Record(ctx context.Context, actor, action, entity, entityID string, detail any) error {
	a.mu.Lock()
	a.actions = append(a.actions, action)
	a.mu.Unlock()
	return nil
}

type brokenRepo struct {
	Repository
}

func (brokenRepo) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	return nil, errors.New("connection refused")
}

func adminRouter(h *AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/leads", h.ListLeads)
	r.Patch("/admin/leads/{id}/status", h.UpdateStatus)
	r.Post("/admin/leads/{id}/interactions", h.AddInteraction)
	r.Delete("/admin/leads/{id}", h.DeleteLead)
	return r
}

func TestListLeads(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLead(t, repo, "A", "website", "Skyline Residences")
	seedLead(t, repo, "B", "contact-page", "")
	h := NewAdminHandler(repo, nil, nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ListLeadsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Leads) != 2 {
		t.Errorf("expected 2 leads, got %+v", resp)
	}
}

func TestListLeads_StoreFaultServesEmptyList(t *testing.T) {
	h := NewAdminHandler(brokenRepo{}, nil, nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("console must stay available on store faults, got %d", w.Code)
	}
	var resp ListLeadsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("expected empty list, got %+v", resp)
	}
}

func TestListLeads_RejectsUnknownStatus(t *testing.T) {
	h := NewAdminHandler(NewInMemoryRepository(), nil, nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?status=archived", nil)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	lead := seedLead(t, repo, "A", "website", "")
	audit := &recordingAudit{}
	h := NewAdminHandler(repo, nil, audit, nil, logging.Default())

	body := bytes.NewReader([]byte(`{"status":"contacted"}`))
	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/"+lead.ID+"/status", body)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	got, _ := repo.GetByID(context.Background(), lead.ID)
	if got.Status != StatusContacted {
		t.Errorf("expected contacted, got %s", got.Status)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "lead.status_changed" {
		t.Errorf("expected audit entry, got %v", audit.actions)
	}
}

func TestUpdateStatus_UnknownIDIsNoOp(t *testing.T) {
	h := NewAdminHandler(NewInMemoryRepository(), nil, nil, nil, logging.Default())

	body := bytes.NewReader([]byte(`{"status":"lost"}`))
	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/ghost/status", body)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("unknown id should be a silent no-op, got %d", w.Code)
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	h := NewAdminHandler(NewInMemoryRepository(), nil, nil, nil, logging.Default())

	body := bytes.NewReader([]byte(`{"status":"archived"}`))
	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/x/status", body)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAddInteraction(t *testing.T) {
	repo := NewInMemoryRepository()
	lead := seedLead(t, repo, "A", "website", "")
	h := NewAdminHandler(repo, nil, nil, nil, logging.Default())

	body := bytes.NewReader([]byte(`{"note":"called, asked for site visit","by":"priya"}`))
	req := httptest.NewRequest(http.MethodPost, "/admin/leads/"+lead.ID+"/interactions", body)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	got, _ := repo.GetByID(context.Background(), lead.ID)
	if len(got.Interactions) != 1 || got.Interactions[0].By != "priya" {
		t.Errorf("interaction not recorded: %+v", got.Interactions)
	}
}

func TestAddInteraction_RequiresNote(t *testing.T) {
	h := NewAdminHandler(NewInMemoryRepository(), nil, nil, nil, logging.Default())

	body := bytes.NewReader([]byte(`{"by":"priya"}`))
	req := httptest.NewRequest(http.MethodPost, "/admin/leads/x/interactions", body)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAddInteraction_UnknownLead(t *testing.T) {
	h := NewAdminHandler(NewInMemoryRepository(), nil, nil, nil, logging.Default())

	body := bytes.NewReader([]byte(`{"note":"called"}`))
	req := httptest.NewRequest(http.MethodPost, "/admin/leads/ghost/interactions", body)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDeleteLead_ArchivesFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	lead := seedLead(t, repo, "A", "website", "")
	archiver := &recordingArchiver{}
	h := NewAdminHandler(repo, archiver, nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodDelete, "/admin/leads/"+lead.ID, nil)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(archiver.archived) != 1 || archiver.archived[0].ID != lead.ID {
		t.Error("lead should be archived before deletion")
	}
	if _, err := repo.GetByID(context.Background(), lead.ID); !errors.Is(err, ErrLeadNotFound) {
		t.Error("lead should be gone")
	}
}

func TestDeleteLead_ArchiveFailureStillDeletes(t *testing.T) {
	repo := NewInMemoryRepository()
	lead := seedLead(t, repo, "A", "website", "")
	h := NewAdminHandler(repo, &recordingArchiver{err: errors.New("s3 down")}, nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodDelete, "/admin/leads/"+lead.ID, nil)
	w := httptest.NewRecorder()
	adminRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if _, err := repo.GetByID(context.Background(), lead.ID); !errors.Is(err, ErrLeadNotFound) {
		t.Error("delete must proceed even when archiving fails")
	}
}

func TestDeleteLead_RepeatIsNoOp(t *testing.T) {
	repo := NewInMemoryRepository()
	lead := seedLead(t, repo, "A", "website", "")
	h := NewAdminHandler(repo, nil, nil, nil, logging.Default())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/admin/leads/"+lead.ID, nil)
		w := httptest.NewRecorder()
		adminRouter(h).ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i, w.Code)
		}
	}
}
