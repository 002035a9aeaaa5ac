package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	leads []*Lead
}

func (d *fakeDispatcher) Dispatch(lead *Lead) {
	d.mu.Lock()
	d.leads = append(d.leads, lead)
	d.mu.Unlock()
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.leads)
}

type fakeGuard struct {
	allow bool
	err   error
}

func (g *fakeGuard) Reserve(ctx context.Context, phone, source string) (bool, error) {
	return g.allow, g.err
}

type failingRepo struct {
	Repository
}

func (failingRepo) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	return nil, errors.New("connection refused")
}

func postLead(t *testing.T, handler *Handler, req CreateLeadRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/leads/web", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateWebLead(w, r)
	return w
}

func TestCreateWebLead_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	dispatcher := &fakeDispatcher{}
	handler := NewHandler(repo, dispatcher, nil, nil, nil, logging.Default())

	w := postLead(t, handler, CreateLeadRequest{
		Name:        "Rohit Sharma",
		Phone:       "9876543210",
		ProjectName: "Skyline Residences",
		Budget:      "₹50L – ₹75L",
		Purpose:     PurposeInvestment,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var lead Lead
	if err := json.NewDecoder(w.Body).Decode(&lead); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if lead.ID == "" {
		t.Error("expected generated id in response")
	}
	if lead.Source != "website" {
		t.Errorf("expected default source website, got %s", lead.Source)
	}
	if lead.Status != StatusNew {
		t.Errorf("expected status new, got %s", lead.Status)
	}
	if lead.AIIntentLevel != "" {
		t.Errorf("intent must be unset at creation, got %s", lead.AIIntentLevel)
	}
	if dispatcher.count() != 1 {
		t.Errorf("expected one dispatch, got %d", dispatcher.count())
	}
}

func TestCreateWebLead_InvalidPhone(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, nil, nil, nil, logging.Default())

	w := postLead(t, handler, CreateLeadRequest{Name: "Rohit", Phone: "12345"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	list, _ := repo.List(context.Background(), ListFilter{})
	if len(list) != 0 {
		t.Error("rejected submission must not be stored")
	}
}

func TestCreateWebLead_ContactPageLenientPhone(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, nil, nil, nil, logging.Default())

	w := postLead(t, handler, CreateLeadRequest{
		Name:   "Rohit",
		Phone:  "+91 98765 43210",
		Source: "contact-page",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("contact-page should accept free-form phone, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateWebLead_DuplicateSubmission(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, &fakeGuard{allow: false}, nil, nil, logging.Default())

	w := postLead(t, handler, CreateLeadRequest{Name: "Rohit", Phone: "9876543210"})
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}

func TestCreateWebLead_GuardFailsOpen(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, &fakeGuard{allow: false, err: errors.New("redis down")}, nil, nil, logging.Default())

	w := postLead(t, handler, CreateLeadRequest{Name: "Rohit", Phone: "9876543210"})
	if w.Code != http.StatusCreated {
		t.Errorf("guard errors must not block intake, got %d", w.Code)
	}
}

func TestCreateWebLead_StoreFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	handler := NewHandler(failingRepo{}, dispatcher, nil, nil, nil, logging.Default())

	w := postLead(t, handler, CreateLeadRequest{Name: "Rohit", Phone: "9876543210"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), "unable to save enquiry") {
		t.Errorf("failure must be acknowledged to the form, got %q", w.Body.String())
	}
	if dispatcher.count() != 0 {
		t.Error("qualification must not run for a lead that was never stored")
	}
}

func TestCreateWebLead_InvalidJSON(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, nil, nil, logging.Default())

	r := httptest.NewRequest(http.MethodPost, "/leads/web", strings.NewReader("{"))
	w := httptest.NewRecorder()
	handler.CreateWebLead(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
