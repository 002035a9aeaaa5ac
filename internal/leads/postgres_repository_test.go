package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "Rohit", "9876543210", "", "website", "", "Skyline Residences",
			"₹50L – ₹75L", "", "3 BHK", PurposeInvestment, "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	lead, err := repo.Create(context.Background(), &CreateLeadRequest{
		Name:        "Rohit",
		Phone:       "9876543210",
		Source:      "website",
		ProjectName: "Skyline Residences",
		Budget:      "₹50L – ₹75L",
		BHK:         "3 BHK",
		Purpose:     PurposeInvestment,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lead.Status != StatusNew {
		t.Errorf("expected status new, got %s", lead.Status)
	}
	if !lead.CreatedAt.Equal(now) {
		t.Error("created_at should come from the database")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .* FROM leads WHERE id").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresUpdateStatus_UnknownIDIsNoOp(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE leads SET status").
		WithArgs("ghost", "lost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.UpdateStatus(context.Background(), "ghost", StatusLost); err != nil {
		t.Errorf("unknown id should be a no-op, got %v", err)
	}
}

func TestPostgresSetQualification_MissingLeadSurfaces(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE leads SET ai_intent_level").
		WithArgs("ghost", "hot", "notes").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetQualification(context.Background(), "ghost", IntentHot, "notes")
	if !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("qualification writeback to a missing lead must surface, got %v", err)
	}
}

func TestPostgresAddInteraction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE leads SET interactions").
		WithArgs("lead-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.AddInteraction(context.Background(), "lead-1", Interaction{
		Date: time.Now().UTC(), Note: "called", By: "admin",
	})
	if err != nil {
		t.Fatalf("add interaction: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
