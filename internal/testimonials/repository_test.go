package testimonials

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedTestimonial(t *testing.T, repo Repository, author string, createdAt time.Time) *Testimonial {
	t.Helper()
	saved, err := repo.Save(context.Background(), &Testimonial{
		Author:      author,
		Location:    "Pune",
		ProjectName: "Skyline Residences",
		Quote:       "Smooth experience from site visit to possession.",
		Rating:      5,
		CreatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return saved
}

func TestValidate(t *testing.T) {
	base := func() *Testimonial {
		return &Testimonial{Author: "Rohit", Quote: "Great team.", Rating: 4}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid testimonial rejected: %v", err)
	}

	tm := base()
	tm.Author = " "
	if err := tm.Validate(); !errors.Is(err, ErrInvalidAuthor) {
		t.Errorf("blank author: got %v", err)
	}

	tm = base()
	tm.Quote = ""
	if err := tm.Validate(); !errors.Is(err, ErrInvalidQuote) {
		t.Errorf("blank quote: got %v", err)
	}

	for _, rating := range []int{0, 6, -1} {
		tm = base()
		tm.Rating = rating
		if err := tm.Validate(); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: got %v", rating, err)
		}
	}
}

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedTestimonial(t, repo, "Rohit", time.Time{})

	if saved.ID == "" {
		t.Error("expected an assigned id")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected an assigned timestamp")
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	now := time.Now().UTC()
	seedTestimonial(t, repo, "Older", now.Add(-time.Hour))
	seedTestimonial(t, repo, "Newer", now)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Author != "Newer" {
		t.Errorf("expected newest first, got %+v", list)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedTestimonial(t, repo, "Rohit", time.Now().UTC())

	for i := 0; i < 2; i++ {
		if err := repo.Delete(context.Background(), saved.ID); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
	list, _ := repo.List(context.Background())
	if len(list) != 0 {
		t.Error("testimonial should be gone")
	}
}
