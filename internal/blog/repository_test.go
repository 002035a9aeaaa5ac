package blog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedPost(t *testing.T, repo Repository, title, category string, publishedAt time.Time) *Post {
	t.Helper()
	saved, err := repo.Save(context.Background(), &Post{
		Title:       title,
		Category:    category,
		Excerpt:     "excerpt",
		Content:     "body",
		Author:      "Team",
		PublishedAt: publishedAt,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return saved
}

func TestSaveAssignsIDSlugAndDate(t *testing.T) {
	repo := NewInMemoryRepository()
	saved, err := repo.Save(context.Background(), &Post{Title: "Why RERA Matters"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an assigned id")
	}
	if saved.Slug != "why-rera-matters" {
		t.Errorf("expected derived slug, got %q", saved.Slug)
	}
	if saved.PublishedAt.IsZero() {
		t.Error("expected an assigned publish date")
	}
}

func TestSaveRejectsBlankTitle(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.Save(context.Background(), &Post{Title: "  "}); !errors.Is(err, ErrInvalidTitle) {
		t.Errorf("expected ErrInvalidTitle, got %v", err)
	}
}

func TestListNewestFirstWithCategory(t *testing.T) {
	repo := NewInMemoryRepository()
	now := time.Now().UTC()
	seedPost(t, repo, "Older Guide", "guides", now.Add(-time.Hour))
	seedPost(t, repo, "Newer Guide", "guides", now)
	seedPost(t, repo, "Market Note", "market", now)

	guides, err := repo.List(context.Background(), "guides")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(guides) != 2 {
		t.Fatalf("expected 2 guides, got %d", len(guides))
	}
	if guides[0].Title != "Newer Guide" {
		t.Errorf("expected newest first, got %q", guides[0].Title)
	}

	all, _ := repo.List(context.Background(), "")
	if len(all) != 3 {
		t.Errorf("expected 3 posts unfiltered, got %d", len(all))
	}
}

func TestGetBySlug(t *testing.T) {
	repo := NewInMemoryRepository()
	seedPost(t, repo, "Why RERA Matters", "guides", time.Now().UTC())

	got, err := repo.GetBySlug(context.Background(), "why-rera-matters")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Why RERA Matters" {
		t.Errorf("wrong post: %+v", got)
	}

	if _, err := repo.GetBySlug(context.Background(), "ghost"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedPost(t, repo, "Why RERA Matters", "guides", time.Now().UTC())

	for i := 0; i < 2; i++ {
		if err := repo.Delete(context.Background(), saved.ID); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
	if _, err := repo.GetBySlug(context.Background(), saved.Slug); !errors.Is(err, ErrPostNotFound) {
		t.Error("post should be gone")
	}
}

func TestSaveUpserts(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedPost(t, repo, "Why RERA Matters", "guides", time.Now().UTC())

	saved.Excerpt = "updated"
	if _, err := repo.Save(context.Background(), saved); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := repo.GetBySlug(context.Background(), saved.Slug)
	if got.Excerpt != "updated" {
		t.Errorf("update not applied: %+v", got)
	}
	all, _ := repo.List(context.Background(), "")
	if len(all) != 1 {
		t.Errorf("upsert must not duplicate, got %d posts", len(all))
	}
}
