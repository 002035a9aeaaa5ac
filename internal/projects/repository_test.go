package projects

import (
	"context"
	"errors"
	"testing"
)

func seedProject(t *testing.T, repo Repository, name, city string, featured bool) *Project {
	t.Helper()
	saved, err := repo.Save(context.Background(), &Project{
		Name:     name,
		City:     city,
		Status:   StatusUnderConstruction,
		PriceMin: 6_000_000,
		PriceMax: 9_000_000,
		Featured: featured,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return saved
}

func TestInMemorySaveAssignsIDAndSlug(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedProject(t, repo, "Skyline Residences", "Pune", false)

	if saved.ID == "" {
		t.Error("expected an assigned id")
	}
	if saved.Slug != "skyline-residences" {
		t.Errorf("expected derived slug, got %q", saved.Slug)
	}
}

func TestInMemorySaveUpserts(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedProject(t, repo, "Skyline Residences", "Pune", false)

	saved.City = "Mumbai"
	if _, err := repo.Save(context.Background(), saved); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, _ := repo.List(context.Background(), ListFilter{})
	if len(list) != 1 {
		t.Fatalf("upsert must not duplicate, got %d projects", len(list))
	}
	if list[0].City != "Mumbai" {
		t.Errorf("update not applied, city=%q", list[0].City)
	}
}

func TestInMemorySaveRejectsInvalid(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.Save(context.Background(), &Project{Name: "X", Status: "planned"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestInMemoryGetBySlug(t *testing.T) {
	repo := NewInMemoryRepository()
	seedProject(t, repo, "Skyline Residences", "Pune", false)

	got, err := repo.GetBySlug(context.Background(), "skyline-residences")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Skyline Residences" {
		t.Errorf("wrong project: %+v", got)
	}

	if _, err := repo.GetBySlug(context.Background(), "ghost"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestInMemoryListFilters(t *testing.T) {
	repo := NewInMemoryRepository()
	seedProject(t, repo, "Skyline Residences", "Pune", true)
	seedProject(t, repo, "Marine Heights", "Mumbai", false)
	seedProject(t, repo, "Green Acres", "Pune", false)

	list, _ := repo.List(context.Background(), ListFilter{City: "Pune"})
	if len(list) != 2 {
		t.Fatalf("expected 2 Pune projects, got %d", len(list))
	}
	sortByName(list)
	if list[0].Name != "Green Acres" || list[1].Name != "Skyline Residences" {
		t.Errorf("unexpected set: %s, %s", list[0].Name, list[1].Name)
	}

	featured, _ := repo.List(context.Background(), ListFilter{FeaturedOnly: true})
	if len(featured) != 1 || featured[0].Name != "Skyline Residences" {
		t.Errorf("unexpected featured set: %+v", featured)
	}
}

func TestInMemoryListNewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	seedProject(t, repo, "First", "Pune", false)
	seedProject(t, repo, "Second", "Pune", false)

	list, _ := repo.List(context.Background(), ListFilter{})
	if len(list) != 2 || list[0].Name != "Second" {
		t.Errorf("expected newest first, got %+v", list)
	}
}

func TestInMemoryDelete(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedProject(t, repo, "Skyline Residences", "Pune", false)

	if err := repo.Delete(context.Background(), saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetBySlug(context.Background(), saved.Slug); !errors.Is(err, ErrProjectNotFound) {
		t.Error("project should be gone")
	}
	if err := repo.Delete(context.Background(), saved.ID); err != nil {
		t.Errorf("repeat delete should be a no-op, got %v", err)
	}
}

func TestInMemoryCopyIsolation(t *testing.T) {
	repo := NewInMemoryRepository()
	saved := seedProject(t, repo, "Skyline Residences", "Pune", false)

	saved.Name = "Mutated"
	got, _ := repo.GetBySlug(context.Background(), "skyline-residences")
	if got.Name != "Skyline Residences" {
		t.Error("returned copies must not alias stored state")
	}
}
