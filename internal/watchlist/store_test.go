package watchlist_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"moviebuff/internal/catalog"
	"moviebuff/internal/services"
	"moviebuff/internal/testsupport"
	"moviebuff/internal/watchlist"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenWatchlist(t, cfg)

	version, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != "001_initial" {
		t.Fatalf("unexpected schema version %q", version)
	}
	if store.Path() != cfg.Watchlist.Path {
		t.Fatalf("expected path %q, got %q", cfg.Watchlist.Path, store.Path())
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := watchlist.Open("  "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAddRejectsMissingID(t *testing.T) {
	store := testsupport.MustOpenWatchlist(t, testsupport.NewConfig(t))

	added, err := store.Add(context.Background(), catalog.Movie{Title: "No Id"})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if added {
		t.Fatal("expected add to report false")
	}
	count, err := store.Count(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("expected empty watchlist, got %d, %v", count, err)
	}
}

func TestAddIgnoresDuplicates(t *testing.T) {
	store := testsupport.MustOpenWatchlist(t, testsupport.NewConfig(t))
	ctx := context.Background()

	added, err := store.Add(ctx, catalog.Movie{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30"})
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	added, err = store.Add(ctx, catalog.Movie{ID: 603, Title: "Renamed"})
	if err != nil {
		t.Fatalf("duplicate add returned error: %v", err)
	}
	if added {
		t.Fatal("expected duplicate add to report false")
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Movie.Title != "The Matrix" {
		t.Fatalf("expected original snapshot to survive, got %#v", entries)
	}
	if count, _ := store.Count(ctx); count != 1 {
		t.Fatalf("expected one entry, got %d", count)
	}
}

func TestListPreservesInsertionOrderAndSnapshot(t *testing.T) {
	store := testsupport.MustOpenWatchlist(t, testsupport.NewConfig(t))
	ctx := context.Background()

	movies := []catalog.Movie{
		{ID: 30, Title: "Third", GenreIDs: []int{18}},
		{ID: 10, Title: "First", Genres: []catalog.Genre{{ID: 28, Name: "Action"}}, Runtime: 120},
		{ID: 20, Title: "Second", Credits: &catalog.Credits{Crew: []catalog.CrewMember{{Name: "Someone", Job: "Director"}}}},
	}
	for _, movie := range movies {
		if _, err := store.Add(ctx, movie); err != nil {
			t.Fatalf("Add(%d) failed: %v", movie.ID, err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != len(movies) {
		t.Fatalf("expected %d entries, got %d", len(movies), len(entries))
	}
	for i, entry := range entries {
		if entry.Movie.ID != movies[i].ID {
			t.Fatalf("entry %d: expected id %d, got %d", i, movies[i].ID, entry.Movie.ID)
		}
		if entry.AddedAt.IsZero() {
			t.Fatalf("entry %d missing added_at", i)
		}
	}
	if entries[1].Movie.Runtime != 120 || entries[1].Movie.Genres[0].Name != "Action" {
		t.Fatalf("snapshot lost detail fields: %#v", entries[1].Movie)
	}
	if entries[2].Movie.Director() != "Someone" {
		t.Fatalf("snapshot lost credits: %#v", entries[2].Movie.Credits)
	}
}

func TestRemoveAndContains(t *testing.T) {
	store := testsupport.MustOpenWatchlist(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Add(ctx, catalog.Movie{ID: 11, Title: "Star Wars"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	has, err := store.Contains(ctx, 11)
	if err != nil || !has {
		t.Fatalf("expected contains=true, got %v, %v", has, err)
	}

	removed, err := store.Remove(ctx, 11)
	if err != nil || !removed {
		t.Fatalf("expected remove=true, got %v, %v", removed, err)
	}
	removed, err = store.Remove(ctx, 11)
	if err != nil || removed {
		t.Fatalf("expected second remove=false, got %v, %v", removed, err)
	}
	has, err = store.Contains(ctx, 11)
	if err != nil || has {
		t.Fatalf("expected contains=false, got %v, %v", has, err)
	}
	if has, _ := store.Contains(ctx, 0); has {
		t.Fatal("expected id 0 to never be contained")
	}
}

func TestEntriesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "watchlist.db")
	store, err := watchlist.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Add(context.Background(), catalog.Movie{ID: 5, Title: "Four Rooms"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := watchlist.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	has, err := reopened.Contains(context.Background(), 5)
	if err != nil || !has {
		t.Fatalf("expected entry after reopen, got %v, %v", has, err)
	}
}
