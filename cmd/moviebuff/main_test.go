package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"moviebuff/internal/catalog"
	"moviebuff/internal/discovery"
	"moviebuff/internal/preflight"
	"moviebuff/internal/testsupport"
)

func TestGenresCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.tmdb.SetGenres(catalog.Genre{ID: 35, Name: "Comedy"}, catalog.Genre{ID: 28, Name: "Action"})

	out, _, err := runCLI(t, []string{"genres"}, env.configPath)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	requireContains(t, out, "Action")
	if strings.Index(out, "Action") > strings.Index(out, "Comedy") {
		t.Fatalf("expected genres ordered by id:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"genres", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("genres --json: %v", err)
	}
	var resp discovery.GenreList
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode genres json: %v\n%s", err, out)
	}
	if len(resp.Genres) != 2 || resp.Genres[0].ID != 28 {
		t.Fatalf("unexpected genres %#v", resp.Genres)
	}
}

func TestShowCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.tmdb.AddMovie(catalog.Movie{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-30",
		Runtime:     136,
		VoteAverage: 8.2,
		VoteCount:   24000,
		Overview:    "Set in the 22nd century.",
		Genres:      []catalog.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
	})

	out, _, err := runCLI(t, []string{"show", "603"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "The Matrix (1999)")
	requireContains(t, out, "Action, Science Fiction")
	requireContains(t, out, "136 min")
	requireContains(t, out, "Watchlist:  no")

	out, _, err = runCLI(t, []string{"show", "603", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show --json: %v", err)
	}
	var bundle discovery.Bundle
	if err := json.Unmarshal([]byte(out), &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if bundle.Movie == nil || bundle.Movie.ID != 603 {
		t.Fatalf("unexpected bundle %#v", bundle)
	}

	if _, _, err := runCLI(t, []string{"show", "abc"}, env.configPath); err == nil {
		t.Fatal("expected error for invalid id")
	}
	if _, _, err := runCLI(t, []string{"show", "604"}, env.configPath); err == nil {
		t.Fatal("expected error for missing movie")
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.tmdb.OnSearch(testsupport.StaticPage(catalog.Page{
		Page:         1,
		Results:      []catalog.Movie{{ID: 105, Title: "Back to the Future", ReleaseDate: "1985-07-03", VoteAverage: 8.3}},
		TotalPages:   1,
		TotalResults: 1,
	}))

	out, _, err := runCLI(t, []string{"search", "back", "to", "the", "future"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Back to the Future")
	requireContains(t, out, "Page 1 of 1")

	query := env.tmdb.Requests(testsupport.RouteSearch)[0]
	if query.Get("query") != "back to the future" {
		t.Fatalf("unexpected query %v", query)
	}

	out, _, err = runCLI(t, []string{"search"}, env.configPath)
	if err != nil {
		t.Fatalf("empty search: %v", err)
	}
	requireContains(t, out, "No movies found")
}

func TestDiscoverCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"discover", "--genre", "27", "--year", "1980", "--sort", "vote_average.desc"}, env.configPath); err != nil {
		t.Fatalf("discover: %v", err)
	}
	query := env.tmdb.Requests(testsupport.RouteDiscover)[0]
	if query.Get("with_genres") != "27" || query.Get("primary_release_year") != "1980" || query.Get("sort_by") != "vote_average.desc" {
		t.Fatalf("unexpected discover params %v", query)
	}
}

func TestRandomCommandWithoutResults(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"random"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no movie found") {
		t.Fatalf("expected no movie found error, got %v", err)
	}
}

func TestSoundtrackCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"soundtrack", "Heat"}, env.configPath); err == nil {
		t.Fatal("expected error when soundtrack lookups are disabled")
	}

	spotify := testsupport.NewFakeSpotify(t)
	spotify.OnSearch(func(string) (int, []testsupport.FakeAlbum) {
		return http.StatusOK, []testsupport.FakeAlbum{{Name: "Heat (Music from the Motion Picture)", Artist: "Various Artists", URL: "https://open.spotify.com/album/heat"}}
	})
	env = setupCLITestEnv(t, testsupport.WithSpotify(spotify))

	out, _, err := runCLI(t, []string{"soundtrack", "Heat", "--year", "1995"}, env.configPath)
	if err != nil {
		t.Fatalf("soundtrack: %v", err)
	}
	requireContains(t, out, "Heat (Music from the Motion Picture)")
	requireContains(t, out, "Various Artists")
}

func TestWatchlistCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.tmdb.AddMovie(catalog.Movie{ID: 78, Title: "Blade Runner", ReleaseDate: "1982-06-25"})

	out, _, err := runCLI(t, []string{"watchlist", "add", "78"}, env.configPath)
	if err != nil {
		t.Fatalf("watchlist add: %v", err)
	}
	requireContains(t, out, "Added Blade Runner (78)")

	out, _, err = runCLI(t, []string{"watchlist", "add", "78"}, env.configPath)
	if err != nil {
		t.Fatalf("watchlist add again: %v", err)
	}
	requireContains(t, out, "already in the watchlist")

	out, _, err = runCLI(t, []string{"watchlist", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("watchlist list: %v", err)
	}
	requireContains(t, out, "Blade Runner")
	requireContains(t, out, "1982")

	out, _, err = runCLI(t, []string{"watchlist", "has", "78"}, env.configPath)
	if err != nil {
		t.Fatalf("watchlist has: %v", err)
	}
	requireContains(t, out, "in watchlist: yes")

	out, _, err = runCLI(t, []string{"wl", "rm", "78"}, env.configPath)
	if err != nil {
		t.Fatalf("watchlist remove: %v", err)
	}
	requireContains(t, out, "Removed movie 78")

	out, _, err = runCLI(t, []string{"watchlist", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("watchlist list --json: %v", err)
	}
	var list discovery.WatchlistListing
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode watchlist: %v", err)
	}
	if list.Count != 0 {
		t.Fatalf("expected empty watchlist, got %#v", list)
	}

	if _, _, err := runCLI(t, []string{"watchlist", "add", "999"}, env.configPath); err == nil {
		t.Fatal("expected error adding an unknown movie")
	}
}

func TestDoctorCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode doctor json: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %#v", results)
	}

	env.cfg.TMDB.APIKey = "rejected"
	writeTestConfig(t, env.configPath, env.cfg)
	out, _, err = runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail with a rejected key")
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "[OK]")
}
