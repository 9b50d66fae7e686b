package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"moviebuff/internal/catalog"
	"moviebuff/internal/services"
	"moviebuff/internal/testsupport"
)

func newClient(t *testing.T, fake *testsupport.FakeTMDB, opts ...catalog.Option) *catalog.Client {
	t.Helper()
	client, err := catalog.New(testsupport.TMDBKey, fake.URL(), "en-US", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := catalog.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := catalog.New("key", " ", "en-US"); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestGenresMemoized(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.SetGenres(catalog.Genre{ID: 28, Name: "Action"}, catalog.Genre{ID: 35, Name: "Comedy"})
	client := newClient(t, fake)

	for range 2 {
		genres, err := client.Genres(context.Background())
		if err != nil {
			t.Fatalf("Genres returned error: %v", err)
		}
		if genres[28] != "Action" || genres[35] != "Comedy" {
			t.Fatalf("unexpected genres: %v", genres)
		}
	}
	if calls := fake.Calls(testsupport.RouteGenres); calls != 1 {
		t.Fatalf("expected one genre fetch, got %d", calls)
	}
	query := fake.Requests(testsupport.RouteGenres)[0]
	if query.Get("language") != "en-US" {
		t.Fatalf("expected language parameter, got %q", query.Encode())
	}
}

func TestGenresConcurrentCallersShareOneFetch(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.SetGenres(catalog.Genre{ID: 18, Name: "Drama"})
	client := newClient(t, fake)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			if _, err := client.Genres(context.Background()); err != nil {
				t.Errorf("Genres returned error: %v", err)
			}
		})
	}
	wg.Wait()
	if calls := fake.Calls(testsupport.RouteGenres); calls != 1 {
		t.Fatalf("expected one genre fetch, got %d", calls)
	}
}

func TestGenresFailureMemoizesEmptyMap(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.FailGenres(http.StatusServiceUnavailable)
	client := newClient(t, fake)

	genres, err := client.Genres(context.Background())
	if err == nil {
		t.Fatal("expected first call to report the failure")
	}
	if len(genres) != 0 {
		t.Fatalf("expected empty map, got %v", genres)
	}
	genres, err = client.Genres(context.Background())
	if err != nil || len(genres) != 0 {
		t.Fatalf("expected memoized empty map, got %v, %v", genres, err)
	}
	if calls := fake.Calls(testsupport.RouteGenres); calls != 1 {
		t.Fatalf("expected one genre fetch, got %d", calls)
	}
}

func TestGenresCancelledCallerDoesNotMemoize(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.SetGenres(catalog.Genre{ID: 28, Name: "Action"})
	client := newClient(t, fake)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Genres(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	genres, err := client.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres returned error: %v", err)
	}
	if genres[28] != "Action" {
		t.Fatalf("expected genres fetched after cancelled call, got %v", genres)
	}
	if calls := fake.Calls(testsupport.RouteGenres); calls != 1 {
		t.Fatalf("expected one completed genre fetch, got %d", calls)
	}
}

func TestGenresRateLimitWaitDoesNotMemoize(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.SetGenres(catalog.Genre{ID: 18, Name: "Drama"})
	client := newClient(t, fake, catalog.WithRateLimit(1, 1))

	// Spend the only token so the next wait would outlast the deadline.
	_, _ = client.MovieDetails(context.Background(), 603)

	short, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := client.Genres(short); err == nil {
		t.Fatal("expected rate limit wait to fail")
	}
	if calls := fake.Calls(testsupport.RouteGenres); calls != 0 {
		t.Fatalf("expected no genre request while limited, got %d", calls)
	}

	genres, err := client.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres returned error: %v", err)
	}
	if genres[18] != "Drama" {
		t.Fatalf("expected genres after limiter recovered, got %v", genres)
	}
}

func TestMovieDetailsAppendsSubResources(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.AddMovie(catalog.Movie{
		ID:    603,
		Title: "The Matrix",
		WatchProviders: &catalog.WatchProviders{Results: map[string]catalog.RegionProviders{
			"US": {Link: "https://tmdb.example/603/watch", Flatrate: []catalog.Provider{{Name: "Max", LogoPath: "/max.png"}}},
		}},
	})
	client := newClient(t, fake)

	movie, err := client.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("MovieDetails returned error: %v", err)
	}
	if movie.ID != 603 || movie.Title != "The Matrix" {
		t.Fatalf("unexpected movie: %+v", movie)
	}
	providers, ok := movie.Providers("us")
	if !ok || len(providers.Flatrate) != 1 || providers.Flatrate[0].Name != "Max" {
		t.Fatalf("expected decoded watch providers, got %+v", movie.WatchProviders)
	}
	query := fake.Requests(testsupport.RouteMovie)[0]
	if got := query.Get("append_to_response"); got != "watch/providers,credits,videos,images" {
		t.Fatalf("unexpected append_to_response %q", got)
	}
}

func TestMovieDetailsNotFound(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	client := newClient(t, fake)

	_, err := client.MovieDetails(context.Background(), 999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMovieDetailsUpstreamError(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.FailMovie(7, http.StatusInternalServerError)
	client := newClient(t, fake)

	_, err := client.MovieDetails(context.Background(), 7)
	var upstream *services.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstream.Status != http.StatusInternalServerError || upstream.Message != "movie lookup failed" {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
}

func TestMovieDetailsRejectsMissingIDWithoutNetwork(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	client := newClient(t, fake)

	_, err := client.MovieDetails(context.Background(), 0)
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if fake.TotalCalls() != 0 {
		t.Fatalf("expected no requests, got %d", fake.TotalCalls())
	}
}

func TestMovieDetailsRejectsMismatchedID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":2,"title":"Wrong"}`))
	}))
	t.Cleanup(server.Close)

	client, err := catalog.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.MovieDetails(context.Background(), 1); !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error for mismatched id, got %v", err)
	}
}

func TestSearchMoviesWithoutQueryOrYearSkipsNetwork(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	client := newClient(t, fake)

	page, err := client.SearchMovies(context.Background(), "  ", 0, 1)
	if err != nil {
		t.Fatalf("SearchMovies returned error: %v", err)
	}
	if page.TotalPages != 0 || page.TotalResults != 0 || len(page.Results) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if fake.TotalCalls() != 0 {
		t.Fatalf("expected no requests, got %d", fake.TotalCalls())
	}
}

func TestSearchMoviesEnrichesResults(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.OnSearch(testsupport.StaticPage(catalog.Page{
		Page:         1,
		Results:      []catalog.Movie{{ID: 5, Title: "X", PosterPath: "/p.jpg"}},
		TotalPages:   3,
		TotalResults: 50,
	}))
	fake.AddMovie(catalog.Movie{ID: 5, Title: "X", Runtime: 100, Genres: []catalog.Genre{{ID: 1, Name: "Action"}}})
	client := newClient(t, fake)

	page, err := client.SearchMovies(context.Background(), "X", 0, 1)
	if err != nil {
		t.Fatalf("SearchMovies returned error: %v", err)
	}
	if page.TotalPages != 3 || page.TotalResults != 50 || len(page.Results) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	movie := page.Results[0]
	if movie.Runtime != 100 || len(movie.Genres) != 1 || movie.Genres[0].Name != "Action" {
		t.Fatalf("expected enriched movie, got %+v", movie)
	}
	query := fake.Requests(testsupport.RouteSearch)[0]
	if query.Get("query") != "X" || query.Get("page") != "1" || query.Has("primary_release_year") {
		t.Fatalf("unexpected search query: %s", query.Encode())
	}
}

func TestSearchMoviesYearOnly(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	client := newClient(t, fake)

	if _, err := client.SearchMovies(context.Background(), "", 1999, 2); err != nil {
		t.Fatalf("SearchMovies returned error: %v", err)
	}
	query := fake.Requests(testsupport.RouteSearch)[0]
	if query.Has("query") || query.Get("primary_release_year") != "1999" || query.Get("page") != "2" {
		t.Fatalf("unexpected search query: %s", query.Encode())
	}
}

func TestEnrichKeepsSummaryOnFailureAndPreservesOrder(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	fake.AddMovie(
		catalog.Movie{ID: 1, Title: "One", Runtime: 90},
		catalog.Movie{ID: 3, Title: "Three", Runtime: 120},
	)
	fake.FailMovie(2, http.StatusInternalServerError)
	client := newClient(t, fake, catalog.WithDetailConcurrency(2))

	summaries := []catalog.Movie{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}, {ID: 3, Title: "Three"}}
	got := client.Enrich(context.Background(), summaries)
	if len(got) != 3 {
		t.Fatalf("expected three movies, got %d", len(got))
	}
	if got[0].Runtime != 90 || got[2].Runtime != 120 {
		t.Fatalf("expected enriched neighbours, got %+v", got)
	}
	if got[1].ID != 2 || got[1].Title != "Two" || got[1].Runtime != 0 {
		t.Fatalf("expected summary kept for failed slot, got %+v", got[1])
	}
}

func TestDiscoverSendsOnlyProvidedFilters(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	client := newClient(t, fake)

	if _, err := client.DiscoverMovies(context.Background(), catalog.DiscoverOptions{}); err != nil {
		t.Fatalf("DiscoverMovies returned error: %v", err)
	}
	if _, err := client.DiscoverMovies(context.Background(), catalog.DiscoverOptions{GenreID: 28, Year: 2010, SortBy: "vote_average.desc", Page: 4}); err != nil {
		t.Fatalf("DiscoverMovies returned error: %v", err)
	}

	requests := fake.Requests(testsupport.RouteDiscover)
	bare := requests[0]
	if bare.Get("include_adult") != "false" {
		t.Fatalf("expected include_adult=false, got %s", bare.Encode())
	}
	for _, key := range []string{"with_genres", "primary_release_year", "sort_by", "vote_count.gte", "include_video"} {
		if bare.Has(key) {
			t.Fatalf("expected %s to be omitted, got %s", key, bare.Encode())
		}
	}
	filtered := requests[1]
	want := url.Values{
		"with_genres":          {"28"},
		"primary_release_year": {"2010"},
		"sort_by":              {"vote_average.desc"},
		"page":                 {"4"},
	}
	for key := range want {
		if filtered.Get(key) != want.Get(key) {
			t.Fatalf("expected %s=%s, got %s", key, want.Get(key), filtered.Encode())
		}
	}
}

func TestUnauthorizedSurfacesUpstreamMessage(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	client, err := catalog.New("wrong", fake.URL(), "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.DiscoverPage(context.Background(), catalog.DiscoverOptions{})
	var upstream *services.UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 upstream error, got %v", err)
	}
}

func TestRateLimitHonoursContext(t *testing.T) {
	fake := testsupport.NewFakeTMDB(t)
	client := newClient(t, fake, catalog.WithRateLimit(0.001, 1))

	if _, err := client.DiscoverPage(context.Background(), catalog.DiscoverOptions{}); err != nil {
		t.Fatalf("first request should use the burst token: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.DiscoverPage(ctx, catalog.DiscoverOptions{}); err == nil {
		t.Fatal("expected limiter wait to fail on cancelled context")
	}
	if calls := fake.Calls(testsupport.RouteDiscover); calls != 1 {
		t.Fatalf("expected one request, got %d", calls)
	}
}
