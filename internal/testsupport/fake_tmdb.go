package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"moviebuff/internal/catalog"
)

// Route names counted by FakeTMDB.
const (
	RouteGenres   = "genres"
	RouteMovie    = "movie"
	RouteSearch   = "search"
	RouteDiscover = "discover"
)

// PageFunc answers a search or discover request with a status and JSON body.
type PageFunc func(query url.Values) (int, any)

// FakeTMDB is an in-process TMDB stand-in that records every request.
type FakeTMDB struct {
	server *httptest.Server

	mu           sync.Mutex
	genres       []catalog.Genre
	genresStatus int
	movies       map[int64]catalog.Movie
	movieStatus  map[int64]int
	search       PageFunc
	discover     PageFunc
	requests     map[string][]url.Values
}

// NewFakeTMDB starts a fake server that is closed when the test ends.
func NewFakeTMDB(t testing.TB) *FakeTMDB {
	t.Helper()
	fake := &FakeTMDB{
		genresStatus: http.StatusOK,
		movies:       make(map[int64]catalog.Movie),
		movieStatus:  make(map[int64]int),
		requests:     make(map[string][]url.Values),
	}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.server.Close)
	return fake
}

// URL is the base URL to configure as tmdb.base_url.
func (f *FakeTMDB) URL() string {
	return f.server.URL
}

// SetGenres replaces the genre list.
func (f *FakeTMDB) SetGenres(genres ...catalog.Genre) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genres = genres
}

// FailGenres makes the genre endpoint answer with status.
func (f *FakeTMDB) FailGenres(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genresStatus = status
}

// AddMovie registers detail records served from /movie/{id}.
func (f *FakeTMDB) AddMovie(movies ...catalog.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range movies {
		f.movies[m.ID] = m
	}
}

// FailMovie makes /movie/{id} answer with status.
func (f *FakeTMDB) FailMovie(id int64, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movieStatus[id] = status
}

// OnSearch installs the /search/movie responder.
func (f *FakeTMDB) OnSearch(fn PageFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.search = fn
}

// OnDiscover installs the /discover/movie responder.
func (f *FakeTMDB) OnDiscover(fn PageFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discover = fn
}

// Calls returns how many requests hit route.
func (f *FakeTMDB) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests[route])
}

// TotalCalls returns the number of requests across all routes.
func (f *FakeTMDB) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, reqs := range f.requests {
		total += len(reqs)
	}
	return total
}

// Requests returns the query strings received on route, in arrival order.
func (f *FakeTMDB) Requests(route string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.requests[route]...)
}

// StaticPage returns a PageFunc that always answers with page.
func StaticPage(page catalog.Page) PageFunc {
	return func(url.Values) (int, any) {
		return http.StatusOK, page
	}
}

// EmptyPage is a zero-result page.
func EmptyPage() catalog.Page {
	return catalog.Page{Page: 1, Results: []catalog.Movie{}, TotalPages: 0, TotalResults: 0}
}

func (f *FakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("api_key") != TMDBKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status_code": 7, "status_message": "Invalid API key: You must be granted a valid key."})
		return
	}

	path := r.URL.Path
	switch {
	case path == "/genre/movie/list":
		f.record(RouteGenres, query)
		f.mu.Lock()
		status, genres := f.genresStatus, f.genres
		f.mu.Unlock()
		if status != http.StatusOK {
			writeJSON(w, status, map[string]any{"status_message": "genre list unavailable"})
			return
		}
		if genres == nil {
			genres = []catalog.Genre{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"genres": genres})
	case strings.HasPrefix(path, "/movie/"):
		f.record(RouteMovie, query)
		id, err := strconv.ParseInt(strings.TrimPrefix(path, "/movie/"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"status_message": "The resource you requested could not be found."})
			return
		}
		f.mu.Lock()
		status, failed := f.movieStatus[id]
		movie, ok := f.movies[id]
		f.mu.Unlock()
		switch {
		case failed:
			writeJSON(w, status, map[string]any{"status_message": "movie lookup failed"})
		case !ok:
			writeJSON(w, http.StatusNotFound, map[string]any{"status_code": 34, "status_message": "The resource you requested could not be found."})
		default:
			writeJSON(w, http.StatusOK, movie)
		}
	case path == "/search/movie":
		f.record(RouteSearch, query)
		f.answer(w, query, f.searchFunc())
	case path == "/discover/movie":
		f.record(RouteDiscover, query)
		f.answer(w, query, f.discoverFunc())
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"status_message": "unknown route"})
	}
}

func (f *FakeTMDB) searchFunc() PageFunc {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.search
}

func (f *FakeTMDB) discoverFunc() PageFunc {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discover
}

func (f *FakeTMDB) answer(w http.ResponseWriter, query url.Values, fn PageFunc) {
	if fn == nil {
		writeJSON(w, http.StatusOK, EmptyPage())
		return
	}
	status, body := fn(query)
	writeJSON(w, status, body)
}

func (f *FakeTMDB) record(route string, query url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[route] = append(f.requests[route], query)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil || status == http.StatusNoContent {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
