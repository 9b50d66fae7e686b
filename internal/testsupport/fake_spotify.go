package testsupport

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeAlbum is an album entry served by FakeSpotify.
type FakeAlbum struct {
	Name        string
	ReleaseDate string
	URL         string
	Artist      string
	Cover       string
}

// SearchFunc answers an album search for q with a status and album list.
type SearchFunc func(q string) (int, []FakeAlbum)

// FakeSpotify is an in-process stand-in for the Spotify accounts and search
// endpoints. Each successful exchange issues a new token "token-N".
type FakeSpotify struct {
	server *httptest.Server

	mu          sync.Mutex
	expiresIn   int
	tokenStatus int
	issued      int
	current     string
	search      SearchFunc
	queries     []string
	limits      []string
}

// NewFakeSpotify starts a fake server that is closed when the test ends.
func NewFakeSpotify(t testing.TB) *FakeSpotify {
	t.Helper()
	fake := &FakeSpotify{expiresIn: 3600, tokenStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", fake.serveToken)
	mux.HandleFunc("GET /v1/search", fake.serveSearch)
	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)
	return fake
}

// TokenURL is the value for spotify.accounts_url.
func (f *FakeSpotify) TokenURL() string {
	return f.server.URL + "/api/token"
}

// APIURL is the value for spotify.api_base_url.
func (f *FakeSpotify) APIURL() string {
	return f.server.URL + "/v1"
}

// SetExpiresIn changes the TTL reported for new tokens.
func (f *FakeSpotify) SetExpiresIn(seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expiresIn = seconds
}

// FailTokens makes the token endpoint answer with status.
func (f *FakeSpotify) FailTokens(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenStatus = status
}

// RevokeToken makes the current token invalid for searches.
func (f *FakeSpotify) RevokeToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = ""
}

// OnSearch installs the album search responder.
func (f *FakeSpotify) OnSearch(fn SearchFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.search = fn
}

// Exchanges counts token requests, successful or not.
func (f *FakeSpotify) Exchanges() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issued
}

// Queries returns the q parameters of every search, in order.
func (f *FakeSpotify) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// Limits returns the limit parameters of every search, in order.
func (f *FakeSpotify) Limits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.limits...)
}

func (f *FakeSpotify) serveToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++

	id, secret, ok := r.BasicAuth()
	if !ok || id != SpotifyClientID || secret != SpotifyClientSecret {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_client", "error_description": "Invalid client"})
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}
	if f.tokenStatus != http.StatusOK {
		writeJSON(w, f.tokenStatus, map[string]string{"error": "server_error", "error_description": "token service unavailable"})
		return
	}
	f.current = "token-" + strconv.Itoa(f.issued)
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": f.current,
		"token_type":   "Bearer",
		"expires_in":   f.expiresIn,
	})
}

func (f *FakeSpotify) serveSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f.mu.Lock()
	f.queries = append(f.queries, query.Get("q"))
	f.limits = append(f.limits, query.Get("limit"))
	current := f.current
	search := f.search
	f.mu.Unlock()

	auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if current == "" || auth != current {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"status": 401, "message": "The access token expired"}})
		return
	}
	if query.Get("type") != "album" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"status": 400, "message": "unsupported type"}})
		return
	}

	status, albums := http.StatusOK, []FakeAlbum(nil)
	if search != nil {
		status, albums = search(query.Get("q"))
	}
	if status != http.StatusOK {
		writeJSON(w, status, map[string]any{"error": map[string]any{"status": status, "message": "search failed"}})
		return
	}

	items := make([]map[string]any, 0, len(albums))
	for i, album := range albums {
		item := map[string]any{
			"id":            "album-" + strconv.Itoa(i),
			"name":          album.Name,
			"release_date":  album.ReleaseDate,
			"external_urls": map[string]string{"spotify": album.URL},
			"artists":       []map[string]string{},
			"images":        []map[string]any{},
		}
		if album.Artist != "" {
			item["artists"] = []map[string]string{{"name": album.Artist}}
		}
		if album.Cover != "" {
			item["images"] = []map[string]any{{"url": album.Cover, "width": 640, "height": 640}}
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"albums": map[string]any{"items": items}})
}
