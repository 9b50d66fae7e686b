package testsupport

import (
	"path/filepath"
	"testing"

	"moviebuff/internal/config"
)

// Fixed credentials accepted by FakeTMDB and FakeSpotify.
const (
	TMDBKey             = "test-key"
	SpotifyClientID     = "test-client"
	SpotifyClientSecret = "test-secret"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Spotify is disabled and TMDB pacing is off unless options say otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.TMDB.APIKey = TMDBKey
	cfgVal.TMDB.RequestsPerSecond = 0
	cfgVal.Spotify.Enabled = false
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Watchlist.Path = filepath.Join(base, "data", "watchlist.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDB points the catalog at a fake server.
func WithTMDB(fake *FakeTMDB) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = fake.URL()
	}
}

// WithSpotify enables soundtrack lookups against a fake server.
func WithSpotify(fake *FakeSpotify) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Spotify.Enabled = true
		b.cfg.Spotify.ClientID = SpotifyClientID
		b.cfg.Spotify.ClientSecret = SpotifyClientSecret
		b.cfg.Spotify.AccountsURL = fake.TokenURL()
		b.cfg.Spotify.APIBaseURL = fake.APIURL()
	}
}

// WithAPIToken requires bearer auth on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
