package discovery

import (
	"log/slog"
	"net/http"

	"moviebuff/internal/catalog"
	"moviebuff/internal/config"
	"moviebuff/internal/music"
)

// NewCatalogClient builds the TMDB client described by cfg.
func NewCatalogClient(cfg *config.Config, logger *slog.Logger) (*catalog.Client, error) {
	return catalog.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.TMDBTimeout()}),
		catalog.WithLogger(logger),
		catalog.WithRateLimit(cfg.TMDB.RequestsPerSecond, 0),
		catalog.WithDetailConcurrency(cfg.TMDB.DetailConcurrency),
	)
}

// NewMusicClient builds the Spotify client described by cfg, or returns nil
// when soundtrack lookups are disabled.
func NewMusicClient(cfg *config.Config, logger *slog.Logger) (*music.Client, error) {
	if !cfg.Spotify.Enabled {
		return nil, nil
	}
	return music.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.AccountsURL, cfg.Spotify.APIBaseURL,
		music.WithHTTPClient(&http.Client{Timeout: cfg.SpotifyTimeout()}),
		music.WithLogger(logger),
		music.WithTokenLeeway(cfg.SpotifyTokenLeeway()),
		music.WithMarket(cfg.Spotify.Market),
	)
}

// FromConfig assembles a Service from cfg. store may be nil, in which case
// watchlist operations fail with services.ErrConfiguration.
func FromConfig(cfg *config.Config, logger *slog.Logger, store WatchlistStore, opts ...Option) (*Service, error) {
	cat, err := NewCatalogClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithLogger(logger),
		WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		WithMaxPages(cfg.TMDB.MaxDiscoverPages),
	}
	if store != nil {
		base = append(base, WithWatchlist(store))
	}
	musicClient, err := NewMusicClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	if musicClient != nil {
		base = append(base, WithSoundtracks(musicClient))
	}
	return New(cat, append(base, opts...)...), nil
}
