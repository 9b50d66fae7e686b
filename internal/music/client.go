package music

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"moviebuff/internal/logging"
	"moviebuff/internal/services"
	"moviebuff/internal/soundtrack"
)

const (
	serviceName = "Spotify"
	component   = "music"

	// SearchLimit is the album page size requested per soundtrack query.
	SearchLimit       = 5
	defaultLeeway     = 60 * time.Second
	maxErrorBodyBytes = 64 << 10
)

// Client talks to the Spotify Web API using the client-credentials flow.
type Client struct {
	clientID     string
	clientSecret string
	accountsURL  string
	apiBaseURL   string
	market       string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
	tokenLeeway  time.Duration

	tokenMu        sync.RWMutex
	token          string
	tokenExpiresAt time.Time
	exchanges      int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger; records are tagged with the music component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, component)
		}
	}
}

// WithClock replaces time.Now for token expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTokenLeeway sets how long before expiry a cached token is replaced.
func WithTokenLeeway(leeway time.Duration) Option {
	return func(c *Client) {
		if leeway >= 0 {
			c.tokenLeeway = leeway
		}
	}
}

// WithMarket restricts album searches to a country catalog.
func WithMarket(market string) Option {
	return func(c *Client) {
		c.market = strings.ToUpper(strings.TrimSpace(market))
	}
}

// New creates a Spotify client.
func New(clientID, clientSecret, accountsURL, apiBaseURL string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify client id and secret required")
	}
	accountsURL = strings.TrimSpace(accountsURL)
	apiBaseURL = strings.TrimRight(strings.TrimSpace(apiBaseURL), "/")
	if accountsURL == "" || apiBaseURL == "" {
		return nil, errors.New("spotify accounts and api urls required")
	}
	client := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		accountsURL:  accountsURL,
		apiBaseURL:   apiBaseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       logging.NewComponentLogger(nil, component),
		now:          time.Now,
		tokenLeeway:  defaultLeeway,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Exchanges reports how many successful token exchanges this client performed.
func (c *Client) Exchanges() int {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.exchanges
}

type searchResponse struct {
	Albums struct {
		Items []albumPayload `json:"items"`
	} `json:"albums"`
}

type albumPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func (p albumPayload) album() soundtrack.Album {
	album := soundtrack.Album{
		ID:          p.ID,
		Name:        p.Name,
		ReleaseDate: p.ReleaseDate,
		URL:         p.ExternalURLs.Spotify,
	}
	for _, artist := range p.Artists {
		album.Artists = append(album.Artists, artist.Name)
	}
	if len(p.Images) > 0 {
		album.ImageURL = p.Images[0].URL
	}
	return album
}

// SearchAlbums runs one album search. A 404 or 204 yields no albums and no
// error. A 401 drops the cached token before returning the upstream error.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]soundtrack.Album, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrInvalidInput, component, "search albums", "query is required", nil)
	}
	if limit <= 0 {
		limit = SearchLimit
	}
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "album")
	params.Set("limit", strconv.Itoa(limit))
	if c.market != "" {
		params.Set("market", c.market)
	}
	endpoint := c.apiBaseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, component, "search albums", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized:
		c.invalidateToken(token)
		fallthrough
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("spotify search (latency=%v): %w", latency, services.NewUpstreamError(serviceName, resp, body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrUpstream, component, "search albums", "decode search response", err)
	}
	albums := make([]soundtrack.Album, 0, len(payload.Albums.Items))
	for _, item := range payload.Albums.Items {
		albums = append(albums, item.album())
	}
	return albums, nil
}

// FindSoundtrack walks the soundtrack query list and returns the first album
// the matching rules accept, or nil when every query comes back empty. A
// failed query, including one whose token exchange failed, is logged and
// skipped; the next query exchanges again.
func (c *Client) FindSoundtrack(ctx context.Context, title, year string) (*soundtrack.Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "soundtrack lookup without title", "invalid_soundtrack_query",
			logging.String(logging.FieldImpact, "no request sent"),
		)
		return nil, services.Wrap(services.ErrInvalidInput, component, "find soundtrack", "movie title is required", nil)
	}
	logger := logging.WithContext(ctx, c.logger)

	for _, query := range soundtrack.Queries(title, year) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		albums, err := c.SearchAlbums(ctx, query, SearchLimit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logging.WarnWithContext(logger, "soundtrack query failed", "soundtrack_query_failed",
				logging.String("query", query),
				logging.Error(err),
				logging.String(logging.FieldImpact, "continuing with next query"),
			)
			continue
		}
		match, ok := soundtrack.Select(albums, title, year)
		if !ok {
			continue
		}
		match.Query = query
		logger.Info("soundtrack matched",
			logging.String("title", title),
			logging.String("album", match.Name),
			logging.String("confidence", string(match.Confidence)),
			logging.String("query", query),
		)
		return &match, nil
	}

	logger.Debug("no soundtrack found", logging.String("title", title), logging.String("year", year))
	return nil, nil
}
