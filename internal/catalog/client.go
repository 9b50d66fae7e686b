package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"moviebuff/internal/logging"
	"moviebuff/internal/services"
)

const (
	serviceName = "TMDB"
	component   = "catalog"

	detailAppend       = "watch/providers,credits,videos,images"
	maxErrorBodyBytes  = 64 << 10
	defaultConcurrency = 8
)

// Client provides access to the TMDB movie endpoints.
type Client struct {
	apiKey            string
	baseURL           string
	language          string
	httpClient        *http.Client
	limiter           *rate.Limiter
	detailConcurrency int
	logger            *slog.Logger

	genresMu     sync.Mutex
	genres       GenreMap
	genresLoaded bool
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

// WithLogger attaches a logger; records are tagged with the catalog component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, component)
		}
	}
}

// WithRateLimit paces outbound requests. A non-positive rate disables pacing.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = max(1, int(requestsPerSecond))
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithDetailConcurrency bounds the per-page enrichment fan-out.
func WithDetailConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.detailConcurrency = n
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:            apiKey,
		baseURL:           strings.TrimRight(baseURL, "/"),
		language:          strings.TrimSpace(language),
		httpClient:        &http.Client{Timeout: 10 * time.Second},
		detailConcurrency: defaultConcurrency,
		logger:            logging.NewComponentLogger(nil, component),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

var errRateLimitWait = errors.New("tmdb rate limit wait")

// Genres returns the genre map. The first call fetches it; every later call is
// served from memory. A failed upstream fetch memoizes an empty map and returns
// the error once so the caller can log it. A fetch abandoned because ctx ended
// is not memoized, so the next caller retries.
func (c *Client) Genres(ctx context.Context) (GenreMap, error) {
	c.genresMu.Lock()
	defer c.genresMu.Unlock()
	if c.genresLoaded {
		return maps.Clone(c.genres), nil
	}

	var payload struct {
		Genres []Genre `json:"genres"`
	}
	err := c.getJSON(ctx, "/genre/movie/list", url.Values{}, &payload)
	if err != nil && (ctx.Err() != nil || errors.Is(err, errRateLimitWait)) {
		return GenreMap{}, err
	}
	c.genresLoaded = true
	c.genres = make(GenreMap, len(payload.Genres))
	if err != nil {
		return GenreMap{}, err
	}
	for _, g := range payload.Genres {
		c.genres[g.ID] = g.Name
	}
	return maps.Clone(c.genres), nil
}

// MovieDetails fetches a movie with watch providers, credits, videos, and
// images appended. A missing movie yields an error matching services.ErrNotFound.
func (c *Client) MovieDetails(ctx context.Context, id int64) (*Movie, error) {
	if id <= 0 {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "movie details requested without id", "invalid_movie_id",
			logging.Int64("movie_id", id),
			logging.String(logging.FieldErrorHint, "pass a positive TMDB movie id"),
			logging.String(logging.FieldImpact, "no request sent"),
		)
		return nil, services.Wrap(services.ErrInvalidInput, component, "movie details", "movie id is required", nil)
	}
	params := url.Values{}
	params.Set("append_to_response", detailAppend)

	var movie Movie
	if err := c.getJSON(ctx, "/movie/"+strconv.FormatInt(id, 10), params, &movie); err != nil {
		return nil, err
	}
	if movie.ID != id {
		return nil, services.Wrap(services.ErrUpstream, component, "movie details",
			fmt.Sprintf("requested id %d but received %d", id, movie.ID), nil)
	}
	return &movie, nil
}

// SearchMovies runs a text search, optionally restricted to a release year,
// and enriches each result with its details. Without a query or a year it
// returns an empty page and sends nothing.
func (c *Client) SearchMovies(ctx context.Context, query string, year, page int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" && year <= 0 {
		return &Page{Page: 1, Results: []Movie{}}, nil
	}
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	params.Set("page", strconv.Itoa(max(page, 1)))

	var result Page
	if err := c.getJSON(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	result.Results = c.Enrich(ctx, result.Results)
	return &result, nil
}

// DiscoverPage queries the discover endpoint without enrichment.
func (c *Client) DiscoverPage(ctx context.Context, opts DiscoverOptions) (*Page, error) {
	params := url.Values{}
	params.Set("include_adult", "false")
	if opts.ExcludeVideo {
		params.Set("include_video", "false")
	}
	if opts.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(opts.GenreID))
	}
	if opts.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(opts.Year))
	}
	if sortBy := strings.TrimSpace(opts.SortBy); sortBy != "" {
		params.Set("sort_by", sortBy)
	}
	if opts.MinVoteCount > 0 {
		params.Set("vote_count.gte", strconv.Itoa(opts.MinVoteCount))
	}
	if opts.ReleasedFrom != "" {
		params.Set("primary_release_date.gte", opts.ReleasedFrom)
	}
	if opts.ReleasedTo != "" {
		params.Set("primary_release_date.lte", opts.ReleasedTo)
	}
	params.Set("page", strconv.Itoa(max(opts.Page, 1)))

	var result Page
	if err := c.getJSON(ctx, "/discover/movie", params, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		result.Results = []Movie{}
	}
	return &result, nil
}

// DiscoverMovies queries the discover endpoint and enriches each result.
func (c *Client) DiscoverMovies(ctx context.Context, opts DiscoverOptions) (*Page, error) {
	result, err := c.DiscoverPage(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Results = c.Enrich(ctx, result.Results)
	return result, nil
}

// Enrich replaces each summary with its detail record, fetching concurrently
// up to the configured bound. Order is preserved and a failed fetch keeps the
// summary in its slot.
func (c *Client) Enrich(ctx context.Context, movies []Movie) []Movie {
	enriched := make([]Movie, len(movies))
	copy(enriched, movies)
	if len(movies) == 0 {
		return enriched
	}

	workers := pool.New().WithMaxGoroutines(c.detailConcurrency)
	for i := range movies {
		summary := movies[i]
		workers.Go(func() {
			detail, err := c.MovieDetails(ctx, summary.ID)
			if err != nil {
				logging.WarnWithContext(logging.WithContext(ctx, c.logger), "movie detail enrichment failed", "enrich_failed",
					logging.Int64("movie_id", summary.ID),
					logging.Error(err),
					logging.String(logging.FieldImpact, "summary shown without runtime or providers"),
				)
				return
			}
			enriched[i] = *detail
		})
	}
	workers.Wait()
	return enriched
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", errRateLimitWait, err)
		}
	}
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrUpstream, component, path, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	c.logger.Debug("tmdb request completed",
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return services.Wrap(services.ErrNotFound, component, path, "resource not found", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("tmdb %s (latency=%v): %w", path, latency, services.NewUpstreamError(serviceName, resp, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return services.Wrap(services.ErrUpstream, component, path, "decode tmdb response", err)
	}
	return nil
}
