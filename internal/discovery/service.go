package discovery

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"moviebuff/internal/catalog"
	"moviebuff/internal/logging"
	"moviebuff/internal/services"
	"moviebuff/internal/soundtrack"
	"moviebuff/internal/watchlist"
)

const component = "discovery"

// Catalog is the subset of the catalog client the service drives.
type Catalog interface {
	Genres(ctx context.Context) (catalog.GenreMap, error)
	MovieDetails(ctx context.Context, id int64) (*catalog.Movie, error)
	SearchMovies(ctx context.Context, query string, year, page int) (*catalog.Page, error)
	DiscoverPage(ctx context.Context, opts catalog.DiscoverOptions) (*catalog.Page, error)
	DiscoverMovies(ctx context.Context, opts catalog.DiscoverOptions) (*catalog.Page, error)
}

// SoundtrackFinder looks up a soundtrack album for a movie title.
type SoundtrackFinder interface {
	FindSoundtrack(ctx context.Context, title, year string) (*soundtrack.Match, error)
}

// WatchlistStore persists saved movies.
type WatchlistStore interface {
	Add(ctx context.Context, movie catalog.Movie) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
	Contains(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]watchlist.Entry, error)
}

// Service combines the catalog, soundtrack lookups, and the watchlist into the
// operations the CLI and HTTP API expose.
type Service struct {
	catalog      Catalog
	soundtracks  SoundtrackFinder
	watchlist    WatchlistStore
	logger       *slog.Logger
	now          func() time.Time
	imageBaseURL string
	maxPages     int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithSoundtracks enables soundtrack lookups for bundles.
func WithSoundtracks(finder SoundtrackFinder) Option {
	return func(s *Service) {
		s.soundtracks = finder
	}
}

// WithWatchlist attaches the watchlist store.
func WithWatchlist(store WatchlistStore) Option {
	return func(s *Service) {
		s.watchlist = store
	}
}

// WithLogger attaches a logger; records are tagged with the discovery component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, component)
		}
	}
}

// WithClock replaces time.Now for the random discovery date window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand makes random discovery deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// WithImageBaseURL sets the prefix used for bundle poster URLs.
func WithImageBaseURL(base string) Option {
	return func(s *Service) {
		s.imageBaseURL = strings.TrimSpace(base)
	}
}

// WithMaxPages caps the page index random discovery may choose.
func WithMaxPages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// New creates a Service over the catalog client.
func New(cat Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:  cat,
		logger:   logging.NewComponentLogger(nil, component),
		now:      time.Now,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bundle is a fully resolved movie ready for presentation.
type Bundle struct {
	Movie       *catalog.Movie    `json:"movie"`
	Genres      []string          `json:"genres"`
	PosterURL   string            `json:"poster_url,omitempty"`
	Soundtrack  *soundtrack.Match `json:"soundtrack"`
	InWatchlist bool              `json:"in_watchlist"`
}

// Genres returns the genre map, degrading to an empty map when the catalog
// cannot be reached.
func (s *Service) Genres(ctx context.Context) catalog.GenreMap {
	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "genre list unavailable", "genres_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "genre ids shown as Unknown"),
		)
		return catalog.GenreMap{}
	}
	return genres
}

// FindMovie fetches a movie by id. A missing movie and upstream failures both
// yield nil without an error; a non-positive id is services.ErrInvalidInput.
func (s *Service) FindMovie(ctx context.Context, id int64) (*catalog.Movie, error) {
	movie, err := s.catalog.MovieDetails(ctx, id)
	switch {
	case err == nil:
		return movie, nil
	case errors.Is(err, services.ErrInvalidInput):
		return nil, err
	case errors.Is(err, services.ErrNotFound):
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		logging.WarnWithContext(logging.WithContext(services.WithMovieID(ctx, id), s.logger), "movie lookup failed", "movie_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "movie treated as unavailable"),
		)
		return nil, nil
	}
}

// MovieBundle resolves a movie with its genres, soundtrack, and watchlist
// state. Catalog failures propagate; a missing movie matches
// services.ErrNotFound.
func (s *Service) MovieBundle(ctx context.Context, id int64) (*Bundle, error) {
	movie, err := s.catalog.MovieDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.bundle(ctx, movie), nil
}

// RandomBundle picks a random movie and resolves it like MovieBundle.
func (s *Service) RandomBundle(ctx context.Context) (*Bundle, error) {
	movie, err := s.RandomMovie(ctx)
	if err != nil {
		return nil, err
	}
	return s.bundle(ctx, movie), nil
}

func (s *Service) bundle(ctx context.Context, movie *catalog.Movie) *Bundle {
	ctx = services.WithMovieID(ctx, movie.ID)
	b := &Bundle{Movie: movie}
	if s.imageBaseURL != "" {
		b.PosterURL = movie.PosterURL(s.imageBaseURL)
	}

	var genres catalog.GenreMap
	var wg conc.WaitGroup
	wg.Go(func() {
		genres = s.Genres(ctx)
	})
	wg.Go(func() {
		b.Soundtrack = s.soundtrackFor(ctx, movie.Title, movie.Year())
	})
	wg.Go(func() {
		b.InWatchlist = s.inWatchlist(ctx, movie.ID)
	})
	wg.Wait()

	b.Genres = movie.GenreNames(genres)
	return b
}

// Soundtrack looks up a soundtrack album. Lookup failures are logged and
// reported as no match. It returns services.ErrConfiguration when soundtrack
// lookups are disabled and services.ErrInvalidInput without a title.
func (s *Service) Soundtrack(ctx context.Context, title, year string) (*soundtrack.Match, error) {
	if s.soundtracks == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "soundtrack", "soundtrack lookups are disabled", nil)
	}
	if strings.TrimSpace(title) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, component, "soundtrack", "title is required", nil)
	}
	return s.soundtrackFor(ctx, title, year), nil
}

func (s *Service) soundtrackFor(ctx context.Context, title, year string) *soundtrack.Match {
	if s.soundtracks == nil || strings.TrimSpace(title) == "" {
		return nil
	}
	match, err := s.soundtracks.FindSoundtrack(ctx, title, year)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "soundtrack lookup failed", "soundtrack_failed",
			logging.String("title", title),
			logging.Error(err),
			logging.String(logging.FieldImpact, "movie shown without soundtrack"),
		)
		return nil
	}
	return match
}

func (s *Service) inWatchlist(ctx context.Context, id int64) bool {
	if s.watchlist == nil {
		return false
	}
	has, err := s.watchlist.Contains(ctx, id)
	if err != nil {
		s.logger.Warn("watchlist membership check failed", logging.Int64(logging.FieldMovieID, id), logging.Error(err))
		return false
	}
	return has
}

func (s *Service) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.IntN(n)
}
