package discovery

import (
	"context"
	"errors"
	"fmt"

	"moviebuff/internal/catalog"
	"moviebuff/internal/logging"
	"moviebuff/internal/services"
)

// DefaultMaxPages is the highest page the discover endpoint serves.
const DefaultMaxPages = 500

const (
	primaryMinVotes  = 100
	fallbackMinVotes = 50
	recencyYears     = 20
)

// ErrNoMovieFound reports that neither the primary nor the relaxed filter
// produced a candidate.
var ErrNoMovieFound = fmt.Errorf("%w: no movie found", services.ErrNotFound)

var errNoCandidates = errors.New("no candidates")

type filterSet struct {
	name string
	opts catalog.DiscoverOptions
}

func (s *Service) randomFilters() []filterSet {
	year := s.now().Year()
	return []filterSet{
		{
			name: "primary",
			opts: catalog.DiscoverOptions{
				SortBy:       "popularity.desc",
				MinVoteCount: primaryMinVotes,
				ReleasedFrom: fmt.Sprintf("%d-01-01", year-recencyYears),
				ReleasedTo:   fmt.Sprintf("%d-12-31", year),
				ExcludeVideo: true,
			},
		},
		{
			name: "fallback",
			opts: catalog.DiscoverOptions{
				SortBy:       "popularity.desc",
				MinVoteCount: fallbackMinVotes,
				ExcludeVideo: true,
			},
		},
	}
}

// RandomMovie picks a movie at random from popular recent releases, retrying
// once with relaxed filters. The chosen movie is enriched with its details
// when they can be fetched. When both filter sets come up empty the error is
// ErrNoMovieFound; an upstream failure on the relaxed attempt is returned as is.
func (s *Service) RandomMovie(ctx context.Context) (*catalog.Movie, error) {
	logger := logging.WithContext(ctx, s.logger)
	var lastErr error
	for _, filters := range s.randomFilters() {
		summary, err := s.sample(ctx, filters.opts)
		if err == nil {
			return s.enrichOne(ctx, summary), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		logging.WarnWithContext(logger, "random discovery attempt failed", "random_discovery_empty",
			logging.String("filters", filters.name),
			logging.Error(err),
			logging.String(logging.FieldImpact, "trying relaxed filters when available"),
		)
	}
	if errors.Is(lastErr, errNoCandidates) {
		return nil, ErrNoMovieFound
	}
	return nil, lastErr
}

// sample runs the two-phase pick: page 1 bounds the page range, then a
// uniformly chosen page supplies a uniformly chosen movie. Page counts may
// drift between the two requests.
func (s *Service) sample(ctx context.Context, opts catalog.DiscoverOptions) (catalog.Movie, error) {
	opts.Page = 1
	first, err := s.catalog.DiscoverPage(ctx, opts)
	if err != nil {
		return catalog.Movie{}, err
	}
	if len(first.Results) == 0 {
		return catalog.Movie{}, errNoCandidates
	}
	totalPages := min(first.TotalPages, s.maxPages)
	if totalPages <= 0 {
		return catalog.Movie{}, errNoCandidates
	}

	opts.Page = s.intN(totalPages) + 1
	page, err := s.catalog.DiscoverPage(ctx, opts)
	if err != nil {
		return catalog.Movie{}, err
	}
	if len(page.Results) == 0 {
		return catalog.Movie{}, fmt.Errorf("page %d: %w", opts.Page, errNoCandidates)
	}
	return page.Results[s.intN(len(page.Results))], nil
}

func (s *Service) enrichOne(ctx context.Context, summary catalog.Movie) *catalog.Movie {
	detail, err := s.catalog.MovieDetails(ctx, summary.ID)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithMovieID(ctx, summary.ID), s.logger), "random movie detail fetch failed", "enrich_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "summary shown without runtime or providers"),
		)
		return &summary
	}
	return detail
}
