package discovery

import (
	"context"
	"strings"

	"moviebuff/internal/catalog"
	"moviebuff/internal/services"
)

// SearchRequest holds the search page filters. Zero values are unset.
type SearchRequest struct {
	Query   string
	Year    int
	GenreID int
	Page    int
}

// Search picks the catalog operation that fits the filters. A text query uses
// text search, and a genre then filters the returned page locally. Genre or
// year without a query uses filtered discovery. With no filters the result is
// an empty page.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*catalog.Page, error) {
	query := strings.TrimSpace(req.Query)
	switch {
	case query != "":
		result, err := s.catalog.SearchMovies(ctx, query, req.Year, req.Page)
		if err != nil {
			return nil, err
		}
		if req.GenreID > 0 {
			result.Results = filterByGenre(result.Results, req.GenreID)
		}
		return result, nil
	case req.GenreID > 0 || req.Year > 0:
		return s.catalog.DiscoverMovies(ctx, catalog.DiscoverOptions{
			GenreID: req.GenreID,
			Year:    req.Year,
			Page:    req.Page,
		})
	default:
		return &catalog.Page{Page: 1, Results: []catalog.Movie{}}, nil
	}
}

// Discover runs filtered discovery with enrichment.
func (s *Service) Discover(ctx context.Context, opts catalog.DiscoverOptions) (*catalog.Page, error) {
	if opts.Page < 0 {
		return nil, services.Wrap(services.ErrInvalidInput, component, "discover", "page must be positive", nil)
	}
	return s.catalog.DiscoverMovies(ctx, opts)
}

func filterByGenre(movies []catalog.Movie, genreID int) []catalog.Movie {
	filtered := make([]catalog.Movie, 0, len(movies))
	for _, movie := range movies {
		if movie.HasGenre(genreID) {
			filtered = append(filtered, movie)
		}
	}
	return filtered
}
