package discovery

import (
	"context"
	"fmt"

	"moviebuff/internal/catalog"
	"moviebuff/internal/logging"
	"moviebuff/internal/services"
	"moviebuff/internal/watchlist"
)

func (s *Service) requireWatchlist(op string) error {
	if s.watchlist == nil {
		return services.Wrap(services.ErrConfiguration, component, op, "watchlist is not configured", nil)
	}
	return nil
}

// Watchlist lists saved movies in the order they were added.
func (s *Service) Watchlist(ctx context.Context) ([]watchlist.Entry, error) {
	if err := s.requireWatchlist("watchlist list"); err != nil {
		return nil, err
	}
	return s.watchlist.List(ctx)
}

// SaveMovie stores a movie snapshot and reports whether it was newly added.
func (s *Service) SaveMovie(ctx context.Context, movie catalog.Movie) (bool, error) {
	if err := s.requireWatchlist("watchlist add"); err != nil {
		return false, err
	}
	added, err := s.watchlist.Add(ctx, movie)
	if err != nil {
		return false, err
	}
	logging.WithContext(services.WithMovieID(ctx, movie.ID), s.logger).Info("watchlist updated",
		logging.String(logging.FieldEventType, "watchlist_add"),
		logging.String("title", movie.Title),
		logging.Bool("added", added),
	)
	return added, nil
}

// SaveMovieByID resolves id through the catalog and saves the detailed
// record. An id the catalog does not know matches services.ErrNotFound.
func (s *Service) SaveMovieByID(ctx context.Context, id int64) (*catalog.Movie, bool, error) {
	if err := s.requireWatchlist("watchlist add"); err != nil {
		return nil, false, err
	}
	movie, err := s.FindMovie(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if movie == nil {
		return nil, false, services.Wrap(services.ErrNotFound, component, "watchlist add", fmt.Sprintf("movie %d not found", id), nil)
	}
	added, err := s.SaveMovie(ctx, *movie)
	if err != nil {
		return nil, false, err
	}
	return movie, added, nil
}

// ForgetMovie removes id from the watchlist and reports whether it was saved.
func (s *Service) ForgetMovie(ctx context.Context, id int64) (bool, error) {
	if err := s.requireWatchlist("watchlist remove"); err != nil {
		return false, err
	}
	removed, err := s.watchlist.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	logging.WithContext(services.WithMovieID(ctx, id), s.logger).Info("watchlist updated",
		logging.String(logging.FieldEventType, "watchlist_remove"),
		logging.Bool("removed", removed),
	)
	return removed, nil
}

// InWatchlist reports whether id is saved.
func (s *Service) InWatchlist(ctx context.Context, id int64) (bool, error) {
	if err := s.requireWatchlist("watchlist contains"); err != nil {
		return false, err
	}
	return s.watchlist.Contains(ctx, id)
}
