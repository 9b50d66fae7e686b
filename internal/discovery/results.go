package discovery

import (
	"cmp"
	"slices"

	"moviebuff/internal/catalog"
	"moviebuff/internal/soundtrack"
	"moviebuff/internal/watchlist"
)

// GenreList lists genres ordered by id.
type GenreList struct {
	Genres []catalog.Genre `json:"genres"`
}

// WatchlistListing lists saved movies in insertion order.
type WatchlistListing struct {
	Items []watchlist.Entry `json:"items"`
	Count int               `json:"count"`
}

// WatchlistAddResult reports the stored movie and whether it was new.
type WatchlistAddResult struct {
	Movie catalog.Movie `json:"movie"`
	Added bool          `json:"added"`
}

// Membership answers a watchlist membership or removal query.
type Membership struct {
	ID          int64 `json:"id"`
	InWatchlist bool  `json:"in_watchlist"`
	Removed     *bool `json:"removed,omitempty"`
}

// SoundtrackResult wraps a possibly absent soundtrack match.
type SoundtrackResult struct {
	Title      string            `json:"title"`
	Year       string            `json:"year,omitempty"`
	Soundtrack *soundtrack.Match `json:"soundtrack"`
}

// SortedGenres flattens a genre map into a slice ordered by id.
func SortedGenres(genres catalog.GenreMap) []catalog.Genre {
	out := make([]catalog.Genre, 0, len(genres))
	for id, name := range genres {
		out = append(out, catalog.Genre{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b catalog.Genre) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
