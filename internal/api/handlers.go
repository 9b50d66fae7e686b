package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"moviebuff/internal/catalog"
	"moviebuff/internal/discovery"
	"moviebuff/internal/services"
)

const maxRequestBodyBytes = 1 << 20

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *handlers) genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, discovery.GenreList{Genres: discovery.SortedGenres(h.svc.Genres(r.Context()))})
}

func (h *handlers) randomMovie(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.svc.RandomBundle(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *handlers) movie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	bundle, err := h.svc.MovieBundle(services.WithMovieID(r.Context(), id), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year, yearErr := queryInt(query, "year")
	genre, genreErr := queryInt(query, "genre")
	page, pageErr := queryInt(query, "page")
	if err := errors.Join(yearErr, genreErr, pageErr); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.svc.Search(r.Context(), discovery.SearchRequest{
		Query:   query.Get("query"),
		Year:    year,
		GenreID: genre,
		Page:    page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) discover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year, yearErr := queryInt(query, "year")
	genre, genreErr := queryInt(query, "genre")
	page, pageErr := queryInt(query, "page")
	if err := errors.Join(yearErr, genreErr, pageErr); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.svc.Discover(r.Context(), catalog.DiscoverOptions{
		GenreID: genre,
		Year:    year,
		SortBy:  strings.TrimSpace(query.Get("sort")),
		Page:    page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) soundtrack(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	title := strings.TrimSpace(query.Get("title"))
	year := strings.TrimSpace(query.Get("year"))
	match, err := h.svc.Soundtrack(r.Context(), title, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, discovery.SoundtrackResult{Title: title, Year: year, Soundtrack: match})
}

func (h *handlers) listWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Watchlist(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, discovery.WatchlistListing{Items: entries, Count: len(entries)})
}

// addWatchlist stores the posted movie. A body carrying only an id is
// resolved through the catalog first.
func (h *handlers) addWatchlist(w http.ResponseWriter, r *http.Request) {
	var movie catalog.Movie
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&movie); err != nil {
		h.writeError(w, r, services.Wrap(services.ErrInvalidInput, "api", "watchlist add", "invalid movie json", err))
		return
	}
	ctx := services.WithMovieID(r.Context(), movie.ID)

	if strings.TrimSpace(movie.Title) == "" {
		if movie.ID <= 0 {
			h.writeError(w, r, services.Wrap(services.ErrInvalidInput, "api", "watchlist add", "movie id is required", nil))
			return
		}
		resolved, added, err := h.svc.SaveMovieByID(ctx, movie.ID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, addStatus(added), discovery.WatchlistAddResult{Movie: *resolved, Added: added})
		return
	}

	added, err := h.svc.SaveMovie(ctx, movie)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, addStatus(added), discovery.WatchlistAddResult{Movie: movie, Added: added})
}

func (h *handlers) watchlistMembership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	has, err := h.svc.InWatchlist(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, discovery.Membership{ID: id, InWatchlist: has})
}

func (h *handlers) removeWatchlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	removed, err := h.svc.ForgetMovie(services.WithMovieID(r.Context(), id), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !removed {
		h.writeError(w, r, services.Wrap(services.ErrNotFound, "api", "watchlist remove", fmt.Sprintf("movie %d is not in the watchlist", id), nil))
		return
	}
	writeJSON(w, http.StatusOK, discovery.Membership{ID: id, InWatchlist: false, Removed: &removed})
}

func addStatus(added bool) int {
	if added {
		return http.StatusCreated
	}
	return http.StatusOK
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrInvalidInput, "api", "parse id", fmt.Sprintf("invalid movie id %q", raw), nil)
	}
	return id, nil
}

func queryInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, services.Wrap(services.ErrInvalidInput, "api", "parse query", fmt.Sprintf("%s must be a non-negative integer", key), nil)
	}
	return n, nil
}
