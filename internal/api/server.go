package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"moviebuff/internal/catalog"
	"moviebuff/internal/config"
	"moviebuff/internal/discovery"
	"moviebuff/internal/logging"
	"moviebuff/internal/services"
	"moviebuff/internal/soundtrack"
	"moviebuff/internal/watchlist"
)

// Discovery is the set of operations the API exposes.
type Discovery interface {
	Genres(ctx context.Context) catalog.GenreMap
	RandomBundle(ctx context.Context) (*discovery.Bundle, error)
	MovieBundle(ctx context.Context, id int64) (*discovery.Bundle, error)
	Search(ctx context.Context, req discovery.SearchRequest) (*catalog.Page, error)
	Discover(ctx context.Context, opts catalog.DiscoverOptions) (*catalog.Page, error)
	Soundtrack(ctx context.Context, title, year string) (*soundtrack.Match, error)
	Watchlist(ctx context.Context) ([]watchlist.Entry, error)
	SaveMovie(ctx context.Context, movie catalog.Movie) (bool, error)
	SaveMovieByID(ctx context.Context, id int64) (*catalog.Movie, bool, error)
	ForgetMovie(ctx context.Context, id int64) (bool, error)
	InWatchlist(ctx context.Context, id int64) (bool, error)
}

var _ Discovery = (*discovery.Service)(nil)

// Options configures the HTTP handler.
type Options struct {
	APIToken           string
	RateLimitPerMinute int
	RateLimitBurst     int
	CORSOrigins        []string
	Logger             *slog.Logger
}

// OptionsFromConfig reads handler options from the [paths] and [server] tables.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		APIToken:           cfg.Paths.APIToken,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RateLimitBurst:     cfg.Server.Burst,
		CORSOrigins:        cfg.Server.CORSOrigins,
		Logger:             logger,
	}
}

type handlers struct {
	svc    Discovery
	logger *slog.Logger
}

// NewHandler builds the routed, middleware-wrapped API handler.
func NewHandler(svc Discovery, opts Options) http.Handler {
	logger := logging.NewComponentLogger(opts.Logger, "api")
	h := &handlers{svc: svc, logger: logger}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(authMiddleware(opts.APIToken))
	apiRouter.HandleFunc("/genres", h.genres).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movies/random", h.randomMovie).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movies/{id:[0-9]+}", h.movie).Methods(http.MethodGet)
	apiRouter.HandleFunc("/search", h.search).Methods(http.MethodGet)
	apiRouter.HandleFunc("/discover", h.discover).Methods(http.MethodGet)
	apiRouter.HandleFunc("/soundtrack", h.soundtrack).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist", h.listWatchlist).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist", h.addWatchlist).Methods(http.MethodPost)
	apiRouter.HandleFunc("/watchlist/{id:[0-9]+}", h.watchlistMembership).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist/{id:[0-9]+}", h.removeWatchlist).Methods(http.MethodDelete)

	var handler http.Handler = router
	handler = rateLimitMiddleware(newIPRateLimiter(opts.RateLimitPerMinute, opts.RateLimitBurst), handler)
	handler = corsMiddleware(opts.CORSOrigins, handler)
	return requestLogMiddleware(logger, handler)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.WithContext(r.Context(), h.logger).Error("api handler failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
