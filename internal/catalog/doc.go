// Package catalog wraps the TMDB movie API.
//
// The Client authenticates every request with the API key and language query
// parameters, maps 404 responses to services.ErrNotFound and other non-2xx
// responses to *services.UpstreamError, and memoizes the genre list for its
// lifetime. Search and discover pages are enriched with per-movie details
// through a bounded worker pool; a failed detail fetch leaves the summary in
// place rather than failing the page.
//
// The client never converts failures into nil results. Callers that want the
// soft "missing or broken means absent" behaviour apply it themselves (see
// the discovery package).
package catalog
