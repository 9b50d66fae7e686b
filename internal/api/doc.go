// Package api serves the discovery operations as a JSON HTTP API.
//
// # Routes
//
//	GET    /health
//	GET    /api/genres
//	GET    /api/movies/random
//	GET    /api/movies/{id}
//	GET    /api/search?query=&year=&genre=&page=
//	GET    /api/discover?genre=&year=&sort=&page=
//	GET    /api/soundtrack?title=&year=
//	GET    /api/watchlist
//	POST   /api/watchlist
//	GET    /api/watchlist/{id}
//	DELETE /api/watchlist/{id}
//
// # Middleware
//
// Every request gets a request id (reused from X-Request-ID when present) that
// is stamped on log records as correlation_id and echoed in the response.
// CORS headers are added only for configured origins. A per-client-IP token
// bucket answers 429 when exhausted. When an API token is configured, /api
// routes require "Authorization: Bearer <token>"; /health never does.
//
// Errors are returned as {"error": "..."} with the status chosen by
// services.HTTPStatus.
package api
