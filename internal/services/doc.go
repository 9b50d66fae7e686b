// Package services defines the shared error taxonomy and context helpers used
// by the catalog and music clients, the discovery layer, and the HTTP API.
//
// Key responsibilities:
//   - Sentinel markers (invalid input, not found, upstream, auth, conflict)
//     plus the Wrap helper that keeps both marker and cause reachable through
//     errors.Is.
//   - UpstreamError, which carries the status code and best-effort message
//     decoded from a failed third-party response.
//   - Context helpers that stamp request correlation IDs and movie IDs for
//     logging.
//
// Clients never coerce failures into nil results; callers decide which
// failures are soft by inspecting these markers.
package services
