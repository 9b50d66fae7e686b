// Package discovery turns catalog, soundtrack, and watchlist calls into the
// page-level operations served by the CLI and HTTP API.
//
// It owns the soft/hard failure policy: FindMovie, Genres, and soundtrack
// lookups degrade to empty results, while movie bundles, searches, and random
// discovery propagate errors. RandomMovie samples a page and then a movie from
// the discover endpoint, with one relaxed retry.
package discovery
