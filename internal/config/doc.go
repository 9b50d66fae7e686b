// Package config loads, normalizes, and validates moviebuff configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY, SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET. The Config type
// centralizes every knob the CLI and the API daemon need, so catalog and music
// credentials, the watchlist database and log rotation are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
