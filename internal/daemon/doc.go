// Package daemon owns the lifecycle of the long-running moviebuff API
// process.
//
// It takes a flock-based lock under paths.data_dir to prevent multiple
// instances, serves the API handler on paths.api_bind, and shuts the server
// down gracefully when its context is cancelled. Request handling lives in
// internal/api; the daemon only starts and stops it.
package daemon
