// Package watchlist persists the user's saved movies in SQLite.
//
// Each row keeps a full JSON snapshot of the movie as it looked when it was
// added, keyed by movie id. Adding an id that is already present is a no-op;
// List returns entries in the order they were added.
package watchlist
