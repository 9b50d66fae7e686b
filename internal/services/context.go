package services

import "context"

type contextKey string

const (
	movieIDKey   contextKey = "movie_id"
	requestIDKey contextKey = "request_id"
)

// WithMovieID annotates context with the catalog movie identifier.
func WithMovieID(ctx context.Context, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, movieIDKey, id)
}

// MovieIDFromContext extracts the catalog movie identifier if present.
func MovieIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(movieIDKey).(int64)
	return id, ok
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
