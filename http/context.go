package http

import (
	"context"
	"net/http"
)

// ContextKey is the type of request context keys.
type ContextKey int

const (
	// ContextRequestIDKey is the key to use to store/retrieve the request ID.
	ContextRequestIDKey ContextKey = iota

	// ContextUserIDKey is the key to use to store/retrieve the logged in user's ID.
	ContextUserIDKey

	// ContextApplicationKey is the key to use to store/retrieve the API client.
	ContextApplicationKey
)

// WithValue returns a shallow copy of r carrying value under key.
func WithValue(r *http.Request, key ContextKey, value interface{}) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), key, value))
}

// RequestID returns the ID assigned by the access logging handler, or "".
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(ContextRequestIDKey).(string)
	return id
}

// UserID returns the ID of the logged in user, if any.
func UserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(ContextUserIDKey).(int64)
	return id, ok
}
