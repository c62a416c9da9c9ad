package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const sessionIDKey contextKey = "sessionID"

// WithSessionID adds the browser session id to the request context.
func WithSessionID(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	return r.WithContext(ctx)
}

// GetSessionID retrieves the session id from context, empty if not set.
func GetSessionID(r *http.Request) string {
	sessionID, _ := r.Context().Value(sessionIDKey).(string)
	return sessionID
}
