package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// maxRequestIDLength caps client-supplied IDs before they reach logs and headers.
const maxRequestIDLength = 128

// RequestIDContextKey is a context key for storing request IDs.
type RequestIDContextKey struct{}

// RequestIDFromContext returns the request ID stored by RequestIDGeneration.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDContextKey{}).(string)
	return id, ok && id != ""
}

// getRequestID reads request ID from X-Request-ID header or context, generates if missing.
func getRequestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" && len(id) <= maxRequestIDLength {
		return id
	}
	if id, ok := RequestIDFromContext(r.Context()); ok {
		return id
	}
	return uuid.NewString()
}

// RequestIDGeneration reads request ID from client header or context, generates if missing,
// and stores it in request context for downstream handlers.
func RequestIDGeneration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), RequestIDContextKey{}, getRequestID(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDPropagation sets the X-Request-ID response header for client correlation.
// Log records pick the ID up from the context.
func RequestIDPropagation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestID, ok := RequestIDFromContext(r.Context()); ok {
			// Set early to ensure it's present during recovery scenarios
			w.Header().Set("X-Request-ID", requestID)
		}

		next.ServeHTTP(w, r)
	})
}
