package middleware

import (
	"context"
	"net/http"
	"strings"
)

// Identity extracts the signed-in user id from the X-User-ID header. Identity
// is managed by an external collaborator; the relay only carries the opaque
// value through to persistence.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if uid != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, uid))
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext returns the user id set by Identity, or "" when the
// request was anonymous.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
