package middleware

import (
	"net/http"

	"github.com/cryptadb/crypta/internal/auth"
	"github.com/cryptadb/crypta/internal/permissions"
)

// Grants extracts the caller's query grants and stores them on the
// request context. Requests without grants still pass through: every
// downstream query fails closed on an empty grant list.
func Grants(source permissions.Source) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.ContextWithGrants(r.Context(), source.Grants(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
