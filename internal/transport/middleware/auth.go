package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/heartmarshall/mensa-backend/pkg/ctxutil"
)

// AdminToken admits only requests carrying "Authorization: Bearer <token>".
// Admitted requests are marked in the context with ctxutil.WithAdmin.
func AdminToken(token string) Middleware {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := extractBearerToken(r)
			if got == "" || len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctxutil.WithAdmin(r.Context())))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
