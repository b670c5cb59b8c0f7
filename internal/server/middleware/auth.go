package middleware

import (
	"net/http"
	"strings"

	"pass-accompagnement/backend/internal/security"
)

const bearerPrefix = "bearer "

// RequireAuth validates the Bearer token and puts the caller into the request
// context. Requests without a valid token get 401.
func RequireAuth(verifier *security.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				http.Error(w, `{"message":"authentification requise"}`, http.StatusUnauthorized)
				return
			}
			u, err := verifier.Verify(token)
			if err != nil {
				http.Error(w, `{"message":"authentification requise"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUtilisateur(r.Context(), u)))
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
