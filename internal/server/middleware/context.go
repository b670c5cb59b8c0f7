package middleware

import (
	"context"

	"pass-accompagnement/backend/internal/security"
)

type contextKey struct{ name string }

var utilisateurKey = contextKey{"utilisateur"}

// WithUtilisateur returns a context carrying the authenticated caller.
func WithUtilisateur(ctx context.Context, u security.Utilisateur) context.Context {
	return context.WithValue(ctx, utilisateurKey, u)
}

// UtilisateurFromContext returns the authenticated caller and true if set.
func UtilisateurFromContext(ctx context.Context) (security.Utilisateur, bool) {
	u, ok := ctx.Value(utilisateurKey).(security.Utilisateur)
	return u, ok
}
