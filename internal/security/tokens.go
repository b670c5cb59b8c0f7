package security

import (
	"crypto"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"pass-accompagnement/backend/internal/core"
)

// ErrInvalidToken is returned when a token is malformed, expired, or signed by the wrong key.
var ErrInvalidToken = errors.New("invalid token")

// UtilisateurClaims holds the JWT claims minted by the identity provider for
// jeunes, conseillers, and support accounts.
type UtilisateurClaims struct {
	jwt.RegisteredClaims
	UserType      string `json:"userType"`
	UserStructure string `json:"userStructure"`
	Email         string `json:"email"`
}

// Utilisateur is the authenticated caller extracted from a verified token.
type Utilisateur struct {
	ID        string
	Type      core.UtilisateurType
	Structure core.Structure
	Email     string
}

// Verifier validates RS256/ES256 tokens issued by the external identity provider.
// The backend never signs tokens itself.
type Verifier struct {
	publicKey crypto.PublicKey
	issuer    string
	audience  string
}

// NewVerifier returns a Verifier for the given public key. issuer and audience
// are checked against the token claims.
func NewVerifier(publicKey crypto.PublicKey, issuer, audience string) *Verifier {
	return &Verifier{publicKey: publicKey, issuer: issuer, audience: audience}
}

// Verify parses and validates the token (signature, exp, iss, aud) and returns
// the authenticated Utilisateur. Unknown userType values are rejected.
func (v *Verifier) Verify(tokenString string) (Utilisateur, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UtilisateurClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return v.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return v.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		return Utilisateur{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*UtilisateurClaims)
	if !ok || !token.Valid {
		return Utilisateur{}, ErrInvalidToken
	}
	if claims.Issuer != v.issuer {
		return Utilisateur{}, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == v.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return Utilisateur{}, ErrInvalidToken
	}
	utilisateurType := core.UtilisateurType(claims.UserType)
	switch utilisateurType {
	case core.UtilisateurJeune, core.UtilisateurConseiller, core.UtilisateurSupport:
	default:
		return Utilisateur{}, ErrInvalidToken
	}
	return Utilisateur{
		ID:        claims.Subject,
		Type:      utilisateurType,
		Structure: core.Structure(claims.UserStructure),
		Email:     claims.Email,
	}, nil
}
