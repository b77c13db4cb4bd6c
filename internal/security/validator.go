// Package security validates bearer tokens issued by the external identity
// provider. Sign-in, SSO, and token issuance happen outside this service;
// the API only verifies signatures and claims on incoming access tokens.
package security

import (
	"crypto"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, or fails validation.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims holds JWT claims for the access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	OrgID     string `json:"org_id"`
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
}

// Identity is the authenticated caller extracted from a validated access token.
type Identity struct {
	UserID    string
	OrgID     string
	SessionID string
	Email     string
}

// TokenValidator validates JWT access tokens signed with RS256 or ES256.
type TokenValidator struct {
	publicKey crypto.PublicKey
	issuer    string
	audience  string
}

// NewTokenValidator returns a TokenValidator that verifies signatures with the
// given public key and checks issuer and audience on every token.
func NewTokenValidator(publicKey crypto.PublicKey, issuer, audience string) *TokenValidator {
	return &TokenValidator{
		publicKey: publicKey,
		issuer:    issuer,
		audience:  audience,
	}
}

// ValidateAccess parses and validates an access token (signature, exp, iss, aud).
func (v *TokenValidator) ValidateAccess(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return v.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return v.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Issuer != v.issuer {
		return Identity{}, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == v.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.OrgID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID:    claims.Subject,
		OrgID:     claims.OrgID,
		SessionID: claims.SessionID,
		Email:     claims.Email,
	}, nil
}
