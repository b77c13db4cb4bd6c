package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevSigner mints ES256 access tokens with an ephemeral keypair. It stands in
// for the external identity provider in local development and in tests; keys
// never leave the process, so production configs must supply JWT_PUBLIC_KEY instead.
type DevSigner struct {
	key      *ecdsa.PrivateKey
	issuer   string
	audience string
}

// NewDevSigner generates an ephemeral ECDSA P-256 keypair and returns a signer
// whose tokens validate against PublicKey().
func NewDevSigner(issuer, audience string) (*DevSigner, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &DevSigner{key: key, issuer: issuer, audience: audience}, nil
}

// PublicKey returns the verification key for tokens minted by this signer.
func (s *DevSigner) PublicKey() crypto.PublicKey {
	return &s.key.PublicKey
}

// Sign issues an access token for the given identity, valid for ttl.
func (s *DevSigner) Sign(userID, orgID, sessionID, email string, ttl time.Duration) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		OrgID:     orgID,
		SessionID: sessionID,
		Email:     email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(s.key)
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
