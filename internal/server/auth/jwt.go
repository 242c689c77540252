// Package auth issues and validates session tokens and one-time codes.
package auth

import (
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/timex"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the subject id and the store it
// lives in, so the gateway needs exactly one lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID string              `json:"uid"`
	Kind   models.IdentityKind `json:"kind"`
}

// TokenIssuer mints and validates HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  timex.Clock
}

func NewTokenIssuer(secret []byte, ttl time.Duration, clock timex.Clock) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, clock: clock}
}

// Issue returns a token for id valid for the issuer's TTL from now.
func (t *TokenIssuer) Issue(id string, kind models.IdentityKind) (string, error) {
	now := t.clock.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: id,
		Kind:   kind,
	})

	return token.SignedString(t.secret)
}

// Verify checks signature and expiry. Every failure is reported as
// common.ErrInvalidToken; a token is rejected from its expiry instant on.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.UserID == "" || (claims.Kind != models.KindUser && claims.Kind != models.KindAdmin) {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
