package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretMissing = errors.New("token secret is not set")
	ErrInvalidToken  = errors.New("invalid token")
)

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 bearer tokens carrying an opaque
// user id. Verification is the only part the game engine depends on;
// Issue exists for deployments without an external identity provider.
type Service struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (s Service) Issue(userID string) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrSecretMissing
	}
	now := s.now()
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s Service) Verify(tokenStr string) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrSecretMissing
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if tok == nil || !tok.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
