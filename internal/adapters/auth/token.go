package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"calendarsync/internal/domain"
)

type staticTokenSource struct {
	token string
	now   func() time.Time
}

// NewStaticTokenSource returns a TokenSource for a pre-issued bearer token.
// If the token is a JWT, its exp claim is checked before each use so an
// expired credential fails locally instead of with a backend 401. Claims are
// parsed unverified: the client holds no signing secret, and the check only
// avoids sending a token the backend would reject anyway.
func NewStaticTokenSource(token string) domain.TokenSource {
	return &staticTokenSource{token: token, now: time.Now}
}

func (s *staticTokenSource) Token() (string, error) {
	if s.token == "" {
		return "", errors.New("bearer token is not configured")
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.token, claims); err != nil {
		// Not a JWT; pass the opaque token through untouched.
		return s.token, nil
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now()) {
		return "", domain.ErrTokenExpired
	}
	return s.token, nil
}
