package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chessbook-sync/internal/model"
)

// Service issues and verifies the bearer tokens exchanged with the
// browser client: compact HS256 JWTs whose payload carries the account
// email, issued-at and expiry. Tokens are self-contained; verification
// needs only the shared secret, never a store lookup, and there is no
// server-side revocation or refresh.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token binding the email to a validity window of s.ttl
// starting now.
func (s *Service) Issue(email string) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify is total over arbitrary byte strings: anything other than a
// well-formed three-segment token with a matching HMAC signature, an
// unexpired window and a non-empty email claim yields ErrInvalidToken.
// A token is valid strictly before its expiry timestamp.
func (s *Service) Verify(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, model.ErrInvalidToken
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", model.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", model.ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return "", model.ErrInvalidToken
	}

	return email, nil
}
