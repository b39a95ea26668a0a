package share

import (
	"errors"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"

	"github.com/golang-jwt/jwt/v5"
)

// Shared routes travel as signed tokens instead of raw payloads, so a
// tampered link fails verification instead of importing garbage.

var ErrInvalidShare = errors.New("invalid share token")

// shareTTL bounds how long a link stays importable.
const shareTTL = 30 * 24 * time.Hour

type shareClaims struct {
	Name    string        `json:"name"`
	Entries []route.Entry `json:"entries"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Encode signs a route into a portable token.
func (s *Service) Encode(name string, entries []route.Entry) (string, error) {
	if len(entries) == 0 {
		return "", errors.New("route has no entries to share")
	}

	now := time.Now()
	claims := shareClaims{
		Name:    name,
		Entries: entries,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(shareTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Decode verifies a token and returns the route it carries.
func (s *Service) Decode(token string) (string, []route.Entry, error) {
	var claims shareClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidShare
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", nil, ErrInvalidShare
	}
	if len(claims.Entries) == 0 {
		return "", nil, ErrInvalidShare
	}
	return claims.Name, claims.Entries, nil
}
