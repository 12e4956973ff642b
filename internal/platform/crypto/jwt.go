// Package crypto issues and verifies the bearer tokens that guard write
// endpoints.
package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer = "booklibrary"

	RoleImporter = "IMPORTER"
	RoleAdmin    = "ADMIN"
)

type Claims struct {
	Sub  string `json:"sub"`  // caller id
	Role string `json:"role"` // IMPORTER/ADMIN
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for subject and returns it with its jti.
func GenerateToken(secret, subject, role string, ttl time.Duration) (string, string, error) {
	if secret == "" {
		return "", "", errors.New("jwt secret is empty")
	}
	jti := uuid.NewString()
	now := time.Now()

	c := Claims{
		Sub:  subject,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenStr, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return tokenStr, jti, nil
}

// ParseToken verifies tokenStr and returns its claims. Only HS256 is accepted.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
