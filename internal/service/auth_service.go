package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted on protected endpoints.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthService validates bearer tokens for the mutating endpoints. Login and
// token issuance live in the legacy auth system; this service only needs to
// verify what that system signed.
type AuthService interface {
	ValidateJWT(ctx context.Context, tokenString string) (*Claims, error)
	GenerateToken(subject string, ttl time.Duration) (string, error)
}

type authService struct {
	secret []byte
}

// NewAuthService creates an HMAC-based AuthService.
func NewAuthService(jwtSecret string) (AuthService, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT secret cannot be empty")
	}
	return &authService{secret: []byte(jwtSecret)}, nil
}

// ValidateJWT implements AuthService
func (s *authService) ValidateJWT(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

// GenerateToken implements AuthService
func (s *authService) GenerateToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
