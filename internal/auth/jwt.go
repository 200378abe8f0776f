// Package auth provides the authentication primitives of the application:
// signing and parsing of short-lived access tokens, and bcrypt password
// hashing. Refresh tokens are opaque and handled by the auth service.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the custom claims carried by an access token.
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenMaker signs and verifies HS256 access tokens.
type TokenMaker struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewTokenMaker creates a TokenMaker with the given HMAC secret and access
// token lifetime.
func NewTokenMaker(secretKey string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
	}
}

// GenerateToken creates a signed access token for the given user.
func (m *TokenMaker) GenerateToken(userID uint, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ParseToken verifies the signature and validity of an access token and
// returns its claims.
func (m *TokenMaker) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}

// AccessTTL returns the configured access token lifetime. Handlers use it to
// set the cookie Max-Age consistently with the token expiry.
func (m *TokenMaker) AccessTTL() time.Duration {
	return m.tokenTTL
}
