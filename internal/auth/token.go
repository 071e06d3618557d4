// Package auth issues and verifies the bearer credentials consumed by the
// transport layer. Tokens are HS256 JWTs; the rest of the system only ever
// sees the resolved identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

type Claims struct {
	jwt.RegisteredClaims
	Superuser bool   `json:"superuser"`
	TokenType string `json:"typ"`
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds a token issuer with explicit lifetimes; nothing is read
// from ambient state.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (i *Issuer) IssueAccess(userID string, superuser bool) (string, error) {
	return i.issue(userID, superuser, TokenTypeAccess, i.accessTTL)
}

func (i *Issuer) IssueRefresh(userID string, superuser bool) (string, error) {
	return i.issue(userID, superuser, TokenTypeRefresh, i.refreshTTL)
}

func (i *Issuer) issue(userID string, superuser bool, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Superuser: superuser,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry and requires the expected token
// type, so a refresh token can never authenticate a request.
func (i *Issuer) Parse(value, expectedType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.TokenType != expectedType {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
