// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/fairmatch/internal/config"
)

// Roles carried in tokens.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Claims represents JWT claims
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// JWTManager handles JWT token creation and validation
type JWTManager struct {
	secret []byte
	issuer string
}

// NewJWTManager creates a token manager using HMAC-SHA256.
// The secret is kept as []byte and never logged.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required but was empty")
	}
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
	}, nil
}

// GenerateToken signs a token for userID valid for ttl.
func (m *JWTManager) GenerateToken(userID int64, username, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the signature, algorithm, expiry and issuer and
// returns the claims. Tokens signed with anything but HMAC are refused.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}
