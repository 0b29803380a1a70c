// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Auth modes
const (
	ModeNone = "none"
	ModeJWT  = "jwt"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated caller's user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// Middleware authenticates requests and gates admin routes.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
	logger     zerolog.Logger
}

// NewMiddleware creates the authentication middleware. jwtManager may be
// nil when authMode is "none".
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMiddleware(jwtManager *JWTManager, authMode string, logger zerolog.Logger) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
		logger:     logger.With().Str("component", "auth").Logger(),
	}
}

// Enabled reports whether requests are authenticated.
func (m *Middleware) Enabled() bool {
	return m.authMode != ModeNone
}

// Authenticate validates the bearer token and stores its claims in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed bearer token")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Token validation failed")
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireAdmin refuses callers without the admin role. It is a no-op when
// authentication is disabled.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		if !claims.IsAdmin() {
			m.logger.Warn().
				Int64("user_id", claims.UserID).
				Str("path", r.URL.Path).
				Msg("Admin route refused")
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// writeAuthError writes the API error envelope. The api package owns the
// envelope type; auth sits below it and encodes the same shape directly.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response body
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "error",
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
