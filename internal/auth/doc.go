// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package auth provides JWT bearer authentication for the HTTP API.

Two modes are supported, selected by AUTH_MODE:

  - none: every request passes. There is no caller identity, so endpoints
    acting on "the current user" answer 401, and admin gates are open.
    Intended for development and trusted networks.
  - jwt: requests must carry "Authorization: Bearer <token>" signed with
    HS256 using JWT_SECRET and issued by JWT_ISSUER.

# Claims

	{
	  "uid": 42,            // attendee user id
	  "username": "alice",
	  "role": "admin",      // "admin" or "user"
	  "iss": "fairmatch",
	  "exp": 1767225600
	}

Token issuance belongs to the platform's identity service. GenerateToken
exists for tooling and tests.

# Usage

	mw := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, logger)
	r.Use(mw.Authenticate)
	r.With(mw.RequireAdmin).Post("/generate", h.Generate)

	// in a handler
	userID, ok := auth.UserIDFromContext(r.Context())
*/
package auth
