// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	r.Use(chimw.RequestID, middleware.WithLogging)

Logs request start at debug level and completion (status, bytes,
duration_ms) at info, both tagged with the chi request id.

# Authentication

	r.Use(middleware.Authenticate(store))
	r.Get("/api/users/me", middleware.RequireUser(h.Me))

Authenticate reads "Authorization: Token <key>". Requests without the
header are anonymous and UserID returns 0. A malformed or unknown token is
rejected with 401 before any handler runs. RequireUser turns anonymous
requests away with 401.

# CORS Middleware

Allows GET, POST, PATCH, DELETE and OPTIONS with Content-Type and
Authorization headers, and exposes Content-Disposition so browsers can
name the shopping list download.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "recipe not found")
	middleware.FieldError(w, "tags", "at least one tag is required")
	middleware.DetailError(w, http.StatusBadRequest, "favorite: already exists")

FieldError writes {"<field>": ["message"]}; DetailError writes
{"errors": "message"}.

	var req models.RecipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Honours X-Forwarded-For, then X-Real-IP, then RemoteAddr. Used in request
logs.
*/
package middleware
