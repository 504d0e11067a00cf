// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/foodgram/auth"
	"github.com/danielhkuo/foodgram/store"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	tokenKey
)

// TokenResolver maps an API token to its user
type TokenResolver interface {
	UserIDByToken(ctx context.Context, key string) (int64, error)
}

// Authenticate resolves "Authorization: Token <key>" into the request
// context. Requests without the header continue anonymously; a malformed
// or unknown token is rejected with 401.
func Authenticate(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := auth.ParseAuthorization(header)
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "Invalid token header.")
				return
			}

			userID, err := resolver.UserIDByToken(r.Context(), token)
			if errors.Is(err, store.ErrNotFound) {
				ErrorResponse(w, http.StatusUnauthorized, "Invalid token.")
				return
			}
			if err != nil {
				slog.Error("failed to resolve token", "error", err)
				ErrorResponse(w, http.StatusInternalServerError, "Database error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, token)))
		})
	}
}

// RequireUser rejects anonymous requests with 401
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == 0 {
			ErrorResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		next(w, r)
	}
}

// WithUser returns ctx carrying an authenticated user and token
func WithUser(ctx context.Context, userID int64, token string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, tokenKey, token)
}

// UserID returns the authenticated user, or 0 for anonymous requests
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// Token returns the API token the request authenticated with
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
