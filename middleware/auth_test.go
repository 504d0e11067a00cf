// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/foodgram/store"
)

type tokenMap map[string]int64

func (m tokenMap) UserIDByToken(_ context.Context, key string) (int64, error) {
	if key == "broken" {
		return 0, errors.New("connection refused")
	}
	id, ok := m[key]
	if !ok {
		return 0, store.ErrNotFound
	}
	return id, nil
}

func TestAuthenticate(t *testing.T) {
	resolver := tokenMap{"abc123": 7}

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
		expectedUser   int64
	}{
		{"anonymous", "", http.StatusOK, 0},
		{"valid token", "Token abc123", http.StatusOK, 7},
		{"scheme is case-insensitive", "token abc123", http.StatusOK, 7},
		{"unknown token", "Token nope", http.StatusUnauthorized, 0},
		{"wrong scheme", "Bearer abc123", http.StatusUnauthorized, 0},
		{"missing key", "Token", http.StatusUnauthorized, 0},
		{"store failure", "Token broken", http.StatusInternalServerError, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser int64 = -1
			handler := Authenticate(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/api/recipes", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if tc.expectedStatus == http.StatusOK && gotUser != tc.expectedUser {
				t.Errorf("Expected user %d, got %d", tc.expectedUser, gotUser)
			}
			if tc.expectedStatus != http.StatusOK && gotUser != -1 {
				t.Error("Expected next handler not to be called")
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/users/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req = req.WithContext(WithUser(req.Context(), 7, "abc123"))
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if Token(req.Context()) != "abc123" {
		t.Error("Expected token in context")
	}
}
