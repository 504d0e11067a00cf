// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/foodgram/models"
)

func TestWithLogging_PreservesResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"id":123}`},
		{"BadRequest", http.StatusBadRequest, `{"tags":["at least one tag is required"]}`},
		{"NotFound", http.StatusNotFound, "not found"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handlerCalled := false
			handler := chimw.RequestID(WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				if chimw.GetReqID(r.Context()) == "" {
					t.Error("Expected request id in context")
				}
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})))

			req := httptest.NewRequest("POST", "/api/recipes", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if !handlerCalled {
				t.Error("Expected handler to be called")
			}
			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       any
		expected   string
	}{
		{
			name:       "simple map",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "hello"},
			expected:   `{"message":"hello"}`,
		},
		{
			name:       "created response",
			statusCode: http.StatusCreated,
			data:       models.RecipeShort{ID: 3, Name: "Soup", Image: "/media/recipes/a.png", CookingTime: 10},
			expected:   `{"id":3,"name":"Soup","image":"/media/recipes/a.png","cooking_time":10}`,
		},
		{
			name:       "error response",
			statusCode: http.StatusBadRequest,
			data:       models.ErrorResponse{Error: "Bad Request", Message: "missing field"},
			expected:   `{"error":"Bad Request","message":"missing field"}`,
		},
		{
			name:       "array data",
			statusCode: http.StatusOK,
			data:       []string{"a", "b", "c"},
			expected:   `["a","b","c"]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}

			// Encode appends a newline
			body := strings.TrimSpace(w.Body.String())
			if body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		message       string
		expectedError string
	}{
		{"bad request", http.StatusBadRequest, "Invalid JSON", "Bad Request"},
		{"unauthorized", http.StatusUnauthorized, "Invalid token.", "Unauthorized"},
		{"forbidden", http.StatusForbidden, "only the author can change this recipe", "Forbidden"},
		{"not found", http.StatusNotFound, "recipe not found", "Not Found"},
		{"internal error", http.StatusInternalServerError, "Database error", "Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != tc.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectedError, resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	w := httptest.NewRecorder()
	FieldError(w, "ingredients", "ingredients must be unique")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != `{"ingredients":["ingredients must be unique"]}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestDetailError(t *testing.T) {
	w := httptest.NewRecorder()
	DetailError(w, http.StatusBadRequest, "favorite: already exists")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != `{"errors":"favorite: already exists"}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		body := `{"email":"ann@example.com","password":"s3cret-pass"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Email != "ann@example.com" {
			t.Errorf("Expected email 'ann@example.com', got '%s'", parsed.Email)
		}
	})

	t.Run("string amounts", func(t *testing.T) {
		body := `{"tags":[1],"ingredients":[{"id":7,"amount":"2.5"},{"id":8,"amount":3}],"cooking_time":5}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.RecipeRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Ingredients[0].Amount != 2.5 || parsed.Ingredients[1].Amount != 3 {
			t.Errorf("Unexpected amounts: %+v", parsed.Ingredients)
		}
		if parsed.Name != nil {
			t.Error("Expected absent name to stay nil")
		}
	})

	t.Run("non-numeric amount", func(t *testing.T) {
		body := `{"ingredients":[{"id":7,"amount":"lots"}]}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.RecipeRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for non-numeric amount")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})

	t.Run("body is consumed after parsing", func(t *testing.T) {
		body := `{"email":"ann@example.com"}`
		req := httptest.NewRequest("POST", "/", io.NopCloser(bytes.NewReader([]byte(body))))

		var parsed models.LoginRequest
		_ = ParseJSONBody(req, &parsed)

		remaining, _ := io.ReadAll(req.Body)
		if len(remaining) > 0 {
			t.Error("Expected body to be consumed")
		}
	})
}

func TestCORS(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("handled"))
	})
	corsHandler := CORS(nextHandler)

	t.Run("preflight OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/recipes", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() != "" {
			t.Errorf("Expected empty body for preflight, got '%s'", w.Body.String())
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Error("Expected Access-Control-Allow-Origin to match request origin")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
			t.Error("Expected Authorization in allowed headers")
		}
		for _, method := range []string{"GET", "POST", "PATCH", "DELETE"} {
			if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), method) {
				t.Errorf("Expected %s in allowed methods", method)
			}
		}
	})

	t.Run("regular request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/recipes", nil)
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected Access-Control-Allow-Origin to default to '*'")
		}
		if w.Header().Get("Access-Control-Expose-Headers") != "Content-Disposition" {
			t.Error("Expected Content-Disposition to be exposed for downloads")
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{"X-Forwarded-For single IP", map[string]string{"X-Forwarded-For": "192.168.1.100"}, "10.0.0.1:12345", "192.168.1.100"},
		{"X-Forwarded-For chain", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "127.0.0.1:12345", "203.0.113.195"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "203.0.113.50"}, "10.0.0.1:12345", "203.0.113.50"},
		{"X-Forwarded-For wins over X-Real-IP", map[string]string{"X-Forwarded-For": "192.168.1.100", "X-Real-IP": "203.0.113.50"}, "10.0.0.1:12345", "192.168.1.100"},
		{"RemoteAddr with port", nil, "192.168.1.50:54321", "192.168.1.50"},
		{"RemoteAddr without port", nil, "192.168.1.50", "192.168.1.50"},
		{"IPv6 RemoteAddr with port", nil, "[::1]:12345", "[::1]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req); got != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, got)
			}
		})
	}
}
