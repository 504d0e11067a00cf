// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/foodgram/auth"
	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/db"
)

// TestDBURL opens a private in-memory SQLite database per connection pool
const TestDBURL = "file::memory:"

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "s3cret-pass"

// SetupTestDB opens a fresh in-memory database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), cliparse.DatabaseSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Defaults()
	cfg.DatabaseURL = TestDBURL
	cfg.MediaDir = ""
	cfg.PageSize = 6
	return cfg
}

// PNGDataURI returns a small base64 data URI that decodes to PNG bytes
func PNGDataURI() string {
	raw := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

// CreateTestUser inserts a user with TestPassword and an API token and
// returns the user ID and token
func CreateTestUser(t *testing.T, conn *sqlx.DB, username string) (userID int64, token string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	err = conn.QueryRowx(conn.Rebind(`
		INSERT INTO app_user (email, username, first_name, last_name, password)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), username+"@example.com", username, strings.ToUpper(username[:1])+username[1:], "Tester", string(hash)).Scan(&userID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, _ = auth.GenerateToken()
	_, err = conn.Exec(conn.Rebind(`INSERT INTO auth_token (key, user_id) VALUES (?, ?)`), token, userID)
	if err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}

	return userID, token
}

// CreateTestTag inserts a tag whose slug and color derive from name
func CreateTestTag(t *testing.T, conn *sqlx.DB, name string) int64 {
	t.Helper()

	var id int64
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	err := conn.QueryRowx(conn.Rebind(`
		INSERT INTO tag (name, color, slug) VALUES (?, ?, ?) RETURNING id
	`), name, "#"+slug, slug).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test tag: %v", err)
	}
	return id
}

// CreateTestIngredient inserts an ingredient and returns its ID
func CreateTestIngredient(t *testing.T, conn *sqlx.DB, name, unit string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRowx(conn.Rebind(`
		INSERT INTO ingredient (name, measurement_unit) VALUES (?, ?) RETURNING id
	`), name, unit).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test ingredient: %v", err)
	}
	return id
}

// Line is one ingredient line of a test recipe
type Line struct {
	IngredientID int64
	Amount       float64
}

// CreateTestRecipe inserts a recipe with its tags and ingredient lines
// directly, bypassing validation
func CreateTestRecipe(t *testing.T, conn *sqlx.DB, authorID int64, name string, tagIDs []int64, lines []Line) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRowx(conn.Rebind(`
		INSERT INTO recipe (author_id, name, text, image, cooking_time)
		VALUES (?, ?, 'Mix and serve.', '', 10)
		RETURNING id
	`), authorID, name).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test recipe: %v", err)
	}

	for _, tagID := range tagIDs {
		_, err := conn.Exec(conn.Rebind(`INSERT INTO recipe_tag (recipe_id, tag_id) VALUES (?, ?)`), id, tagID)
		if err != nil {
			t.Fatalf("Failed to link test tag: %v", err)
		}
	}
	for _, l := range lines {
		_, err := conn.Exec(conn.Rebind(`
			INSERT INTO recipe_ingredient (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)
		`), id, l.IngredientID, l.Amount)
		if err != nil {
			t.Fatalf("Failed to add test ingredient line: %v", err)
		}
	}

	return id
}

// AddTestRelation inserts a favorite, shopping_cart or subscription row
func AddTestRelation(t *testing.T, conn *sqlx.DB, table string, userID, objectID int64) {
	t.Helper()

	column := "recipe_id"
	if table == "subscription" {
		column = "author_id"
	}
	_, err := conn.Exec(conn.Rebind(fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES (?, ?)`, table, column)), userID, objectID)
	if err != nil {
		t.Fatalf("Failed to add test %s: %v", table, err)
	}
}

// CountRows returns the number of rows in table matching where
func CountRows(t *testing.T, conn *sqlx.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := conn.Get(&n, conn.Rebind(query), args...); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// AuthHeader returns request headers carrying token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": auth.TokenScheme + " " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
