// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/expert-qa/auth"
	"github.com/danielhkuo/expert-qa/cliparse"
	"github.com/danielhkuo/expert-qa/db"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// TestSessionSecret signs session cookies in tests
const TestSessionSecret = "expert-qa-test-session-secret-0123456789"

// sessionCookieName mirrors session.CookieName. testutil stays below
// store in the import graph so store's own tests can use it.
const sessionCookieName = "qa_session"

// SetupTestDB creates a fresh in-memory database with the full schema.
// The pool is pinned to one connection so every caller sees the same
// database; it is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.SQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   TestDBURL,
		DatabaseType:  "sqlite",
		SessionSecret: TestSessionSecret,
		SessionTTL:    time.Hour,
		LogLevel:      "info",
	}
}

// CreateTestUser inserts a user with a bcrypt-hashed password and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, name, password string, expert, admin bool) int64 {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO users (name, password, expert, admin)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, name, hash, expert, admin).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestQuestion inserts a question, answered when answer is non-empty,
// and returns its ID
func CreateTestQuestion(t *testing.T, conn *sql.DB, text string, askedByID, expertID int64, answer string) int64 {
	t.Helper()

	var answerText *string
	if answer != "" {
		answerText = &answer
	}

	var id int64
	err := conn.QueryRow(`
		INSERT INTO questions (question_text, answer_text, asked_by_id, expert_id)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, text, answerText, askedByID, expertID).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return id
}

// IsExpert reads the expert flag straight from the users table
func IsExpert(t *testing.T, conn *sql.DB, id int64) bool {
	t.Helper()

	var expert bool
	if err := conn.QueryRow(`SELECT expert FROM users WHERE id = ?`, id).Scan(&expert); err != nil {
		t.Fatalf("Failed to read user %d: %v", id, err)
	}
	return expert
}

// SessionCookie returns a valid session cookie for name
func SessionCookie(t *testing.T, cfg cliparse.Config, name string) *http.Cookie {
	t.Helper()

	token, err := auth.IssueSession(name, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

// MakeRequest creates an HTTP test request, attaching cookie when non-nil
func MakeRequest(method, path string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// MakeFormRequest creates a form-encoded POST request
func MakeFormRequest(path string, form url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// ResponseCookie returns the named cookie set by the response, or nil
func ResponseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 302 to the expected location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect, got %d. Body: %s", w.Code, w.Body.String())
		return
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
