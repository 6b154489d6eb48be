//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var csrfFieldRe = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]{64})"`)

// TestClient wraps http.Client with a cookie jar so the session cookie
// flows between requests, the way a browser would carry it.
type TestClient struct {
	*http.Client
	t *testing.T
}

// NewTestClient creates a new test client with cookie jar
func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return &TestClient{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
			// Redirects are followed manually so tests can assert on the
			// Location header
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		t: t,
	}
}

// GetPage fetches a page and returns its body
func (tc *TestClient) GetPage(path string) (*http.Response, string) {
	tc.t.Helper()
	resp, err := tc.Get(baseURL + path)
	if err != nil {
		tc.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tc.t.Fatalf("reading %s body: %v", path, err)
	}
	return resp, string(body)
}

// PostForm submits an urlencoded form and returns the response and body
func (tc *TestClient) PostFormPage(path string, form url.Values) (*http.Response, string) {
	tc.t.Helper()
	resp, err := tc.PostForm(baseURL+path, form)
	if err != nil {
		tc.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tc.t.Fatalf("reading %s body: %v", path, err)
	}
	return resp, string(body)
}

// FetchCSRFToken loads a form page and extracts the hidden CSRF field
func (tc *TestClient) FetchCSRFToken(path string) string {
	tc.t.Helper()
	resp, body := tc.GetPage(path)
	if resp.StatusCode != http.StatusOK {
		tc.t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	m := csrfFieldRe.FindStringSubmatch(body)
	if m == nil {
		tc.t.Fatalf("no CSRF token in %s response", path)
	}
	return m[1]
}

// Login performs the full form flow: fetch the login page for a CSRF
// token, then submit credentials. Returns the POST response.
func (tc *TestClient) Login(email, password string) *http.Response {
	tc.t.Helper()
	token := tc.FetchCSRFToken("/login")
	resp, _ := tc.PostFormPage("/login", url.Values{
		"csrf_token": {token},
		"email":      {email},
		"password":   {password},
	})
	return resp
}

// SessionCookie returns the current session cookie value, if any
func (tc *TestClient) SessionCookie() string {
	u, _ := url.Parse(baseURL)
	for _, c := range tc.Jar.Cookies(u) {
		if c.Name == "session_id" {
			return c.Value
		}
	}
	return ""
}

// seedUser inserts a user with a bcrypt-hashed password directly into the
// database
func seedUser(t *testing.T, username, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = testDB.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, usertype)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`, username, email, string(hash), role)
	if err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
}

// seedDestination inserts a destination row
func seedDestination(t *testing.T, city, kind string, price float64) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id int64
	err := testDB.QueryRowContext(ctx, `
		INSERT INTO destinations (city, photo, kind, description, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, city, strings.ToLower(city)+".jpg", kind, fmt.Sprintf("Conoce %s.", city), price).Scan(&id)
	if err != nil {
		t.Fatalf("seeding destination %s: %v", city, err)
	}
	return id
}
