package commands

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reachly-dev/reachly/internal/cli/session"
)

// memStore is an in-memory session store for tests
type memStore struct {
	token   string
	user    *session.User
	cleared bool
}

func (s *memStore) SaveToken(token string) error { s.token = token; return nil }
func (s *memStore) Token() (string, error)       { return s.token, nil }
func (s *memStore) SaveUser(user session.User) error {
	s.user = &user
	return nil
}
func (s *memStore) User() (*session.User, error) { return s.user, nil }
func (s *memStore) Clear() error {
	s.token = ""
	s.user = nil
	s.cleared = true
	return nil
}

func TestRunLoginSavesSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login request carried Authorization header %q", auth)
		}
		w.Write([]byte(`{
			"token": "tok-abc",
			"user": {"id": "01J5U", "email": "jo@acme.com", "name": "Jo", "role": "user", "status": "approved"}
		}`))
	}))
	defer ts.Close()
	t.Setenv("REACHLY_API_URL", ts.URL)

	store := &memStore{}
	if err := runLogin(store, "jo@acme.com", "secret123"); err != nil {
		t.Fatalf("runLogin: %v", err)
	}

	if store.token != "tok-abc" {
		t.Errorf("token = %q, want %q", store.token, "tok-abc")
	}
	if store.user == nil || store.user.Email != "jo@acme.com" {
		t.Errorf("user = %+v", store.user)
	}
}

func TestRunLoginRejectsBadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid email or password"}`))
	}))
	defer ts.Close()
	t.Setenv("REACHLY_API_URL", ts.URL)

	store := &memStore{token: "old-token"}
	err := runLogin(store, "jo@acme.com", "wrong")
	if err == nil {
		t.Fatal("runLogin succeeded with bad credentials")
	}

	// A failed login attempt must not tear down an existing session
	if store.cleared {
		t.Error("failed login cleared the stored session")
	}
	if store.token != "old-token" {
		t.Errorf("token = %q, want untouched %q", store.token, "old-token")
	}
}

func TestRunLoginRequiresEmail(t *testing.T) {
	t.Setenv("REACHLY_EMAIL", "")
	t.Setenv("REACHLY_PASSWORD", "")

	if err := runLogin(&memStore{}, "", ""); err == nil {
		t.Error("runLogin succeeded without an email")
	}
}
