package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, `{"detail":"bad form"}`, http.StatusBadRequest)
			return
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "x" {
			http.Error(w, `{"detail":"Invalid username or password"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	})
	mux.HandleFunc("/api/auth/user-info", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") != "Bearer abc" {
			http.Error(w, `{"detail":"Could not validate credentials"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"alice","role":"Student","level":"SS2","department":"Science","full_name":"Alice A."}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoginSuccess(t *testing.T) {
	server := newFakeBackend(t)
	client := New(server.URL, 5*time.Second)

	result, err := client.Login(context.Background(), "alice", "x")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if result.Token != "abc" {
		t.Fatalf("unexpected token: %q", result.Token)
	}
	if result.User.Username != "alice" || result.User.Role != "Student" || result.User.FullName != "Alice A." {
		t.Fatalf("unexpected user: %+v", result.User)
	}
}

func TestLoginRejected(t *testing.T) {
	server := newFakeBackend(t)
	client := New(server.URL, 5*time.Second)

	_, err := client.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCurrentUserRejectedToken(t *testing.T) {
	server := newFakeBackend(t)
	client := New(server.URL, 5*time.Second)

	_, err := client.CurrentUser(context.Background(), "expired")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCurrentUserMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"role":"student"}`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	if _, err := client.CurrentUser(context.Background(), "abc"); err == nil {
		t.Fatalf("expected error for incomplete payload")
	}
}

func TestBackendDown(t *testing.T) {
	server := newFakeBackend(t)
	url := server.URL
	server.Close()

	client := New(url, time.Second)
	if _, err := client.CurrentUser(context.Background(), "abc"); err == nil {
		t.Fatalf("expected network error")
	}
}
