package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SessionCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "fresh-session"})
			fmt.Fprint(w, `{"user":{"id":1,"username":"luna","email":"luna@example.com"}}`)
		case "/api/auth/me":
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value != "fresh-session" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message":"Not authenticated"}`)
				return
			}
			fmt.Fprint(w, `{"user":{"id":1,"username":"luna","email":"luna@example.com"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not found"}`)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	ctx := context.Background()

	resp, err := c.Login(ctx, "luna@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User == nil || resp.User.Username != "luna" {
		t.Errorf("Login() user = %+v", resp.User)
	}
	if c.Session() != "fresh-session" {
		t.Errorf("Session() = %q, want cookie captured from login", c.Session())
	}

	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.Email != "luna@example.com" {
		t.Errorf("Me() = %+v", me)
	}
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Invalid email or password"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Login(context.Background(), "luna@example.com", "wrong")
	if err == nil {
		t.Fatal("Login() error = nil")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("IsUnauthorized() = false, status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClient_ResumedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value != "stored" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Not authenticated"}`)
			return
		}
		fmt.Fprint(w, `{"user":{"id":1,"username":"luna","email":"luna@example.com"}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Session: "stored"})
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me() with stored session error = %v", err)
	}
}
