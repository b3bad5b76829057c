package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestLoginURL(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"/create/", "/auth/login/?next=/create/"},
		{"/posts/1/edit/", "/auth/login/?next=/posts/1/edit/"},
		{"/follow/?page=3", "/auth/login/?next=/follow/%3Fpage%3D3"},
	}
	for _, tt := range tests {
		if got := loginURL(tt.uri); got != tt.want {
			t.Errorf("loginURL(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/create/", "/create/"},
		{"/follow/?page=2", "/follow/?page=2"},
		{"create/", "/"},
		{"//evil.example.com/", "/"},
		{"/\\evil.example.com/", "/"},
		{"https://evil.example.com/", "/"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.next); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}

func TestOAuthState(t *testing.T) {
	s := &Server{stateKey: []byte("state-key")}

	raw, err := s.makeState("/create/", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	state, err := s.parseState(raw)
	if err != nil {
		t.Fatalf("parseState() = %v", err)
	}
	if state.Next != "/create/" {
		t.Errorf("next = %q, want /create/", state.Next)
	}

	other := &Server{stateKey: []byte("another-key")}
	if _, err := other.parseState(raw); err == nil {
		t.Error("state signed with another key accepted")
	}
	if _, err := s.parseState(raw + "x"); err == nil {
		t.Error("tampered state accepted")
	}

	expired, err := s.makeState("/", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.parseState(expired); err == nil {
		t.Error("expired state accepted")
	}
}

func TestGithubRoutesOffWithoutConfig(t *testing.T) {
	app := newTestApp(t)
	for _, target := range []string{"/auth/github/", "/auth/github/callback/?code=x&state=y"} {
		if rec := app.get(t, target, nil); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, rec.Code)
		}
	}
}

func TestFetchGithubUser(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id": 42, "login": "octocat", "email": "octo@example.com"}`))
	}))
	defer api.Close()
	defer func(url string) { githubUserURL = url }(githubUserURL)
	githubUserURL = api.URL

	s := &Server{github: &oauth2.Config{}}
	ctx := context.Background()
	gu, err := s.fetchGithubUser(ctx, &oauth2.Token{AccessToken: "good-token"})
	if err != nil {
		t.Fatalf("fetchGithubUser() = %v", err)
	}
	if gu.ID != 42 || gu.Login != "octocat" || gu.Email != "octo@example.com" {
		t.Errorf("github user = %+v", gu)
	}
	if _, err := s.fetchGithubUser(ctx, &oauth2.Token{AccessToken: "bad-token"}); err == nil {
		t.Error("unauthorized response accepted")
	}
}

func TestCreateGithubUser(t *testing.T) {
	app := newTestApp(t)
	r := httptest.NewRequest(http.MethodGet, "/auth/github/callback/", nil)

	user, err := app.server.createGithubUser(r, &githubUser{ID: 1, Login: "octocat"})
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "octocat" {
		t.Errorf("username = %q, want octocat", user.Username)
	}

	user, err = app.server.createGithubUser(r, &githubUser{ID: 2, Login: "octocat"})
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "octocat-2" {
		t.Errorf("username = %q, want octocat-2", user.Username)
	}
}
