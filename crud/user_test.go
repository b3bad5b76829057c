package crud

import (
	"context"
	"testing"

	"yatube/domain"
	"yatube/errs"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	s := newTestServices(t, 10)
	ctx := context.Background()

	user := &domain.User{Username: " leo ", Email: " Leo@Example.COM ", Password: "tolstoy1828"}
	if err := s.User.Create(ctx, user); err != nil {
		t.Fatal(err)
	}
	if user.Username != "leo" || user.Email != "leo@example.com" {
		t.Errorf("not normalized: %q %q", user.Username, user.Email)
	}
	if user.Password != "" || user.PasswordHash == "" {
		t.Error("password not replaced by its hash")
	}
	if user.Remember == "" || user.RememberHash == "" {
		t.Error("remember token not set")
	}

	found, err := s.User.Authenticate(ctx, "leo", "tolstoy1828")
	if err != nil {
		t.Fatalf("Authenticate() = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("authenticated user %d, want %d", found.ID, user.ID)
	}

	for _, creds := range [][2]string{{"leo", "wrong-password"}, {"nobody", "tolstoy1828"}} {
		if _, err := s.User.Authenticate(ctx, creds[0], creds[1]); errs.ErrorCode(err) != errs.EINVALID {
			t.Errorf("Authenticate(%q, %q) = %v, want invalid", creds[0], creds[1], err)
		}
	}

	byToken, err := s.User.ByRemember(ctx, user.Remember)
	if err != nil || byToken.ID != user.ID {
		t.Errorf("ByRemember() = %v, %v", byToken, err)
	}
}

func TestUserCreateValidation(t *testing.T) {
	s := newTestServices(t, 10)
	createUser(t, s, "taken")

	tests := []struct {
		name string
		user domain.User
		code string
	}{
		{"missing username", domain.User{Password: "password123"}, errs.EINVALID},
		{"bad username", domain.User{Username: "no spaces", Password: "password123"}, errs.EINVALID},
		{"taken username", domain.User{Username: "taken", Password: "password123"}, errs.ECONFLICT},
		{"missing password", domain.User{Username: "fresh"}, errs.EINVALID},
		{"short password", domain.User{Username: "fresh", Password: "short"}, errs.EINVALID},
		{"bad email", domain.User{Username: "fresh", Email: "not-an-email", Password: "password123"}, errs.EINVALID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.User.Create(context.Background(), &tt.user)
			if got := errs.ErrorCode(err); got != tt.code {
				t.Errorf("Create() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestUserWithoutPassword(t *testing.T) {
	s := newTestServices(t, 10)
	ctx := context.Background()
	user := &domain.User{Username: "octocat", NoPasswordNeeded: true}
	if err := s.User.Create(ctx, user); err != nil {
		t.Fatal(err)
	}
	if _, err := s.User.Authenticate(ctx, "octocat", ""); err == nil {
		t.Error("user without password could authenticate")
	}

	token, err := s.User.MakeRememberToken()
	if err != nil {
		t.Fatal(err)
	}
	user.Remember = token
	if err := s.User.Update(ctx, user); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if got, err := s.User.ByRemember(ctx, token); err != nil || got.ID != user.ID {
		t.Errorf("ByRemember() after rotation = %v, %v", got, err)
	}
}
