package crud

import (
	"context"
	"testing"

	"yatube/domain"
	"yatube/errs"
)

func TestOAuthLink(t *testing.T) {
	s := newTestServices(t, 10)
	ctx := context.Background()
	user := createUser(t, s, "octocat")

	link := &domain.OAuth{
		UserID:         user.ID,
		Provider:       domain.OAuthProviderGithub,
		ProviderUserID: "583231",
		AccessToken:    "first",
	}
	if err := s.OAuth.Create(ctx, link); err != nil {
		t.Fatal(err)
	}

	found, err := s.OAuth.ByProviderUserID(ctx, domain.OAuthProviderGithub, "583231")
	if err != nil {
		t.Fatal(err)
	}
	if found.UserID != user.ID {
		t.Errorf("link belongs to user %d, want %d", found.UserID, user.ID)
	}

	found.AccessToken = "second"
	if err := s.OAuth.Update(ctx, found); err != nil {
		t.Fatal(err)
	}
	found, _ = s.OAuth.ByProviderUserID(ctx, domain.OAuthProviderGithub, "583231")
	if found.AccessToken != "second" {
		t.Errorf("AccessToken = %q, want second", found.AccessToken)
	}

	if _, err := s.OAuth.ByProviderUserID(ctx, domain.OAuthProviderGithub, "1"); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("unknown account: %v, want not found", err)
	}
	if err := s.OAuth.Create(ctx, &domain.OAuth{UserID: user.ID, Provider: domain.OAuthProviderGithub}); errs.ErrorCode(err) != errs.EINVALID {
		t.Errorf("Create() without provider user id = %v, want invalid", err)
	}
}
