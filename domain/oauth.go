package domain

import (
	"context"
	"time"
)

// OAuthProviderGithub is the Provider value of OAuth records created through a GitHub login.
const OAuthProviderGithub = "github"

// OAuth links a User to an account at an external oauth provider.
type OAuth struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id" gorm:"notNull;index"`
	Provider       string    `json:"provider" gorm:"notNull;uniqueIndex:idx_oauth_provider_user"`
	ProviderUserID string    `json:"provider_user_id" gorm:"notNull;uniqueIndex:idx_oauth_provider_user"`
	AccessToken    string    `json:"-"`
	RefreshToken   string    `json:"-"`
	Expiry         time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthService is a set of methods to manipulate and work with the OAuth model.
type OAuthService interface {
	ByProviderUserID(ctx context.Context, provider, providerUserID string) (*OAuth, error)
	Create(ctx context.Context, oauth *OAuth) error
	Update(ctx context.Context, oauth *OAuth) error
}
