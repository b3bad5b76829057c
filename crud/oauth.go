package crud

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/domain"
	"yatube/errs"
)

// OAuthService manages the links between users and their oauth provider accounts.
type OAuthService struct {
	oauthValidator
}

type oauthValidator struct {
	oauthGorm
}

type oauthGorm struct {
	db *gorm.DB
}

func NewOAuthService(db *gorm.DB) *OAuthService {
	return &OAuthService{
		oauthValidator{
			oauthGorm{
				db: db,
			},
		},
	}
}

var _ domain.OAuthService = &OAuthService{}

func (ov *oauthValidator) Create(ctx context.Context, oauth *domain.OAuth) error {
	err := runOAuthValFns(oauth,
		ov.userIdRequired,
		ov.providerRequired,
		ov.providerUserIdRequired)
	if err != nil {
		return err
	}
	return ov.oauthGorm.Create(ctx, oauth)
}

func (ov *oauthValidator) Update(ctx context.Context, oauth *domain.OAuth) error {
	err := runOAuthValFns(oauth,
		ov.idValid,
		ov.userIdRequired,
		ov.providerRequired,
		ov.providerUserIdRequired)
	if err != nil {
		return err
	}
	return ov.oauthGorm.Update(ctx, oauth)
}

// runOAuthValFns runs any number of functions of type oauthValFn on the passed in OAuth object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runOAuthValFns(oauth *domain.OAuth, fns ...oauthValFn) error {
	for _, fn := range fns {
		if err := fn(oauth); err != nil {
			return err
		}
	}
	return nil
}

// A oauthValFn is any function that takes in a pointer to a domain.OAuth object and returns an error.
type oauthValFn = func(oauth *domain.OAuth) error

func (ov *oauthValidator) idValid(oauth *domain.OAuth) error {
	if oauth.ID <= 0 {
		return errs.IdInvalid
	}
	return nil
}

func (ov *oauthValidator) providerRequired(oauth *domain.OAuth) error {
	if oauth.Provider == "" {
		return errs.Errorf(errs.EINVALID, "An oauth provider is required.")
	}
	return nil
}

func (ov *oauthValidator) providerUserIdRequired(oauth *domain.OAuth) error {
	if oauth.ProviderUserID == "" {
		return errs.Errorf(errs.EINVALID, "The oauth provider's user id is required.")
	}
	return nil
}

func (ov *oauthValidator) userIdRequired(oauth *domain.OAuth) error {
	if oauth.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// ByProviderUserID retrieves the link to the given account of the given provider.
func (og *oauthGorm) ByProviderUserID(ctx context.Context, provider, providerUserID string) (*domain.OAuth, error) {
	var oauth domain.OAuth
	db := og.db.WithContext(ctx).
		Where("provider = ?", provider).
		Where("provider_user_id = ?", providerUserID)
	if err := first(db, &oauth); err != nil {
		return nil, err
	}
	return &oauth, nil
}

func (og *oauthGorm) Create(ctx context.Context, oauth *domain.OAuth) error {
	return og.db.WithContext(ctx).Omit(clause.Associations).Create(oauth).Error
}

func (og *oauthGorm) Update(ctx context.Context, oauth *domain.OAuth) error {
	return og.db.WithContext(ctx).Omit(clause.Associations).Save(oauth).Error
}
