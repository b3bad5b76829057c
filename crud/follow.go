package crud

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/domain"
	"yatube/errs"
)

// FollowService manages Follows.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
var _ domain.FollowService = &FollowService{}

// GetOrCreate runs validations needed for creating Follow database records. Following a user
// twice is not an error: the existing edge is loaded into follow and false is returned.
// Following oneself is not prevented here, that decision belongs to the caller.
func (fv *followValidator) GetOrCreate(ctx context.Context, follow *domain.Follow) (bool, error) {
	err := runFollowValFns(follow,
		fv.followerIdValid,
		fv.followedUserExists(ctx))
	if err != nil {
		return false, err
	}
	return fv.followGorm.GetOrCreate(ctx, follow)
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

type followValFn func(follow *domain.Follow) error

func (fv *followValidator) followerIdValid(follow *domain.Follow) error {
	if follow.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// followedUserExists makes sure that the user to be followed actually exists.
func (fv *followValidator) followedUserExists(ctx context.Context) followValFn {
	return func(follow *domain.Follow) error {
		var user domain.User
		err := first(fv.db.WithContext(ctx).Where("id = ?", follow.AuthorID), &user)
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
}

// GetOrCreate loads the edge between follow.UserID and follow.AuthorID into follow,
// creating it first if it doesn't exist yet. The insert leans on the unique index on
// the pair, so concurrent requests for the same edge store it once and both succeed.
func (fg *followGorm) GetOrCreate(ctx context.Context, follow *domain.Follow) (bool, error) {
	db := fg.db.WithContext(ctx)
	res := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	existing := domain.Follow{}
	if err := first(db.Where("user_id = ? AND author_id = ?", follow.UserID, follow.AuthorID), &existing); err != nil {
		return false, err
	}
	*follow = existing
	return false, nil
}

// Delete permanently deletes the edge from userID to the user named authorUsername.
// If there is no such edge, it returns errs.ENOTFOUND.
func (fg *followGorm) Delete(ctx context.Context, userID int, authorUsername string) error {
	var follow domain.Follow
	db := fg.db.WithContext(ctx).
		Joins("JOIN users ON users.id = follows.author_id").
		Where("follows.user_id = ?", userID).
		Where("users.username = ?", authorUsername)
	if err := first(db, &follow); err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return errs.Errorf(errs.ENOTFOUND, "You don't follow this user.")
		}
		return err
	}
	return fg.db.WithContext(ctx).Delete(&domain.Follow{}, follow.ID).Error
}

// Exists reports whether userID follows authorID.
func (fg *followGorm) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	var count int64
	err := fg.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
