package crud

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/domain"
	"yatube/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(ctx context.Context, comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.authorIdValid,
		cv.textRequired,
		cv.commentedPostExists(ctx))
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(ctx, comment)
}

func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

type commentValFn func(comment *domain.Comment) error

func (cv *commentValidator) authorIdValid(comment *domain.Comment) error {
	if comment.AuthorID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

func (cv *commentValidator) textRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Comment text must not be empty.")
	}
	return nil
}

// commentedPostExists makes sure that the post to be commented on actually exists.
func (cv *commentValidator) commentedPostExists(ctx context.Context) commentValFn {
	return func(comment *domain.Comment) error {
		var post domain.Post
		err := first(cv.db.WithContext(ctx).Where("id = ?", comment.PostID), &post)
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return errs.Errorf(errs.ENOTFOUND, "The commented post does not exist.")
		}
		return err
	}
}

// ByPost retrieves the comments of a post along with their authors, newest first.
func (cg *commentGorm) ByPost(ctx context.Context, postID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := cg.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at desc").
		Order("id desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(ctx context.Context, comment *domain.Comment) error {
	return cg.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}
