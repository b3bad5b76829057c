package crud

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/domain"
	"yatube/errs"
)

// PostService manages Posts and assembles the paginated feeds built from them.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db        *gorm.DB
	paginator Paginator
}

// NewPostService returns an instance of PostService serving feed pages of pageSize posts.
func NewPostService(db *gorm.DB, pageSize int) (*PostService, error) {
	paginator, err := NewPaginator(pageSize)
	if err != nil {
		return nil, err
	}
	return &PostService{
		postValidator{
			postGorm{
				db:        db,
				paginator: paginator,
			},
		},
	}, nil
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(ctx context.Context, post *domain.Post) error {
	err := runPostValFns(post,
		pv.authorIdValid,
		pv.textRequired,
		pv.groupExists(ctx))
	if err != nil {
		return err
	}
	return pv.postGorm.Create(ctx, post)
}

// Update runs validations needed for updating an existing Post database record.
// Only the text, the group and the image can change, the author never does.
func (pv *postValidator) Update(ctx context.Context, post *domain.Post) error {
	err := runPostValFns(post,
		pv.idValid,
		pv.textRequired,
		pv.groupExists(ctx))
	if err != nil {
		return err
	}
	return pv.postGorm.Update(ctx, post)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn func(post *domain.Post) error

// authorIdValid ensures that the post has an author.
func (pv *postValidator) authorIdValid(post *domain.Post) error {
	if post.AuthorID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// idValid makes sure that the ID of a Post to be updated is greater than 0.
func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.IdInvalid
	}
	return nil
}

// textRequired makes sure that the post's text is not blank.
func (pv *postValidator) textRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Post text must not be empty.")
	}
	return nil
}

// groupExists makes sure that the group a post is tagged into actually exists.
// This check only runs if the post has a group.
func (pv *postValidator) groupExists(ctx context.Context) postValFn {
	return func(post *domain.Post) error {
		if post.GroupID == nil {
			return nil
		}
		var group domain.Group
		err := first(pv.db.WithContext(ctx).Where("id = ?", *post.GroupID), &group)
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return errs.Errorf(errs.EINVALID, "Select a valid group.")
		}
		return err
	}
}

// ByID retrieves a single Post by ID, along with its author and group.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (pg *postGorm) ByID(ctx context.Context, id int) (*domain.Post, error) {
	var post domain.Post
	db := pg.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id)
	if err := first(db, &post); err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// Page returns one page of the feed selected by the filter, newest posts first.
// The raw page number is normalized by the paginator, so Page never fails on bad input.
func (pg *postGorm) Page(ctx context.Context, filter domain.PostFilter, number string) (*domain.Page, error) {
	var count int64
	if err := pg.feed(ctx, filter).Count(&count).Error; err != nil {
		return nil, err
	}

	page := &domain.Page{
		Count:    int(count),
		NumPages: pg.paginator.NumPages(int(count)),
		Number:   pg.paginator.Number(number, int(count)),
	}
	offset, limit := pg.paginator.Bounds(page.Number)

	err := pg.feed(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at desc").
		Order("posts.id desc").
		Offset(offset).
		Limit(limit).
		Find(&page.Posts).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}

// feed builds the unordered query selecting the posts of a feed.
func (pg *postGorm) feed(ctx context.Context, filter domain.PostFilter) *gorm.DB {
	db := pg.db.WithContext(ctx).Model(&domain.Post{})
	if filter.GroupID != nil {
		db = db.Where("posts.group_id = ?", *filter.GroupID)
	}
	if filter.AuthorID != nil {
		db = db.Where("posts.author_id = ?", *filter.AuthorID)
	}
	if filter.FollowerID != nil {
		db = db.
			Joins("JOIN follows ON follows.author_id = posts.author_id").
			Where("follows.user_id = ?", *filter.FollowerID)
	}
	return db
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(ctx context.Context, post *domain.Post) error {
	return pg.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// Update saves the editable fields of the Post object to its database record.
func (pg *postGorm) Update(ctx context.Context, post *domain.Post) error {
	return pg.db.WithContext(ctx).
		Model(&domain.Post{ID: post.ID}).
		Omit(clause.Associations).
		Select("Text", "GroupID", "Image", "UpdatedAt").
		Updates(post).Error
}
