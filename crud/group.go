package crud

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/domain"
	"yatube/errs"
)

// GroupService manages Groups.
// It implements the domain.GroupService interface.
type GroupService struct {
	groupValidator
}

// groupValidator runs validations on incoming Group data.
// On success, it passes the data on to groupGorm.
// Otherwise, it returns the error of the validation that has failed.
type groupValidator struct {
	slugRegex *regexp.Regexp
	groupGorm
}

// groupGorm runs CRUD operations on the database using incoming Group data.
// It assumes that data has been validated.
type groupGorm struct {
	db *gorm.DB
}

// NewGroupService returns an instance of GroupService.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{
		groupValidator{
			slugRegex: regexp.MustCompile(`^[-a-zA-Z0-9_]+$`),
			groupGorm: groupGorm{
				db: db,
			},
		},
	}
}

var _ domain.GroupService = &GroupService{}

// Create runs validations needed for creating new Group database records.
func (gv *groupValidator) Create(ctx context.Context, group *domain.Group) error {
	err := runGroupValFns(group,
		gv.titleRequired,
		gv.titleMaxLength,
		gv.slugFormat,
		gv.slugIsAvail(ctx))
	if err != nil {
		return err
	}
	return gv.groupGorm.Create(ctx, group)
}

func runGroupValFns(group *domain.Group, fns ...groupValFn) error {
	for _, fn := range fns {
		if err := fn(group); err != nil {
			return err
		}
	}
	return nil
}

type groupValFn func(group *domain.Group) error

func (gv *groupValidator) titleRequired(group *domain.Group) error {
	group.Title = strings.TrimSpace(group.Title)
	if group.Title == "" {
		return errs.Errorf(errs.EINVALID, "A group title is required.")
	}
	return nil
}

func (gv *groupValidator) titleMaxLength(group *domain.Group) error {
	if utf8.RuneCountInString(group.Title) > 200 {
		return errs.Errorf(errs.EINVALID, "The group title must not have more than 200 characters.")
	}
	return nil
}

// slugFormat makes sure the slug can be used as a single url path segment.
func (gv *groupValidator) slugFormat(group *domain.Group) error {
	if !gv.slugRegex.MatchString(group.Slug) {
		return errs.Errorf(errs.EINVALID, "The slug may only contain letters, digits, hyphens and underscores.")
	}
	return nil
}

func (gv *groupValidator) slugIsAvail(ctx context.Context) groupValFn {
	return func(group *domain.Group) error {
		_, err := gv.groupGorm.BySlug(ctx, group.Slug)
		if err == nil {
			return errs.Errorf(errs.ECONFLICT, "A group with that slug already exists.")
		}
		if errs.ErrorCode(err) != errs.ENOTFOUND {
			return err
		}
		return nil
	}
}

// ByID retrieves a Group database record by ID.
func (gg *groupGorm) ByID(ctx context.Context, id int) (*domain.Group, error) {
	var group domain.Group
	if err := first(gg.db.WithContext(ctx).Where("id = ?", id), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// BySlug retrieves a Group database record by its slug.
func (gg *groupGorm) BySlug(ctx context.Context, slug string) (*domain.Group, error) {
	var group domain.Group
	if err := first(gg.db.WithContext(ctx).Where("slug = ?", slug), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// All retrieves every group ordered by title, e.g. for the group choices of the post form.
func (gg *groupGorm) All(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := gg.db.WithContext(ctx).Order("title").Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Create stores the data from the Group object in a new database record.
func (gg *groupGorm) Create(ctx context.Context, group *domain.Group) error {
	return gg.db.WithContext(ctx).Omit(clause.Associations).Create(group).Error
}
