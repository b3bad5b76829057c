package crud

import (
	"gorm.io/gorm"
	"yatube/domain"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db      *gorm.DB
	User    *UserService
	Group   *GroupService
	Post    *PostService
	Comment *CommentService
	Follow  *FollowService
	Image   *ImageService
	OAuth   *OAuthService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// AutoMigrate runs database migrations for all tables.
func (s *Services) AutoMigrate() error {
	return s.db.AutoMigrate(models()...)
}

// DestructiveReset drops all tables and rebuilds them.
func (s *Services) DestructiveReset() error {
	if err := s.db.Migrator().DropTable(models()...); err != nil {
		return err
	}
	return s.AutoMigrate()
}

// models lists every model that has a database table, in dependency order.
func models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.OAuth{},
		&domain.Group{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Follow{},
	}
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser(pepper, hmacKey string) ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db, pepper, hmacKey)
		return nil
	}
}

// WithOAuth wraps the constructor of OAuthService, NewOAuthService.
func WithOAuth() ServicesConfig {
	return func(s *Services) error {
		s.OAuth = NewOAuthService(s.db)
		return nil
	}
}

// WithGroup wraps the constructor of GroupService, NewGroupService.
func WithGroup() ServicesConfig {
	return func(s *Services) error {
		s.Group = NewGroupService(s.db)
		return nil
	}
}

// WithPost wraps the constructor of PostService, NewPostService.
// pageSize is the number of posts on a feed page, fixed for the lifetime of the process.
func WithPost(pageSize int) ServicesConfig {
	return func(s *Services) error {
		ps, err := NewPostService(s.db, pageSize)
		if err != nil {
			return err
		}
		s.Post = ps
		return nil
	}
}

// WithComment wraps the constructor of CommentService, NewCommentService.
func WithComment() ServicesConfig {
	return func(s *Services) error {
		s.Comment = NewCommentService(s.db)
		return nil
	}
}

// WithFollow wraps the constructor of FollowService, NewFollowService.
func WithFollow() ServicesConfig {
	return func(s *Services) error {
		s.Follow = NewFollowService(s.db)
		return nil
	}
}

// WithImage wraps the constructor of ImageService, NewImageService.
func WithImage(mediaRoot string) ServicesConfig {
	return func(s *Services) error {
		s.Image = NewImageService(mediaRoot)
		return nil
	}
}
