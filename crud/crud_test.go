package crud

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yatube/domain"
)

// newTestServices returns services running on a fresh in-memory sqlite database.
func newTestServices(t *testing.T, pageSize int) *Services {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("err opening test database: %v", err)
	}
	// Every new connection to ":memory:" gets its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s, err := NewServices(db,
		WithUser("test-pepper", "test-hmac-key"),
		WithOAuth(),
		WithGroup(),
		WithPost(pageSize),
		WithComment(),
		WithFollow(),
		WithImage(t.TempDir()),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AutoMigrate(); err != nil {
		t.Fatalf("err migrating test database: %v", err)
	}
	return s
}

func createUser(t *testing.T, s *Services, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Password: "password123"}
	if err := s.User.Create(context.Background(), user); err != nil {
		t.Fatalf("err creating user %s: %v", username, err)
	}
	return user
}

func createGroup(t *testing.T, s *Services, slug string) *domain.Group {
	t.Helper()
	group := &domain.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	if err := s.Group.Create(context.Background(), group); err != nil {
		t.Fatalf("err creating group %s: %v", slug, err)
	}
	return group
}

// createPosts creates n posts one minute apart, oldest first.
func createPosts(t *testing.T, s *Services, author *domain.User, group *domain.Group, n int) []domain.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]domain.Post, 0, n)
	for i := 0; i < n; i++ {
		post := domain.Post{
			Text:      fmt.Sprintf("post %d", i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if group != nil {
			post.GroupID = &group.ID
		}
		if err := s.Post.Create(context.Background(), &post); err != nil {
			t.Fatalf("err creating post: %v", err)
		}
		posts = append(posts, post)
	}
	return posts
}
