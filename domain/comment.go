package domain

import (
	"context"
	"time"
)

// Comment is a reply of a User to a Post. Comments are never edited.
type Comment struct {
	ID       int    `json:"id"`
	Text     string `json:"text" gorm:"notNull"`
	PostID   int    `json:"post_id" gorm:"notNull;index"`
	AuthorID int    `json:"author_id" gorm:"notNull;index"`
	Author   User   `json:"author"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	Create(ctx context.Context, comment *Comment) error
	ByPost(ctx context.Context, postID int) ([]Comment, error)
}
