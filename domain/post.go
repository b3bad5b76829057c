package domain

import (
	"context"
	"time"
)

// Post is the main content of the app. It always belongs to its Author, who is set once on
// creation and never reassigned. It optionally belongs to a Group and optionally carries an
// Image, stored as the image's name relative to the media root (e.g. "posts/cat.png").
type Post struct {
	ID       int    `json:"id"`
	Text     string `json:"text" gorm:"notNull"`
	AuthorID int    `json:"author_id" gorm:"notNull;index"`
	Author   User   `json:"author"`
	GroupID  *int   `json:"group_id" gorm:"index"`
	Group    *Group `json:"group,omitempty"`
	Image    string `json:"image"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String returns the first 15 characters of the post's text.
func (p *Post) String() string {
	r := []rune(p.Text)
	if len(r) > 15 {
		return string(r[:15])
	}
	return p.Text
}

// PostFilter narrows down the posts of a feed. A nil field means no restriction. FollowerID
// selects the posts of all authors the given user follows.
type PostFilter struct {
	GroupID    *int
	AuthorID   *int
	FollowerID *int
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	ByID(ctx context.Context, id int) (*Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	// Page returns the requested page of the feed described by the filter, newest posts first.
	// The raw page number comes straight from the query string and is normalized, see Page.
	Page(ctx context.Context, filter PostFilter, number string) (*Page, error)
}
