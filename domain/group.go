package domain

import (
	"context"
	"time"
)

// Group is a community that posts can optionally be tagged into.
// The Slug is its immutable identifier and appears in the group feed url.
type Group struct {
	ID          int    `json:"id"`
	Title       string `json:"title" gorm:"notNull;size:200"`
	Slug        string `json:"slug" gorm:"notNull;uniqueIndex"`
	Description string `json:"description"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:GroupID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String returns the group's title.
func (g *Group) String() string {
	return g.Title
}

// GroupService is a set of methods to manipulate and work with the Group model.
type GroupService interface {
	ByID(ctx context.Context, id int) (*Group, error)
	BySlug(ctx context.Context, slug string) (*Group, error)
	All(ctx context.Context) ([]Group, error)
	Create(ctx context.Context, group *Group) error
}
