package domain

import (
	"context"
	"time"
)

// Follow represents a self-referential many-to-many relationship between two users.
// A Follow is created when one user decides to follow another user.
// The UserID is the ID of the user that follows, and the AuthorID is the ID of the
// user that is being followed. A (UserID, AuthorID) pair exists at most once.
type Follow struct {
	ID       int  `json:"id"`
	UserID   int  `json:"-" gorm:"notNull;uniqueIndex:idx_follows_user_author"`
	User     User `json:"user"`
	AuthorID int  `json:"-" gorm:"notNull;uniqueIndex:idx_follows_user_author;index"`
	Author   User `json:"author"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	// GetOrCreate stores the follow unless the same edge already exists.
	// It reports whether a new edge was created.
	GetOrCreate(ctx context.Context, follow *Follow) (bool, error)
	// Delete removes the edge from userID to the author with the given username.
	// It fails with errs.ENOTFOUND if there is no such edge.
	Delete(ctx context.Context, userID int, authorUsername string) error
	Exists(ctx context.Context, userID, authorID int) (bool, error)
}
