package domain

import (
	"context"
	"time"
)

// User represents a registered author. Users are identified by their unique Username, which also
// appears in profile urls. Password and Remember only live in memory: the database stores their
// bcrypt hash and HMAC hash respectively.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username" gorm:"notNull;uniqueIndex;size:150"`
	Email        string `json:"email"`
	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"notNull;uniqueIndex"`

	// NoPasswordNeeded is set for users signing up through an oauth provider.
	NoPasswordNeeded bool `json:"-" gorm:"-"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String returns the username.
func (u *User) String() string {
	return u.Username
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(ctx context.Context, id int) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	ByRemember(ctx context.Context, token string) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	MakeRememberToken() (string, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
