package policy

import (
	"testing"

	"yatube/domain"
)

func TestDecide(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice"}

	tests := []struct {
		route   Route
		viewer  *domain.User
		ownerID int
		want    Outcome
	}{
		{CreatePost, nil, 0, RedirectLogin},
		{CreatePost, alice, 0, Proceed},

		{EditPost, nil, 1, RedirectLogin},
		{EditPost, nil, 0, RedirectLogin},
		{EditPost, alice, 2, RedirectPost},
		{EditPost, alice, 1, Proceed},

		{AddComment, nil, 2, RedirectLogin},
		{AddComment, alice, 2, Proceed},
		{AddComment, alice, 1, Proceed},

		{FollowAuthor, nil, 2, RedirectLogin},
		{FollowAuthor, alice, 2, Proceed},
		{FollowAuthor, alice, 1, NoOp},

		{UnfollowAuthor, nil, 2, RedirectLogin},
		{UnfollowAuthor, alice, 2, Proceed},

		{FollowFeed, nil, 0, RedirectLogin},
		{FollowFeed, alice, 0, Proceed},
	}

	for _, tt := range tests {
		name := "anonymous"
		if tt.viewer != nil {
			name = tt.viewer.Username
		}
		t.Run(tt.route.String()+"/"+name, func(t *testing.T) {
			if got := Decide(tt.route, tt.viewer, tt.ownerID); got != tt.want {
				t.Errorf("Decide(%s, %s, %d) = %s, want %s", tt.route, name, tt.ownerID, got, tt.want)
			}
		})
	}
}
