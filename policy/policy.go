// Package policy decides what happens to a request on a route that changes data,
// based only on who is asking and who owns the resource.
package policy

import "yatube/domain"

// Route identifies a guarded route.
type Route int

const (
	CreatePost Route = iota
	EditPost
	AddComment
	FollowAuthor
	UnfollowAuthor
	FollowFeed
)

func (r Route) String() string {
	switch r {
	case CreatePost:
		return "create post"
	case EditPost:
		return "edit post"
	case AddComment:
		return "add comment"
	case FollowAuthor:
		return "follow author"
	case UnfollowAuthor:
		return "unfollow author"
	case FollowFeed:
		return "follow feed"
	}
	return "unknown"
}

// Outcome is what a handler does with the request.
type Outcome int

const (
	// Proceed lets the handler do its work.
	Proceed Outcome = iota
	// RedirectLogin sends the viewer to the login page, returning to the requested uri afterwards.
	RedirectLogin
	// RedirectPost sends the viewer to the post's detail page without changing anything.
	RedirectPost
	// NoOp skips the work but answers as if it had succeeded.
	NoOp
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case RedirectLogin:
		return "redirect to login"
	case RedirectPost:
		return "redirect to post"
	case NoOp:
		return "no-op"
	}
	return "unknown"
}

// Decide returns the outcome of a request on route by viewer, nil for anonymous requests.
// ownerID is the author of the post for EditPost and the followed user for FollowAuthor,
// other routes ignore it. Anonymous viewers are always sent to log in, whatever the resource.
func Decide(route Route, viewer *domain.User, ownerID int) Outcome {
	if viewer == nil {
		return RedirectLogin
	}
	switch route {
	case EditPost:
		if viewer.ID != ownerID {
			return RedirectPost
		}
	case FollowAuthor:
		if viewer.ID == ownerID {
			return NoOp
		}
	}
	return Proceed
}
