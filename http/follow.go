package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/domain"
	"yatube/policy"
)

func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/follow/", s.requireAuth(policy.FollowFeed, s.handleFollowIndex)).Methods("GET")
	r.HandleFunc("/profile/{username}/follow/", s.requireAuth(policy.FollowAuthor, s.handleFollow)).Methods("GET", "POST")
	r.HandleFunc("/profile/{username}/unfollow/", s.requireAuth(policy.UnfollowAuthor, s.handleUnfollow)).Methods("GET", "POST")
}

// handleFollowIndex handles the route "GET /follow/", the feed of all authors the viewer follows.
func (s *Server) handleFollowIndex(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	page, err := s.ps.Page(r.Context(), domain.PostFilter{FollowerID: &user.ID}, r.URL.Query().Get("page"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "follow.html", view{
		Title: "Your subscriptions",
		Data:  feedData{Page: page},
	})
}

// handleFollow handles the route "/profile/:username/follow/". Following an author twice
// changes nothing, following oneself is silently ignored.
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	author, err := s.us.ByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.renderError(w, r, notFound(err, "The user does not exist."))
		return
	}
	if policy.Decide(policy.FollowAuthor, user, author.ID) == policy.Proceed {
		follow := domain.Follow{UserID: user.ID, AuthorID: author.ID}
		if _, err := s.fs.GetOrCreate(r.Context(), &follow); err != nil {
			s.renderError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}

// handleUnfollow handles the route "/profile/:username/unfollow/".
// Unfollowing an author the viewer doesn't follow is a not found error.
func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	username := mux.Vars(r)["username"]
	if err := s.fs.Delete(r.Context(), user.ID, username); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(username), http.StatusFound)
}
