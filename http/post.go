package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
	"yatube/policy"
)

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/", s.cached(s.handleIndex)).Methods("GET")
	r.HandleFunc("/group/{slug}/", s.handleGroup).Methods("GET")
	r.HandleFunc("/profile/{username}/", s.handleProfile).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}/", s.handlePostDetail).Methods("GET")
	r.HandleFunc("/create/", s.requireAuth(policy.CreatePost, s.handleCreatePost)).Methods("GET", "POST")
	r.HandleFunc("/posts/{id:[0-9]+}/edit/", s.requireAuth(policy.EditPost, s.handleEditPost)).Methods("GET", "POST")
	r.HandleFunc("/posts/{id:[0-9]+}/comment/", s.requireAuth(policy.AddComment, s.handleAddComment)).Methods("POST")
}

// feedData is what the feed pages are rendered with.
type feedData struct {
	Page  *domain.Page
	Group *domain.Group
	// Author and Following are only set on profile pages.
	Author    *domain.User
	Following bool
}

// handleIndex handles the route "GET /", the global feed.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.ps.Page(r.Context(), domain.PostFilter{}, r.URL.Query().Get("page"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", view{
		Title: "Latest updates",
		Data:  feedData{Page: page},
	})
}

// handleGroup handles the route "GET /group/:slug/", the feed of one group.
func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.gs.BySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		s.renderError(w, r, notFound(err, "The group does not exist."))
		return
	}
	page, err := s.ps.Page(r.Context(), domain.PostFilter{GroupID: &group.ID}, r.URL.Query().Get("page"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "group_list.html", view{
		Title: group.Title,
		Data:  feedData{Page: page, Group: group},
	})
}

// handleProfile handles the route "GET /profile/:username/", the feed of one author.
// It also tells whether the viewer follows the author.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	author, err := s.us.ByUsername(r.Context(), username)
	if err != nil {
		s.renderError(w, r, notFound(err, "The user does not exist."))
		return
	}
	page, err := s.ps.Page(r.Context(), domain.PostFilter{AuthorID: &author.ID}, r.URL.Query().Get("page"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	following := false
	if viewer := auth.GetUser(r.Context()); viewer != nil {
		following, err = s.fs.Exists(r.Context(), viewer.ID, author.ID)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	s.render(w, r, http.StatusOK, "profile.html", view{
		Title: "Profile of " + author.Username,
		Data:  feedData{Page: page, Author: author, Following: following},
	})
}

type postDetailData struct {
	Post     *domain.Post
	Comments []domain.Comment
	Form     commentForm
	// CanEdit is true if the viewer is the post's author.
	CanEdit bool
}

// handlePostDetail handles the route "GET /posts/:id/".
func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := s.postFromPath(w, r)
	if !ok {
		return
	}
	comments, err := s.cs.ByPost(r.Context(), post.ID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	viewer := auth.GetUser(r.Context())
	s.render(w, r, http.StatusOK, "post_detail.html", view{
		Title: "Post " + post.String(),
		Data: postDetailData{
			Post:     post,
			Comments: comments,
			Form:     commentForm{Errors: fieldErrors{}},
			CanEdit:  viewer != nil && viewer.ID == post.AuthorID,
		},
	})
}

type postFormData struct {
	Form   postForm
	IsEdit bool
	Post   *domain.Post
}

// handleCreatePost handles the route "/create/". A valid POST stores the post
// with the viewer as author and redirects to the viewer's profile.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	groups, err := s.gs.All(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "create_post.html", view{
			Title: "New post",
			Data:  postFormData{Form: postForm{Groups: groups, Errors: fieldErrors{}}},
		})
		return
	}

	post := domain.Post{AuthorID: user.ID}
	form, err := s.bindPost(r, &post)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if form.Errors.Valid() {
		err = s.ps.Create(r.Context(), &post)
		if err == nil {
			http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
			return
		}
		if post.Image != "" {
			s.discardImage(r, post.Image)
		}
		if err := form.Errors.AddErr(nonFieldErrors, err); err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	form.Groups = groups
	s.render(w, r, http.StatusOK, "create_post.html", view{
		Title: "New post",
		Data:  postFormData{Form: form},
	})
}

// handleEditPost handles the route "/posts/:id/edit/". Only the post's author may edit it,
// everybody else is sent back to the post. A valid POST redirects to the post as well.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.postFromPath(w, r)
	if !ok {
		return
	}
	user := auth.GetUser(r.Context())
	if policy.Decide(policy.EditPost, user, post.AuthorID) == policy.RedirectPost {
		http.Redirect(w, r, postURL(post.ID), http.StatusFound)
		return
	}
	groups, err := s.gs.All(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		form := postForm{Text: post.Text, Image: post.Image, Groups: groups, Errors: fieldErrors{}}
		if post.GroupID != nil {
			form.Group = strconv.Itoa(*post.GroupID)
		}
		s.render(w, r, http.StatusOK, "create_post.html", view{
			Title: "Edit post",
			Data:  postFormData{Form: form, IsEdit: true, Post: post},
		})
		return
	}

	edited := domain.Post{ID: post.ID, AuthorID: post.AuthorID, Image: post.Image}
	form, err := s.bindPost(r, &edited)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if form.Errors.Valid() {
		err = s.ps.Update(r.Context(), &edited)
		if err == nil {
			http.Redirect(w, r, postURL(post.ID), http.StatusFound)
			return
		}
		if edited.Image != post.Image {
			s.discardImage(r, edited.Image)
		}
		if err := form.Errors.AddErr(nonFieldErrors, err); err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	form.Groups = groups
	form.Image = post.Image
	s.render(w, r, http.StatusOK, "create_post.html", view{
		Title: "Edit post",
		Data:  postFormData{Form: form, IsEdit: true, Post: post},
	})
}

// bindPost reads the submitted post form into post. The uploaded image, if any, is only
// stored once all fields are valid. Invalid input ends up in the returned form's errors,
// the error return is reserved for failures that aren't the user's fault.
func (s *Server) bindPost(r *http.Request, post *domain.Post) (postForm, error) {
	if err := parseForm(r); err != nil {
		form := postForm{Errors: fieldErrors{}}
		form.Errors.Add(nonFieldErrors, "The submitted form could not be read.")
		return form, nil
	}
	form := parsePostForm(r)
	form.Errors = check(form)

	post.Text = form.Text
	post.GroupID = nil
	if form.Group != "" && form.Errors["group"] == nil {
		id, _ := strconv.Atoi(form.Group)
		group, err := s.gs.ByID(r.Context(), id)
		switch {
		case errs.ErrorCode(err) == errs.ENOTFOUND:
			form.Errors.Add("group", "Select a valid choice.")
		case err != nil:
			return form, err
		default:
			post.GroupID = &group.ID
		}
	}
	if !form.Errors.Valid() {
		return form, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		form.Errors.Add("image", "The submitted file could not be read.")
		return form, nil
	}
	defer file.Close()

	img := domain.Image{File: file, Filename: header.Filename}
	if err := s.is.Create(&img); err != nil {
		return form, form.Errors.AddErr("image", err)
	}
	post.Image = img.Name()
	return form, nil
}

// discardImage removes the image stored for a post that could not be saved.
func (s *Server) discardImage(r *http.Request, name string) {
	if err := s.is.Delete(&domain.Image{Filename: name}); err != nil {
		errs.LogError(r, err)
	}
}

// handleAddComment handles the route "POST /posts/:id/comment/". Invalid comments are
// dropped, the viewer is redirected to the post either way.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	post, ok := s.postFromPath(w, r)
	if !ok {
		return
	}
	if err := parseForm(r); err != nil {
		http.Redirect(w, r, postURL(post.ID), http.StatusFound)
		return
	}
	form := parseCommentForm(r)
	if check(form).Valid() {
		comment := domain.Comment{
			Text:     form.Text,
			PostID:   post.ID,
			AuthorID: auth.GetUser(r.Context()).ID,
		}
		if err := s.cs.Create(r.Context(), &comment); err != nil {
			s.renderError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, postURL(post.ID), http.StatusFound)
}

// postFromPath loads the post whose id is in the url. If that fails, the error page
// is rendered and false is returned.
func (s *Server) postFromPath(w http.ResponseWriter, r *http.Request) (*domain.Post, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.renderError(w, r, errs.Errorf(errs.ENOTFOUND, "The post does not exist."))
		return nil, false
	}
	post, err := s.ps.ByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return nil, false
	}
	return post, true
}

// notFound replaces the message of a not found error.
func notFound(err error, msg string) error {
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		return errs.Errorf(errs.ENOTFOUND, msg)
	}
	return err
}
