package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
	"yatube/policy"
)

const rememberCookie = "remember_token"

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/auth/signup/", s.handleSignup).Methods("GET", "POST")
	r.HandleFunc("/auth/login/", s.handleLogin).Methods("GET", "POST")
	r.HandleFunc("/auth/logout/", s.handleLogout).Methods("GET", "POST")
}

// handleSignup handles the route "/auth/signup/". A valid POST creates the user,
// signs them in and redirects to the index page.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "signup.html", view{
			Title: "Sign up",
			Data:  signupForm{Errors: fieldErrors{}},
		})
		return
	}
	if err := parseForm(r); err != nil {
		s.renderError(w, r, errs.Errorf(errs.EINVALID, "The submitted form could not be read."))
		return
	}

	form := parseSignupForm(r)
	form.Errors = check(form)
	if form.Errors.Valid() {
		user := domain.User{
			Username: form.Username,
			Email:    form.Email,
			Password: form.Password,
		}
		err := s.us.Create(r.Context(), &user)
		if err == nil {
			if err := s.signIn(w, r.Context(), &user); err != nil {
				s.renderError(w, r, err)
				return
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if err := form.Errors.AddErr(nonFieldErrors, err); err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	form.Password = ""
	s.render(w, r, http.StatusOK, "signup.html", view{Title: "Sign up", Data: form})
}

// handleLogin handles the route "/auth/login/". A valid POST signs the user in and
// redirects to the local path in the "next" parameter, or to the index page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "login.html", view{
			Title: "Log in",
			Data:  loginForm{Next: r.URL.Query().Get("next"), Errors: fieldErrors{}},
		})
		return
	}
	if err := parseForm(r); err != nil {
		s.renderError(w, r, errs.Errorf(errs.EINVALID, "The submitted form could not be read."))
		return
	}

	form := parseLoginForm(r)
	form.Errors = check(form)
	if form.Errors.Valid() {
		user, err := s.us.Authenticate(r.Context(), form.Username, form.Password)
		if err == nil {
			if err := s.signIn(w, r.Context(), user); err != nil {
				s.renderError(w, r, err)
				return
			}
			http.Redirect(w, r, safeNext(form.Next), http.StatusFound)
			return
		}
		if err := form.Errors.AddErr(nonFieldErrors, err); err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	form.Password = ""
	s.render(w, r, http.StatusOK, "login.html", view{Title: "Log in", Data: form})
}

// handleLogout handles the route "/auth/logout/". It expires the cookie and rotates
// the user's remember token, which ends every session of the user.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.isProd,
	})
	if user := auth.GetUser(r.Context()); user != nil {
		token, err := s.us.MakeRememberToken()
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		user.Remember = token
		if err := s.us.Update(r.Context(), user); err != nil {
			s.renderError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// signIn signs the given user in via cookies. A new remember token is
// created if the user object doesn't carry one.
func (s *Server) signIn(w http.ResponseWriter, ctx context.Context, user *domain.User) error {
	if user.Remember == "" {
		token, err := s.us.MakeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err = s.us.Update(ctx, user); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookie,
		Value:    user.Remember,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProd,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// The checkUser middleware looks up the user belonging to the request's remember token
// cookie and puts them into the request context. Requests without a valid cookie stay anonymous.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(rememberCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByRemember(r.Context(), cookie.Value)
		if err != nil {
			if errs.ErrorCode(err) != errs.ENOTFOUND {
				errs.LogError(r, err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.SetUser(r.Context(), user)))
	})
}

// requireAuth sends anonymous requests for route to the login page, before
// any resource the route works on is looked up.
func (s *Server) requireAuth(route policy.Route, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if policy.Decide(route, auth.GetUser(r.Context()), 0) == policy.RedirectLogin {
			http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r)
	}
}

// loginURL returns the login page url that returns to uri after logging in.
func loginURL(uri string) string {
	return "/auth/login/?next=" + strings.ReplaceAll(url.QueryEscape(uri), "%2F", "/")
}

// safeNext returns next if it's a path on this site, "/" otherwise.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
