package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
)

const oauthStateCookie = "oauth_state"

// githubUserURL is where the profile of the GitHub user owning an access token is fetched from.
var githubUserURL = "https://api.github.com/user"

func (s *Server) registerOAuthRoutes(r *mux.Router) {
	r.HandleFunc("/auth/github/", s.handleGithubLogin).Methods("GET")
	r.HandleFunc("/auth/github/callback/", s.handleGithubCallback).Methods("GET")
}

// oauthState is the payload of the state parameter of the oauth flow.
type oauthState struct {
	Next string `json:"next"`
	jwt.RegisteredClaims
}

// makeState returns a signed state token that expires after ten minutes.
func (s *Server) makeState(next string, now time.Time) (string, error) {
	claims := oauthState{
		Next: next,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.stateKey)
}

// parseState verifies a state token and returns its payload.
func (s *Server) parseState(raw string) (*oauthState, error) {
	claims := &oauthState{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.stateKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// handleGithubLogin handles the route "GET /auth/github/". It sends the user to GitHub's
// consent page. The state travels along and is also kept in a cookie, so the callback
// can tell it was started from this browser.
func (s *Server) handleGithubLogin(w http.ResponseWriter, r *http.Request) {
	if s.github == nil {
		s.handleNotFound(w, r)
		return
	}
	state, err := s.makeState(safeNext(r.URL.Query().Get("next")), time.Now())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/github/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   s.isProd,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// handleGithubCallback handles the route "GET /auth/github/callback/". It exchanges the code
// for a token, looks up the GitHub account and signs in the user linked to it. Unknown
// accounts get linked to the logged in user, or to a new user named after the GitHub login.
func (s *Server) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	if s.github == nil {
		s.handleNotFound(w, r)
		return
	}
	ctx := r.Context()

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value != r.FormValue("state") {
		s.renderError(w, r, errs.Errorf(errs.EINVALID, "Invalid oauth state."))
		return
	}
	state, err := s.parseState(cookie.Value)
	if err != nil {
		s.renderError(w, r, errs.Errorf(errs.EINVALID, "Invalid oauth state."))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/auth/github/", MaxAge: -1})

	token, err := s.github.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		s.renderError(w, r, errs.Errorf(errs.EINVALID, "GitHub login failed."))
		return
	}
	gu, err := s.fetchGithubUser(ctx, token)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	providerUserID := strconv.FormatInt(gu.ID, 10)

	oauth, err := s.os.ByProviderUserID(ctx, domain.OAuthProviderGithub, providerUserID)
	if err != nil && errs.ErrorCode(err) != errs.ENOTFOUND {
		s.renderError(w, r, err)
		return
	}

	var user *domain.User
	if oauth != nil {
		oauth.AccessToken = token.AccessToken
		oauth.RefreshToken = token.RefreshToken
		oauth.Expiry = token.Expiry
		if err := s.os.Update(ctx, oauth); err != nil {
			s.renderError(w, r, err)
			return
		}
		if user, err = s.us.ByID(ctx, oauth.UserID); err != nil {
			s.renderError(w, r, err)
			return
		}
	} else {
		user = auth.GetUser(ctx)
		if user == nil {
			if user, err = s.createGithubUser(r, gu); err != nil {
				s.renderError(w, r, err)
				return
			}
		}
		oauth = &domain.OAuth{
			UserID:         user.ID,
			Provider:       domain.OAuthProviderGithub,
			ProviderUserID: providerUserID,
			AccessToken:    token.AccessToken,
			RefreshToken:   token.RefreshToken,
			Expiry:         token.Expiry,
		}
		if err := s.os.Create(ctx, oauth); err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	if err := s.signIn(w, ctx, user); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, safeNext(state.Next), http.StatusFound)
}

// fetchGithubUser fetches the profile of the GitHub user the token belongs to.
func (s *Server) fetchGithubUser(ctx context.Context, token *oauth2.Token) (*githubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubUserURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.github.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user api returned %s", resp.Status)
	}
	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, err
	}
	if gu.ID == 0 || gu.Login == "" {
		return nil, fmt.Errorf("github user api returned an incomplete user")
	}
	return &gu, nil
}

// createGithubUser creates the local user for a GitHub account. The user is named after the
// GitHub login, or after login and account id if that name is already taken.
func (s *Server) createGithubUser(r *http.Request, gu *githubUser) (*domain.User, error) {
	username := gu.Login
	_, err := s.us.ByUsername(r.Context(), username)
	if err == nil {
		username = fmt.Sprintf("%s-%d", gu.Login, gu.ID)
	} else if errs.ErrorCode(err) != errs.ENOTFOUND {
		return nil, err
	}
	user := &domain.User{
		Username:         username,
		Email:            gu.Email,
		NoPasswordNeeded: true,
	}
	if err := s.us.Create(r.Context(), user); err != nil {
		return nil, err
	}
	return user, nil
}
