package http

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"yatube/auth"
	"yatube/cache"
	"yatube/crud"
	"yatube/domain"
)

// ServerConfig holds the settings the http layer needs from the app's configuration.
type ServerConfig struct {
	// IsProd marks cookies as secure and makes csrf protection require https.
	IsProd bool
	// CSRFKey is the 32 byte key for gorilla/csrf. CSRF protection is off when it's empty.
	CSRFKey string
	// StateKey signs the oauth state tokens.
	StateKey string
	// CacheTTL is how long a cached page of the global feed stays valid.
	CacheTTL time.Duration
	// MediaRoot is the folder uploaded images are served from.
	MediaRoot string
}

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router  *mux.Router
	handler http.Handler

	us domain.UserService
	gs domain.GroupService
	ps domain.PostService
	cs domain.CommentService
	fs domain.FollowService
	is domain.ImageService
	os domain.OAuthService

	github    *oauth2.Config
	stateKey  []byte
	isProd    bool
	cache     cache.Store
	cacheTTL  time.Duration
	mediaRoot string
	templates templates
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the crud services passed in.
// github may be nil, which disables logging in with GitHub.
func NewServer(cfg ServerConfig, github *oauth2.Config, services *crud.Services, store cache.Store) (*Server, error) {
	tpls, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    mux.NewRouter(),
		us:        services.User,
		gs:        services.Group,
		ps:        services.Post,
		cs:        services.Comment,
		fs:        services.Follow,
		is:        services.Image,
		os:        services.OAuth,
		github:    github,
		stateKey:  []byte(cfg.StateKey),
		isProd:    cfg.IsProd,
		cache:     store,
		cacheTTL:  cfg.CacheTTL,
		mediaRoot: cfg.MediaRoot,
		templates: tpls,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerOAuthRoutes(s.router)

	// Register routes of the blog.
	s.registerPostRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerAboutRoutes(s.router)
	s.registerMediaRoutes(s.router)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	// Middleware wraps the whole router rather than being registered with router.Use,
	// so that it also runs for requests that don't match any route.
	var h http.Handler = s.checkUser(s.router)
	if cfg.CSRFKey != "" {
		h = csrf.Protect(
			[]byte(cfg.CSRFKey),
			csrf.Secure(cfg.IsProd),
			csrf.Path("/"),
			csrf.FieldName("csrfmiddlewaretoken"),
			csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
		)(h)
	}
	s.handler = requestID(logRequests(h))
	return s, nil
}

// ServeHTTP makes the Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("[http] listening on %s", srv.Addr)
	log.Fatal(srv.ListenAndServe())
}

// registerMediaRoutes serves uploaded images. Directory listings are not served.
func (s *Server) registerMediaRoutes(r *mux.Router) {
	files := http.StripPrefix(domain.MediaURL, http.FileServer(http.Dir(s.mediaRoot)))
	r.PathPrefix(domain.MediaURL).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			s.handleNotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})).Methods("GET", "HEAD")
}

// The requestID middleware tags every request with a unique id. The id is put into
// the request context, the request header and the response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-Id", id)
		}
		w.Header().Set("X-Request-Id", id)
		r = r.WithContext(auth.SetRequestID(r.Context(), id))
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// The logRequests middleware writes one log line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[http] %s %s %d %s [%s]",
			r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Microsecond), auth.GetRequestID(r.Context()))
	})
}
