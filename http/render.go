package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/gorilla/csrf"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
)

//go:embed templates
var templateFS embed.FS

// templates maps page names, e.g. "index.html", to their parsed template set.
// Every set contains the shared layout and the page itself.
type templates map[string]*template.Template

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"mediaURL": func(name string) string {
		return domain.MediaURL + name
	},
	"profileURL": profileURL,
	"postURL":    postURL,
	"groupURL":   groupURL,
	"pageURL": func(number int) string {
		return "?page=" + fmt.Sprint(number)
	},
}

func parseTemplates() (templates, error) {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	tpls := make(templates, len(pages))
	for _, page := range pages {
		t, err := template.New(path.Base(page)).
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout/*.html", page)
		if err != nil {
			return nil, fmt.Errorf("err parsing template %s: %w", page, err)
		}
		tpls[path.Base(page)] = t
	}
	return tpls, nil
}

// view is the data every page is rendered with. Data holds the page specific part.
type view struct {
	Title     string
	User      *domain.User
	CSRFField template.HTML
	Data      interface{}
}

// render executes the named page template into a buffer and only then writes
// the response, so that a failing template never produces half a page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	t, ok := s.templates[page]
	if !ok {
		errs.LogError(r, fmt.Errorf("unknown template %s", page))
		http.Error(w, "Internal error.", http.StatusInternalServerError)
		return
	}
	v.User = auth.GetUser(r.Context())
	v.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		errs.LogError(r, fmt.Errorf("err executing template %s: %w", page, err))
		http.Error(w, "Internal error.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type errorData struct {
	Status  int
	Message string
}

// renderError renders the error page with the status belonging to err's code.
// Messages of internal errors are never shown to the user.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	errs.LogError(r, err)
	code := errs.ErrorCode(err)
	status := errs.StatusCode(code)
	s.render(w, r, status, "error.html", view{
		Title: http.StatusText(status),
		Data:  errorData{Status: status, Message: errs.ErrorMessage(err)},
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, errs.Errorf(errs.ENOTFOUND, "The page you requested does not exist."))
}

func (s *Server) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, errs.Errorf(errs.EFORBIDDEN, "CSRF verification failed. Request aborted."))
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id int) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func groupURL(slug string) string {
	return "/group/" + url.PathEscape(slug) + "/"
}
