package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) registerAboutRoutes(r *mux.Router) {
	r.HandleFunc("/about/author/", s.static("about_author.html", "About the author")).Methods("GET")
	r.HandleFunc("/about/tech/", s.static("about_tech.html", "Technologies")).Methods("GET")
}

// static returns a handler rendering a page that needs no data.
func (s *Server) static(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, page, view{Title: title})
	}
}
