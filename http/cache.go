package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"yatube/auth"
	"yatube/errs"
)

// cachedResponse is a response as it's kept in the page cache.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// cachedHeaders are the response headers stored along with a cached page.
var cachedHeaders = []string{"Content-Type"}

// responseRecorder captures a response while passing it on to the client.
type responseRecorder struct {
	http.ResponseWriter
	status int
	header http.Header
	body   bytes.Buffer
}

func (rr *responseRecorder) WriteHeader(code int) {
	if rr.status == 0 {
		rr.status = code
		rr.header = rr.ResponseWriter.Header().Clone()
	}
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.status == 0 {
		rr.WriteHeader(http.StatusOK)
	}
	rr.body.Write(b)
	return rr.ResponseWriter.Write(b)
}

// cached serves GET requests from the page cache. Pages are keyed by their uri, which
// includes the page number, and by the viewer, since every page shows who's logged in.
// Only successful responses are stored. A failing cache store never fails the request.
func (s *Server) cached(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cache == nil || r.Method != http.MethodGet {
			next(w, r)
			return
		}
		key := pageKey(r)

		data, ok, err := s.cache.Get(r.Context(), key)
		if err != nil {
			errs.LogError(r, err)
		}
		if ok {
			var resp cachedResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				for k, v := range resp.Header {
					if w.Header().Get(k) == "" {
						w.Header()[k] = v
					}
				}
				w.WriteHeader(resp.Status)
				w.Write(resp.Body)
				return
			}
		}

		rec := &responseRecorder{ResponseWriter: w}
		next(rec, r)
		if rec.status != http.StatusOK {
			return
		}
		// Only the body and its type are shared. Cookies, the request id and the like
		// belong to the request that filled the cache.
		header := http.Header{}
		for _, k := range cachedHeaders {
			if v := rec.header.Values(k); len(v) > 0 {
				header[k] = v
			}
		}
		data, err = json.Marshal(cachedResponse{Status: rec.status, Header: header, Body: rec.body.Bytes()})
		if err != nil {
			errs.LogError(r, err)
			return
		}
		if err := s.cache.Set(r.Context(), key, data, s.cacheTTL); err != nil {
			errs.LogError(r, err)
		}
	}
}

func pageKey(r *http.Request) string {
	viewer := 0
	if user := auth.GetUser(r.Context()); user != nil {
		viewer = user.ID
	}
	return "page:" + r.URL.RequestURI() + "|" + strconv.Itoa(viewer)
}
