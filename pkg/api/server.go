package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/trialsearch/pkg/log"
)

// Options tune the stub service for demos and tests.
type Options struct {
	// Latency delays every API response, making loading states visible.
	Latency time.Duration
	// FailOn makes search, filter and summary requests whose query or
	// condition equals this value answer 500.
	FailOn string
}

// Server answers the search service endpoints from a fixed Dataset.
type Server struct {
	dataset *Dataset
	opts    Options
	logger  *log.Logger
}

func NewServer(dataset *Dataset, opts Options) *Server {
	return &Server{
		dataset: dataset,
		opts:    opts,
		logger:  log.ForService("api"),
	}
}

// Handler returns the routed, gzip-capable handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return gzhttp.GzipHandler(CorsMiddleware(s.logRequests(mux)))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugf("%s %s (%s) request=%s", r.Method, r.URL.RequestURI(), time.Since(start).Round(time.Millisecond), r.Header.Get("X-Request-ID"))
	})
}

func (s *Server) delay(r *http.Request) bool {
	if s.opts.Latency <= 0 {
		return true
	}
	select {
	case <-time.After(s.opts.Latency):
		return true
	case <-r.Context().Done():
		return false
	}
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
