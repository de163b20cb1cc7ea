package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search/{query}", s.HandleSearch)
	mux.HandleFunc("GET /api/filter", s.HandleFilter)
	mux.HandleFunc("GET /api/suggest", s.HandleSuggest)
	mux.HandleFunc("GET /api/summary/{query}", s.HandleSummary)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
