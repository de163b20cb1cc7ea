package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rubiojr/trialsearch/pkg/trials"
	"github.com/rubiojr/trialsearch/pkg/version"
)

const (
	defaultPageSize  = 10
	maxPageSize      = 100
	maxSuggestions   = 10
	minSuggestPrefix = 2
	summaryCites     = 3
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.PathValue("query"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query", "A search query is required")
		return
	}
	page, pageSize, err := parsePage(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid pagination", err.Error())
		return
	}
	if !s.delay(r) {
		return
	}
	if s.failing(query) {
		s.writeError(w, http.StatusInternalServerError, "Search failed", "search backend unavailable")
		return
	}

	entities := s.dataset.Interpret(query)
	s.writeJSON(w, http.StatusOK, s.respond(entities, page, pageSize))
}

func (s *Server) HandleFilter(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, pageSize, err := parsePage(params)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid pagination", err.Error())
		return
	}
	entities, err := DecodeEntities(params)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid filter", err.Error())
		return
	}
	if !s.delay(r) {
		return
	}
	if s.failing(trials.Value(entities.Condition)) {
		s.writeError(w, http.StatusInternalServerError, "Filter failed", "search backend unavailable")
		return
	}

	entities.Confidence = 1
	s.writeJSON(w, http.StatusOK, s.respond(entities, page, pageSize))
}

func (s *Server) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	limit := maxSuggestions
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			s.writeError(w, http.StatusUnprocessableEntity, "Invalid limit", fmt.Sprintf("limit must be between 1 and 50, got %q", v))
			return
		}
		limit = n
	}
	suggestions := []string{}
	if utf8.RuneCountInString(prefix) < minSuggestPrefix {
		s.writeJSON(w, http.StatusOK, SuggestionResponse{Suggestions: suggestions})
		return
	}

	for _, t := range s.dataset.Trials {
		for _, candidate := range append(t.ConditionTags(), t.Title()) {
			c := strings.ToLower(candidate)
			if strings.HasPrefix(c, prefix) && !slices.Contains(suggestions, c) {
				suggestions = append(suggestions, c)
			}
		}
	}
	slices.Sort(suggestions)
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	s.writeJSON(w, http.StatusOK, SuggestionResponse{Suggestions: suggestions})
}

func (s *Server) HandleSummary(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.PathValue("query"))
	if !s.delay(r) {
		return
	}
	if query == "" || s.failing(query) {
		s.writeError(w, http.StatusInternalServerError, "Summary failed", "summary backend unavailable")
		return
	}

	matched := s.dataset.Match(s.dataset.Interpret(query))
	s.writeJSON(w, http.StatusOK, SummaryResponse{Summary: summarize(query, matched)})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Trials:    len(s.dataset.Trials),
	}

	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) failing(query string) bool {
	return s.opts.FailOn != "" && strings.EqualFold(strings.TrimSpace(query), s.opts.FailOn)
}

func (s *Server) respond(entities trials.ExtractedEntities, page, pageSize int) trials.SearchResponse {
	matched := s.dataset.Match(entities)
	// Pages past the end are empty; checking the page first keeps the
	// offset from overflowing.
	start := len(matched)
	if page-1 <= len(matched)/pageSize {
		start = min((page-1)*pageSize, len(matched))
	}
	end := min(start+pageSize, len(matched))

	results := matched[start:end]
	if results == nil {
		results = []trials.TrialResult{}
	}
	return trials.SearchResponse{
		QueryInterpretation: entities,
		Results:             results,
		Total:               len(matched),
		Page:                page,
		PageSize:            pageSize,
		Clarification:       entities.Clarification,
	}
}

// summarize writes a short overview citing up to three results with
// 1-based [n] markers. It returns nil when nothing matched.
func summarize(query string, matched []trials.TrialResult) *string {
	if len(matched) == 0 {
		return nil
	}
	var b strings.Builder
	noun := "trials"
	if len(matched) == 1 {
		noun = "trial"
	}
	fmt.Fprintf(&b, "Found %d %s related to %q.", len(matched), noun, query)
	for i, t := range matched[:min(summaryCites, len(matched))] {
		lead := " Also see"
		if i == 0 {
			lead = " The most relevant is"
		}
		fmt.Fprintf(&b, "%s %s", lead, t.Title())
		if details := nonEmpty(trials.FormatPhase(t.Phase), trials.FormatStatus(t.OverallStatus)); len(details) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
		}
		fmt.Fprintf(&b, " [%d].", i+1)
	}
	summary := b.String()
	return &summary
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parsePage(params url.Values) (page, pageSize int, err error) {
	page, pageSize = 1, defaultPageSize
	if v := params.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer, got %q", v)
		}
	}
	if v := params.Get("page_size"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, fmt.Errorf("page_size must be between 1 and %d, got %q", maxPageSize, v)
		}
	}
	return page, pageSize, nil
}

// DecodeEntities reads the filter endpoint's query parameters. location is
// a JSON object with optional city, state and country.
func DecodeEntities(params url.Values) (trials.ExtractedEntities, error) {
	var e trials.ExtractedEntities
	get := func(key string) *string {
		if v := strings.TrimSpace(params.Get(key)); v != "" {
			return &v
		}
		return nil
	}
	e.Phase = get("phase")
	e.Condition = get("condition")
	e.Status = get("status")
	e.Sponsor = get("sponsor")
	e.Keyword = get("keyword")
	e.AgeGroup = get("age_group")

	for key, dst := range map[string]**int{"enrollment_min": &e.EnrollmentMin, "enrollment_max": &e.EnrollmentMax} {
		v := params.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return e, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
		}
		*dst = &n
	}

	if v := params.Get("location"); v != "" {
		var loc trials.LocationFilter
		if err := json.Unmarshal([]byte(v), &loc); err != nil {
			return e, fmt.Errorf("location must be a JSON object: %w", err)
		}
		if !loc.IsZero() {
			e.Location = &loc
		}
	}
	return e, nil
}
