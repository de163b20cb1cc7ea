package trials

import (
	"sort"
	"strings"
)

// SearchResponse is the payload of the search and filter endpoints.
type SearchResponse struct {
	QueryInterpretation ExtractedEntities `json:"query_interpretation"`
	Results             []TrialResult     `json:"results"`
	Total               int               `json:"total"`
	Page                int               `json:"page"`
	PageSize            int               `json:"page_size"`
	Clarification       *string           `json:"clarification,omitempty"`
	Summary             *string           `json:"summary,omitempty"`
}

// TotalPages returns the number of pages needed for Total results.
func (r *SearchResponse) TotalPages() int {
	if r == nil || r.PageSize <= 0 || r.Total <= 0 {
		return 0
	}
	return (r.Total + r.PageSize - 1) / r.PageSize
}

// ClarificationText returns the clarification question or "".
func (r *SearchResponse) ClarificationText() string {
	if r == nil {
		return ""
	}
	if r.Clarification != nil && *r.Clarification != "" {
		return *r.Clarification
	}
	if c := r.QueryInterpretation.Clarification; c != nil {
		return *c
	}
	return ""
}

// TrialResult is one ranked trial. NCTID is globally unique and is the
// stable key for a result across renders.
type TrialResult struct {
	NCTID          string              `json:"nct_id"`
	BriefTitle     string              `json:"brief_title"`
	OfficialTitle  string              `json:"official_title,omitempty"`
	Phase          string              `json:"phase,omitempty"`
	OverallStatus  string              `json:"overall_status,omitempty"`
	Enrollment     *int                `json:"enrollment,omitempty"`
	Sponsors       []Sponsor           `json:"sponsors"`
	Facilities     []Facility          `json:"facilities"`
	Conditions     []map[string]string `json:"conditions"`
	Summary        string              `json:"brief_summaries_description,omitempty"`
	StartDate      string              `json:"start_date,omitempty"`
	CompletionDate string              `json:"completion_date,omitempty"`
	Age            []AgeCategory       `json:"age"`
	Gender         string              `json:"gender,omitempty"`
	StudyType      string              `json:"study_type,omitempty"`
	Source         string              `json:"source,omitempty"`
}

type Sponsor struct {
	Name               string `json:"name"`
	AgencyClass        string `json:"agency_class,omitempty"`
	LeadOrCollaborator string `json:"lead_or_collaborator,omitempty"`
}

type Facility struct {
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Status  string `json:"status,omitempty"`
}

type AgeCategory struct {
	AgeCategory string `json:"age_category"`
}

// Title returns the brief title, falling back to the official title and
// then the NCT id.
func (t TrialResult) Title() string {
	switch {
	case t.BriefTitle != "":
		return t.BriefTitle
	case t.OfficialTitle != "":
		return t.OfficialTitle
	}
	return t.NCTID
}

// PrimarySponsor returns the first sponsor's name, or "".
func (t TrialResult) PrimarySponsor() string {
	if len(t.Sponsors) == 0 {
		return ""
	}
	return t.Sponsors[0].Name
}

// ConditionTags flattens every condition mapping into display tags.
// Mappings keep their order; keys inside one mapping are visited sorted.
func (t TrialResult) ConditionTags() []string {
	var tags []string
	for _, m := range t.Conditions {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := strings.TrimSpace(m[k]); v != "" {
				tags = append(tags, v)
			}
		}
	}
	return tags
}

// AgeGroups returns the trial's age categories in order.
func (t TrialResult) AgeGroups() []string {
	groups := make([]string, 0, len(t.Age))
	for _, a := range t.Age {
		if a.AgeCategory != "" {
			groups = append(groups, a.AgeCategory)
		}
	}
	return groups
}

// Place joins the facility's city, state and country.
func (f Facility) Place() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{f.City, f.State, f.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ExtractedEntities is the structured interpretation of a query. Absent
// (nil) fields mean "no constraint"; an empty string is never sent.
type ExtractedEntities struct {
	Phase         *string         `json:"phase,omitempty"`
	Condition     *string         `json:"condition,omitempty"`
	Status        *string         `json:"status,omitempty"`
	Location      *LocationFilter `json:"location,omitempty"`
	Sponsor       *string         `json:"sponsor,omitempty"`
	Keyword       *string         `json:"keyword,omitempty"`
	AgeGroup      *string         `json:"age_group,omitempty"`
	EnrollmentMin *int            `json:"enrollment_min,omitempty"`
	EnrollmentMax *int            `json:"enrollment_max,omitempty"`
	Confidence    float64         `json:"confidence"`
	Clarification *string         `json:"clarification,omitempty"`
}

type LocationFilter struct {
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Country *string `json:"country,omitempty"`
}

// IsZero reports whether no sub-field carries a value.
func (l *LocationFilter) IsZero() bool {
	if l == nil {
		return true
	}
	return Value(l.City) == "" && Value(l.State) == "" && Value(l.Country) == ""
}

// String joins the set sub-fields with ", ".
func (l *LocationFilter) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []*string{l.City, l.State, l.Country} {
		if v := Value(p); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning "" for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
