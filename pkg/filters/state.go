// Package filters is the filter panel's state model and its conversions to
// and from the service's ExtractedEntities shape. Everything here is pure.
package filters

import (
	"slices"

	"github.com/rubiojr/trialsearch/pkg/trials"
)

// State mirrors trials.ExtractedEntities with defaulted fields. The zero
// value is the default (no filter active).
type State struct {
	Phase         *string
	Status        *string
	Condition     string
	Location      Location
	Sponsor       string
	Keyword       string
	AgeGroups     []string
	EnrollmentMin *int
	EnrollmentMax *int
}

type Location struct {
	City    string
	State   string
	Country string
}

// IsZero reports whether no location sub-field is set.
func (l Location) IsZero() bool {
	return l.City == "" && l.State == "" && l.Country == ""
}

// Default returns the all-empty filter state.
func Default() State {
	return State{}
}

// Equal compares two states field by field; nil and empty age group slices
// are equal.
func (s State) Equal(o State) bool {
	return eqPtr(s.Phase, o.Phase) &&
		eqPtr(s.Status, o.Status) &&
		s.Condition == o.Condition &&
		s.Location == o.Location &&
		s.Sponsor == o.Sponsor &&
		s.Keyword == o.Keyword &&
		slices.Equal(s.AgeGroups, o.AgeGroups) &&
		eqPtr(s.EnrollmentMin, o.EnrollmentMin) &&
		eqPtr(s.EnrollmentMax, o.EnrollmentMax)
}

// HasAgeGroup reports whether group is selected.
func (s State) HasAgeGroup(group string) bool {
	return slices.Contains(s.AgeGroups, group)
}

// ToggleAgeGroup returns a copy of s with group added or removed.
func (s State) ToggleAgeGroup(group string) State {
	out := s.clone()
	if i := slices.Index(out.AgeGroups, group); i >= 0 {
		out.AgeGroups = slices.Delete(out.AgeGroups, i, i+1)
		return out
	}
	out.AgeGroups = append(out.AgeGroups, group)
	return out
}

func (s State) clone() State {
	out := s
	out.AgeGroups = slices.Clone(s.AgeGroups)
	return out
}

// ToEntities converts the panel state into service entities. Empty and nil
// fields are omitted entirely, and only the first age group is kept since
// the service accepts a single one.
func ToEntities(s State) trials.ExtractedEntities {
	var e trials.ExtractedEntities
	if v := nonEmpty(s.Phase); v != nil {
		e.Phase = v
	}
	if v := nonEmpty(s.Status); v != nil {
		e.Status = v
	}
	e.Condition = strPtr(s.Condition)
	e.Sponsor = strPtr(s.Sponsor)
	e.Keyword = strPtr(s.Keyword)
	if !s.Location.IsZero() {
		e.Location = &trials.LocationFilter{
			City:    strPtr(s.Location.City),
			State:   strPtr(s.Location.State),
			Country: strPtr(s.Location.Country),
		}
	}
	if len(s.AgeGroups) > 0 && s.AgeGroups[0] != "" {
		e.AgeGroup = trials.Ptr(s.AgeGroups[0])
	}
	if s.EnrollmentMin != nil {
		e.EnrollmentMin = trials.Ptr(*s.EnrollmentMin)
	}
	if s.EnrollmentMax != nil {
		e.EnrollmentMax = trials.Ptr(*s.EnrollmentMax)
	}
	return e
}

// FromEntities builds a panel state from service entities, defaulting every
// absent field. A single age group becomes a one-element selection.
func FromEntities(e trials.ExtractedEntities) State {
	s := State{
		Phase:     nonEmpty(e.Phase),
		Status:    nonEmpty(e.Status),
		Condition: trials.Value(e.Condition),
		Sponsor:   trials.Value(e.Sponsor),
		Keyword:   trials.Value(e.Keyword),
	}
	if e.Location != nil {
		s.Location = Location{
			City:    trials.Value(e.Location.City),
			State:   trials.Value(e.Location.State),
			Country: trials.Value(e.Location.Country),
		}
	}
	if g := trials.Value(e.AgeGroup); g != "" {
		s.AgeGroups = []string{g}
	}
	if e.EnrollmentMin != nil {
		s.EnrollmentMin = trials.Ptr(*e.EnrollmentMin)
	}
	if e.EnrollmentMax != nil {
		s.EnrollmentMax = trials.Ptr(*e.EnrollmentMax)
	}
	return s
}

// CountActive counts the filter dimensions holding a non-default value.
// Location counts once no matter how many of its sub-fields are set.
func CountActive(s State) int {
	n := 0
	for _, set := range []bool{
		nonEmpty(s.Phase) != nil,
		nonEmpty(s.Status) != nil,
		s.Condition != "",
		!s.Location.IsZero(),
		s.Sponsor != "",
		s.Keyword != "",
		len(s.AgeGroups) > 0,
		s.EnrollmentMin != nil,
		s.EnrollmentMax != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
