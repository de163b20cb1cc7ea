package filters

import (
	"fmt"

	"github.com/rubiojr/trialsearch/pkg/trials"
)

// Kind names one removable interpreted field.
type Kind string

const (
	KindPhase      Kind = "phase"
	KindCondition  Kind = "condition"
	KindStatus     Kind = "status"
	KindLocation   Kind = "location"
	KindSponsor    Kind = "sponsor"
	KindKeyword    Kind = "keyword"
	KindAgeGroup   Kind = "age_group"
	KindEnrollment Kind = "enrollment"
)

// Kinds lists every chip kind in display order.
var Kinds = []Kind{KindPhase, KindCondition, KindStatus, KindLocation, KindSponsor, KindKeyword, KindAgeGroup, KindEnrollment}

// Chip is one interpreted field shown as a removable tag.
type Chip struct {
	Kind  Kind
	Label string
	Value string
}

func (c Chip) String() string {
	return c.Label + ": " + c.Value
}

// Label returns the human label for a kind.
func (k Kind) Label() string {
	switch k {
	case KindPhase:
		return "Phase"
	case KindCondition:
		return "Condition"
	case KindStatus:
		return "Status"
	case KindLocation:
		return "Location"
	case KindSponsor:
		return "Sponsor"
	case KindKeyword:
		return "Keyword"
	case KindAgeGroup:
		return "Age group"
	case KindEnrollment:
		return "Enrollment"
	}
	return string(k)
}

// Chips lists one chip per non-empty interpreted field, in Kinds order.
func Chips(e trials.ExtractedEntities) []Chip {
	var chips []Chip
	add := func(k Kind, v string) {
		if v != "" {
			chips = append(chips, Chip{Kind: k, Label: k.Label(), Value: v})
		}
	}
	add(KindPhase, trials.FormatPhase(trials.Value(e.Phase)))
	add(KindCondition, trials.Value(e.Condition))
	add(KindStatus, trials.FormatStatus(trials.Value(e.Status)))
	add(KindLocation, e.Location.String())
	add(KindSponsor, trials.Value(e.Sponsor))
	add(KindKeyword, trials.Value(e.Keyword))
	add(KindAgeGroup, trials.FormatAgeGroup(trials.Value(e.AgeGroup)))
	add(KindEnrollment, enrollmentRange(e.EnrollmentMin, e.EnrollmentMax))
	return chips
}

func enrollmentRange(lo, hi *int) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%d-%d", *lo, *hi)
	case lo != nil:
		return fmt.Sprintf("≥ %d", *lo)
	case hi != nil:
		return fmt.Sprintf("≤ %d", *hi)
	}
	return ""
}

// Clear returns a copy of s with the field(s) behind kind reset to their
// default. Unknown kinds leave s unchanged.
func Clear(s State, kind Kind) State {
	out := s.clone()
	switch kind {
	case KindPhase:
		out.Phase = nil
	case KindStatus:
		out.Status = nil
	case KindCondition:
		out.Condition = ""
	case KindSponsor:
		out.Sponsor = ""
	case KindKeyword:
		out.Keyword = ""
	case KindLocation:
		out.Location = Location{}
	case KindAgeGroup:
		out.AgeGroups = nil
	case KindEnrollment:
		out.EnrollmentMin = nil
		out.EnrollmentMax = nil
	}
	return out
}
