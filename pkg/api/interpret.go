package api

import (
	"regexp"
	"slices"
	"strings"

	"github.com/rubiojr/trialsearch/pkg/trials"
)

// The stub's query interpretation is deliberately naive: a few regular
// expressions and keyword tables, enough to exercise every chip kind.

var (
	phasePattern   = regexp.MustCompile(`(?i)\bphase\s*([1-4])(?:\s*/\s*(?:phase\s*)?([1-4]))?\b`)
	sponsorPattern = regexp.MustCompile(`(?i)\bsponsored\s+by\s+(.+)$`)
	spaces         = regexp.MustCompile(`\s+`)
)

var statusWords = []struct {
	phrase string
	status string
}{
	{"not yet recruiting", trials.StatusNotYetRecruiting},
	{"active not recruiting", trials.StatusActiveNotRecruiting},
	{"recruiting", trials.StatusRecruiting},
	{"completed", trials.StatusCompleted},
	{"terminated", trials.StatusTerminated},
	{"withdrawn", trials.StatusWithdrawn},
	{"suspended", trials.StatusSuspended},
}

var ageWords = []struct {
	word  string
	group string
}{
	{"older adults", trials.AgeOlderAdults},
	{"elderly", trials.AgeOlderAdults},
	{"pediatric", trials.AgeChild},
	{"children", trials.AgeChild},
	{"adolescents", trials.AgeAdolescent},
	{"adolescent", trials.AgeAdolescent},
	{"infants", trials.AgeInfant},
}

var stopWords = map[string]bool{
	"trial": true, "trials": true, "study": true, "studies": true,
	"for": true, "in": true, "the": true, "of": true, "with": true, "and": true,
}

// ambiguous maps bare conditions to the follow-up question the service asks.
var ambiguous = map[string]string{
	"cancer":   "Did you mean lung cancer or breast cancer?",
	"diabetes": `Which type are you looking for: "type 1 diabetes" or "type 2 diabetes"?`,
}

// Interpret turns a free-text query into entities using the dataset's
// facility cities as the location vocabulary.
func (d *Dataset) Interpret(query string) trials.ExtractedEntities {
	var e trials.ExtractedEntities
	rest := " " + strings.ToLower(strings.TrimSpace(query)) + " "
	found := 0

	if m := phasePattern.FindStringSubmatch(rest); m != nil {
		phase := "PHASE" + m[1]
		if m[2] != "" {
			phase += "/PHASE" + m[2]
		}
		e.Phase = trials.Ptr(phase)
		rest = strings.Replace(rest, m[0], " ", 1)
		found++
	}

	if m := sponsorPattern.FindStringSubmatch(strings.TrimSpace(rest)); m != nil {
		e.Sponsor = trials.Ptr(strings.TrimSpace(m[1]))
		rest = strings.Replace(rest, m[0], " ", 1)
		found++
	}

	for _, sw := range statusWords {
		if strings.Contains(rest, " "+sw.phrase+" ") {
			e.Status = trials.Ptr(sw.status)
			rest = strings.Replace(rest, " "+sw.phrase+" ", " ", 1)
			found++
			break
		}
	}

	for _, aw := range ageWords {
		if strings.Contains(rest, " "+aw.word+" ") {
			e.AgeGroup = trials.Ptr(aw.group)
			rest = strings.Replace(rest, " "+aw.word+" ", " ", 1)
			found++
			break
		}
	}

	for _, city := range d.cities() {
		needle := " in " + strings.ToLower(city) + " "
		if strings.Contains(rest, needle) {
			e.Location = &trials.LocationFilter{City: trials.Ptr(city)}
			rest = strings.Replace(rest, needle, " ", 1)
			found++
			break
		}
	}

	var words []string
	for _, w := range strings.Fields(rest) {
		if !stopWords[w] {
			words = append(words, w)
		}
	}
	if condition := spaces.ReplaceAllString(strings.Join(words, " "), " "); condition != "" {
		e.Condition = trials.Ptr(condition)
		found++
		if q, ok := ambiguous[condition]; ok {
			e.Clarification = trials.Ptr(q)
		}
	}

	switch {
	case found == 0:
		e.Confidence = 0.3
	case e.Clarification != nil:
		e.Confidence = 0.5
	case found == 1:
		e.Confidence = 0.7
	default:
		e.Confidence = 0.9
	}
	return e
}

func (d *Dataset) cities() []string {
	var out []string
	for _, t := range d.Trials {
		for _, f := range t.Facilities {
			if f.City != "" && !slices.Contains(out, f.City) {
				out = append(out, f.City)
			}
		}
	}
	return out
}

func matches(t trials.TrialResult, e trials.ExtractedEntities) bool {
	if v := trials.Value(e.Phase); v != "" && !strings.EqualFold(t.Phase, v) {
		return false
	}
	if v := trials.Value(e.Status); v != "" && !strings.EqualFold(t.OverallStatus, v) {
		return false
	}
	if v := trials.Value(e.Condition); v != "" && !containsAny(v, append(t.ConditionTags(), t.Title())...) {
		return false
	}
	if v := trials.Value(e.Sponsor); v != "" {
		names := make([]string, len(t.Sponsors))
		for i, s := range t.Sponsors {
			names[i] = s.Name
		}
		if !containsAny(v, names...) {
			return false
		}
	}
	if v := trials.Value(e.Keyword); v != "" && !containsAny(v, append(t.ConditionTags(), t.BriefTitle, t.OfficialTitle, t.Summary)...) {
		return false
	}
	if v := trials.Value(e.AgeGroup); v != "" && !slices.Contains(t.AgeGroups(), v) {
		return false
	}
	if !e.Location.IsZero() && !slices.ContainsFunc(t.Facilities, func(f trials.Facility) bool { return facilityMatches(f, e.Location) }) {
		return false
	}
	if e.EnrollmentMin != nil && (t.Enrollment == nil || *t.Enrollment < *e.EnrollmentMin) {
		return false
	}
	if e.EnrollmentMax != nil && (t.Enrollment == nil || *t.Enrollment > *e.EnrollmentMax) {
		return false
	}
	return true
}

func facilityMatches(f trials.Facility, l *trials.LocationFilter) bool {
	check := func(want *string, have string) bool {
		v := trials.Value(want)
		return v == "" || strings.Contains(strings.ToLower(have), strings.ToLower(v))
	}
	return check(l.City, f.City) && check(l.State, f.State) && check(l.Country, f.Country)
}

// containsAny reports whether needle occurs case-insensitively in any of
// the haystacks.
func containsAny(needle string, haystacks ...string) bool {
	needle = strings.ToLower(needle)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
