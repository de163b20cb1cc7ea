package trials

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Phase values accepted by the service.
const (
	PhaseNA     = "NA"
	Phase1      = "PHASE1"
	Phase1And2  = "PHASE1/PHASE2"
	Phase2      = "PHASE2"
	Phase2And3  = "PHASE2/PHASE3"
	Phase3      = "PHASE3"
	Phase4      = "PHASE4"
	PhaseNALong = "Phase NA"
)

// Status values accepted by the service.
const (
	StatusActiveNotRecruiting = "ACTIVE_NOT_RECRUITING"
	StatusCompleted           = "COMPLETED"
	StatusNotYetRecruiting    = "NOT_YET_RECRUITING"
	StatusRecruiting          = "RECRUITING"
	StatusSuspended           = "SUSPENDED"
	StatusTerminated          = "TERMINATED"
	StatusUnknown             = "UNKNOWN"
	StatusWithdrawn           = "WITHDRAWN"
)

// Age groups accepted by the service.
const (
	AgeAdult       = "adult"
	AgeOlderAdults = "older-adults"
	AgeChild       = "child"
	AgeAdolescent  = "adolescent"
	AgeInfant      = "infant"
	AgeToddler     = "toddler"
)

// Phases lists the phase choices offered by the filter panel.
var Phases = []string{Phase1, Phase1And2, Phase2, Phase2And3, Phase3, Phase4, PhaseNA}

// Statuses lists the status choices offered by the filter panel.
var Statuses = []string{
	StatusRecruiting,
	StatusNotYetRecruiting,
	StatusActiveNotRecruiting,
	StatusCompleted,
	StatusSuspended,
	StatusTerminated,
	StatusWithdrawn,
	StatusUnknown,
}

// AgeGroups lists the age group checkboxes in display order.
var AgeGroups = []string{AgeInfant, AgeToddler, AgeChild, AgeAdolescent, AgeAdult, AgeOlderAdults}

var titleCaser = cases.Title(language.English)

// FormatPhase renders a phase value for display: "PHASE3" becomes
// "Phase 3" and "PHASE1/PHASE2" becomes "Phase 1 / Phase 2".
func FormatPhase(phase string) string {
	switch phase {
	case "":
		return ""
	case PhaseNA:
		return "N/A"
	}
	parts := strings.Split(phase, "/")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if rest, ok := strings.CutPrefix(p, "PHASE"); ok {
			p = "Phase " + strings.TrimSpace(rest)
		}
		parts[i] = p
	}
	return strings.Join(parts, " / ")
}

// FormatStatus renders "ACTIVE_NOT_RECRUITING" as "Active Not Recruiting".
func FormatStatus(status string) string {
	if status == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(status, "_", " ")))
}

// FormatAgeGroup renders "older-adults" as "Older Adults".
func FormatAgeGroup(group string) string {
	if group == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(group, "-", " "))
}
