package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rubiojr/trialsearch/pkg/trials"
)

// StatusCategory groups trial statuses for coloring.
type StatusCategory string

const (
	StatusActive   StatusCategory = "active"
	StatusOngoing  StatusCategory = "ongoing"
	StatusDone     StatusCategory = "done"
	StatusUpcoming StatusCategory = "upcoming"
	StatusStopped  StatusCategory = "stopped"
	StatusPaused   StatusCategory = "paused"
	StatusNeutral  StatusCategory = "neutral"
)

var statusCategories = map[string]StatusCategory{
	trials.StatusRecruiting:          StatusActive,
	trials.StatusActiveNotRecruiting: StatusOngoing,
	trials.StatusCompleted:           StatusDone,
	trials.StatusNotYetRecruiting:    StatusUpcoming,
	trials.StatusTerminated:          StatusStopped,
	trials.StatusWithdrawn:           StatusStopped,
	trials.StatusSuspended:           StatusPaused,
}

var categoryColors = map[StatusCategory]lipgloss.TerminalColor{
	StatusActive:   colorSuccess,
	StatusOngoing:  colorInfo,
	StatusDone:     colorMuted,
	StatusUpcoming: colorWarning,
	StatusStopped:  colorError,
	StatusPaused:   colorOrange,
}

// CategoryForStatus returns the status's color category. Unknown and
// empty statuses are neutral.
func CategoryForStatus(status string) StatusCategory {
	if c, ok := statusCategories[status]; ok {
		return c
	}
	return StatusNeutral
}

func (c StatusCategory) color() lipgloss.TerminalColor {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return colorNeutral
}

const (
	maxCardTags       = 4
	maxCardFacilities = 5
	titleTail         = "…"
)

// ResultCard shows one trial, collapsed to its headline facts or expanded
// with the summary, dates and sites.
type ResultCard struct {
	Trial    trials.TrialResult
	Rank     int
	Expanded bool
}

func (c *ResultCard) Toggle() { c.Expanded = !c.Expanded }

// View renders the card at width columns.
func (c ResultCard) View(width int, focused, highlighted bool) string {
	style := cardStyle
	switch {
	case highlighted:
		style = cardHighlightStyle
	case focused:
		style = cardFocusedStyle
	}
	inner := max(width-style.GetHorizontalFrameSize(), 20)

	t := c.Trial
	var b strings.Builder

	head := fmt.Sprintf("%d. %s", c.Rank, t.Title())
	if c.Expanded {
		b.WriteString(titleStyle.Render(wordwrap.String(head, inner)))
	} else {
		b.WriteString(titleStyle.Render(truncate.StringWithTail(head, uint(inner), titleTail)))
	}
	b.WriteString("\n")

	meta := []string{mutedStyle.Render(t.NCTID)}
	if phase := trials.FormatPhase(t.Phase); phase != "" {
		meta = append(meta, accentStyle.Render(phase))
	}
	if t.OverallStatus != "" {
		meta = append(meta, badge(trials.FormatStatus(t.OverallStatus), CategoryForStatus(t.OverallStatus).color()))
	}
	if t.Enrollment != nil {
		meta = append(meta, mutedStyle.Render(fmt.Sprintf("%d enrolled", *t.Enrollment)))
	}
	b.WriteString(strings.Join(meta, "  "))

	if sponsor := t.PrimarySponsor(); sponsor != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Sponsor: ") + truncate.StringWithTail(sponsor, uint(max(inner-9, 1)), titleTail))
	}

	if tags := t.ConditionTags(); len(tags) > 0 {
		shown := tags[:min(len(tags), maxCardTags)]
		rendered := make([]string, len(shown))
		for i, tag := range shown {
			rendered[i] = tagStyle.Render("#" + tag)
		}
		line := strings.Join(rendered, "")
		if extra := len(tags) - len(shown); extra > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" +%d more", extra))
		}
		b.WriteString("\n")
		b.WriteString(line)
	}

	if c.Expanded {
		b.WriteString(c.details(inner))
	}

	return style.Width(width - style.GetHorizontalBorderSize()).Render(b.String())
}

func (c ResultCard) details(width int) string {
	t := c.Trial
	var b strings.Builder

	if t.Summary != "" {
		b.WriteString("\n\n")
		b.WriteString(wordwrap.String(strings.Join(strings.Fields(t.Summary), " "), width))
	}

	var facts []string
	if t.StartDate != "" || t.CompletionDate != "" {
		facts = append(facts, fmt.Sprintf("Dates: %s → %s", orDash(t.StartDate), orDash(t.CompletionDate)))
	}
	if groups := t.AgeGroups(); len(groups) > 0 {
		labels := make([]string, len(groups))
		for i, g := range groups {
			labels[i] = trials.FormatAgeGroup(g)
		}
		facts = append(facts, "Ages: "+strings.Join(labels, ", "))
	}
	if t.Gender != "" {
		facts = append(facts, "Sex: "+trials.FormatStatus(t.Gender))
	}
	if t.StudyType != "" {
		facts = append(facts, "Type: "+trials.FormatStatus(t.StudyType))
	}
	if len(facts) > 0 {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(strings.Join(facts, "\n")))
	}

	if len(t.Facilities) > 0 {
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("Locations (%d)", len(t.Facilities))))
		for _, f := range t.Facilities[:min(len(t.Facilities), maxCardFacilities)] {
			line := f.Name
			if place := f.Place(); place != "" {
				if line != "" {
					line += " · "
				}
				line += place
			}
			b.WriteString("\n  " + truncate.StringWithTail(line, uint(max(width-2, 1)), titleTail))
		}
		if extra := len(t.Facilities) - maxCardFacilities; extra > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("\n  and %d more", extra)))
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
