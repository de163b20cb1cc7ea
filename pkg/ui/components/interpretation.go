package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/trialsearch/pkg/filters"
	"github.com/rubiojr/trialsearch/pkg/trials"
)

var chipColors = map[filters.Kind]lipgloss.TerminalColor{
	filters.KindPhase:      colorAccent,
	filters.KindCondition:  colorPurple,
	filters.KindStatus:     colorSuccess,
	filters.KindLocation:   colorOrange,
	filters.KindSponsor:    colorTeal,
	filters.KindKeyword:    colorPink,
	filters.KindAgeGroup:   colorWarning,
	filters.KindEnrollment: colorInfo,
}

// ChipColor returns the palette entry for kind, neutral for kinds without
// one.
func ChipColor(kind filters.Kind) lipgloss.TerminalColor {
	if c, ok := chipColors[kind]; ok {
		return c
	}
	return colorNeutral
}

// QueryInterpretation lists how the service understood the query, one
// removable chip per constraint.
type QueryInterpretation struct {
	chips      []filters.Chip
	confidence float64
	selected   int
}

func NewQueryInterpretation(e trials.ExtractedEntities) QueryInterpretation {
	return QueryInterpretation{chips: filters.Chips(e), confidence: e.Confidence}
}

func (q QueryInterpretation) Chips() []filters.Chip { return q.chips }
func (q QueryInterpretation) Selected() int         { return q.selected }
func (q QueryInterpretation) Empty() bool           { return len(q.chips) == 0 }

func (q QueryInterpretation) Update(msg tea.Msg) (QueryInterpretation, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(q.chips) == 0 {
		return q, nil
	}
	switch key.String() {
	case "left", "h":
		q.selected = (q.selected - 1 + len(q.chips)) % len(q.chips)
	case "right", "l":
		q.selected = (q.selected + 1) % len(q.chips)
	case "backspace", "delete", "x", "enter":
		return q, emit(ChipRemovedMsg{Kind: q.chips[q.selected].Kind})
	}
	return q, nil
}

func (q QueryInterpretation) View(width int, focused bool) string {
	if q.Empty() {
		return ""
	}
	rendered := make([]string, 0, len(q.chips)+2)
	rendered = append(rendered, mutedStyle.Render("Understood:"))
	for i, c := range q.chips {
		style := lipgloss.NewStyle().
			Foreground(ChipColor(c.Kind)).
			Border(lipgloss.RoundedBorder(), false, true).
			BorderForeground(ChipColor(c.Kind))
		label := c.String() + " ✕"
		if focused && i == q.selected {
			style = style.Bold(true).Reverse(true)
		}
		rendered = append(rendered, style.Render(label))
	}
	if q.confidence > 0 {
		rendered = append(rendered, mutedStyle.Render(fmt.Sprintf("(%.0f%% confidence)", q.confidence*100)))
	}
	return wrapInline(rendered, width)
}

// wrapInline lays out items left to right, starting a new line when the
// next item would overflow width.
func wrapInline(items []string, width int) string {
	var lines []string
	var line []string
	used := 0
	for _, item := range items {
		w := lipgloss.Width(item)
		if used > 0 && used+1+w > width {
			lines = append(lines, strings.Join(line, " "))
			line, used = nil, 0
		}
		if used > 0 {
			used++
		}
		line = append(line, item)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}
