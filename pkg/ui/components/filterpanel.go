package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rubiojr/trialsearch/pkg/filters"
	"github.com/rubiojr/trialsearch/pkg/trials"
)

type filterField int

const (
	fieldPhase filterField = iota
	fieldStatus
	fieldCondition
	fieldCity
	fieldState
	fieldCountry
	fieldSponsor
	fieldKeyword
	fieldAgeGroups
	fieldEnrollmentMin
	fieldEnrollmentMax
	fieldApply
	fieldClear
	fieldCount
)

var textFields = []filterField{
	fieldCondition, fieldCity, fieldState, fieldCountry, fieldSponsor, fieldKeyword, fieldEnrollmentMin, fieldEnrollmentMax,
}

var fieldLabels = map[filterField]string{
	fieldCondition:     "Condition",
	fieldCity:          "City",
	fieldState:         "State",
	fieldCountry:       "Country",
	fieldSponsor:       "Sponsor",
	fieldKeyword:       "Keyword",
	fieldEnrollmentMin: "Enrollment ≥",
	fieldEnrollmentMax: "Enrollment ≤",
}

// FilterPanel edits a filters.State by hand. It is collapsible; while
// expanded, up/down move between fields and each field handles its own
// keys. Apply and Clear report back through FiltersAppliedMsg and
// FiltersClearedMsg.
type FilterPanel struct {
	expanded bool
	focused  bool
	field    filterField

	phase  Dropdown
	status Dropdown
	inputs [fieldCount]textinput.Model

	ageGroups []string
	ageCursor int

	problem string
}

func NewFilterPanel() FilterPanel {
	p := FilterPanel{
		phase:  NewDropdown("Phase", trials.Phases, trials.FormatPhase),
		status: NewDropdown("Status", trials.Statuses, trials.FormatStatus),
	}
	for _, f := range textFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 24
		ti.CharLimit = 120
		if f == fieldEnrollmentMin || f == fieldEnrollmentMax {
			ti.CharLimit = 9
			ti.Placeholder = "any"
		}
		p.inputs[f] = ti
	}
	return p
}

// SetState replaces every field with the values in s.
func (p *FilterPanel) SetState(s filters.State) {
	p.phase.SetValue(s.Phase)
	p.status.SetValue(s.Status)
	p.inputs[fieldCondition].SetValue(s.Condition)
	p.inputs[fieldCity].SetValue(s.Location.City)
	p.inputs[fieldState].SetValue(s.Location.State)
	p.inputs[fieldCountry].SetValue(s.Location.Country)
	p.inputs[fieldSponsor].SetValue(s.Sponsor)
	p.inputs[fieldKeyword].SetValue(s.Keyword)
	p.inputs[fieldEnrollmentMin].SetValue(intText(s.EnrollmentMin))
	p.inputs[fieldEnrollmentMax].SetValue(intText(s.EnrollmentMax))
	p.ageGroups = append([]string(nil), s.AgeGroups...)
	p.problem = ""
}

// State reads the current field values.
func (p FilterPanel) State() filters.State {
	text := func(f filterField) string { return strings.TrimSpace(p.inputs[f].Value()) }
	return filters.State{
		Phase:     p.phase.Value(),
		Status:    p.status.Value(),
		Condition: text(fieldCondition),
		Location: filters.Location{
			City:    text(fieldCity),
			State:   text(fieldState),
			Country: text(fieldCountry),
		},
		Sponsor:       text(fieldSponsor),
		Keyword:       text(fieldKeyword),
		AgeGroups:     append([]string(nil), p.ageGroups...),
		EnrollmentMin: parseCount(text(fieldEnrollmentMin)),
		EnrollmentMax: parseCount(text(fieldEnrollmentMax)),
	}
}

func (p FilterPanel) Expanded() bool { return p.expanded }

func (p *FilterPanel) SetExpanded(v bool) {
	p.expanded = v
	if !v {
		p.Blur()
	}
}

func (p *FilterPanel) Toggle() { p.SetExpanded(!p.expanded) }

// Focus gives the panel keyboard focus, expanding it.
func (p *FilterPanel) Focus() tea.Cmd {
	p.expanded = true
	p.focused = true
	return p.focusField(p.field)
}

func (p *FilterPanel) Blur() {
	p.focused = false
	p.phase.Close()
	p.status.Close()
	for _, f := range textFields {
		p.inputs[f].Blur()
	}
}

func (p *FilterPanel) focusField(f filterField) tea.Cmd {
	p.phase.Close()
	p.status.Close()
	for _, tf := range textFields {
		p.inputs[tf].Blur()
	}
	p.field = f
	if isTextField(f) {
		return p.inputs[f].Focus()
	}
	return nil
}

func isTextField(f filterField) bool {
	for _, tf := range textFields {
		if tf == f {
			return true
		}
	}
	return false
}

func (p FilterPanel) clearDisabled() bool {
	return filters.CountActive(p.State()) == 0
}

func (p FilterPanel) Update(msg tea.Msg) (FilterPanel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.focused && isTextField(p.field) {
			var cmd tea.Cmd
			p.inputs[p.field], cmd = p.inputs[p.field].Update(msg)
			return p, cmd
		}
		return p, nil
	}
	if !p.focused {
		return p, nil
	}

	switch p.field {
	case fieldPhase:
		if p.phase.IsOpen() {
			p.phase, _ = p.phase.Update(key)
			return p, nil
		}
	case fieldStatus:
		if p.status.IsOpen() {
			p.status, _ = p.status.Update(key)
			return p, nil
		}
	}

	switch key.Type {
	case tea.KeyUp:
		cmd := p.focusField((p.field - 1 + fieldCount) % fieldCount)
		return p, cmd
	case tea.KeyDown:
		cmd := p.focusField((p.field + 1) % fieldCount)
		return p, cmd
	}

	switch p.field {
	case fieldPhase:
		p.phase, _ = p.phase.Update(key)
	case fieldStatus:
		p.status, _ = p.status.Update(key)
	case fieldAgeGroups:
		switch key.String() {
		case "left", "h":
			p.ageCursor = (p.ageCursor - 1 + len(trials.AgeGroups)) % len(trials.AgeGroups)
		case "right", "l":
			p.ageCursor = (p.ageCursor + 1) % len(trials.AgeGroups)
		case " ", "x":
			s := filters.State{AgeGroups: p.ageGroups}.ToggleAgeGroup(trials.AgeGroups[p.ageCursor])
			p.ageGroups = s.AgeGroups
		case "enter":
			cmd := p.apply()
			return p, cmd
		}
	case fieldApply:
		if key.Type == tea.KeyEnter || key.String() == " " {
			cmd := p.apply()
			return p, cmd
		}
	case fieldClear:
		if key.Type == tea.KeyEnter || key.String() == " " {
			cmd := p.clear()
			return p, cmd
		}
	default:
		if key.Type == tea.KeyEnter {
			cmd := p.apply()
			return p, cmd
		}
		if p.field == fieldEnrollmentMin || p.field == fieldEnrollmentMax {
			key = digitsOnly(key)
			if key.Type == tea.KeyRunes && len(key.Runes) == 0 {
				return p, nil
			}
		}
		var cmd tea.Cmd
		p.inputs[p.field], cmd = p.inputs[p.field].Update(key)
		return p, cmd
	}
	return p, nil
}

// Problem returns the validation message shown instead of applying, or "".
func (p FilterPanel) Problem() string { return p.problem }

// apply emits the current state unless the enrollment range is inverted.
func (p *FilterPanel) apply() tea.Cmd {
	s := p.State()
	if s.EnrollmentMin != nil && s.EnrollmentMax != nil && *s.EnrollmentMin > *s.EnrollmentMax {
		p.problem = fmt.Sprintf("Minimum enrollment %d exceeds maximum %d", *s.EnrollmentMin, *s.EnrollmentMax)
		return nil
	}
	p.problem = ""
	return emit(FiltersAppliedMsg{State: s})
}

func (p *FilterPanel) clear() tea.Cmd {
	if p.clearDisabled() {
		return nil
	}
	p.SetState(filters.Default())
	return emit(FiltersClearedMsg{})
}

func (p FilterPanel) View(width int) string {
	active := filters.CountActive(p.State())
	header := titleStyle.Render("Filters")
	if active > 0 {
		header += accentStyle.Render(fmt.Sprintf(" (%d active)", active))
	}
	if !p.expanded {
		return header + mutedStyle.Render("  ▸ press f to expand")
	}

	focused := func(f filterField) bool { return p.focused && p.field == f }
	lines := []string{header + mutedStyle.Render("  ▾"),
		p.phase.View(focused(fieldPhase)),
		p.status.View(focused(fieldStatus)),
	}
	for _, f := range textFields[:6] {
		lines = append(lines, p.inputLine(f, focused(f)))
	}
	lines = append(lines, p.ageLine(focused(fieldAgeGroups)))
	for _, f := range textFields[6:] {
		lines = append(lines, p.inputLine(f, focused(f)))
	}

	apply := "[ Apply ]"
	if focused(fieldApply) {
		apply = selectedStyle.Reverse(true).Render(apply)
	} else {
		apply = accentStyle.Render(apply)
	}
	reset := "[ Clear ]"
	switch {
	case p.clearDisabled():
		reset = disabledStyle.Render(reset)
	case focused(fieldClear):
		reset = selectedStyle.Reverse(true).Render(reset)
	}
	lines = append(lines, "", apply+"  "+reset)
	if p.problem != "" {
		lines = append(lines, errorStyle.Render("⚠ "+p.problem))
	}

	style := panelStyle
	if p.focused {
		style = style.BorderForeground(colorAccent)
	}
	return style.Width(max(width-2, 30)).Render(strings.Join(lines, "\n"))
}

func (p FilterPanel) inputLine(f filterField, focused bool) string {
	view := p.inputs[f].View()
	if focused {
		view = selectedStyle.Render("›") + view
	} else {
		view = " " + view
	}
	return padLabel(fieldLabels[f]) + view
}

func (p FilterPanel) ageLine(focused bool) string {
	boxes := make([]string, len(trials.AgeGroups))
	for i, g := range trials.AgeGroups {
		mark := "[ ]"
		if (filters.State{AgeGroups: p.ageGroups}).HasAgeGroup(g) {
			mark = "[x]"
		}
		box := mark + " " + trials.FormatAgeGroup(g)
		if focused && i == p.ageCursor {
			box = selectedStyle.Render(box)
		}
		boxes[i] = box
	}
	return padLabel("Ages") + strings.Join(boxes, "  ")
}

// digitsOnly strips everything but 0-9 from typed runes.
func digitsOnly(key tea.KeyMsg) tea.KeyMsg {
	if key.Type != tea.KeyRunes {
		return key
	}
	kept := key.Runes[:0:0]
	for _, r := range key.Runes {
		if r >= '0' && r <= '9' {
			kept = append(kept, r)
		}
	}
	key.Runes = kept
	return key
}

func parseCount(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func intText(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
