package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const anyOption = "Any"

// Dropdown picks one value out of a fixed list, or none. The first row
// always stands for "no selection".
type Dropdown struct {
	Label   string
	options []string
	format  func(string) string

	value     *string
	open      bool
	highlight int
}

func NewDropdown(label string, options []string, format func(string) string) Dropdown {
	if format == nil {
		format = func(s string) string { return s }
	}
	return Dropdown{Label: label, options: options, format: format}
}

func (d Dropdown) Value() *string {
	if d.value == nil {
		return nil
	}
	v := *d.value
	return &v
}

// SetValue selects v. Values outside the option list are kept as given
// so that service-provided values survive a round trip.
func (d *Dropdown) SetValue(v *string) {
	d.value = nil
	if v != nil && *v != "" {
		val := *v
		d.value = &val
	}
}

func (d Dropdown) IsOpen() bool { return d.open }

// Close folds the option list, as when focus moves elsewhere.
func (d *Dropdown) Close() { d.open = false }

func (d Dropdown) Update(msg tea.KeyMsg) (Dropdown, tea.Cmd) {
	if !d.open {
		switch msg.String() {
		case "enter", " ", "right":
			d.open = true
			d.highlight = d.selectedRow()
		}
		return d, nil
	}
	rows := len(d.options) + 1
	switch msg.String() {
	case "up", "k":
		d.highlight = (d.highlight - 1 + rows) % rows
	case "down", "j":
		d.highlight = (d.highlight + 1) % rows
	case "enter", " ":
		if d.highlight == 0 {
			d.value = nil
		} else {
			v := d.options[d.highlight-1]
			d.value = &v
		}
		d.open = false
	case "esc", "left":
		d.open = false
	}
	return d, nil
}

func (d Dropdown) selectedRow() int {
	if d.value == nil {
		return 0
	}
	for i, o := range d.options {
		if o == *d.value {
			return i + 1
		}
	}
	return 0
}

func (d Dropdown) display() string {
	if d.value == nil {
		return anyOption
	}
	return d.format(*d.value)
}

func (d Dropdown) View(focused bool) string {
	field := d.display() + " ▾"
	if focused {
		field = selectedStyle.Render(field)
	}
	line := padLabel(d.Label) + field
	if !d.open {
		return line
	}
	rows := make([]string, 0, len(d.options)+1)
	for i, label := range append([]string{anyOption}, d.options...) {
		if i > 0 {
			label = d.format(label)
		}
		if i == d.highlight {
			rows = append(rows, strings.Repeat(" ", labelWidth)+selectedStyle.Render("› "+label))
		} else {
			rows = append(rows, strings.Repeat(" ", labelWidth)+"  "+label)
		}
	}
	return line + "\n" + strings.Join(rows, "\n")
}

const labelWidth = 14

func padLabel(label string) string {
	l := label + ":"
	if len(l) < labelWidth {
		l += strings.Repeat(" ", labelWidth-len(l))
	}
	return mutedStyle.Render(l)
}
