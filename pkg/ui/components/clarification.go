package components

import (
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	quotedPattern   = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)
	didYouMeanShape = regexp.MustCompile(`(?i)did you mean\s+(.+?)\s*\?*$`)
)

// ExtractOptions pulls answer choices out of a clarification question.
// Quoted phrases win; otherwise a "did you mean X or Y?" question is split
// on " or ". Questions of any other shape have no options.
func ExtractOptions(question string) []string {
	var options []string
	for _, m := range quotedPattern.FindAllStringSubmatch(question, -1) {
		for _, g := range m[1:] {
			if g = strings.TrimSpace(g); g != "" {
				options = append(options, g)
			}
		}
	}
	if len(options) > 0 {
		return options
	}

	m := didYouMeanShape.FindStringSubmatch(strings.TrimSpace(question))
	if m == nil {
		return nil
	}
	for _, part := range strings.Split(m[1], " or ") {
		part = strings.Trim(strings.TrimSpace(part), ",.")
		if part != "" {
			options = append(options, part)
		}
	}
	return options
}

// ClarificationBanner shows the service's follow-up question with its
// options as selectable answers.
type ClarificationBanner struct {
	question string
	options  []string
	selected int
}

func NewClarificationBanner(question string) ClarificationBanner {
	return ClarificationBanner{question: question, options: ExtractOptions(question)}
}

func (c ClarificationBanner) Question() string  { return c.question }
func (c ClarificationBanner) Options() []string { return c.options }
func (c ClarificationBanner) Empty() bool       { return c.question == "" }

func (c ClarificationBanner) Update(msg tea.Msg) (ClarificationBanner, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(c.options) == 0 {
		return c, nil
	}
	switch key.String() {
	case "left", "h", "up", "k":
		c.selected = (c.selected - 1 + len(c.options)) % len(c.options)
	case "right", "l", "down", "j":
		c.selected = (c.selected + 1) % len(c.options)
	case "enter", " ":
		return c, emit(ClarificationAcceptedMsg{Text: c.options[c.selected]})
	}
	return c, nil
}

func (c ClarificationBanner) View(width int, focused bool) string {
	if c.Empty() {
		return ""
	}
	body := warningStyle.Render("? " + c.question)
	if len(c.options) > 0 {
		buttons := make([]string, len(c.options))
		for i, o := range c.options {
			if focused && i == c.selected {
				buttons[i] = selectedStyle.Reverse(true).Render(" " + o + " ")
			} else {
				buttons[i] = accentStyle.Render("[" + o + "]")
			}
		}
		body += "\n" + wrapInline(buttons, max(width-4, 20))
	}
	return panelStyle.BorderForeground(colorWarning).Width(max(width-2, 10)).Render(body)
}
