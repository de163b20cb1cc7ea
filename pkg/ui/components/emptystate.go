package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Variant int

const (
	VariantNoResults Variant = iota
	VariantError
)

const (
	defaultNoResultsMessage = "No trials matched your search. Try broadening it."
	defaultErrorMessage     = "Something went wrong while searching."
)

// EmptyState is shown instead of results: either nothing matched, or the
// request failed.
type EmptyState struct {
	variant  Variant
	message  string
	queries  []string
	selected int
}

// NewNoResults builds the no-results variant offering the suggested
// queries. An empty message uses the default text.
func NewNoResults(message string, suggested []string) EmptyState {
	return EmptyState{variant: VariantNoResults, message: message, queries: suggested}
}

// NewError builds the error variant. An empty message uses the default
// text.
func NewError(message string) EmptyState {
	return EmptyState{variant: VariantError, message: message}
}

func (e EmptyState) Variant() Variant { return e.variant }

func (e EmptyState) Message() string {
	switch {
	case e.message != "":
		return e.message
	case e.variant == VariantError:
		return defaultErrorMessage
	}
	return defaultNoResultsMessage
}

func (e EmptyState) Queries() []string { return e.queries }

func (e EmptyState) Update(msg tea.Msg) (EmptyState, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	if e.variant == VariantError {
		switch key.String() {
		case "enter", "r":
			return e, emit(RetryMsg{})
		}
		return e, nil
	}
	if len(e.queries) == 0 {
		return e, nil
	}
	switch key.String() {
	case "up", "k":
		e.selected = (e.selected - 1 + len(e.queries)) % len(e.queries)
	case "down", "j":
		e.selected = (e.selected + 1) % len(e.queries)
	case "enter":
		return e, emit(QuerySubmittedMsg{Query: e.queries[e.selected]})
	}
	return e, nil
}

func (e EmptyState) View(width int, focused bool) string {
	var b strings.Builder
	if e.variant == VariantError {
		b.WriteString(errorStyle.Render("⚠ " + e.Message()))
		b.WriteString("\n\n")
		retry := "[ Retry ]"
		if focused {
			b.WriteString(selectedStyle.Reverse(true).Render(retry))
		} else {
			b.WriteString(accentStyle.Render(retry))
		}
		b.WriteString(mutedStyle.Render("  press r to retry"))
	} else {
		b.WriteString(titleStyle.Render("No results"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(e.Message()))
		if len(e.queries) > 0 {
			b.WriteString("\n\nTry one of these:")
		}
		for i, q := range e.queries {
			b.WriteString("\n")
			if focused && i == e.selected {
				b.WriteString(selectedStyle.Render("› " + q))
			} else {
				b.WriteString("  " + accentStyle.Render(q))
			}
		}
	}
	return lipgloss.NewStyle().Width(max(width, 10)).Padding(1, 2).Render(b.String())
}
