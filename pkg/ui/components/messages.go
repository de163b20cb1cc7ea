// Package components holds the presentational pieces of the trialsearch
// TUI. Components own only local view state (cursor, expansion, open
// dropdowns, timers); every user intent leaves a component as one of the
// messages below, delivered through a tea.Cmd.
package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rubiojr/trialsearch/pkg/filters"
)

// PageChangedMsg asks for another results page (1-based).
type PageChangedMsg struct {
	Page int
}

// QuerySubmittedMsg is a free-text search request.
type QuerySubmittedMsg struct {
	Query string
}

// CitationClickedMsg reports a summary citation by zero-based result index.
type CitationClickedMsg struct {
	Index int
}

// ChipRemovedMsg asks to drop one interpretation constraint.
type ChipRemovedMsg struct {
	Kind filters.Kind
}

// ClarificationAcceptedMsg carries the chosen clarification option.
type ClarificationAcceptedMsg struct {
	Text string
}

// RetryMsg asks to re-issue the failed request.
type RetryMsg struct{}

// FiltersAppliedMsg carries the filter panel's values on Apply.
type FiltersAppliedMsg struct {
	State filters.State
}

// FiltersClearedMsg is sent when the filter panel is reset.
type FiltersClearedMsg struct{}

// HighlightExpiredMsg ends a citation highlight. Token identifies the
// highlight it belongs to; older tokens are ignored.
type HighlightExpiredMsg struct {
	Token int
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
