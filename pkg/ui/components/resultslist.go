package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/trialsearch/pkg/trials"
)

// DefaultHighlightDuration is how long a cited card stays highlighted.
const DefaultHighlightDuration = 2 * time.Second

// Scroller brings a result into view and highlights it.
type Scroller interface {
	ScrollToResult(index int) tea.Cmd
}

// ResultsList renders the count line, the cards of the current page and the
// pagination row. It is used by pointer so the controller can hold it as a
// Scroller.
type ResultsList struct {
	cards    []ResultCard
	total    int
	page     int
	pageSize int

	cursor int
	offset int
	fit    int // cards that fit in the last rendered height

	highlight         int
	highlightToken    int
	highlightDuration time.Duration
}

var _ Scroller = (*ResultsList)(nil)

func NewResultsList(highlightDuration time.Duration) *ResultsList {
	if highlightDuration <= 0 {
		highlightDuration = DefaultHighlightDuration
	}
	return &ResultsList{highlight: -1, highlightDuration: highlightDuration}
}

// SetHighlightDuration changes the duration used by later highlights.
func (l *ResultsList) SetHighlightDuration(d time.Duration) {
	if d > 0 {
		l.highlightDuration = d
	}
}

// SetResponse replaces the list contents. Any pending highlight is
// abandoned.
func (l *ResultsList) SetResponse(resp *trials.SearchResponse) {
	l.cards = nil
	l.total, l.page, l.pageSize = 0, 0, 0
	if resp != nil {
		l.total, l.page, l.pageSize = resp.Total, resp.Page, resp.PageSize
		base := max(resp.Page-1, 0) * resp.PageSize
		l.cards = make([]ResultCard, len(resp.Results))
		for i, r := range resp.Results {
			l.cards[i] = ResultCard{Trial: r, Rank: base + i + 1}
		}
	}
	l.ScrollTop()
	l.clearHighlight()
}

// ScrollTop moves the cursor and viewport to the first card.
func (l *ResultsList) ScrollTop() {
	l.cursor = 0
	l.offset = 0
}

// ScrollToResult moves the cursor to index and highlights that card until
// the returned command's HighlightExpiredMsg arrives. Out of range indices
// are ignored.
func (l *ResultsList) ScrollToResult(index int) tea.Cmd {
	if index < 0 || index >= len(l.cards) {
		return nil
	}
	l.moveCursor(index)
	l.highlightToken++
	l.highlight = index
	token := l.highlightToken
	return tea.Tick(l.highlightDuration, func(time.Time) tea.Msg {
		return HighlightExpiredMsg{Token: token}
	})
}

func (l *ResultsList) clearHighlight() {
	l.highlightToken++
	l.highlight = -1
}

// Update handles cursor keys, card toggling, pagination keys and highlight
// expiry.
func (l *ResultsList) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case HighlightExpiredMsg:
		if msg.Token == l.highlightToken {
			l.highlight = -1
		}
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			l.moveCursor(l.cursor - 1)
		case "down", "j":
			l.moveCursor(l.cursor + 1)
		case "home", "g":
			l.moveCursor(0)
		case "end", "G":
			l.moveCursor(len(l.cards) - 1)
		case "enter", " ":
			if l.cursor < len(l.cards) {
				l.cards[l.cursor].Toggle()
			}
		default:
			return l.Pagination().Update(msg)
		}
	}
	return nil
}

func (l *ResultsList) moveCursor(i int) {
	if len(l.cards) == 0 {
		return
	}
	l.cursor = min(max(i, 0), len(l.cards)-1)
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if fit := max(l.fit, 1); l.cursor >= l.offset+fit {
		l.offset = l.cursor - fit + 1
	}
}

func (l *ResultsList) Pagination() Pagination {
	p := Pagination{Current: l.page}
	if l.pageSize > 0 {
		p.Total = (l.total + l.pageSize - 1) / l.pageSize
	}
	return p
}

func (l *ResultsList) Len() int            { return len(l.cards) }
func (l *ResultsList) Cursor() int         { return l.cursor }
func (l *ResultsList) Highlighted() int    { return l.highlight }
func (l *ResultsList) HighlightToken() int { return l.highlightToken }

// Expanded reports whether card i is expanded.
func (l *ResultsList) Expanded(i int) bool {
	return i >= 0 && i < len(l.cards) && l.cards[i].Expanded
}

// CountLine describes the visible slice of the result set.
func (l *ResultsList) CountLine() string {
	if len(l.cards) == 0 {
		return fmt.Sprintf("Showing 0 of %d trials", l.total)
	}
	first := max(l.page-1, 0)*l.pageSize + 1
	last := first + len(l.cards) - 1
	return fmt.Sprintf("Showing %d-%d of %d trials", first, last, l.total)
}

// View renders as many cards as fit in height lines, starting at the
// scroll offset. A height of zero renders every card.
func (l *ResultsList) View(width, height int, focused bool) string {
	header := mutedStyle.Render(l.CountLine())
	footer := l.Pagination().View()

	budget := height - lipgloss.Height(header) - 1
	if footer != "" {
		budget -= lipgloss.Height(footer) + 1
	}

	var rendered []string
	used := 0
	for i := l.offset; i < len(l.cards); i++ {
		card := l.cards[i].View(width, focused && i == l.cursor, i == l.highlight)
		h := lipgloss.Height(card)
		if height > 0 && used+h > budget && len(rendered) > 0 {
			break
		}
		rendered = append(rendered, card)
		used += h
	}
	l.fit = len(rendered)

	parts := []string{header, strings.Join(rendered, "\n")}
	if footer != "" {
		parts = append(parts, footer)
	}
	return strings.Join(parts, "\n")
}
