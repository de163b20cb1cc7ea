package components

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultSuggestDebounce     = 300 * time.Millisecond
	DefaultPlaceholderInterval = 4 * time.Second
	minSuggestPrefix           = 2
	searchCharLimit            = 256
)

// Suggester returns autocomplete candidates for a prefix. Failures are
// expected to come back as an empty result.
type Suggester interface {
	Suggest(ctx context.Context, prefix string) []string
}

type placeholderTickMsg struct {
	gen int
}

type suggestDebounceMsg struct {
	seq    int
	prefix string
}

type suggestionsMsg struct {
	seq   int
	items []string
}

// SearchBarOptions configures a SearchBar. Zero durations take the
// defaults.
type SearchBarOptions struct {
	Suggester           Suggester
	Placeholders        []string
	PlaceholderInterval time.Duration
	Debounce            time.Duration
}

// SearchBar is the free-text query input with a rotating placeholder and a
// debounced autocomplete dropdown.
//
// Every keystroke that changes the text bumps seq; debounce timers and
// suggestion responses carry the seq they were started with and are
// dropped when it is no longer current. submitted is set on submit and
// cleared by the next edit, so suggestions that resolve after a submit
// never reopen the dropdown.
type SearchBar struct {
	input     textinput.Model
	suggester Suggester
	debounce  time.Duration

	placeholders        []string
	placeholderIdx      int
	placeholderInterval time.Duration
	placeholderGen      int

	seq         int
	submitted   bool
	suggestions []string
	highlighted int
	open        bool
}

func NewSearchBar(opts SearchBarOptions) SearchBar {
	ti := textinput.New()
	ti.Prompt = "🔎 "
	ti.CharLimit = searchCharLimit
	ti.Width = 60

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultSuggestDebounce
	}
	if opts.PlaceholderInterval <= 0 {
		opts.PlaceholderInterval = DefaultPlaceholderInterval
	}

	s := SearchBar{
		input:               ti,
		suggester:           opts.Suggester,
		debounce:            opts.Debounce,
		placeholderInterval: opts.PlaceholderInterval,
		highlighted:         -1,
	}
	s.setPlaceholders(opts.Placeholders)
	return s
}

// Init starts placeholder rotation.
func (s SearchBar) Init() tea.Cmd {
	return s.placeholderTick()
}

// SetPlaceholders replaces the rotating examples and restarts rotation.
func (s *SearchBar) SetPlaceholders(placeholders []string, interval time.Duration) tea.Cmd {
	if interval > 0 {
		s.placeholderInterval = interval
	}
	s.setPlaceholders(placeholders)
	return s.placeholderTick()
}

func (s *SearchBar) setPlaceholders(placeholders []string) {
	s.placeholders = append([]string(nil), placeholders...)
	s.placeholderIdx = 0
	s.placeholderGen++
	s.input.Placeholder = "Search clinical trials..."
	if len(s.placeholders) > 0 {
		s.input.Placeholder = s.placeholders[0]
	}
}

func (s SearchBar) placeholderTick() tea.Cmd {
	if len(s.placeholders) < 2 {
		return nil
	}
	gen := s.placeholderGen
	return tea.Tick(s.placeholderInterval, func(time.Time) tea.Msg {
		return placeholderTickMsg{gen: gen}
	})
}

// SetDebounce changes the suggestion debounce for later keystrokes.
func (s *SearchBar) SetDebounce(d time.Duration) {
	if d > 0 {
		s.debounce = d
	}
}

func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur unfocuses the input and closes the dropdown. Suggestions still in
// flight are dropped.
func (s *SearchBar) Blur() {
	s.input.Blur()
	s.seq++
	s.closeSuggestions()
}

func (s SearchBar) Focused() bool { return s.input.Focused() }

func (s SearchBar) Value() string { return s.input.Value() }

// SetValue replaces the text as if it had just been submitted, so
// in-flight suggestions for the old text are dropped.
func (s *SearchBar) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
	s.seq++
	s.submitted = true
	s.closeSuggestions()
}

func (s SearchBar) Placeholder() string   { return s.input.Placeholder }
func (s SearchBar) Suggestions() []string { return s.suggestions }
func (s SearchBar) Open() bool            { return s.open }

// Highlighted returns the highlighted suggestion index, or -1.
func (s SearchBar) Highlighted() int { return s.highlighted }

func (s *SearchBar) closeSuggestions() {
	s.open = false
	s.suggestions = nil
	s.highlighted = -1
}

func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	switch msg := msg.(type) {
	case placeholderTickMsg:
		if msg.gen != s.placeholderGen || len(s.placeholders) == 0 {
			return s, nil
		}
		s.placeholderIdx = (s.placeholderIdx + 1) % len(s.placeholders)
		s.input.Placeholder = s.placeholders[s.placeholderIdx]
		return s, s.placeholderTick()

	case suggestDebounceMsg:
		if msg.seq != s.seq || s.submitted || s.suggester == nil || !s.input.Focused() {
			return s, nil
		}
		suggester, seq, prefix := s.suggester, msg.seq, msg.prefix
		return s, func() tea.Msg {
			return suggestionsMsg{seq: seq, items: suggester.Suggest(context.Background(), prefix)}
		}

	case suggestionsMsg:
		if msg.seq != s.seq || s.submitted || !s.input.Focused() {
			return s, nil
		}
		if len(msg.items) == 0 {
			s.closeSuggestions()
			return s, nil
		}
		s.suggestions = msg.items
		s.highlighted = 0
		s.open = true
		return s, nil

	case tea.KeyMsg:
		if !s.input.Focused() {
			return s, nil
		}
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s SearchBar) handleKey(msg tea.KeyMsg) (SearchBar, tea.Cmd) {
	switch msg.Type {
	case tea.KeyDown:
		if s.open {
			s.highlighted = (s.highlighted + 1) % len(s.suggestions)
		}
		return s, nil
	case tea.KeyUp:
		if s.open {
			s.highlighted = (s.highlighted - 1 + len(s.suggestions)) % len(s.suggestions)
		}
		return s, nil
	case tea.KeyEsc:
		s.closeSuggestions()
		return s, nil
	case tea.KeyEnter:
		if s.open && s.highlighted >= 0 && s.highlighted < len(s.suggestions) {
			return s.submit(s.suggestions[s.highlighted])
		}
		return s.submit(s.input.Value())
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return s, cmd
	}

	s.seq++
	s.submitted = false
	prefix := strings.TrimSpace(s.input.Value())
	if utf8.RuneCountInString(prefix) < minSuggestPrefix {
		s.closeSuggestions()
		return s, cmd
	}
	seq := s.seq
	debounce := tea.Tick(s.debounce, func(time.Time) tea.Msg {
		return suggestDebounceMsg{seq: seq, prefix: prefix}
	})
	return s, tea.Batch(cmd, debounce)
}

// submit emits a QuerySubmittedMsg for the trimmed text. Blank text is
// ignored.
func (s SearchBar) submit(text string) (SearchBar, tea.Cmd) {
	query := strings.TrimSpace(text)
	if query == "" {
		return s, nil
	}
	s.SetValue(query)
	return s, emit(QuerySubmittedMsg{Query: query})
}

func (s SearchBar) View(width int) string {
	s.input.Width = max(width-lipgloss.Width(s.input.Prompt)-4, 10)
	style := panelStyle
	if s.input.Focused() {
		style = style.BorderForeground(colorAccent)
	}
	view := style.Width(max(width-2, 10)).Render(s.input.View())
	if !s.open {
		return view
	}

	lines := make([]string, len(s.suggestions))
	for i, item := range s.suggestions {
		if i == s.highlighted {
			lines[i] = selectedStyle.Render("› " + item)
		} else {
			lines[i] = "  " + item
		}
	}
	dropdown := panelStyle.Width(max(width-2, 10)).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, view, dropdown)
}
