package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rubiojr/trialsearch/pkg/config"
	"github.com/rubiojr/trialsearch/pkg/filters"
	"github.com/rubiojr/trialsearch/pkg/log"
	"github.com/rubiojr/trialsearch/pkg/trials"
	"github.com/rubiojr/trialsearch/pkg/ui/components"
)

// Service is the remote search backend the App talks to.
type Service interface {
	Search(ctx context.Context, query string, page, pageSize int) (*trials.SearchResponse, error)
	SearchWithFilters(ctx context.Context, entities trials.ExtractedEntities, page, pageSize int) (*trials.SearchResponse, error)
	Suggest(ctx context.Context, prefix string) []string
	FetchSummary(ctx context.Context, query string) (string, bool)
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateResults
	StateNoResults
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResults:
		return "results"
	case StateNoResults:
		return "no-results"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Mode records which kind of request produced the current results.
type Mode int

const (
	ModeNatural Mode = iota
	ModeFilter
)

func (m Mode) String() string {
	if m == ModeFilter {
		return "filter"
	}
	return "natural"
}

// Zone is a focusable region of the screen.
type Zone int

const (
	ZoneSearch Zone = iota
	ZoneInterpretation
	ZoneClarification
	ZoneFilters
	ZoneSummary
	ZoneResults
	ZoneEmpty
)

const genericSearchError = "Search failed. Please try again."

// Options configure a new App.
type Options struct {
	Service             Service
	PageSize            int
	RequestTimeout      time.Duration
	SuggestDebounce     time.Duration
	PlaceholderInterval time.Duration
	HighlightDuration   time.Duration
	Placeholders        []string
	SuggestedQueries    []string
}

// OptionsFromConfig maps the configuration file onto App options.
func OptionsFromConfig(cfg *config.Config, svc Service) Options {
	return Options{
		Service:             svc,
		PageSize:            cfg.PageSize,
		RequestTimeout:      cfg.RequestTimeout.Duration,
		SuggestDebounce:     cfg.SuggestDebounce.Duration,
		PlaceholderInterval: cfg.PlaceholderInterval.Duration,
		HighlightDuration:   cfg.HighlightDuration.Duration,
		Placeholders:        cfg.Placeholders,
		SuggestedQueries:    cfg.SuggestedQueries,
	}
}

// App is the root Bubble Tea model. It owns the search lifecycle; the
// components under it only render and report intents.
//
// Every request gets a fresh generation id. Responses and summaries carry
// the generation they were issued under and are ignored once a newer
// request has started.
type App struct {
	service        Service
	pageSize       int
	requestTimeout time.Duration
	suggested      []string

	state      State
	mode       Mode
	response   *trials.SearchResponse
	errMessage string
	lastQuery  string
	page       int
	summary    string
	filter     filters.State
	generation string

	searchBar      components.SearchBar
	interpretation components.QueryInterpretation
	clarification  components.ClarificationBanner
	filterPanel    components.FilterPanel
	aiSummary      components.AISummary
	results        *components.ResultsList
	scroller       components.Scroller
	empty          components.EmptyState
	spinner        spinner.Model

	focus  Zone
	width  int
	height int

	logger *log.Logger
}

func NewApp(opts Options) App {
	if opts.PageSize <= 0 {
		opts.PageSize = config.DefaultPageSize
	}
	if len(opts.Placeholders) == 0 {
		opts.Placeholders = config.DefaultPlaceholders
	}
	if opts.SuggestedQueries == nil {
		opts.SuggestedQueries = config.DefaultSuggestedQueries
	}

	var suggester components.Suggester
	if opts.Service != nil {
		suggester = opts.Service
	}
	bar := components.NewSearchBar(components.SearchBarOptions{
		Suggester:           suggester,
		Placeholders:        opts.Placeholders,
		PlaceholderInterval: opts.PlaceholderInterval,
		Debounce:            opts.SuggestDebounce,
	})
	bar.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorSpinner)

	results := components.NewResultsList(opts.HighlightDuration)

	return App{
		service:        opts.Service,
		pageSize:       opts.PageSize,
		requestTimeout: opts.RequestTimeout,
		suggested:      opts.SuggestedQueries,
		state:          StateIdle,
		filter:         filters.Default(),
		searchBar:      bar,
		filterPanel:    components.NewFilterPanel(),
		results:        results,
		scroller:       results,
		spinner:        s,
		focus:          ZoneSearch,
		logger:         log.ForService("ui"),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.searchBar.Init(), a.searchBar.Focus(), tea.SetWindowTitle("trialsearch"))
}

func (a App) State() State                        { return a.state }
func (a App) Mode() Mode                          { return a.mode }
func (a App) Response() *trials.SearchResponse    { return a.response }
func (a App) ErrorMessage() string                { return a.errMessage }
func (a App) LastQuery() string                   { return a.lastQuery }
func (a App) Summary() string                     { return a.summary }
func (a App) FilterState() filters.State          { return a.filter }
func (a App) Focus() Zone                         { return a.focus }
func (a App) FiltersExpanded() bool               { return a.filterPanel.Expanded() }
func (a App) Results() *components.ResultsList    { return a.results }
func (a App) SearchBar() components.SearchBar     { return a.searchBar }
func (a App) FilterPanel() components.FilterPanel { return a.filterPanel }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.state != StateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case searchResultMsg:
		return a.handleSearchResult(msg)

	case summaryMsg:
		if msg.generation != a.generation || !msg.ok {
			return a, nil
		}
		a.summary = msg.text
		a.aiSummary = components.NewAISummary(msg.text)
		return a, nil

	case components.QuerySubmittedMsg:
		return a.submitQuery(msg.Query, 1)

	case components.ClarificationAcceptedMsg:
		return a.submitQuery(msg.Text, 1)

	case components.FiltersAppliedMsg:
		return a.submitFilters(msg.State, 1)

	case components.FiltersClearedMsg:
		a.filter = filters.Default()
		return a, nil

	case components.ChipRemovedMsg:
		f := filters.Clear(a.filter, msg.Kind)
		a.filterPanel.SetState(f)
		return a.submitFilters(f, 1)

	case components.PageChangedMsg:
		return a.changePage(msg.Page)

	case components.CitationClickedMsg:
		cmd := a.scroller.ScrollToResult(msg.Index)
		if cmd == nil {
			return a, nil
		}
		var focusCmd tea.Cmd
		a, focusCmd = a.setFocus(ZoneResults)
		return a, tea.Batch(cmd, focusCmd)

	case components.HighlightExpiredMsg:
		return a, a.results.Update(msg)

	case components.RetryMsg:
		return a.retry()

	case ConfigReloadedMsg:
		return a.applyConfig(msg.Config)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.searchBar, cmd = a.searchBar.Update(msg)
	cmds = append(cmds, cmd)
	a.filterPanel, cmd = a.filterPanel.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// submitQuery starts a free-text search. Blank queries are ignored.
func (a App) submitQuery(query string, page int) (tea.Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		return a, nil
	}
	if page < 1 {
		page = 1
	}
	a.mode = ModeNatural
	a.lastQuery = query
	a.searchBar.SetValue(query)
	gen := a.startRequest(page)
	a.logger.Debugf("search %q page %d (generation %s)", query, page, gen)

	svc, size := a.service, a.pageSize
	ctx, cancel := a.requestContext()
	fetch := func() tea.Msg {
		defer cancel()
		resp, err := svc.Search(ctx, query, page, size)
		return searchResultMsg{generation: gen, mode: ModeNatural, query: query, page: page, resp: resp, err: err}
	}
	return a, tea.Batch(fetch, a.spinner.Tick)
}

// submitFilters starts a structured search with f.
func (a App) submitFilters(f filters.State, page int) (tea.Model, tea.Cmd) {
	if page < 1 {
		page = 1
	}
	a.mode = ModeFilter
	a.filter = f
	gen := a.startRequest(page)
	entities := filters.ToEntities(f)
	a.logger.Debugf("filter search %d active page %d (generation %s)", filters.CountActive(f), page, gen)

	svc, size := a.service, a.pageSize
	ctx, cancel := a.requestContext()
	fetch := func() tea.Msg {
		defer cancel()
		resp, err := svc.SearchWithFilters(ctx, entities, page, size)
		return searchResultMsg{generation: gen, mode: ModeFilter, page: page, resp: resp, err: err}
	}
	return a, tea.Batch(fetch, a.spinner.Tick)
}

func (a *App) startRequest(page int) string {
	a.state = StateLoading
	a.errMessage = ""
	a.summary = ""
	a.aiSummary = components.AISummary{}
	a.page = page
	a.generation = uuid.NewString()
	return a.generation
}

func (a App) requestContext() (context.Context, context.CancelFunc) {
	if a.requestTimeout > 0 {
		return context.WithTimeout(context.Background(), a.requestTimeout)
	}
	return context.WithCancel(context.Background())
}

func (a App) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.generation != a.generation {
		a.logger.Debugf("dropping stale response for generation %s", msg.generation)
		return a, nil
	}

	if msg.err != nil || msg.resp == nil {
		a.state = StateError
		a.errMessage = genericSearchError
		if msg.err != nil && msg.err.Error() != "" {
			a.errMessage = msg.err.Error()
		}
		a.logger.Warnf("%s search failed: %s", msg.mode, a.errMessage)
		a.empty = components.NewError(a.errMessage)
		return a.setFocus(ZoneEmpty)
	}

	resp := msg.resp
	a.response = resp
	a.results.SetResponse(resp)
	a.interpretation = components.NewQueryInterpretation(resp.QueryInterpretation)
	a.clarification = components.NewClarificationBanner(resp.ClarificationText())

	// Filter responses keep the user's own selections; a natural
	// language response replaces them with the service's reading.
	if msg.mode == ModeNatural {
		a.filter = filters.FromEntities(resp.QueryInterpretation)
		a.filterPanel.SetState(a.filter)
	}

	if len(resp.Results) == 0 {
		a.state = StateNoResults
		a.empty = components.NewNoResults("", a.suggested)
		return a.setFocus(ZoneEmpty)
	}

	a.state = StateResults
	a.filterPanel.SetExpanded(true)
	var focusCmd tea.Cmd
	a, focusCmd = a.setFocus(ZoneResults)

	if msg.mode == ModeNatural && msg.page == 1 {
		return a, tea.Batch(focusCmd, a.fetchSummary(msg.query, msg.generation))
	}
	return a, focusCmd
}

func (a App) fetchSummary(query, gen string) tea.Cmd {
	svc := a.service
	ctx, cancel := a.requestContext()
	return func() tea.Msg {
		defer cancel()
		text, ok := svc.FetchSummary(ctx, query)
		return summaryMsg{generation: gen, text: text, ok: ok}
	}
}

// changePage repeats the last request in the active mode for page.
func (a App) changePage(page int) (tea.Model, tea.Cmd) {
	a.results.ScrollTop()
	if a.mode == ModeFilter {
		return a.submitFilters(a.filter, page)
	}
	return a.submitQuery(a.lastQuery, page)
}

func (a App) retry() (tea.Model, tea.Cmd) {
	if a.mode == ModeFilter && a.lastQuery == "" {
		return a.submitFilters(a.filter, 1)
	}
	return a.submitQuery(a.lastQuery, 1)
}

func (a App) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		return a, nil
	}
	a.logger.Infof("configuration reloaded")
	if cfg.PageSize > 0 {
		a.pageSize = cfg.PageSize
	}
	a.requestTimeout = cfg.RequestTimeout.Duration
	if cfg.SuggestedQueries != nil {
		a.suggested = cfg.SuggestedQueries
	}
	a.results.SetHighlightDuration(cfg.HighlightDuration.Duration)
	a.searchBar.SetDebounce(cfg.SuggestDebounce.Duration)
	cmd := a.searchBar.SetPlaceholders(cfg.Placeholders, cfg.PlaceholderInterval.Duration)
	return a, cmd
}

// zones lists the focusable regions currently on screen, in tab order.
func (a App) zones() []Zone {
	zones := []Zone{ZoneSearch}
	if a.state == StateResults || a.state == StateNoResults {
		if !a.interpretation.Empty() {
			zones = append(zones, ZoneInterpretation)
		}
		if !a.clarification.Empty() {
			zones = append(zones, ZoneClarification)
		}
	}
	zones = append(zones, ZoneFilters)
	if !a.aiSummary.Empty() && a.state == StateResults {
		zones = append(zones, ZoneSummary)
	}
	switch a.state {
	case StateResults:
		zones = append(zones, ZoneResults)
	case StateNoResults, StateError:
		zones = append(zones, ZoneEmpty)
	}
	return zones
}

func (a App) cycleFocus(step int) (App, tea.Cmd) {
	zones := a.zones()
	idx := 0
	for i, z := range zones {
		if z == a.focus {
			idx = i
			break
		}
	}
	return a.setFocus(zones[(idx+step+len(zones))%len(zones)])
}

func (a App) setFocus(z Zone) (App, tea.Cmd) {
	a.focus = z
	a.searchBar.Blur()
	a.filterPanel.Blur()
	var cmd tea.Cmd
	switch z {
	case ZoneSearch:
		cmd = a.searchBar.Focus()
	case ZoneFilters:
		cmd = a.filterPanel.Focus()
	}
	return a, cmd
}

// typing reports whether the focused zone consumes printable keys.
func (a App) typing() bool {
	return a.focus == ZoneSearch || a.focus == ZoneFilters
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		return a.cycleFocus(1)
	case "shift+tab":
		return a.cycleFocus(-1)
	}

	if !a.typing() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "/", "esc":
			return a.setFocus(ZoneSearch)
		case "f":
			a.filterPanel.Toggle()
			if a.filterPanel.Expanded() {
				return a.setFocus(ZoneFilters)
			}
			return a, nil
		}
	} else if a.focus == ZoneFilters && msg.String() == "esc" {
		return a.setFocus(ZoneSearch)
	}

	var cmd tea.Cmd
	switch a.focus {
	case ZoneSearch:
		a.searchBar, cmd = a.searchBar.Update(msg)
	case ZoneInterpretation:
		a.interpretation, cmd = a.interpretation.Update(msg)
	case ZoneClarification:
		a.clarification, cmd = a.clarification.Update(msg)
	case ZoneFilters:
		a.filterPanel, cmd = a.filterPanel.Update(msg)
	case ZoneSummary:
		a.aiSummary, cmd = a.aiSummary.Update(msg)
	case ZoneResults:
		cmd = a.results.Update(msg)
	case ZoneEmpty:
		a.empty, cmd = a.empty.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}

	header := brandStyle.Render("trialsearch") + mutedStyle.Render("  clinical trials search")
	sections := []string{header, a.searchBar.View(width)}

	if a.state == StateResults || a.state == StateNoResults {
		if v := a.interpretation.View(width, a.focus == ZoneInterpretation); v != "" {
			sections = append(sections, v)
		}
		if v := a.clarification.View(width, a.focus == ZoneClarification); v != "" {
			sections = append(sections, v)
		}
	}
	sections = append(sections, a.filterPanel.View(width))
	if a.state == StateResults {
		if v := a.aiSummary.View(width, a.focus == ZoneSummary); v != "" {
			sections = append(sections, v)
		}
	}

	help := helpStyle.Render(a.helpLine())
	top := strings.Join(sections, "\n")

	var body string
	switch a.state {
	case StateIdle:
		body = mutedStyle.Render("Ask about clinical trials in plain language and press Enter.")
	case StateLoading:
		body = a.spinner.View() + " Searching..."
	case StateResults:
		remaining := 0
		if a.height > 0 {
			remaining = max(a.height-lipgloss.Height(top)-lipgloss.Height(help)-2, 6)
		}
		body = a.results.View(width, remaining, a.focus == ZoneResults)
	case StateNoResults, StateError:
		body = a.empty.View(width, a.focus == ZoneEmpty)
	}

	return strings.Join([]string{top, body, help}, "\n")
}

func (a App) helpLine() string {
	switch a.focus {
	case ZoneSearch:
		if a.searchBar.Open() {
			return "enter pick suggestion • ↑/↓ suggestions • esc search typed text • tab next"
		}
		return "enter search • tab next • ctrl+c quit"
	case ZoneFilters:
		return "↑/↓ field • enter select/apply • space toggle • esc back • tab next"
	case ZoneResults:
		return "j/k move • enter expand • ←/→ page • / search • f filters • q quit"
	case ZoneSummary:
		return "←/→ citation • enter jump to result • tab next"
	case ZoneInterpretation:
		return "←/→ chip • x remove • tab next"
	case ZoneClarification:
		return "←/→ option • enter choose • tab next"
	case ZoneEmpty:
		if a.state == StateError {
			return "r retry • / search • q quit"
		}
		return "j/k choose • enter search • / search • q quit"
	}
	return ""
}
