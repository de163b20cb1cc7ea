package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/trialsearch/pkg/trials"
	"github.com/rubiojr/trialsearch/pkg/ui/components"
)

// outputWidth is the column budget for rendered cards outside the TUI.
const outputWidth = 96

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// renderResponse lays out a response the way the TUI does, top to bottom:
// interpretation, clarification, summary, cards, page footer.
func renderResponse(heading string, resp *trials.SearchResponse, opts outputOptions) string {
	var sections []string
	sections = append(sections, titleStyle.Render(heading))

	if interp := components.NewQueryInterpretation(resp.QueryInterpretation); !interp.Empty() {
		sections = append(sections, interp.View(outputWidth, false))
	}
	if banner := components.NewClarificationBanner(resp.ClarificationText()); !banner.Empty() {
		sections = append(sections, banner.View(outputWidth, false))
	}
	if summary := components.NewAISummary(trials.Value(resp.Summary)); !summary.Empty() {
		sections = append(sections, summary.View(outputWidth, false))
	}

	if len(resp.Results) == 0 {
		empty := components.NewNoResults("", opts.Suggested)
		sections = append(sections, empty.View(outputWidth, false))
		return strings.Join(sections, "\n") + "\n"
	}

	list := components.NewResultsList(0)
	list.SetResponse(resp)
	sections = append(sections, metaStyle.Render(list.CountLine()))

	base := max(resp.Page-1, 0) * resp.PageSize
	for i, t := range resp.Results {
		card := components.ResultCard{Trial: t, Rank: base + i + 1, Expanded: opts.Expand}
		sections = append(sections, card.View(outputWidth, false, false))
	}

	if pages := resp.TotalPages(); pages > 1 {
		sections = append(sections, metaStyle.Render(fmt.Sprintf("Page %d of %d (%s trials)", resp.Page, pages, formatNumber(resp.Total))))
	}
	return strings.Join(sections, "\n") + "\n"
}

// renderSuggestions prints one suggestion per line.
func renderSuggestions(prefix string, suggestions []string) string {
	if len(suggestions) == 0 {
		return noDataStyle.Render(fmt.Sprintf("No suggestions for %q", prefix)) + "\n"
	}
	return strings.Join(suggestions, "\n") + "\n"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
