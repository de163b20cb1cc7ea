package components

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const pageWindow = 5

// Pagination renders a sliding window of page numbers. It keeps no state
// of its own: Current and Total come from the last response and every
// navigation key becomes a PageChangedMsg.
type Pagination struct {
	Current int
	Total   int
}

// Window returns the page numbers to display, in ascending order.
func (p Pagination) Window() []int {
	if p.Total <= 0 {
		return nil
	}
	var start, end int
	switch {
	case p.Total <= pageWindow:
		start, end = 1, p.Total
	case p.Current <= 3:
		start, end = 1, pageWindow
	case p.Current >= p.Total-1:
		start, end = p.Total-pageWindow+1, p.Total
	default:
		start, end = p.Current-2, p.Current+2
	}
	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}

func (p Pagination) HasPrev() bool { return p.Current > 1 }
func (p Pagination) HasNext() bool { return p.Current < p.Total }

// Update maps ←/h, →/l and the digits 1-5 (the n-th page shown) to page
// changes. Keys that would leave the valid range are ignored.
func (p Pagination) Update(msg tea.KeyMsg) tea.Cmd {
	if p.Total <= 1 {
		return nil
	}
	switch key := msg.String(); key {
	case "left", "h":
		if p.HasPrev() {
			return emit(PageChangedMsg{Page: p.Current - 1})
		}
	case "right", "l":
		if p.HasNext() {
			return emit(PageChangedMsg{Page: p.Current + 1})
		}
	case "1", "2", "3", "4", "5":
		window := p.Window()
		i, _ := strconv.Atoi(key)
		if i <= len(window) && window[i-1] != p.Current {
			return emit(PageChangedMsg{Page: window[i-1]})
		}
	}
	return nil
}

func (p Pagination) View() string {
	if p.Total <= 1 {
		return ""
	}
	var parts []string
	if p.HasPrev() {
		parts = append(parts, accentStyle.Render("‹ Prev"))
	} else {
		parts = append(parts, disabledStyle.Render("‹ Prev"))
	}
	for _, n := range p.Window() {
		label := strconv.Itoa(n)
		if n == p.Current {
			parts = append(parts, selectedStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+label+" "))
		}
	}
	if p.HasNext() {
		parts = append(parts, accentStyle.Render("Next ›"))
	} else {
		parts = append(parts, disabledStyle.Render("Next ›"))
	}
	return strings.Join(parts, " ")
}
