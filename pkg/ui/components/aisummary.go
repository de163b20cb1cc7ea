package components

import (
	"regexp"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

var citationPattern = regexp.MustCompile(`\[(\d+)\]`)

// Segment is a run of summary text or a single citation marker. Marker
// is the 1-based number inside the brackets, 0 for plain text.
type Segment struct {
	Text   string
	Marker int
}

func (s Segment) IsCitation() bool { return s.Marker > 0 }

// SplitCitations splits text around [n] markers, keeping the original
// order. A "[0]" has no result to point at and stays plain text.
func SplitCitations(text string) []Segment {
	var segments []Segment
	appendText := func(t string) {
		if t == "" {
			return
		}
		if n := len(segments); n > 0 && !segments[n-1].IsCitation() {
			segments[n-1].Text += t
			return
		}
		segments = append(segments, Segment{Text: t})
	}

	last := 0
	for _, m := range citationPattern.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || n < 1 {
			continue
		}
		appendText(text[last:m[0]])
		segments = append(segments, Segment{Text: text[m[0]:m[1]], Marker: n})
		last = m[1]
	}
	appendText(text[last:])
	return segments
}

// AISummary shows the generated summary with selectable citation markers.
type AISummary struct {
	segments []Segment
	markers  []int // segment indexes of the citations
	selected int
}

func NewAISummary(text string) AISummary {
	s := AISummary{segments: SplitCitations(text)}
	for i, seg := range s.segments {
		if seg.IsCitation() {
			s.markers = append(s.markers, i)
		}
	}
	return s
}

func (s AISummary) Segments() []Segment { return s.segments }

// Markers returns the citation numbers in order of appearance.
func (s AISummary) Markers() []int {
	out := make([]int, len(s.markers))
	for i, idx := range s.markers {
		out[i] = s.segments[idx].Marker
	}
	return out
}

// Selected returns the position of the selected marker among Markers.
func (s AISummary) Selected() int { return s.selected }

func (s AISummary) Empty() bool { return len(s.segments) == 0 }

func (s AISummary) Update(msg tea.Msg) (AISummary, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(s.markers) == 0 {
		return s, nil
	}
	switch key.String() {
	case "left", "h":
		s.selected = (s.selected - 1 + len(s.markers)) % len(s.markers)
	case "right", "l", "tab":
		s.selected = (s.selected + 1) % len(s.markers)
	case "enter", " ":
		marker := s.segments[s.markers[s.selected]].Marker
		return s, emit(CitationClickedMsg{Index: marker - 1})
	}
	return s, nil
}

func (s AISummary) View(width int, focused bool) string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	selected := -1
	if focused && len(s.markers) > 0 {
		selected = s.markers[s.selected]
	}
	for i, seg := range s.segments {
		switch {
		case !seg.IsCitation():
			b.WriteString(seg.Text)
		case i == selected:
			b.WriteString(selectedStyle.Reverse(true).Render(seg.Text))
		default:
			b.WriteString(accentStyle.Render(seg.Text))
		}
	}
	body := wordwrap.String(b.String(), max(width-4, 20))
	title := titleStyle.Foreground(colorPurple).Render("✦ AI summary")
	return panelStyle.BorderForeground(colorPurple).Width(max(width-2, 10)).Render(title + "\n" + body)
}
