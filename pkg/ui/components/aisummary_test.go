package components

import (
	"reflect"
	"testing"
)

func TestSplitCitations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "two markers",
			text: "Effective in [1] and [2] trials.",
			want: []Segment{
				{Text: "Effective in "},
				{Text: "[1]", Marker: 1},
				{Text: " and "},
				{Text: "[2]", Marker: 2},
				{Text: " trials."},
			},
		},
		{
			name: "no markers",
			text: "Nothing to cite.",
			want: []Segment{{Text: "Nothing to cite."}},
		},
		{
			name: "adjacent markers",
			text: "[3][1]",
			want: []Segment{{Text: "[3]", Marker: 3}, {Text: "[1]", Marker: 1}},
		},
		{
			name: "zero marker stays text",
			text: "See [0] or [12].",
			want: []Segment{{Text: "See [0] or "}, {Text: "[12]", Marker: 12}, {Text: "."}},
		},
		{
			name: "non numeric brackets",
			text: "A [note] here",
			want: []Segment{{Text: "A [note] here"}},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitCitations(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCitations(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAISummaryCitationClick(t *testing.T) {
	s := NewAISummary("Effective in [1] and [2] trials.")
	if got := s.Markers(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("Markers() = %v", got)
	}

	s, _ = s.Update(keyMsg("right"))
	_, cmd := s.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Expected a citation message")
	}
	msg, ok := cmd().(CitationClickedMsg)
	if !ok || msg.Index != 1 {
		t.Errorf("Got %#v, want CitationClickedMsg{Index: 1}", msg)
	}
}

func TestAISummarySelectionWraps(t *testing.T) {
	s := NewAISummary("[1] [2] [3]")
	s, _ = s.Update(keyMsg("left"))
	if s.Selected() != 2 {
		t.Errorf("Left from first marker should wrap, got %d", s.Selected())
	}
}

func TestAISummaryWithoutMarkers(t *testing.T) {
	s := NewAISummary("Plain text.")
	if _, cmd := s.Update(keyMsg("enter")); cmd != nil {
		t.Error("Enter without markers should do nothing")
	}
	if NewAISummary("").View(80, false) != "" {
		t.Error("Empty summary should render nothing")
	}
}
