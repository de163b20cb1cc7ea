package components

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeSuggester struct {
	mu      sync.Mutex
	results map[string][]string
	calls   []string
}

func (f *fakeSuggester) Suggest(_ context.Context, prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, prefix)
	return f.results[prefix]
}

func newTestSearchBar(s Suggester) SearchBar {
	sb := NewSearchBar(SearchBarOptions{
		Suggester:           s,
		Placeholders:        []string{"one", "two", "three", "four"},
		PlaceholderInterval: time.Millisecond,
		Debounce:            time.Millisecond,
	})
	sb.Focus()
	return sb
}

// typeAndSettle types text and delivers the debounce expiry and the
// suggestion response for the resulting sequence number.
func typeAndSettle(t *testing.T, sb SearchBar, text string) SearchBar {
	t.Helper()
	sb, _ = sb.Update(keyMsg(text))
	sb, cmd := sb.Update(suggestDebounceMsg{seq: sb.seq, prefix: sb.Value()})
	if cmd == nil {
		t.Fatal("Expected a suggestion fetch after the debounce")
	}
	sb, _ = sb.Update(cmd())
	return sb
}

func TestSearchBarSuggestionSelection(t *testing.T) {
	s := &fakeSuggester{results: map[string][]string{"lu": {"lung cancer", "lupus"}}}
	sb := newTestSearchBar(s)

	sb = typeAndSettle(t, sb, "lu")
	if !sb.Open() || len(sb.Suggestions()) != 2 {
		t.Fatalf("Expected open dropdown with 2 suggestions, got open=%v %v", sb.Open(), sb.Suggestions())
	}

	sb, _ = sb.Update(keyMsg("down"))
	sb, cmd := sb.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Expected submission")
	}
	msg, ok := cmd().(QuerySubmittedMsg)
	if !ok || msg.Query != "lupus" {
		t.Fatalf("Got %#v, want QuerySubmittedMsg{lupus}", msg)
	}
	if sb.Value() != "lupus" {
		t.Errorf("Input value = %q, want lupus", sb.Value())
	}
	if sb.Open() {
		t.Error("Dropdown should close on submit")
	}
}

func TestSearchBarHighlightWraps(t *testing.T) {
	s := &fakeSuggester{results: map[string][]string{"ca": {"cancer", "cardiology", "cataract"}}}
	sb := typeAndSettle(t, newTestSearchBar(s), "ca")

	if sb.Highlighted() != 0 {
		t.Fatalf("Fresh list should highlight the first entry, got %d", sb.Highlighted())
	}
	sb, _ = sb.Update(keyMsg("up"))
	if sb.Highlighted() != 2 {
		t.Errorf("Up from first should wrap to last, got %d", sb.Highlighted())
	}
	sb, _ = sb.Update(keyMsg("down"))
	if sb.Highlighted() != 0 {
		t.Errorf("Down from last should wrap to first, got %d", sb.Highlighted())
	}
}

func TestSearchBarPlainEnterSubmitsTypedText(t *testing.T) {
	s := &fakeSuggester{results: map[string][]string{"lu": {"lung cancer", "lupus"}}}
	sb := typeAndSettle(t, newTestSearchBar(s), "lu")

	sb, _ = sb.Update(keyMsg("esc"))
	if sb.Open() {
		t.Fatal("Esc should close the dropdown")
	}
	_, cmd := sb.Update(keyMsg("enter"))
	msg, ok := cmd().(QuerySubmittedMsg)
	if !ok || msg.Query != "lu" {
		t.Errorf("Got %#v, want QuerySubmittedMsg{lu}", msg)
	}
}

func TestSearchBarBlankSubmitIgnored(t *testing.T) {
	sb := newTestSearchBar(&fakeSuggester{})
	sb, _ = sb.Update(keyMsg("   "))
	if _, cmd := sb.Update(keyMsg("enter")); cmd != nil {
		t.Errorf("Blank submit should do nothing, got %#v", cmd())
	}
}

func TestSearchBarSubmitTrims(t *testing.T) {
	sb := newTestSearchBar(&fakeSuggester{})
	sb, _ = sb.Update(keyMsg("  asthma  "))
	_, cmd := sb.Update(keyMsg("enter"))
	if msg, ok := cmd().(QuerySubmittedMsg); !ok || msg.Query != "asthma" {
		t.Errorf("Got %#v, want trimmed query", msg)
	}
}

func TestSearchBarShortPrefixSkipsFetch(t *testing.T) {
	s := &fakeSuggester{}
	sb := newTestSearchBar(s)
	sb, _ = sb.Update(keyMsg("l"))
	if sb.Open() {
		t.Error("Dropdown should stay closed")
	}
	if _, cmd := sb.Update(suggestDebounceMsg{seq: sb.seq - 1, prefix: ""}); cmd != nil {
		t.Error("No debounce should be pending for a one-letter prefix")
	}
	if len(s.calls) != 0 {
		t.Errorf("Expected no suggestion calls, got %v", s.calls)
	}
}

func TestSearchBarStaleDebounceIgnored(t *testing.T) {
	s := &fakeSuggester{results: map[string][]string{"lu": {"lupus"}}}
	sb := newTestSearchBar(s)

	sb, _ = sb.Update(keyMsg("lu"))
	staleSeq := sb.seq
	sb, _ = sb.Update(keyMsg("n"))

	if _, cmd := sb.Update(suggestDebounceMsg{seq: staleSeq, prefix: "lu"}); cmd != nil {
		t.Error("A superseded debounce must not fetch")
	}
}

func TestSearchBarStaleSuggestionsIgnored(t *testing.T) {
	sb := newTestSearchBar(&fakeSuggester{})
	sb, _ = sb.Update(keyMsg("lu"))
	old := sb.seq
	sb, _ = sb.Update(keyMsg("p"))

	sb, _ = sb.Update(suggestionsMsg{seq: old, items: []string{"lung cancer"}})
	if sb.Open() {
		t.Error("Suggestions for an older keystroke must be dropped")
	}
}

func TestSearchBarSuggestionsAfterSubmitSuppressed(t *testing.T) {
	s := &fakeSuggester{results: map[string][]string{"lu": {"lung cancer", "lupus"}}}
	sb := newTestSearchBar(s)

	sb, _ = sb.Update(keyMsg("lu"))
	seq := sb.seq
	sb, debounced := sb.Update(suggestDebounceMsg{seq: seq, prefix: "lu"})
	if debounced == nil {
		t.Fatal("Expected fetch")
	}
	sb, _ = sb.Update(keyMsg("enter"))

	// The fetch started before the submit resolves afterwards.
	late := debounced()
	sb, _ = sb.Update(late)
	if sb.Open() {
		t.Error("Suggestions arriving after submit must not reopen the dropdown")
	}

	// A response carrying the submit-time sequence is still suppressed by
	// the submitted guard.
	sb, _ = sb.Update(suggestionsMsg{seq: sb.seq, items: []string{"lupus"}})
	if sb.Open() {
		t.Error("Submitted guard should suppress suggestions")
	}
}

func TestSearchBarBlurClosesDropdown(t *testing.T) {
	s := &fakeSuggester{results: map[string][]string{"lu": {"lupus"}}}
	sb := typeAndSettle(t, newTestSearchBar(s), "lu")
	sb.Blur()
	if sb.Open() || sb.Focused() {
		t.Error("Blur should close the dropdown and unfocus")
	}
}

func TestSearchBarBlurDropsPendingSuggestions(t *testing.T) {
	s := &fakeSuggester{results: map[string][]string{"lu": {"lung cancer", "lupus"}}}

	// Blur between the keystroke and the debounce.
	sb := newTestSearchBar(s)
	sb, _ = sb.Update(keyMsg("lu"))
	debounce := suggestDebounceMsg{seq: sb.seq, prefix: sb.Value()}
	sb.Blur()
	sb, cmd := sb.Update(debounce)
	if cmd != nil {
		t.Error("A debounce that fires after blur should not fetch")
	}

	// Blur between the fetch and its response.
	sb = newTestSearchBar(s)
	sb, _ = sb.Update(keyMsg("lu"))
	sb, cmd = sb.Update(suggestDebounceMsg{seq: sb.seq, prefix: sb.Value()})
	if cmd == nil {
		t.Fatal("Expected a suggestion fetch after the debounce")
	}
	response := cmd()
	sb.Blur()
	sb, _ = sb.Update(response)
	if sb.Open() || len(sb.Suggestions()) != 0 {
		t.Errorf("Dropdown reopened after blur: open=%v suggestions=%v", sb.Open(), sb.Suggestions())
	}

	// Refocusing does not revive the old response either.
	sb.Focus()
	sb, _ = sb.Update(response)
	if sb.Open() {
		t.Error("A response issued before blur should stay dropped after refocus")
	}
	sb, _ = sb.Update(keyMsg("enter"))
	if sb.Value() != "lu" {
		t.Errorf("Value = %q, want typed text kept", sb.Value())
	}
}

func TestSearchBarPlaceholderRotation(t *testing.T) {
	sb := newTestSearchBar(nil)
	if sb.Placeholder() != "one" {
		t.Fatalf("Initial placeholder = %q", sb.Placeholder())
	}
	var cmd tea.Cmd
	for _, want := range []string{"two", "three", "four", "one"} {
		sb, cmd = sb.Update(placeholderTickMsg{gen: sb.placeholderGen})
		if cmd == nil {
			t.Fatal("Rotation should schedule the next tick")
		}
		if sb.Placeholder() != want {
			t.Errorf("Placeholder = %q, want %q", sb.Placeholder(), want)
		}
	}

	old := sb.placeholderGen
	sb.SetPlaceholders([]string{"alpha", "beta"}, 0)
	sb, cmd = sb.Update(placeholderTickMsg{gen: old})
	if cmd != nil || sb.Placeholder() != "alpha" {
		t.Errorf("Ticks from a replaced rotation must be ignored, placeholder %q", sb.Placeholder())
	}
}
