package components

import (
	"strings"
	"testing"

	"github.com/rubiojr/trialsearch/pkg/filters"
	"github.com/rubiojr/trialsearch/pkg/trials"
)

func TestQueryInterpretationChipRemoval(t *testing.T) {
	q := NewQueryInterpretation(trials.ExtractedEntities{
		Phase:      trials.Ptr("PHASE3"),
		Condition:  trials.Ptr("lung cancer"),
		Confidence: 0.9,
	})
	if len(q.Chips()) != 2 {
		t.Fatalf("Expected 2 chips, got %d", len(q.Chips()))
	}

	for _, key := range []string{"backspace", "x", "enter"} {
		_, cmd := q.Update(keyMsg(key))
		if cmd == nil {
			t.Fatalf("%s: expected removal", key)
		}
		if msg, ok := cmd().(ChipRemovedMsg); !ok || msg.Kind != filters.KindPhase {
			t.Errorf("%s: got %#v, want phase removal", key, msg)
		}
	}

	q, _ = q.Update(keyMsg("right"))
	_, cmd := q.Update(keyMsg("x"))
	if msg := cmd().(ChipRemovedMsg); msg.Kind != filters.KindCondition {
		t.Errorf("Expected condition removal, got %v", msg.Kind)
	}
}

func TestQueryInterpretationView(t *testing.T) {
	q := NewQueryInterpretation(trials.ExtractedEntities{
		Phase:      trials.Ptr("PHASE3"),
		Condition:  trials.Ptr("lung cancer"),
		Confidence: 0.87,
	})
	view := q.View(200, false)
	for _, want := range []string{"Phase: Phase 3", "Condition: lung cancer", "87% confidence"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}

	if NewQueryInterpretation(trials.ExtractedEntities{Confidence: 0.5}).View(80, false) != "" {
		t.Error("No chips should render nothing")
	}
}

func TestChipColorTotal(t *testing.T) {
	for _, k := range filters.Kinds {
		if ChipColor(k) == colorNeutral {
			t.Errorf("Kind %s has no palette entry", k)
		}
	}
	if ChipColor(filters.Kind("unknown")) != colorNeutral {
		t.Error("Unknown kinds should fall back to the neutral color")
	}
}
