package step

import (
	"iter"
	"testing"

	"github.com/vizlab/algoviz/internal/graph"
)

func TestCloneIndependence(t *testing.T) {
	s := Step{
		Index:      1,
		NodeIDs:    []string{"a"},
		NodeStates: map[string]graph.State{"a": graph.StateVisited},
		Reparent:   map[string]string{"a": "b"},
		Moves:      []Move{{ID: "a", To: 0}},
		Data:       map[string]any{KeyComparisons: 3},
	}
	c := s.Clone()
	c.NodeIDs[0] = "x"
	c.NodeStates["a"] = graph.StateError
	c.Reparent["a"] = ""
	c.Moves[0].To = 9
	c.Data[KeyComparisons] = 99

	if s.NodeIDs[0] != "a" || s.NodeStates["a"] != graph.StateVisited {
		t.Error("clone shares node storage")
	}
	if s.Reparent["a"] != "b" || s.Moves[0].To != 0 {
		t.Error("clone shares delta storage")
	}
	if s.Data[KeyComparisons] != 3 {
		t.Error("clone shares data map")
	}
}

func TestTerminal(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusPending, false},
		{StatusRunning, false},
		{StatusCompleted, true},
		{StatusError, true},
	}
	for _, c := range cases {
		if got := (Step{Status: c.status}).Terminal(); got != c.want {
			t.Errorf("Terminal(%v) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestSourcePullsInOrder(t *testing.T) {
	seq := iter.Seq[Step](func(yield func(Step) bool) {
		for i := 0; i < 5; i++ {
			if !yield(Step{Index: i}) {
				return
			}
		}
	})
	src := NewSource(seq)
	defer src.Stop()
	for i := 0; i < 5; i++ {
		s, ok := src.Next()
		if !ok || s.Index != i {
			t.Fatalf("pull %d: got index %d, ok %v", i, s.Index, ok)
		}
	}
	if _, ok := src.Next(); ok {
		t.Error("source yielded past the end")
	}
}

func TestSourceStop(t *testing.T) {
	produced := 0
	src := NewSource(func(yield func(Step) bool) {
		for i := 0; ; i++ {
			produced++
			if !yield(Step{Index: i}) {
				return
			}
		}
	})
	src.Next()
	src.Next()
	src.Stop()
	if _, ok := src.Next(); ok {
		t.Error("Next succeeded after Stop")
	}
	if produced > 3 {
		t.Errorf("generator ran ahead: produced %d", produced)
	}
}

func TestCollect(t *testing.T) {
	src := NewSource(func(yield func(Step) bool) {
		yield(Step{Index: 0})
		yield(Step{Index: 1})
	})
	steps := Collect(src)
	if len(steps) != 2 || steps[1].Index != 1 {
		t.Errorf("Collect = %v", steps)
	}
}
