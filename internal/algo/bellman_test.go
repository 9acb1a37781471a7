package algo

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func directedGraph(t *testing.T, ids []string, edges []struct {
	id, from, to string
	w            float64
}) *graph.Dataset {
	t.Helper()
	ds := graph.New()
	for _, id := range ids {
		if err := ds.AddNode(&graph.Node{ID: id}); err != nil {
			t.Fatalf("add node %s: %v", id, err)
		}
	}
	for _, e := range edges {
		if err := ds.AddEdge(&graph.Edge{ID: e.id, Source: e.from, Target: e.to, Weight: e.w, Directed: true}); err != nil {
			t.Fatalf("add edge %s: %v", e.id, err)
		}
	}
	return ds
}

func TestBellmanFordSettlesEarly(t *testing.T) {
	ds := directedGraph(t,
		[]string{"A", "B", "C", "D"},
		[]struct {
			id, from, to string
			w            float64
		}{
			{"ab", "A", "B", 4},
			{"ac", "A", "C", 2},
			{"cb", "C", "B", 1},
			{"bd", "B", "D", 5},
		})
	steps := mustSteps(t, "bellman-ford", ds, Params{Start: "A", Goal: "D"})
	checkIndexes(t, steps)

	var settledAt int
	for _, s := range steps {
		if strings.Contains(s.Description, "distances settled") {
			settledAt, _ = s.Data[step.KeyIterations].(int)
		}
	}
	// Iteration 1 finds every distance, iteration 2 improves D through the
	// shorter route to B, iteration 3 changes nothing.
	if settledAt != 3 {
		t.Fatalf("settled at iteration %d, want 3", settledAt)
	}

	last := lastStep(t, steps)
	wantPath := []string{"A", "C", "B", "D"}
	if got := last.Data[step.KeyPath]; !reflect.DeepEqual(got, wantPath) {
		t.Fatalf("path %v, want %v", got, wantPath)
	}
	if got := last.Data[step.KeyCost]; got != 8.0 {
		t.Fatalf("cost %v, want 8", got)
	}
}

func TestBellmanFordNegativeEdge(t *testing.T) {
	ds := directedGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			id, from, to string
			w            float64
		}{
			{"ab", "A", "B", 4},
			{"bc", "B", "C", -2},
		})
	steps := mustSteps(t, "bellman-ford", ds, Params{Start: "A", Goal: "C"})
	last := lastStep(t, steps)
	if got := last.Data[step.KeyCost]; got != 2.0 {
		t.Fatalf("cost %v, want 2", got)
	}
	if got := last.Data[step.KeyPath]; !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("path %v", got)
	}
}

func TestBellmanFordNegativeEdgesNoCycle(t *testing.T) {
	ds := directedGraph(t,
		[]string{"A", "B", "C", "D"},
		[]struct {
			id, from, to string
			w            float64
		}{
			{"ab", "A", "B", 4},
			{"ad", "A", "D", 5},
			{"bc", "B", "C", 3},
			{"dc", "D", "C", -2},
			{"db", "D", "B", -3},
		})
	steps := mustSteps(t, "bellman-ford", ds, Params{Start: "A", Goal: "C"})

	var settled bool
	for _, s := range steps {
		if strings.Contains(s.Description, "distances settled") {
			settled = true
		}
		if flagged, _ := s.Data[step.KeyNegativeCycle].(bool); flagged {
			t.Fatalf("step %d reports a negative cycle in an acyclic graph", s.Index)
		}
	}
	if !settled {
		t.Fatal("relaxation ran every iteration without settling")
	}
	last := lastStep(t, steps)
	if last.Status == step.StatusError {
		t.Fatalf("terminal error step: %s", last.Description)
	}
	if got := last.Data[step.KeyCost]; got != 3.0 {
		t.Fatalf("cost %v, want 3", got)
	}
	if got := last.Data[step.KeyPath]; !reflect.DeepEqual(got, []string{"A", "D", "C"}) {
		t.Fatalf("path %v, want [A D C]", got)
	}
}

func TestBellmanFordNegativeCycle(t *testing.T) {
	ds := directedGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			id, from, to string
			w            float64
		}{
			{"ab", "A", "B", 1},
			{"bc", "B", "C", -1},
			{"cb", "C", "B", -1},
		})
	steps := mustSteps(t, "bellman-ford", ds, Params{Start: "A", Goal: "C"})
	last := lastStep(t, steps)
	if last.Status != step.StatusError {
		t.Fatalf("status %s, want error", last.Status)
	}
	if got, _ := last.Data[step.KeyNegativeCycle].(bool); !got {
		t.Fatal("terminal step does not flag the negative cycle")
	}
	if len(last.EdgeIDs) != 1 {
		t.Fatalf("edge ids %v, want the offending edge", last.EdgeIDs)
	}
	for _, s := range steps[:len(steps)-1] {
		if s.Terminal() {
			t.Fatalf("terminal step %q before the cycle report", s.Description)
		}
	}
}

func TestBellmanFordDistancesOnly(t *testing.T) {
	ds := directedGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			id, from, to string
			w            float64
		}{
			{"ab", "A", "B", 4},
			{"bc", "B", "C", -2},
		})
	steps := mustSteps(t, "bellman-ford", ds, Params{Start: "A"})
	last := lastStep(t, steps)
	want := map[string]float64{"A": 0, "B": 4, "C": 2}
	if got := last.Data[step.KeyDistances]; !reflect.DeepEqual(got, want) {
		t.Fatalf("distances %v, want %v", got, want)
	}
}

func TestBellmanFordUnreachableGoal(t *testing.T) {
	ds := directedGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			id, from, to string
			w            float64
		}{
			{"ab", "A", "B", 1},
		})
	steps := mustSteps(t, "bellman-ford", ds, Params{Start: "A", Goal: "C"})
	last := lastStep(t, steps)
	if got := last.Data[step.KeyPath]; !reflect.DeepEqual(got, []string{}) {
		t.Fatalf("path %v, want empty", got)
	}
	if _, ok := last.Data[step.KeyCost]; ok {
		t.Fatal("unreachable goal must not carry a cost")
	}
}
