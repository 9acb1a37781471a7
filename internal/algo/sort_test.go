package algo

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

var sortNames = []string{"bubble-sort", "insertion-sort", "selection-sort", "quick-sort", "merge-sort"}

func TestBubbleSortScenario(t *testing.T) {
	ds := seqDataset(t, 5, 3, 4, 8)
	steps := mustSteps(t, "bubble-sort", ds, Params{})
	checkIndexes(t, steps)

	last := lastStep(t, steps)
	if got := last.Data[step.KeyComparisons]; got != 5 {
		t.Errorf("comparisons %v, want 5", got)
	}
	if got := last.Data[step.KeySwaps]; got != 2 {
		t.Errorf("swaps %v, want 2", got)
	}
	wantSeq := []string{"n2", "n3", "n1", "n4"}
	if got := last.Data[step.KeySequence]; !reflect.DeepEqual(got, wantSeq) {
		t.Fatalf("sequence %v, want %v", got, wantSeq)
	}

	if got := replaySteps(t, ds, steps); !reflect.DeepEqual(got, wantSeq) {
		t.Fatalf("replayed order %v, want %v", got, wantSeq)
	}

	var sawEarlyExit bool
	for _, s := range steps {
		if strings.HasPrefix(s.Description, "no swaps in pass 2") {
			sawEarlyExit = true
		}
	}
	if !sawEarlyExit {
		t.Fatal("second pass did not exit early")
	}
}

func TestSortsAgreeOnResult(t *testing.T) {
	want := []string{"n2", "n3", "n1"}
	for _, name := range sortNames {
		ds := seqDataset(t, 3, 1, 2)
		steps := mustSteps(t, name, ds, Params{})
		if got := replaySteps(t, ds, steps); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: replayed order %v, want %v", name, got, want)
		}
		last := lastStep(t, steps)
		if got := last.Data[step.KeySequence]; !reflect.DeepEqual(got, want) {
			t.Errorf("%s: sequence %v, want %v", name, got, want)
		}
	}
}

func TestSortsProduceSortedPermutation(t *testing.T) {
	vals := []float64{5, 1, 4, 2, 8, 3, 7, 6}
	for _, name := range sortNames {
		ds := seqDataset(t, vals...)
		steps := mustSteps(t, name, ds, Params{})
		checkIndexes(t, steps)

		order := replaySteps(t, ds, steps)
		if len(order) != len(vals) {
			t.Fatalf("%s: replay lost elements: %v", name, order)
		}
		got := ds.Values()
		if !sort.Float64sAreSorted(got) {
			t.Errorf("%s: values not sorted: %v", name, got)
		}
		seen := map[string]bool{}
		for _, id := range order {
			if seen[id] {
				t.Fatalf("%s: duplicate id %s in order", name, id)
			}
			seen[id] = true
		}

		last := lastStep(t, steps)
		if got := last.Data[step.KeySequence]; !reflect.DeepEqual(got, order) {
			t.Errorf("%s: terminal sequence %v does not match replay %v", name, got, order)
		}
		for _, id := range order {
			if last.NodeStates[id] != graph.StateSorted {
				t.Errorf("%s: %s not marked sorted", name, id)
			}
		}
	}
}

func TestSortCountersAreCumulative(t *testing.T) {
	for _, name := range sortNames {
		steps := mustSteps(t, name, seqDataset(t, 4, 3, 2, 1), Params{})
		prevComps, prevSwaps := -1, -1
		for _, s := range steps {
			comps, ok := s.Data[step.KeyComparisons].(int)
			if !ok {
				t.Fatalf("%s: step %d carries no comparison counter", name, s.Index)
			}
			swaps := s.Data[step.KeySwaps].(int)
			if comps < prevComps || swaps < prevSwaps {
				t.Fatalf("%s: counters went backwards at step %d", name, s.Index)
			}
			prevComps, prevSwaps = comps, swaps
		}
	}
}

func TestQuickSortMarksPivot(t *testing.T) {
	steps := mustSteps(t, "quick-sort", seqDataset(t, 3, 1, 2), Params{})
	var partitions int
	for _, s := range steps {
		if !strings.HasPrefix(s.Description, "partition positions") {
			continue
		}
		partitions++
		pivot, _ := s.Data[step.KeyPivot].(string)
		if pivot == "" {
			t.Fatalf("partition step %d has no pivot", s.Index)
		}
		if s.NodeStates[pivot] != graph.StatePivot {
			t.Errorf("pivot %s not in pivot state", pivot)
		}
	}
	if partitions == 0 {
		t.Fatal("no partition steps")
	}
}

func TestInsertionSortUsesSingleMoves(t *testing.T) {
	steps := mustSteps(t, "insertion-sort", seqDataset(t, 3, 1, 2), Params{})
	var moves int
	for _, s := range steps {
		if len(s.Moves) == 0 {
			continue
		}
		moves++
		if len(s.Moves) != 1 {
			t.Fatalf("step %d carries %d moves, want 1", s.Index, len(s.Moves))
		}
	}
	if moves != 2 {
		t.Fatalf("%d move steps, want 2", moves)
	}
}

func TestSortsHandleDuplicateValues(t *testing.T) {
	want := []float64{1, 1, 2, 3, 4, 5, 6, 9}
	for _, name := range sortNames {
		ds := seqDataset(t, 3, 1, 4, 1, 5, 9, 2, 6)
		steps := mustSteps(t, name, ds, Params{})
		replaySteps(t, ds, steps)
		if got := ds.Values(); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: sorted %v, want %v", name, got, want)
		}
	}
}

func TestSortAlreadySorted(t *testing.T) {
	for _, name := range sortNames {
		ds := seqDataset(t, 1, 2, 3, 4)
		steps := mustSteps(t, name, ds, Params{})
		last := lastStep(t, steps)
		if got := last.Data[step.KeySwaps]; got != 0 {
			t.Errorf("%s: %v swaps on sorted input", name, got)
		}
		if got := replaySteps(t, ds, steps); !reflect.DeepEqual(got, []string{"n1", "n2", "n3", "n4"}) {
			t.Errorf("%s: order disturbed: %v", name, got)
		}
	}
}

func TestSortSingleElement(t *testing.T) {
	for _, name := range sortNames {
		steps := mustSteps(t, name, seqDataset(t, 42), Params{})
		last := lastStep(t, steps)
		if got := last.Data[step.KeyComparisons]; got != 0 {
			t.Errorf("%s: %v comparisons for one element", name, got)
		}
	}
}
