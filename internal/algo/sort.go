package algo

import (
	"fmt"
	"slices"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func newBubbleSort() Adapter {
	return &funcAdapter{name: "bubble-sort", kind: draw.KindSequence, run: runBubbleSort}
}

func newInsertionSort() Adapter {
	return &funcAdapter{name: "insertion-sort", kind: draw.KindSequence, run: runInsertionSort}
}

func newSelectionSort() Adapter {
	return &funcAdapter{name: "selection-sort", kind: draw.KindSequence, run: runSelectionSort}
}

func newQuickSort() Adapter {
	return &funcAdapter{name: "quick-sort", kind: draw.KindSequence, run: runQuickSort}
}

func newMergeSort() Adapter {
	return &funcAdapter{name: "merge-sort", kind: draw.KindSequence, run: runMergeSort}
}

// sorter mirrors the dataset order locally so the sorts can reason about
// positions without re-reading the dataset, and keeps the comparison and
// swap counters that every emitted step carries.
type sorter struct {
	em      *emitter
	ids     []string
	vals    []float64
	comps   int
	swaps   int
	lit     []string
	settled map[string]bool
	pin     string
}

func newSorter(ds *graph.Dataset, em *emitter) *sorter {
	ids := ds.Order()
	vals := make([]float64, len(ids))
	for i, id := range ids {
		n, _ := ds.Node(id)
		vals[i] = n.Value
	}
	return &sorter{em: em, ids: ids, vals: vals, settled: make(map[string]bool)}
}

// frame demotes whatever the previous step lit up, so markers do not
// accumulate across steps. Settled elements fall back to Sorted, the
// pinned element keeps its state, everything else returns to Default.
func (s *sorter) frame(states map[string]graph.State) map[string]graph.State {
	for _, id := range s.lit {
		if _, ok := states[id]; ok {
			continue
		}
		if id == s.pin {
			continue
		}
		if s.settled[id] {
			states[id] = graph.StateSorted
		} else {
			states[id] = graph.StateDefault
		}
	}
	s.lit = s.lit[:0]
	for id, st := range states {
		if st != graph.StateDefault && st != graph.StateSorted {
			s.lit = append(s.lit, id)
		}
	}
	if s.pin != "" && !slices.Contains(s.lit, s.pin) {
		s.lit = append(s.lit, s.pin)
	}
	return states
}

func (s *sorter) emitStep(desc string, ids []string, states map[string]graph.State, moves []step.Move, extra map[string]any) {
	data := map[string]any{
		step.KeyComparisons: s.comps,
		step.KeySwaps:       s.swaps,
	}
	for k, v := range extra {
		data[k] = v
	}
	s.em.send(step.Step{
		Description: desc,
		Status:      step.StatusRunning,
		NodeIDs:     ids,
		NodeStates:  s.frame(states),
		Moves:       moves,
		Data:        data,
	})
}

// compare reports whether the value at i is greater than the value at j.
func (s *sorter) compare(i, j int) bool {
	s.comps++
	s.emitStep(
		fmt.Sprintf("compare %s (%g) with %s (%g)", s.ids[i], s.vals[i], s.ids[j], s.vals[j]),
		[]string{s.ids[i], s.ids[j]},
		map[string]graph.State{s.ids[i]: graph.StateCurrent, s.ids[j]: graph.StateFrontier},
		nil, nil,
	)
	return s.vals[i] > s.vals[j]
}

func (s *sorter) swap(i, j int) {
	if i > j {
		i, j = j, i
	}
	s.swaps++
	a, b := s.ids[i], s.ids[j]
	moves := []step.Move{{ID: b, To: i}}
	if j != i+1 {
		moves = append(moves, step.Move{ID: a, To: j})
	}
	s.emitStep(
		fmt.Sprintf("swap %s and %s", a, b),
		[]string{a, b},
		map[string]graph.State{a: graph.StateHighlighted, b: graph.StateHighlighted},
		moves, nil,
	)
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}

// moveTo lifts the element at from out of the order and reinserts it so
// it lands at to, mirroring the dataset move locally.
func (s *sorter) moveTo(from, to int) {
	s.swaps++
	id, val := s.ids[from], s.vals[from]
	s.emitStep(
		fmt.Sprintf("move %s (%g) to position %d", id, val, to),
		[]string{id},
		map[string]graph.State{id: graph.StateHighlighted},
		[]step.Move{{ID: id, To: to}}, nil,
	)
	s.ids = slices.Insert(slices.Delete(s.ids, from, from+1), to, id)
	s.vals = slices.Insert(slices.Delete(s.vals, from, from+1), to, val)
}

func (s *sorter) settle(desc string, idxs ...int) {
	ids := make([]string, 0, len(idxs))
	states := make(map[string]graph.State, len(idxs))
	for _, i := range idxs {
		ids = append(ids, s.ids[i])
		states[s.ids[i]] = graph.StateSorted
		s.settled[s.ids[i]] = true
	}
	s.emitStep(desc, ids, states, nil, nil)
}

func (s *sorter) finish(name string) {
	states := make(map[string]graph.State, len(s.ids))
	for _, id := range s.ids {
		states[id] = graph.StateSorted
	}
	s.em.send(step.Step{
		Description: fmt.Sprintf("%s complete: %d values in %d comparisons and %d swaps",
			name, len(s.ids), s.comps, s.swaps),
		Status:     step.StatusCompleted,
		NodeIDs:    slices.Clone(s.ids),
		NodeStates: states,
		Data: map[string]any{
			step.KeyComparisons: s.comps,
			step.KeySwaps:       s.swaps,
			step.KeySequence:    slices.Clone(s.ids),
		},
	})
}

func runBubbleSort(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	s := newSorter(ds, &emitter{emit: emit})
	n := len(s.ids)
	for end := n; end > 1; end-- {
		pass := n - end + 1
		swapped := false
		for i := 0; i+1 < end; i++ {
			if s.compare(i, i+1) {
				s.swap(i, i+1)
				swapped = true
			}
		}
		s.settle(fmt.Sprintf("pass %d complete: %s settled at position %d", pass, s.ids[end-1], end-1), end-1)
		if !swapped {
			rest := make([]int, 0, end-1)
			for i := 0; i < end-1; i++ {
				rest = append(rest, i)
			}
			if len(rest) > 0 {
				s.settle(fmt.Sprintf("no swaps in pass %d: remaining %d values already in order", pass, len(rest)), rest...)
			}
			break
		}
	}
	s.finish("bubble sort")
}

func runInsertionSort(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	s := newSorter(ds, &emitter{emit: emit})
	for i := 1; i < len(s.ids); i++ {
		pos := i
		for pos > 0 && s.compare(pos-1, i) {
			pos--
		}
		if pos != i {
			s.moveTo(i, pos)
		}
	}
	s.finish("insertion sort")
}

func runSelectionSort(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	s := newSorter(ds, &emitter{emit: emit})
	n := len(s.ids)
	for i := 0; i < n-1; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			if s.compare(minIdx, j) {
				minIdx = j
			}
		}
		if minIdx != i {
			s.swap(i, minIdx)
		}
		s.settle(fmt.Sprintf("%s settled at position %d", s.ids[i], i), i)
	}
	s.finish("selection sort")
}

func runQuickSort(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	s := newSorter(ds, &emitter{emit: emit})
	var qs func(lo, hi int)
	qs = func(lo, hi int) {
		if lo >= hi {
			return
		}
		pivot := s.ids[hi]
		s.pin = pivot
		s.emitStep(
			fmt.Sprintf("partition positions %d-%d with pivot %s (%g)", lo, hi, pivot, s.vals[hi]),
			[]string{pivot},
			map[string]graph.State{pivot: graph.StatePivot},
			nil,
			map[string]any{step.KeyPivot: pivot},
		)
		i := lo
		for j := lo; j < hi; j++ {
			s.comps++
			s.emitStep(
				fmt.Sprintf("compare %s (%g) with pivot %s (%g)", s.ids[j], s.vals[j], pivot, s.vals[hi]),
				[]string{s.ids[j], pivot},
				map[string]graph.State{s.ids[j]: graph.StateCurrent},
				nil,
				map[string]any{step.KeyPivot: pivot},
			)
			if s.vals[j] <= s.vals[hi] {
				if i != j {
					s.swap(i, j)
				}
				i++
			}
		}
		if i != hi {
			s.swap(i, hi)
		}
		s.pin = ""
		s.settle(fmt.Sprintf("pivot %s settled at position %d", s.ids[i], i), i)
		qs(lo, i-1)
		qs(i+1, hi)
	}
	qs(0, len(s.ids)-1)
	s.finish("quick sort")
}

func runMergeSort(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	s := newSorter(ds, &emitter{emit: emit})
	var ms func(lo, hi int)
	ms = func(lo, hi int) {
		if hi-lo < 2 {
			return
		}
		mid := (lo + hi) / 2
		ms(lo, mid)
		ms(mid, hi)
		s.emitStep(
			fmt.Sprintf("merge positions %d-%d with %d-%d", lo, mid-1, mid, hi-1),
			nil, map[string]graph.State{}, nil, nil,
		)
		i, j := lo, mid
		for i < j && j < hi {
			if s.compare(i, j) {
				s.moveTo(j, i)
				j++
			}
			i++
		}
	}
	ms(0, len(s.ids))
	s.finish("merge sort")
}
