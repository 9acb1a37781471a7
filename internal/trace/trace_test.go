package trace

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/algo"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func sortFixture(t *testing.T) (*graph.Dataset, []step.Step) {
	t.Helper()
	ds := graph.New()
	for i, v := range []float64{5, 3, 4, 8} {
		if err := ds.AddNode(&graph.Node{ID: fmt.Sprintf("n%d", i+1), Value: v}); err != nil {
			t.Fatalf("add node: %v", err)
		}
	}
	a, err := algo.Get("bubble-sort")
	if err != nil {
		t.Fatalf("get adapter: %v", err)
	}
	steps, err := a.Execute(ds, algo.Params{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	return ds, steps
}

func treeFixture(t *testing.T) (*graph.Dataset, []step.Step) {
	t.Helper()
	ds := graph.New()
	for i, v := range []float64{30, 20, 10, 25} {
		if err := ds.AddNode(&graph.Node{ID: fmt.Sprintf("n%d", i+1), Value: v}); err != nil {
			t.Fatalf("add node: %v", err)
		}
	}
	a, err := algo.Get("avl")
	if err != nil {
		t.Fatalf("get adapter: %v", err)
	}
	steps, err := a.Execute(ds, algo.Params{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	return ds, steps
}

func newEngine(t *testing.T, ds *graph.Dataset, steps []step.Step) *Engine {
	t.Helper()
	e, err := NewFromSteps(ds, steps)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestEngineForwardToEnd(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	for i := range steps {
		res := e.StepForward(ctx)
		if res.Status != Advanced {
			t.Fatalf("step %d: status %s", i, res.Status)
		}
		if res.Index != i {
			t.Fatalf("step %d: index %d", i, res.Index)
		}
	}
	if res := e.StepForward(ctx); res.Status != AtEnd {
		t.Fatalf("status %s, want at-end", res.Status)
	}
	if got := ds.Order(); !reflect.DeepEqual(got, []string{"n2", "n3", "n1", "n4"}) {
		t.Fatalf("final order %v", got)
	}
}

func TestEngineBackRestoresInitialDataset(t *testing.T) {
	ds, steps := sortFixture(t)
	before := ds.Checksum()
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	for range steps {
		if res := e.StepForward(ctx); res.Status != Advanced {
			t.Fatalf("forward: %s (%v)", res.Status, res.Err)
		}
	}
	for e.Cursor() > 0 {
		if res := e.StepBackward(); res.Status != SteppedBack {
			t.Fatalf("back: %s (%v)", res.Status, res.Err)
		}
	}
	if res := e.StepBackward(); res.Status != AtStart {
		t.Fatalf("status %s, want at-start", res.Status)
	}
	if got := ds.Checksum(); got != before {
		t.Fatalf("rewound checksum %#x, want %#x", got, before)
	}
	if got := ds.Order(); !reflect.DeepEqual(got, []string{"n1", "n2", "n3", "n4"}) {
		t.Fatalf("rewound order %v", got)
	}
}

func TestEngineReplayMatchesFirstPass(t *testing.T) {
	ds, steps := treeFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	var firstPass []uint64
	for range steps {
		if res := e.StepForward(ctx); res.Status != Advanced {
			t.Fatalf("first pass: %s (%v)", res.Status, res.Err)
		}
		firstPass = append(firstPass, ds.Checksum())
	}
	for e.Cursor() > 0 {
		if res := e.StepBackward(); res.Status != SteppedBack {
			t.Fatalf("rewind: %s (%v)", res.Status, res.Err)
		}
	}
	for i := range steps {
		if res := e.StepForward(ctx); res.Status != Advanced {
			t.Fatalf("replay step %d: %s (%v)", i, res.Status, res.Err)
		}
		if got := ds.Checksum(); got != firstPass[i] {
			t.Fatalf("replay step %d: checksum %#x, want %#x", i, got, firstPass[i])
		}
	}
}

func TestEngineReparentUndo(t *testing.T) {
	ds, steps := treeFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	for range steps {
		if res := e.StepForward(ctx); res.Status != Advanced {
			t.Fatalf("forward: %s (%v)", res.Status, res.Err)
		}
	}
	if ds.EdgeCount() == 0 {
		t.Fatal("tree construction added no edges")
	}
	for e.Cursor() > 0 {
		if res := e.StepBackward(); res.Status != SteppedBack {
			t.Fatalf("back: %s (%v)", res.Status, res.Err)
		}
	}
	if got := ds.EdgeCount(); got != 0 {
		t.Fatalf("%d edges after rewind, want 0", got)
	}
}

func TestEngineBreakpoints(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	e.SetBreakpoint(3)
	e.SetBreakpoint(7)
	e.SetBreakpoint(-2)
	if got := e.Breakpoints(); !reflect.DeepEqual(got, []int{3, 7}) {
		t.Fatalf("breakpoints %v, want [3 7]", got)
	}

	var halts []int
	for {
		res := e.StepForward(ctx)
		if res.Status == AtEnd {
			break
		}
		if res.Status == Halted {
			halts = append(halts, res.Index)
			continue
		}
		if res.Status != Advanced {
			t.Fatalf("status %s (%v)", res.Status, res.Err)
		}
	}
	if !reflect.DeepEqual(halts, []int{3, 7}) {
		t.Fatalf("halted at %v, want [3 7]", halts)
	}

	e.ClearBreakpoint(3)
	if got := e.Breakpoints(); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("breakpoints %v, want [7]", got)
	}
}

func TestEngineContinueToBreakpoint(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()
	e.SetBreakpoint(3)
	e.SetBreakpoint(7)

	res := e.ContinueToBreakpoint(ctx)
	if res.Status != Halted || res.Index != 3 {
		t.Fatalf("first continue: %s index %d", res.Status, res.Index)
	}
	res = e.ContinueToBreakpoint(ctx)
	if res.Status != Halted || res.Index != 7 {
		t.Fatalf("second continue: %s index %d", res.Status, res.Index)
	}
	res = e.ContinueToBreakpoint(ctx)
	if res.Status != AtEnd {
		t.Fatalf("final continue: %s", res.Status)
	}
	if e.Cursor() != len(steps) {
		t.Fatalf("cursor %d, want %d", e.Cursor(), len(steps))
	}
}

func TestEngineJump(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()
	e.SetBreakpoint(2)

	res := e.JumpTo(ctx, 5)
	if res.Status != Jumped || res.Index != 5 {
		t.Fatalf("jump: %s index %d", res.Status, res.Index)
	}
	if e.Cursor() != 6 {
		t.Fatalf("position %d, want 6", e.Cursor())
	}

	// Jumping backwards restores and re-reports the target.
	if res := e.JumpTo(ctx, 2); res.Status != Jumped || res.Index != 2 {
		t.Fatalf("jump back: %s index %d", res.Status, res.Index)
	}

	if res := e.Reset(ctx); res.Status != Jumped || res.Index != -1 {
		t.Fatalf("reset: %s index %d", res.Status, res.Index)
	}
	initial := graph.New()
	for i, v := range []float64{5, 3, 4, 8} {
		if err := initial.AddNode(&graph.Node{ID: fmt.Sprintf("n%d", i+1), Value: v}); err != nil {
			t.Fatalf("add node: %v", err)
		}
	}
	if ds.Checksum() != initial.Checksum() {
		t.Fatal("reset did not restore the initial dataset")
	}
}

func TestEngineJumpOutOfRange(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	e.JumpTo(ctx, 4)
	for _, target := range []int{len(steps), -5} {
		res := e.JumpTo(ctx, target)
		if res.Status != Failed || !errors.Is(res.Err, ErrOutOfRange) {
			t.Fatalf("target %d: %s (%v)", target, res.Status, res.Err)
		}
		if e.Cursor() != 5 {
			t.Fatalf("target %d moved cursor to %d", target, e.Cursor())
		}
	}
	// An out-of-range jump is not a poisoned engine.
	if res := e.StepForward(ctx); res.Status != Advanced {
		t.Fatalf("forward after out-of-range jump: %s", res.Status)
	}
}

func TestEngineJumpEquivalentToStepping(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	for target := 0; target < len(steps); target++ {
		if res := e.JumpTo(ctx, target); res.Status != Jumped {
			t.Fatalf("jump to %d: %s (%v)", target, res.Status, res.Err)
		}
		jumped := ds.Checksum()

		e.Reset(ctx)
		for i := 0; i <= target; i++ {
			if res := e.StepForward(ctx); res.Status != Advanced {
				t.Fatalf("step %d: %s (%v)", i, res.Status, res.Err)
			}
		}
		if got := ds.Checksum(); got != jumped {
			t.Fatalf("target %d: stepping gives %#x, jump gave %#x", target, got, jumped)
		}
		e.Reset(ctx)
	}
}

func TestEngineCancellation(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.StepForward(ctx)
	if res.Status != Cancelled || !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("status %s (%v)", res.Status, res.Err)
	}
	if e.Cursor() != 0 {
		t.Fatalf("cancelled step moved cursor to %d", e.Cursor())
	}
	if res := e.StepForward(context.Background()); res.Status != Advanced {
		t.Fatalf("engine unusable after cancellation: %s", res.Status)
	}
}

func TestEngineLazySource(t *testing.T) {
	ds, _ := sortFixture(t)
	a, err := algo.Get("bubble-sort")
	if err != nil {
		t.Fatalf("get adapter: %v", err)
	}
	src, err := algo.Stream(a, ds, algo.Params{})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	e := New(ds, src)
	ctx := context.Background()

	if e.Done() {
		t.Fatal("fresh lazy engine reports done")
	}
	if res := e.StepForward(ctx); res.Status != Advanced {
		t.Fatalf("forward: %s", res.Status)
	}
	if got := e.Len(); got != 1 {
		t.Fatalf("materialized %d steps after one advance, want 1", got)
	}

	if err := e.Materialize(ctx); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if !e.Done() {
		t.Fatal("engine not done after materialize")
	}
	total := e.Len()
	for e.Cursor() < total {
		if res := e.StepForward(ctx); res.Status != Advanced {
			t.Fatalf("forward: %s (%v)", res.Status, res.Err)
		}
	}
	if res := e.StepForward(ctx); res.Status != AtEnd {
		t.Fatalf("status %s, want at-end", res.Status)
	}
}

func TestEngineRejectsGappySource(t *testing.T) {
	ds, _ := sortFixture(t)
	src := step.NewSource(func(yield func(step.Step) bool) {
		yield(step.Step{Index: 0, Description: "ok"})
		yield(step.Step{Index: 4, Description: "gap"})
	})
	e := New(ds, src)
	ctx := context.Background()

	if res := e.StepForward(ctx); res.Status != Advanced {
		t.Fatalf("first step: %s", res.Status)
	}
	res := e.StepForward(ctx)
	if res.Status != Failed || !errors.Is(res.Err, ErrBadStep) {
		t.Fatalf("status %s (%v)", res.Status, res.Err)
	}
	// Failure is sticky.
	if res := e.StepForward(ctx); res.Status != Failed {
		t.Fatalf("engine moved after failure: %s", res.Status)
	}
}

func TestEngineFromStepsValidatesIndexes(t *testing.T) {
	ds, _ := sortFixture(t)
	_, err := NewFromSteps(ds, []step.Step{{Index: 1}})
	if !errors.Is(err, ErrBadStep) {
		t.Fatalf("expected ErrBadStep, got %v", err)
	}
}

func TestEngineRejectsUnknownReferences(t *testing.T) {
	ds, _ := sortFixture(t)
	e := newEngine(t, ds, []step.Step{{
		Index:      0,
		NodeStates: map[string]graph.State{"ghost": graph.StateVisited},
	}})
	res := e.StepForward(context.Background())
	if res.Status != Failed || !errors.Is(res.Err, ErrBadStep) {
		t.Fatalf("status %s (%v)", res.Status, res.Err)
	}
}

func TestEngineBaseline(t *testing.T) {
	ds, steps := treeFixture(t)
	before := ds.Checksum()
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	e.JumpTo(ctx, len(steps)/2)
	base, err := e.Baseline()
	if err != nil {
		t.Fatalf("baseline: %v", err)
	}
	if got := base.Checksum(); got != before {
		t.Fatalf("baseline checksum %#x, want %#x", got, before)
	}
	// The live dataset keeps its mid-run shape.
	if ds.Checksum() == before && e.Cursor() > 0 {
		t.Fatal("baseline rewound the live dataset")
	}
}

func TestEngineDivergenceDetected(t *testing.T) {
	ds, steps := sortFixture(t)
	e := newEngine(t, ds, steps)
	ctx := context.Background()

	e.JumpTo(ctx, 3)
	e.JumpTo(ctx, 1)
	// Out-of-band mutation makes the next re-application produce a
	// different dataset than the recorded first pass.
	n, _ := ds.Node("n1")
	n.Value = 99
	var res Result
	for {
		res = e.StepForward(ctx)
		if res.Status != Advanced {
			break
		}
	}
	if res.Status != Failed || !errors.Is(res.Err, ErrDiverged) {
		t.Fatalf("status %s (%v)", res.Status, res.Err)
	}
}
