// Package trace applies Step sequences to a dataset with full bidirectional
// navigation. Every forward application records the inverse delta, so
// stepping back restores the exact prior dataset, and a checksum taken
// after each first application catches replays that diverge.
package trace

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

// Result reports where one navigation call left the cursor. Index is the
// index of the last applied step, -1 when the cursor sits before the
// first one. Step carries the step the call applied or reversed, when
// there is one.
type Result struct {
	Status Status
	Index  int
	Step   *step.Step
	Err    error
}

// Engine owns the cursor over a step sequence. Steps come either from a
// pull-based source, materialized on demand, or from a pre-built slice.
// The engine is not safe for concurrent use; the owning visualizer
// serializes access.
type Engine struct {
	ds     *graph.Dataset
	src    *step.Source
	steps  []step.Step
	undo   []undoRecord
	sums   []uint64
	cursor int
	breaks map[int]bool
	failed error
}

// New wraps a dataset and a lazy step source. The engine pulls steps as
// the cursor first reaches them.
func New(ds *graph.Dataset, src *step.Source) *Engine {
	return &Engine{ds: ds, src: src, breaks: map[int]bool{}}
}

// NewFromSteps wraps a dataset and a fully materialized sequence, as
// used when replaying a recorded trace.
func NewFromSteps(ds *graph.Dataset, steps []step.Step) (*Engine, error) {
	for i, s := range steps {
		if s.Index != i {
			return nil, errors.Wrapf(ErrBadStep, "step %d carries index %d", i, s.Index)
		}
	}
	return &Engine{ds: ds, steps: steps, breaks: map[int]bool{}}, nil
}

// Close releases the underlying source. The engine stays navigable over
// whatever was materialized.
func (e *Engine) Close() {
	if e.src != nil {
		e.src.Stop()
		e.src = nil
	}
}

// Dataset returns the live dataset the cursor mutates.
func (e *Engine) Dataset() *graph.Dataset { return e.ds }

// Cursor returns the number of applied steps.
func (e *Engine) Cursor() int { return e.cursor }

// Current returns the last applied step.
func (e *Engine) Current() (step.Step, bool) {
	if e.cursor == 0 {
		return step.Step{}, false
	}
	return e.steps[e.cursor-1], true
}

// Len returns the number of materialized steps, which can still grow
// while the source has more.
func (e *Engine) Len() int { return len(e.steps) }

// Done reports whether the full sequence is materialized.
func (e *Engine) Done() bool { return e.src == nil }

// Err returns the integrity error that froze the engine, if any.
func (e *Engine) Err() error { return e.failed }

// Steps returns the materialized steps.
func (e *Engine) Steps() []step.Step {
	out := make([]step.Step, len(e.steps))
	copy(out, e.steps)
	return out
}

func (e *Engine) SetBreakpoint(index int) {
	if index >= 0 {
		e.breaks[index] = true
	}
}

func (e *Engine) ClearBreakpoint(index int) {
	delete(e.breaks, index)
}

func (e *Engine) HasBreakpoint(index int) bool { return e.breaks[index] }

func (e *Engine) Breakpoints() []int {
	out := make([]int, 0, len(e.breaks))
	for i := range e.breaks {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// pull materializes one more step from the source. It enforces that
// sources hand out contiguous indexes.
func (e *Engine) pull() (bool, error) {
	if e.src == nil {
		return false, nil
	}
	s, ok := e.src.Next()
	if !ok {
		e.Close()
		return false, nil
	}
	if s.Index != len(e.steps) {
		e.Close()
		return false, errors.Wrapf(ErrBadStep, "source produced index %d, want %d", s.Index, len(e.steps))
	}
	e.steps = append(e.steps, s)
	return true, nil
}

// Materialize drains the source so Len is final. The cursor does not
// move.
func (e *Engine) Materialize(ctx context.Context) error {
	if e.failed != nil {
		return e.failed
	}
	for e.src != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.pull(); err != nil {
			e.failed = err
			return err
		}
	}
	return nil
}

// StepForward applies the next step. Landing on a step with a breakpoint
// reports Halted rather than Advanced.
func (e *Engine) StepForward(ctx context.Context) Result {
	return e.forward(ctx, true)
}

func (e *Engine) forward(ctx context.Context, honorBreaks bool) Result {
	if e.failed != nil {
		return Result{Status: Failed, Index: e.cursor - 1, Err: e.failed}
	}
	if err := ctx.Err(); err != nil {
		return Result{Status: Cancelled, Index: e.cursor - 1, Err: err}
	}
	if e.cursor == len(e.steps) {
		ok, err := e.pull()
		if err != nil {
			e.failed = err
			return Result{Status: Failed, Index: e.cursor - 1, Err: err}
		}
		if !ok {
			return Result{Status: AtEnd, Index: e.cursor - 1}
		}
	}

	s := e.steps[e.cursor]
	rec, err := apply(e.ds, s)
	if err != nil {
		e.failed = err
		return Result{Status: Failed, Index: e.cursor - 1, Err: err}
	}
	e.undo = append(e.undo, rec)
	e.cursor++

	sum := e.ds.Checksum()
	if e.cursor-1 < len(e.sums) {
		if e.sums[e.cursor-1] != sum {
			e.failed = errors.Wrapf(ErrDiverged, "step %d", s.Index)
			return Result{Status: Failed, Index: s.Index, Err: e.failed}
		}
	} else {
		e.sums = append(e.sums, sum)
	}

	if honorBreaks && e.breaks[s.Index] {
		return Result{Status: Halted, Index: s.Index, Step: &s}
	}
	return Result{Status: Advanced, Index: s.Index, Step: &s}
}

// StepBackward reverses the last applied step.
func (e *Engine) StepBackward() Result {
	if e.failed != nil {
		return Result{Status: Failed, Index: e.cursor - 1, Err: e.failed}
	}
	if e.cursor == 0 {
		return Result{Status: AtStart, Index: -1}
	}
	rec := e.undo[e.cursor-1]
	if err := unapply(e.ds, rec); err != nil {
		e.failed = err
		return Result{Status: Failed, Index: e.cursor - 1, Err: err}
	}
	reversed := e.steps[e.cursor-1]
	e.undo = e.undo[:e.cursor-1]
	e.cursor--
	return Result{Status: SteppedBack, Index: e.cursor - 1, Step: &reversed}
}

// ContinueToBreakpoint advances until a breakpoint halts the cursor or
// the sequence ends, checking ctx between steps.
func (e *Engine) ContinueToBreakpoint(ctx context.Context) Result {
	for {
		res := e.StepForward(ctx)
		if res.Status != Advanced {
			return res
		}
	}
}

// JumpTo moves the cursor so that index is the last applied step; -1
// rewinds to the initial dataset. Out-of-range targets fail without
// moving the cursor. Breakpoints do not halt a jump.
func (e *Engine) JumpTo(ctx context.Context, index int) Result {
	if e.failed != nil {
		return Result{Status: Failed, Index: e.cursor - 1, Err: e.failed}
	}
	if index < -1 {
		return Result{Status: Failed, Index: e.cursor - 1, Err: errors.Wrapf(ErrOutOfRange, "index %d", index)}
	}
	for len(e.steps) <= index && e.src != nil {
		if err := ctx.Err(); err != nil {
			return Result{Status: Cancelled, Index: e.cursor - 1, Err: err}
		}
		if _, err := e.pull(); err != nil {
			e.failed = err
			return Result{Status: Failed, Index: e.cursor - 1, Err: err}
		}
	}
	if index >= len(e.steps) {
		return Result{Status: Failed, Index: e.cursor - 1, Err: errors.Wrapf(ErrOutOfRange, "index %d beyond %d steps", index, len(e.steps))}
	}

	for e.cursor-1 < index {
		res := e.forward(ctx, false)
		if res.Status != Advanced {
			return res
		}
	}
	for e.cursor-1 > index {
		if res := e.StepBackward(); res.Status != SteppedBack {
			return res
		}
	}
	res := Result{Status: Jumped, Index: index}
	if index >= 0 {
		s := e.steps[index]
		res.Step = &s
	}
	return res
}

// Reset rewinds everything, restoring the initial dataset.
func (e *Engine) Reset(ctx context.Context) Result {
	return e.JumpTo(ctx, -1)
}

// Baseline reconstructs the dataset as it was before any step applied,
// without moving the cursor.
func (e *Engine) Baseline() (*graph.Dataset, error) {
	c := e.ds.Clone()
	for i := len(e.undo) - 1; i >= 0; i-- {
		if err := unapply(c, e.undo[i]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// undoRecord holds the inverse of one applied step: the element states it
// overwrote, the node order before any moves, and the edges the reparent
// deltas removed and added.
type undoRecord struct {
	nodeStates map[string]graph.State
	edgeStates map[string]graph.State
	order      []string
	removed    []graph.Edge
	added      []string
}

// validate checks every reference the step would mutate, so apply either
// fully succeeds or leaves the dataset untouched.
func validate(ds *graph.Dataset, s step.Step) error {
	for id := range s.NodeStates {
		if _, ok := ds.Node(id); !ok {
			return errors.Wrapf(ErrBadStep, "step %d states missing node %q", s.Index, id)
		}
	}
	for id := range s.EdgeStates {
		if _, ok := ds.Edge(id); !ok {
			return errors.Wrapf(ErrBadStep, "step %d states missing edge %q", s.Index, id)
		}
	}
	for _, m := range s.Moves {
		if _, ok := ds.Node(m.ID); !ok {
			return errors.Wrapf(ErrBadStep, "step %d moves missing node %q", s.Index, m.ID)
		}
		if m.To < 0 || m.To >= ds.NodeCount() {
			return errors.Wrapf(ErrBadStep, "step %d move target %d out of range", s.Index, m.To)
		}
	}
	for child, parent := range s.Reparent {
		if _, ok := ds.Node(child); !ok {
			return errors.Wrapf(ErrBadStep, "step %d reparents missing node %q", s.Index, child)
		}
		if parent != "" {
			if _, ok := ds.Node(parent); !ok {
				return errors.Wrapf(ErrBadStep, "step %d reparents under missing node %q", s.Index, parent)
			}
		}
	}
	return nil
}

func apply(ds *graph.Dataset, s step.Step) (undoRecord, error) {
	var rec undoRecord
	if err := validate(ds, s); err != nil {
		return rec, err
	}

	if len(s.NodeStates) > 0 {
		rec.nodeStates = make(map[string]graph.State, len(s.NodeStates))
		for id, st := range s.NodeStates {
			n, _ := ds.Node(id)
			rec.nodeStates[id] = n.State
			n.State = st
		}
	}
	if len(s.EdgeStates) > 0 {
		rec.edgeStates = make(map[string]graph.State, len(s.EdgeStates))
		for id, st := range s.EdgeStates {
			ed, _ := ds.Edge(id)
			rec.edgeStates[id] = ed.State
			ed.State = st
		}
	}

	if len(s.Moves) > 0 {
		rec.order = ds.Order()
		for _, m := range s.Moves {
			if err := ds.MoveNode(m.ID, m.To); err != nil {
				return rec, errors.Wrapf(err, "step %d", s.Index)
			}
		}
	}

	if len(s.Reparent) > 0 {
		children := make([]string, 0, len(s.Reparent))
		for child := range s.Reparent {
			children = append(children, child)
		}
		sort.Strings(children)
		for _, child := range children {
			parent := s.Reparent[child]
			for _, ed := range ds.Edges() {
				if ed.Directed && ed.Target == child {
					rec.removed = append(rec.removed, *ed)
				}
			}
			if err := ds.Reparent(child, parent); err != nil {
				return rec, errors.Wrapf(err, "step %d", s.Index)
			}
			if parent != "" {
				rec.added = append(rec.added, graph.TreeEdgeID(parent, child))
			}
		}
	}
	return rec, nil
}

func unapply(ds *graph.Dataset, rec undoRecord) error {
	for i := len(rec.added) - 1; i >= 0; i-- {
		if err := ds.RemoveEdge(rec.added[i]); err != nil {
			return err
		}
	}
	for i := len(rec.removed) - 1; i >= 0; i-- {
		ed := rec.removed[i]
		if err := ds.AddEdge(&ed); err != nil {
			return err
		}
	}
	if rec.order != nil {
		if err := ds.SetOrder(rec.order); err != nil {
			return err
		}
	}
	for id, st := range rec.nodeStates {
		n, ok := ds.Node(id)
		if !ok {
			return errors.Wrapf(graph.ErrMissingNode, "undo state %q", id)
		}
		n.State = st
	}
	for id, st := range rec.edgeStates {
		ed, ok := ds.Edge(id)
		if !ok {
			return errors.Wrapf(graph.ErrMissingEdge, "undo state %q", id)
		}
		ed.State = st
	}
	return nil
}
