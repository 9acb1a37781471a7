// Package algo converts datasets into deterministic Step sequences, one
// adapter per algorithm family.
package algo

import (
	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

// Params carries the inputs an adapter needs beyond the dataset itself.
type Params struct {
	Start string `yaml:"start"`
	Goal  string `yaml:"goal"`
}

// Adapter turns a dataset into an ordered Step sequence. Adapters are
// pure: they never mutate the dataset (mutation happens when the trace
// engine applies Steps), and identical inputs always produce identical
// sequences.
type Adapter interface {
	Name() string
	Kind() draw.Kind
	Execute(ds *graph.Dataset, p Params) ([]step.Step, error)
}

type funcAdapter struct {
	name     string
	kind     draw.Kind
	validate func(ds *graph.Dataset, p Params) error
	run      func(ds *graph.Dataset, p Params, emit func(step.Step) bool)
}

func (a *funcAdapter) Name() string    { return a.name }
func (a *funcAdapter) Kind() draw.Kind { return a.kind }

func (a *funcAdapter) Execute(ds *graph.Dataset, p Params) ([]step.Step, error) {
	if a.validate != nil {
		if err := a.validate(ds, p); err != nil {
			return nil, err
		}
	}
	var out []step.Step
	a.run(ds, p, func(s step.Step) bool {
		out = append(out, s)
		return true
	})
	return out, nil
}

// Stream returns a pull-based generator over the adapter's Steps so the
// trace engine can materialize them on demand. Parameter validation still
// happens up front.
func Stream(a Adapter, ds *graph.Dataset, p Params) (*step.Source, error) {
	fa, ok := a.(*funcAdapter)
	if !ok {
		steps, err := a.Execute(ds, p)
		if err != nil {
			return nil, err
		}
		return step.NewSource(func(yield func(step.Step) bool) {
			for _, s := range steps {
				if !yield(s) {
					return
				}
			}
		}), nil
	}
	if fa.validate != nil {
		if err := fa.validate(ds, p); err != nil {
			return nil, err
		}
	}
	return step.NewSource(func(yield func(step.Step) bool) {
		fa.run(ds, p, yield)
	}), nil
}

// emitter numbers Steps and forwards them until the consumer stops
// pulling.
type emitter struct {
	emit    func(step.Step) bool
	index   int
	stopped bool
}

func (e *emitter) send(s step.Step) bool {
	if e.stopped {
		return false
	}
	s.Index = e.index
	e.index++
	if !e.emit(s) {
		e.stopped = true
	}
	return !e.stopped
}

// focusTracker moves the single Current marker from node to node,
// demoting the previous focus to Visited.
type focusTracker struct {
	prev string
}

func (f *focusTracker) shift(states map[string]graph.State, id string) {
	if f.prev != "" && f.prev != id {
		states[f.prev] = graph.StateVisited
	}
	states[id] = graph.StateCurrent
	f.prev = id
}

// fold demotes the lingering Current marker inside a terminal step,
// unless the step already assigns that node a state.
func (f *focusTracker) fold(st *step.Step) {
	if f.prev == "" {
		return
	}
	if st.NodeStates == nil {
		st.NodeStates = map[string]graph.State{}
	}
	if _, ok := st.NodeStates[f.prev]; !ok {
		st.NodeStates[f.prev] = graph.StateVisited
		st.NodeIDs = append(st.NodeIDs, f.prev)
	}
}

func needStart(ds *graph.Dataset, p Params) error {
	if p.Start == "" {
		return errors.Wrap(ErrParams, "start node required")
	}
	if _, ok := ds.Node(p.Start); !ok {
		return errors.Wrapf(graph.ErrMissingNode, "start %q", p.Start)
	}
	return nil
}

func optionalGoal(ds *graph.Dataset, p Params) error {
	if p.Goal == "" {
		return nil
	}
	if _, ok := ds.Node(p.Goal); !ok {
		return errors.Wrapf(graph.ErrMissingNode, "goal %q", p.Goal)
	}
	return nil
}

func needStartGoal(ds *graph.Dataset, p Params) error {
	if err := needStart(ds, p); err != nil {
		return err
	}
	if p.Goal == "" {
		return errors.Wrap(ErrParams, "goal node required")
	}
	return optionalGoal(ds, p)
}

func startAndOptionalGoal(ds *graph.Dataset, p Params) error {
	if err := needStart(ds, p); err != nil {
		return err
	}
	return optionalGoal(ds, p)
}

func nonNegativeWeights(ds *graph.Dataset) error {
	for _, e := range ds.Edges() {
		if e.Weight < 0 {
			return errors.Wrapf(ErrNegativeWeight, "edge %q weight %g", e.ID, e.Weight)
		}
	}
	return nil
}
