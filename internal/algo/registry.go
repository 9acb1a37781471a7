package algo

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Registry maps algorithm names to adapter factories. Each visualizer
// owns its own Registry so plugin-installed algorithms stay scoped to the
// instance they were installed on.
type Registry struct {
	adapters map[string]func() Adapter
}

func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]func() Adapter)}

	r.adapters["bfs"] = newBFS
	r.adapters["dfs"] = newDFS
	r.adapters["bidirectional"] = newBidirectional

	r.adapters["dijkstra"] = newDijkstra
	r.adapters["astar"] = newAStar
	r.adapters["bellman-ford"] = newBellmanFord

	r.adapters["prim"] = newPrim
	r.adapters["kruskal"] = newKruskal

	r.adapters["avl"] = newAVL

	r.adapters["bubble-sort"] = newBubbleSort
	r.adapters["insertion-sort"] = newInsertionSort
	r.adapters["selection-sort"] = newSelectionSort
	r.adapters["quick-sort"] = newQuickSort
	r.adapters["merge-sort"] = newMergeSort

	return r
}

// Register adds a factory under name, failing on duplicates so plugins
// cannot silently shadow a built-in.
func (r *Registry) Register(name string, fn func() Adapter) error {
	if name == "" || fn == nil {
		return errors.Wrap(ErrParams, "register needs a name and a factory")
	}
	if _, ok := r.adapters[name]; ok {
		return errors.Newf("algoviz/algo: algorithm %q already registered", name)
	}
	r.adapters[name] = fn
	return nil
}

// Unregister removes a contributed factory. Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	delete(r.adapters, name)
}

func (r *Registry) Get(name string) (Adapter, error) {
	fn, ok := r.adapters[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
	}
	return fn(), nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.adapters[name]
	return ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the process-wide registry used for config validation and
// CLI listings.
var Default = NewRegistry()

func Get(name string) (Adapter, error) { return Default.Get(name) }
func Has(name string) bool             { return Default.Has(name) }
func Names() []string                  { return Default.Names() }
