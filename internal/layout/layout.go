// Package layout positions dataset nodes for rendering. Every algorithm
// writes positions in place and returns once the whole dataset is
// consistent; the force layout additionally checks for cancellation
// between relaxation iterations.
package layout

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/graph"
)

// ErrUnknownLayout reports a layout name with no registered algorithm.
var ErrUnknownLayout = errors.New("algoviz/layout: unknown layout")

// Config selects and tunes a layout run.
type Config struct {
	Name       string  `yaml:"name"`
	Spacing    float64 `yaml:"spacing"`
	Iterations int     `yaml:"iterations"`
	Seed       int64   `yaml:"seed"`
}

// DefaultConfig positions medium graphs legibly on a terminal canvas.
func DefaultConfig() Config {
	return Config{Name: "grid", Spacing: 8, Iterations: 50, Seed: 1}
}

func (c Config) spacing() float64 {
	if c.Spacing <= 0 {
		return 8
	}
	return c.Spacing
}

func (c Config) iterations() int {
	if c.Iterations <= 0 {
		return 50
	}
	return c.Iterations
}

// Algorithm positions every node of a dataset.
type Algorithm interface {
	Name() string
	Apply(ctx context.Context, ds *graph.Dataset, cfg Config) error
}

// Registry maps layout names to factories.
type Registry struct {
	layouts map[string]func() Algorithm
}

func NewRegistry() *Registry {
	r := &Registry{layouts: make(map[string]func() Algorithm)}
	r.layouts["grid"] = func() Algorithm { return gridLayout{} }
	r.layouts["circle"] = func() Algorithm { return circleLayout{} }
	r.layouts["sphere"] = func() Algorithm { return sphereLayout{} }
	r.layouts["force"] = func() Algorithm { return forceLayout{} }
	r.layouts["tree"] = func() Algorithm { return treeLayout{} }
	return r
}

func (r *Registry) Register(name string, fn func() Algorithm) error {
	if name == "" || fn == nil {
		return errors.New("algoviz/layout: register needs a name and a factory")
	}
	if _, ok := r.layouts[name]; ok {
		return errors.Newf("algoviz/layout: layout %q already registered", name)
	}
	r.layouts[name] = fn
	return nil
}

// Unregister removes a contributed factory. Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	delete(r.layouts, name)
}

func (r *Registry) Get(name string) (Algorithm, error) {
	fn, ok := r.layouts[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownLayout, "%q", name)
	}
	return fn(), nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.layouts[name]
	return ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the process-wide registry used for config validation and
// CLI listings.
var Default = NewRegistry()

func Get(name string) (Algorithm, error) { return Default.Get(name) }
func Has(name string) bool               { return Default.Has(name) }
func Names() []string                    { return Default.Names() }

// Apply looks the layout up in the default registry and runs it.
func Apply(ctx context.Context, ds *graph.Dataset, cfg Config) error {
	l, err := Get(cfg.Name)
	if err != nil {
		return err
	}
	return l.Apply(ctx, ds, cfg)
}
