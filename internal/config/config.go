// Package config loads, validates, and materializes visualization
// configurations. A Config is the construction input for a visualizer:
// it names the renderer kind, the dataset, the algorithm, and the
// layout and performance policies.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/vizlab/algoviz/internal/algo"
	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/governor"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/layout"
)

// ErrConfiguration reports a config that cannot construct a visualizer.
var ErrConfiguration = errors.New("algoviz/config: invalid configuration")

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// NodeConfig declares one dataset node.
type NodeConfig struct {
	ID    string  `yaml:"id"`
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
}

// EdgeConfig declares one dataset edge. An omitted id becomes
// "source-target"; an omitted or zero weight becomes unit weight.
type EdgeConfig struct {
	ID       string  `yaml:"id"`
	Source   string  `yaml:"source"`
	Target   string  `yaml:"target"`
	Weight   float64 `yaml:"weight"`
	Directed bool    `yaml:"directed"`
}

// Config is the yaml-tagged construction input for one visualizer.
type Config struct {
	ID          string           `yaml:"id"`
	RenderMode  string           `yaml:"renderMode"`
	View        string           `yaml:"view"`
	Width       int              `yaml:"width"`
	Height      int              `yaml:"height"`
	Algorithm   string           `yaml:"algorithm"`
	Nodes       []NodeConfig     `yaml:"nodes"`
	Edges       []EdgeConfig     `yaml:"edges"`
	StartNode   string           `yaml:"startNode"`
	EndNode     string           `yaml:"endNode"`
	Layout      layout.Config    `yaml:"layout"`
	Performance governor.Options `yaml:"performance"`
}

func DefaultConfig() *Config {
	return &Config{
		ID:          "viz",
		RenderMode:  "2d",
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Layout:      layout.Config{Spacing: 8, Iterations: 50, Seed: 1},
		Performance: governor.DefaultOptions(),
	}
}

// Load reads a yaml config, applying defaults for omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone deep-copies the config so presets can be handed out safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Nodes = append([]NodeConfig(nil), c.Nodes...)
	out.Edges = append([]EdgeConfig(nil), c.Edges...)
	return &out
}

// Kind resolves the renderer kind: an explicit view override wins, then
// the algorithm's native kind, then the render mode.
func (c *Config) Kind() (draw.Kind, error) {
	if c.View != "" {
		k, ok := draw.ParseKind(c.View)
		if !ok {
			return "", errors.Wrapf(ErrConfiguration, "unknown view %q", c.View)
		}
		return k, nil
	}
	if c.Algorithm != "" {
		a, err := algo.Get(c.Algorithm)
		if err != nil {
			return "", markUnknownAlgorithm(c.Algorithm)
		}
		if c.RenderMode == "3d" && a.Kind() == draw.KindGraph2D {
			return draw.KindGraph3D, nil
		}
		return a.Kind(), nil
	}
	if c.RenderMode == "3d" {
		return draw.KindGraph3D, nil
	}
	return draw.KindGraph2D, nil
}

func markUnknownAlgorithm(name string) error {
	err := errors.Wrapf(ErrConfiguration, "unknown algorithm %q", name)
	return errors.Mark(err, algo.ErrUnknownAlgorithm)
}

// Validate checks everything a visualizer constructor relies on.
func (c *Config) Validate() error {
	if c.ID == "" {
		return errors.Wrap(ErrConfiguration, "empty id")
	}
	switch c.RenderMode {
	case "", "2d", "3d":
	default:
		return errors.Wrapf(ErrConfiguration, "unknown render mode %q", c.RenderMode)
	}
	if c.View != "" {
		if _, ok := draw.ParseKind(c.View); !ok {
			return errors.Wrapf(ErrConfiguration, "unknown view %q", c.View)
		}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(ErrConfiguration, "surface %dx%d", c.Width, c.Height)
	}
	if c.Algorithm != "" && !algo.Has(c.Algorithm) {
		return markUnknownAlgorithm(c.Algorithm)
	}
	if c.Layout.Name != "" && !layout.Has(c.Layout.Name) {
		return errors.Wrapf(ErrConfiguration, "unknown layout %q", c.Layout.Name)
	}
	if err := c.Performance.Validate(); err != nil {
		return errors.Wrapf(ErrConfiguration, "performance: %v", err)
	}

	ids := make(map[string]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.ID == "" {
			return errors.Wrap(ErrConfiguration, "node with empty id")
		}
		if ids[n.ID] {
			return errors.Wrapf(ErrConfiguration, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range c.Edges {
		if !ids[e.Source] {
			return errors.Wrapf(ErrConfiguration, "edge %q references missing node %q", e.ID, e.Source)
		}
		if !ids[e.Target] {
			return errors.Wrapf(ErrConfiguration, "edge %q references missing node %q", e.ID, e.Target)
		}
	}
	if c.StartNode != "" && !ids[c.StartNode] {
		return errors.Wrapf(ErrConfiguration, "start node %q not in dataset", c.StartNode)
	}
	if c.EndNode != "" && !ids[c.EndNode] {
		return errors.Wrapf(ErrConfiguration, "end node %q not in dataset", c.EndNode)
	}
	return nil
}

// Dataset materializes the declared nodes and edges.
func (c *Config) Dataset() (*graph.Dataset, error) {
	ds := graph.New()
	for _, n := range c.Nodes {
		node := &graph.Node{
			ID:       n.ID,
			Label:    n.Label,
			Value:    n.Value,
			Position: graph.Vec3{X: n.X, Y: n.Y, Z: n.Z},
		}
		if node.Label == "" {
			node.Label = n.ID
		}
		if err := ds.AddNode(node); err != nil {
			return nil, errors.Wrap(err, "build dataset")
		}
	}
	for _, e := range c.Edges {
		id := e.ID
		if id == "" {
			id = e.Source + "-" + e.Target
		}
		weight := e.Weight
		if weight == 0 {
			weight = 1
		}
		edge := &graph.Edge{
			ID:       id,
			Source:   e.Source,
			Target:   e.Target,
			Weight:   weight,
			Directed: e.Directed,
		}
		if err := ds.AddEdge(edge); err != nil {
			return nil, errors.Wrap(err, "build dataset")
		}
	}
	return ds, nil
}

// Params extracts the algorithm parameters.
func (c *Config) Params() algo.Params {
	return algo.Params{Start: c.StartNode, Goal: c.EndNode}
}
