package config

import (
	"sort"

	"github.com/vizlab/algoviz/internal/governor"
	"github.com/vizlab/algoviz/internal/layout"
)

// Presets are the canonical demo scenarios. GetPreset fills surface and
// performance defaults, so entries only declare what makes them
// distinctive.
var Presets = map[string]*Config{
	"dijkstra-demo": {
		Algorithm: "dijkstra",
		Nodes: []NodeConfig{
			{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"},
		},
		Edges: []EdgeConfig{
			{Source: "A", Target: "B", Weight: 4},
			{Source: "A", Target: "C", Weight: 2},
			{Source: "C", Target: "B", Weight: 1},
			{Source: "C", Target: "D", Weight: 8},
			{Source: "B", Target: "D", Weight: 5},
		},
		StartNode: "A",
		EndNode:   "D",
		Layout:    layout.Config{Name: "circle", Spacing: 8},
	},
	"astar-demo": {
		Algorithm: "astar",
		Nodes: []NodeConfig{
			{ID: "A", X: 0, Y: 0},
			{ID: "B", X: 1, Y: 0},
			{ID: "C", X: 1, Y: 1},
			{ID: "D", X: 2, Y: 1},
		},
		Edges: []EdgeConfig{
			{Source: "A", Target: "B", Weight: 1},
			{Source: "B", Target: "C", Weight: 1},
			{Source: "C", Target: "D", Weight: 1},
			{Source: "A", Target: "D", Weight: 3.5},
		},
		StartNode: "A",
		EndNode:   "D",
	},
	"bellman-early": {
		Algorithm: "bellman-ford",
		Nodes: []NodeConfig{
			{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"},
		},
		Edges: []EdgeConfig{
			{Source: "A", Target: "B", Weight: 4, Directed: true},
			{Source: "A", Target: "C", Weight: 2, Directed: true},
			{Source: "C", Target: "B", Weight: 1, Directed: true},
			{Source: "B", Target: "D", Weight: 5, Directed: true},
		},
		StartNode: "A",
		EndNode:   "D",
		Layout:    layout.Config{Name: "grid", Spacing: 10},
	},
	"bfs-demo": {
		Algorithm: "bfs",
		Nodes: []NodeConfig{
			{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}, {ID: "E"}, {ID: "F"},
		},
		Edges: []EdgeConfig{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
			{Source: "C", Target: "D"},
			{Source: "D", Target: "E"},
			{Source: "E", Target: "F"},
			{Source: "F", Target: "A"},
			{Source: "A", Target: "D"},
		},
		StartNode: "A",
		Layout:    layout.Config{Name: "circle", Spacing: 8},
	},
	"bubble-demo": {
		Algorithm: "bubble-sort",
		Nodes: []NodeConfig{
			{ID: "n1", Value: 3}, {ID: "n2", Value: 1}, {ID: "n3", Value: 4},
			{ID: "n4", Value: 1}, {ID: "n5", Value: 5}, {ID: "n6", Value: 9},
			{ID: "n7", Value: 2}, {ID: "n8", Value: 6},
		},
	},
	"avl-demo": {
		Algorithm: "avl",
		Nodes: []NodeConfig{
			{ID: "n1", Value: 30}, {ID: "n2", Value: 20}, {ID: "n3", Value: 10},
			{ID: "n4", Value: 25}, {ID: "n5", Value: 40}, {ID: "n6", Value: 50},
		},
	},
	"mst-demo": {
		Algorithm: "kruskal",
		Nodes: []NodeConfig{
			{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}, {ID: "E"}, {ID: "F"},
		},
		Edges: []EdgeConfig{
			{Source: "A", Target: "B", Weight: 4},
			{Source: "A", Target: "C", Weight: 2},
			{Source: "C", Target: "B", Weight: 1},
			{Source: "C", Target: "D", Weight: 8},
			{Source: "B", Target: "D", Weight: 5},
			{Source: "E", Target: "F", Weight: 2},
		},
		Layout: layout.Config{Name: "force", Spacing: 8, Iterations: 60, Seed: 2},
	},
	"graph3d-demo": {
		RenderMode: "3d",
		View:       "graph3d",
		Algorithm:  "bfs",
		Nodes: []NodeConfig{
			{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
			{ID: "e"}, {ID: "f"}, {ID: "g"}, {ID: "h"},
		},
		Edges: []EdgeConfig{
			{Source: "a", Target: "b"}, {Source: "b", Target: "c"},
			{Source: "c", Target: "d"}, {Source: "d", Target: "e"},
			{Source: "e", Target: "f"}, {Source: "f", Target: "g"},
			{Source: "g", Target: "h"}, {Source: "h", Target: "a"},
			{Source: "a", Target: "e"}, {Source: "b", Target: "f"},
		},
		StartNode: "a",
		Layout:    layout.Config{Name: "sphere", Spacing: 10},
	},
}

// GetPreset resolves a preset by name, returning an independent copy
// with surface and performance defaults applied.
func GetPreset(name string) (*Config, bool) {
	p, ok := Presets[name]
	if !ok {
		return nil, false
	}
	cfg := p.Clone()
	if cfg.ID == "" {
		cfg.ID = name
	}
	if cfg.RenderMode == "" {
		cfg.RenderMode = "2d"
	}
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Performance == (governor.Options{}) {
		cfg.Performance = governor.DefaultOptions()
	}
	return cfg, true
}

// ListPresets names every preset in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
