package config

import (
	"fmt"
	"math/rand"
)

// GenerateSequence builds a sequence config of n nodes whose values are
// a seeded permutation of 1..n, ready for any sorting algorithm.
func GenerateSequence(n int, seed int64) *Config {
	if n < 1 {
		n = 1
	}
	rng := rand.New(rand.NewSource(seed))
	cfg := DefaultConfig()
	cfg.ID = fmt.Sprintf("seq-%d", n)
	cfg.View = "sequence"
	cfg.Nodes = make([]NodeConfig, n)
	for i, v := range rng.Perm(n) {
		cfg.Nodes[i] = NodeConfig{
			ID:    fmt.Sprintf("n%d", i+1),
			Value: float64(v + 1),
		}
	}
	return cfg
}

// GenerateGraph builds a connected undirected graph config: a seeded
// spanning chain plus extra random edges, weights in [1, 10). Node
// positions scatter over a 100x100 plane so distance-based policies and
// the A* heuristic have something to work with.
func GenerateGraph(n, extraEdges int, seed int64) *Config {
	if n < 2 {
		n = 2
	}
	rng := rand.New(rand.NewSource(seed))
	cfg := DefaultConfig()
	cfg.ID = fmt.Sprintf("graph-%d", n)
	cfg.View = "graph2d"
	cfg.Nodes = make([]NodeConfig, n)
	for i := range cfg.Nodes {
		cfg.Nodes[i] = NodeConfig{
			ID: fmt.Sprintf("n%d", i+1),
			X:  rng.Float64() * 100,
			Y:  rng.Float64() * 100,
		}
	}

	have := make(map[[2]int]bool)
	addEdge := func(i, j int) {
		if i == j {
			return
		}
		if i > j {
			i, j = j, i
		}
		if have[[2]int{i, j}] {
			return
		}
		have[[2]int{i, j}] = true
		cfg.Edges = append(cfg.Edges, EdgeConfig{
			Source: cfg.Nodes[i].ID,
			Target: cfg.Nodes[j].ID,
			Weight: 1 + rng.Float64()*9,
		})
	}

	for i := 1; i < n; i++ {
		addEdge(i, rng.Intn(i))
	}
	for k := 0; k < extraEdges; k++ {
		addEdge(rng.Intn(n), rng.Intn(n))
	}
	return cfg
}
