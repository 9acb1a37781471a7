package algo

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func newPrim() Adapter {
	return &funcAdapter{
		name: "prim",
		kind: draw.KindGraph2D,
		validate: func(ds *graph.Dataset, p Params) error {
			if ds.NodeCount() == 0 {
				return nil
			}
			if p.Start == "" {
				return nil
			}
			if _, ok := ds.Node(p.Start); !ok {
				return graph.ErrMissingNode
			}
			return nil
		},
		run: runPrim,
	}
}

func newKruskal() Adapter {
	return &funcAdapter{name: "kruskal", kind: draw.KindGraph2D, run: runKruskal}
}

type mstArc struct {
	weight float64
	edgeID string
	from   string
	to     string
}

type mstQueue []mstArc

func (q mstQueue) Len() int { return len(q) }

func (q mstQueue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight < q[j].weight
	}
	return q[i].edgeID < q[j].edgeID
}

func (q mstQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *mstQueue) Push(x any) { *q = append(*q, x.(mstArc)) }

func (q *mstQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

func lowestUnvisited(ds *graph.Dataset, visited map[string]bool) string {
	best := ""
	for _, n := range ds.Nodes() {
		if visited[n.ID] {
			continue
		}
		if best == "" || n.ID < best {
			best = n.ID
		}
	}
	return best
}

func admitStep(a mstArc, admitted []string, total float64) step.Step {
	return step.Step{
		Description: fmt.Sprintf("admit edge %s (%s - %s, weight %g)", a.edgeID, a.from, a.to, a.weight),
		Status:      step.StatusRunning,
		NodeIDs:     []string{a.from, a.to},
		EdgeIDs:     []string{a.edgeID},
		NodeStates: map[string]graph.State{
			a.from: graph.StateVisited,
			a.to:   graph.StateVisited,
		},
		EdgeStates: map[string]graph.State{a.edgeID: graph.StateHighlighted},
		Data: map[string]any{
			step.KeyMSTEdges:    append([]string(nil), admitted...),
			step.KeyTotalWeight: total,
		},
	}
}

func mstFinal(admitted []string, total float64, components int) step.Step {
	desc := fmt.Sprintf("minimum spanning tree complete: %d edges, total weight %g", len(admitted), total)
	if components > 1 {
		desc = fmt.Sprintf("minimum spanning forest complete: %d components, %d edges, total weight %g",
			components, len(admitted), total)
	}
	return step.Step{
		Description: desc,
		Status:      step.StatusCompleted,
		EdgeIDs:     append([]string(nil), admitted...),
		Data: map[string]any{
			step.KeyMSTEdges:    admitted,
			step.KeyTotalWeight: total,
		},
	}
}

func runPrim(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	if ds.NodeCount() == 0 {
		em.send(mstFinal(nil, 0, 0))
		return
	}

	visited := map[string]bool{}
	var admitted []string
	total := 0.0
	components := 0
	pq := &mstQueue{}

	seed := p.Start
	if seed == "" {
		seed = lowestUnvisited(ds, visited)
	}

	grow := func(id string) {
		visited[id] = true
		for _, arc := range ds.Neighbors(id) {
			if visited[arc.To] {
				continue
			}
			heap.Push(pq, mstArc{weight: arc.Weight, edgeID: arc.Edge.ID, from: id, to: arc.To})
		}
	}

	for {
		components++
		if !em.send(step.Step{
			Description: fmt.Sprintf("grow tree from %s", seed),
			Status:      step.StatusRunning,
			NodeIDs:     []string{seed},
			NodeStates:  map[string]graph.State{seed: graph.StateVisited},
		}) {
			return
		}
		grow(seed)
		for pq.Len() > 0 {
			a := heap.Pop(pq).(mstArc)
			if visited[a.to] {
				continue
			}
			admitted = append(admitted, a.edgeID)
			total += a.weight
			if !em.send(admitStep(a, admitted, total)) {
				return
			}
			grow(a.to)
		}
		seed = lowestUnvisited(ds, visited)
		if seed == "" {
			break
		}
	}
	em.send(mstFinal(admitted, total, components))
}

// runKruskal admits edges in (weight, id) order whenever they join two
// components, tracked with a union-find.
func runKruskal(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	if ds.NodeCount() == 0 {
		em.send(mstFinal(nil, 0, 0))
		return
	}

	edges := ds.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight < edges[j].Weight
		}
		return edges[i].ID < edges[j].ID
	})

	uf := newUnionFind(ds.Order())
	var admitted []string
	total := 0.0

	for _, e := range edges {
		if !uf.union(e.Source, e.Target) {
			continue
		}
		admitted = append(admitted, e.ID)
		total += e.Weight
		a := mstArc{weight: e.Weight, edgeID: e.ID, from: e.Source, to: e.Target}
		if !em.send(admitStep(a, admitted, total)) {
			return
		}
	}
	em.send(mstFinal(admitted, total, uf.components))
}

type unionFind struct {
	parent     map[string]string
	rank       map[string]int
	components int
}

func newUnionFind(ids []string) *unionFind {
	uf := &unionFind{
		parent:     make(map[string]string, len(ids)),
		rank:       make(map[string]int, len(ids)),
		components: len(ids),
	}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

func (uf *unionFind) find(id string) string {
	for uf.parent[id] != id {
		uf.parent[id] = uf.parent[uf.parent[id]]
		id = uf.parent[id]
	}
	return id
}

// union merges the sets holding a and b, reporting false when they were
// already connected.
func (uf *unionFind) union(a, b string) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	uf.components--
	return true
}
