package algo

import (
	"container/heap"
	"fmt"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func newAStar() Adapter {
	return &funcAdapter{
		name: "astar",
		kind: draw.KindGraph2D,
		validate: func(ds *graph.Dataset, p Params) error {
			if err := needStartGoal(ds, p); err != nil {
				return err
			}
			return nonNegativeWeights(ds)
		},
		run: runAStar,
	}
}

// runAStar searches with an euclidean heuristic over node positions, so
// the guidance quality depends on the layout the dataset carries.
func runAStar(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	var f focusTracker

	goalNode, _ := ds.Node(p.Goal)
	h := func(id string) float64 {
		n, _ := ds.Node(id)
		return n.Position.Distance(goalNode.Position)
	}

	g := map[string]float64{p.Start: 0}
	parent, parentEdge := map[string]string{}, map[string]string{}
	closed := map[string]bool{}
	pq := &priorityQueue{{id: p.Start, pri: h(p.Start)}}
	heap.Init(pq)

	for pq.Len() > 0 {
		it := heap.Pop(pq).(pqItem)
		if closed[it.id] {
			continue
		}
		closed[it.id] = true

		states := map[string]graph.State{}
		f.shift(states, it.id)
		if !em.send(step.Step{
			Description: fmt.Sprintf("expand %s (g=%g, h=%g)", it.id, g[it.id], h(it.id)),
			Status:      step.StatusRunning,
			NodeIDs:     []string{it.id},
			NodeStates:  states,
			Data:        map[string]any{step.KeyDistances: snapshotDistances(g)},
		}) {
			return
		}
		if it.id == p.Goal {
			nodes, edges := walkParents(parent, parentEdge, p.Start, p.Goal)
			em.send(pathStep(p.Start, p.Goal, nodes, edges, g[p.Goal]))
			return
		}

		for _, arc := range ds.Neighbors(it.id) {
			if closed[arc.To] {
				continue
			}
			ng := g[it.id] + arc.Weight
			old, known := g[arc.To]
			if known && ng >= old {
				continue
			}
			g[arc.To] = ng
			parent[arc.To] = it.id
			parentEdge[arc.To] = arc.Edge.ID
			heap.Push(pq, pqItem{id: arc.To, pri: ng + h(arc.To)})

			if !em.send(step.Step{
				Description: fmt.Sprintf("relax %s: g=%g, f=%g via %s", arc.To, ng, ng+h(arc.To), it.id),
				Status:      step.StatusRunning,
				NodeIDs:     []string{arc.To},
				EdgeIDs:     []string{arc.Edge.ID},
				NodeStates:  map[string]graph.State{arc.To: graph.StateFrontier},
				EdgeStates:  map[string]graph.State{arc.Edge.ID: graph.StateHighlighted},
				Data:        map[string]any{step.KeyDistances: snapshotDistances(g)},
			}) {
				return
			}
		}
	}

	final := noPathStep(p.Start, p.Goal)
	f.fold(&final)
	em.send(final)
}
