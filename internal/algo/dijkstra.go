package algo

import (
	"container/heap"
	"fmt"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func newDijkstra() Adapter {
	return &funcAdapter{
		name: "dijkstra",
		kind: draw.KindGraph2D,
		validate: func(ds *graph.Dataset, p Params) error {
			if err := startAndOptionalGoal(ds, p); err != nil {
				return err
			}
			return nonNegativeWeights(ds)
		},
		run: runDijkstra,
	}
}

func runDijkstra(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	var f focusTracker

	dist := map[string]float64{p.Start: 0}
	parent, parentEdge := map[string]string{}, map[string]string{}
	settled := map[string]bool{}
	pq := &priorityQueue{{id: p.Start, pri: 0}}
	heap.Init(pq)

	reachedGoal := false
	for pq.Len() > 0 {
		it := heap.Pop(pq).(pqItem)
		if settled[it.id] {
			continue
		}
		settled[it.id] = true

		states := map[string]graph.State{}
		f.shift(states, it.id)
		if !em.send(step.Step{
			Description: fmt.Sprintf("settle %s at distance %g", it.id, dist[it.id]),
			Status:      step.StatusRunning,
			NodeIDs:     []string{it.id},
			NodeStates:  states,
			Data:        map[string]any{step.KeyDistances: snapshotDistances(dist)},
		}) {
			return
		}
		if p.Goal != "" && it.id == p.Goal {
			reachedGoal = true
			break
		}

		for _, arc := range ds.Neighbors(it.id) {
			if settled[arc.To] {
				continue
			}
			nd := dist[it.id] + arc.Weight
			old, known := dist[arc.To]
			if known && nd >= old {
				continue
			}
			dist[arc.To] = nd
			parent[arc.To] = it.id
			parentEdge[arc.To] = arc.Edge.ID
			heap.Push(pq, pqItem{id: arc.To, pri: nd})

			desc := fmt.Sprintf("relax %s: %g via %s", arc.To, nd, it.id)
			if known {
				desc = fmt.Sprintf("relax %s: %g -> %g via %s", arc.To, old, nd, it.id)
			}
			if !em.send(step.Step{
				Description: desc,
				Status:      step.StatusRunning,
				NodeIDs:     []string{arc.To},
				EdgeIDs:     []string{arc.Edge.ID},
				NodeStates:  map[string]graph.State{arc.To: graph.StateFrontier},
				EdgeStates:  map[string]graph.State{arc.Edge.ID: graph.StateHighlighted},
				Data:        map[string]any{step.KeyDistances: snapshotDistances(dist)},
			}) {
				return
			}
		}
	}

	switch {
	case p.Goal == "":
		final := step.Step{
			Description: fmt.Sprintf("shortest path tree complete: %d nodes reached", len(settled)),
			Status:      step.StatusCompleted,
			Data:        map[string]any{step.KeyDistances: snapshotDistances(dist)},
		}
		f.fold(&final)
		em.send(final)
	case reachedGoal:
		nodes, edges := walkParents(parent, parentEdge, p.Start, p.Goal)
		final := pathStep(p.Start, p.Goal, nodes, edges, dist[p.Goal])
		final.Data[step.KeyDistances] = snapshotDistances(dist)
		em.send(final)
	default:
		final := noPathStep(p.Start, p.Goal)
		f.fold(&final)
		em.send(final)
	}
}
