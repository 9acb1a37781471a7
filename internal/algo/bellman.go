package algo

import (
	"fmt"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func newBellmanFord() Adapter {
	return &funcAdapter{
		name:     "bellman-ford",
		kind:     draw.KindGraph2D,
		validate: startAndOptionalGoal,
		run:      runBellmanFord,
	}
}

// runBellmanFord sweeps all edges up to n-1 times, emitting one Step per
// successful relaxation. A sweep with no update ends the run early. If
// the final sweep still updated, one verification pass decides between
// completion and the terminal negative-cycle error Step, after which
// nothing follows.
func runBellmanFord(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}

	nodes := ds.Order()
	dist := map[string]float64{p.Start: 0}
	parent, parentEdge := map[string]string{}, map[string]string{}

	if !em.send(step.Step{
		Description: fmt.Sprintf("initialize distances from %s", p.Start),
		Status:      step.StatusRunning,
		NodeIDs:     []string{p.Start},
		NodeStates:  map[string]graph.State{p.Start: graph.StateCurrent},
		Data:        map[string]any{step.KeyDistances: snapshotDistances(dist)},
	}) {
		return
	}

	settledEarly := false
	updated := false
	for iter := 1; iter <= len(nodes)-1; iter++ {
		updated = false
		for _, u := range nodes {
			du, reached := dist[u]
			if !reached {
				continue
			}
			for _, arc := range ds.Neighbors(u) {
				nd := du + arc.Weight
				old, known := dist[arc.To]
				if known && nd >= old {
					continue
				}
				dist[arc.To] = nd
				parent[arc.To] = u
				parentEdge[arc.To] = arc.Edge.ID
				updated = true

				desc := fmt.Sprintf("iteration %d: relax %s to %g via %s", iter, arc.To, nd, u)
				if known {
					desc = fmt.Sprintf("iteration %d: relax %s: %g -> %g via %s", iter, arc.To, old, nd, u)
				}
				if !em.send(step.Step{
					Description: desc,
					Status:      step.StatusRunning,
					NodeIDs:     []string{arc.To},
					EdgeIDs:     []string{arc.Edge.ID},
					NodeStates:  map[string]graph.State{arc.To: graph.StateFrontier},
					EdgeStates:  map[string]graph.State{arc.Edge.ID: graph.StateHighlighted},
					Data: map[string]any{
						step.KeyDistances:  snapshotDistances(dist),
						step.KeyIterations: iter,
					},
				}) {
					return
				}
			}
		}
		if !updated {
			settledEarly = true
			if !em.send(step.Step{
				Description: fmt.Sprintf("no updates in iteration %d: distances settled", iter),
				Status:      step.StatusRunning,
				Data: map[string]any{
					step.KeyDistances:  snapshotDistances(dist),
					step.KeyIterations: iter,
				},
			}) {
				return
			}
			break
		}
	}

	if !settledEarly && updated {
		for _, u := range nodes {
			du, reached := dist[u]
			if !reached {
				continue
			}
			for _, arc := range ds.Neighbors(u) {
				if du+arc.Weight >= dist[arc.To] {
					continue
				}
				em.send(step.Step{
					Description: fmt.Sprintf("negative cycle detected via edge %s", arc.Edge.ID),
					Status:      step.StatusError,
					NodeIDs:     []string{u, arc.To},
					EdgeIDs:     []string{arc.Edge.ID},
					NodeStates: map[string]graph.State{
						u:      graph.StateError,
						arc.To: graph.StateError,
					},
					EdgeStates: map[string]graph.State{arc.Edge.ID: graph.StateError},
					Data:       map[string]any{step.KeyNegativeCycle: true},
				})
				return
			}
		}
	}

	if p.Goal == "" {
		em.send(step.Step{
			Description: fmt.Sprintf("distances final: %d nodes reached", len(dist)),
			Status:      step.StatusCompleted,
			Data:        map[string]any{step.KeyDistances: snapshotDistances(dist)},
		})
		return
	}
	if _, reached := dist[p.Goal]; !reached {
		em.send(noPathStep(p.Start, p.Goal))
		return
	}
	pnodes, pedges := walkParents(parent, parentEdge, p.Start, p.Goal)
	final := pathStep(p.Start, p.Goal, pnodes, pedges, dist[p.Goal])
	final.Data[step.KeyDistances] = snapshotDistances(dist)
	em.send(final)
}
