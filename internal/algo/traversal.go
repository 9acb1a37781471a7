package algo

import (
	"fmt"
	"sort"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func newBFS() Adapter {
	return &funcAdapter{name: "bfs", kind: draw.KindGraph2D, validate: needStart, run: runBFS}
}

func newDFS() Adapter {
	return &funcAdapter{name: "dfs", kind: draw.KindGraph2D, validate: needStart, run: runDFS}
}

func newBidirectional() Adapter {
	return &funcAdapter{name: "bidirectional", kind: draw.KindGraph2D, validate: needStartGoal, run: runBidirectional}
}

func runBFS(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	var f focusTracker
	queue := []string{p.Start}
	discovered := map[string]bool{p.Start: true}
	var order []string

	if !em.send(step.Step{
		Description: fmt.Sprintf("enqueue start node %s", p.Start),
		Status:      step.StatusRunning,
		NodeIDs:     []string{p.Start},
		NodeStates:  map[string]graph.State{p.Start: graph.StateFrontier},
	}) {
		return
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		states := map[string]graph.State{}
		f.shift(states, id)
		if !em.send(step.Step{
			Description: fmt.Sprintf("visit %s", id),
			Status:      step.StatusRunning,
			NodeIDs:     []string{id},
			NodeStates:  states,
			Data:        map[string]any{step.KeyVisitOrder: append([]string(nil), order...)},
		}) {
			return
		}

		for _, arc := range ds.Neighbors(id) {
			if discovered[arc.To] {
				continue
			}
			discovered[arc.To] = true
			queue = append(queue, arc.To)
			if !em.send(step.Step{
				Description: fmt.Sprintf("discover %s via %s", arc.To, id),
				Status:      step.StatusRunning,
				NodeIDs:     []string{arc.To},
				EdgeIDs:     []string{arc.Edge.ID},
				NodeStates:  map[string]graph.State{arc.To: graph.StateFrontier},
				EdgeStates:  map[string]graph.State{arc.Edge.ID: graph.StateHighlighted},
			}) {
				return
			}
		}
	}

	final := step.Step{
		Description: fmt.Sprintf("traversal complete: visited %d of %d nodes", len(order), ds.NodeCount()),
		Status:      step.StatusCompleted,
		Data:        map[string]any{step.KeyVisitOrder: order},
	}
	f.fold(&final)
	em.send(final)
}

func runDFS(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	var f focusTracker
	stack := []string{p.Start}
	onStack := map[string]bool{p.Start: true}
	visited := map[string]bool{}
	var order []string

	if !em.send(step.Step{
		Description: fmt.Sprintf("push start node %s", p.Start),
		Status:      step.StatusRunning,
		NodeIDs:     []string{p.Start},
		NodeStates:  map[string]graph.State{p.Start: graph.StateFrontier},
	}) {
		return
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)

		states := map[string]graph.State{}
		f.shift(states, id)
		if !em.send(step.Step{
			Description: fmt.Sprintf("visit %s", id),
			Status:      step.StatusRunning,
			NodeIDs:     []string{id},
			NodeStates:  states,
			Data:        map[string]any{step.KeyVisitOrder: append([]string(nil), order...)},
		}) {
			return
		}

		// Push in reverse so the lowest id is explored first.
		arcs := ds.Neighbors(id)
		for i := len(arcs) - 1; i >= 0; i-- {
			to := arcs[i].To
			if visited[to] || onStack[to] {
				continue
			}
			onStack[to] = true
			stack = append(stack, to)
			if !em.send(step.Step{
				Description: fmt.Sprintf("discover %s via %s", to, id),
				Status:      step.StatusRunning,
				NodeIDs:     []string{to},
				EdgeIDs:     []string{arcs[i].Edge.ID},
				NodeStates:  map[string]graph.State{to: graph.StateFrontier},
				EdgeStates:  map[string]graph.State{arcs[i].Edge.ID: graph.StateHighlighted},
			}) {
				return
			}
		}
	}

	final := step.Step{
		Description: fmt.Sprintf("traversal complete: visited %d of %d nodes", len(order), ds.NodeCount()),
		Status:      step.StatusCompleted,
		Data:        map[string]any{step.KeyVisitOrder: order},
	}
	f.fold(&final)
	em.send(final)
}

// runBidirectional expands breadth-first levels from both endpoints
// alternately. When the frontiers intersect, the meeting node minimizing
// combined path length wins; ties break on the lowest node id.
func runBidirectional(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	if p.Start == p.Goal {
		em.send(step.Step{
			Description: fmt.Sprintf("start equals goal: %s", p.Start),
			Status:      step.StatusCompleted,
			NodeIDs:     []string{p.Start},
			NodeStates:  map[string]graph.State{p.Start: graph.StateHighlighted},
			Data: map[string]any{
				step.KeyPath: []string{p.Start},
				step.KeyCost: 0.0,
			},
		})
		return
	}

	distF := map[string]int{p.Start: 0}
	distB := map[string]int{p.Goal: 0}
	parentF, parentB := map[string]string{}, map[string]string{}
	edgeF, edgeB := map[string]string{}, map[string]string{}
	frontF, frontB := []string{p.Start}, []string{p.Goal}

	if !em.send(step.Step{
		Description: fmt.Sprintf("search %s and %s toward each other", p.Start, p.Goal),
		Status:      step.StatusRunning,
		NodeIDs:     []string{p.Start, p.Goal},
		NodeStates: map[string]graph.State{
			p.Start: graph.StateFrontier,
			p.Goal:  graph.StateFrontier,
		},
	}) {
		return
	}

	expand := func(front []string, arcs func(string) []graph.Arc, dist map[string]int, parent, edge map[string]string, label string) ([]string, bool) {
		var next []string
		var discovered []string
		edgeIDs := []string{}
		states := map[string]graph.State{}
		for _, id := range front {
			states[id] = graph.StateVisited
			for _, arc := range arcs(id) {
				if _, seen := dist[arc.To]; seen {
					continue
				}
				dist[arc.To] = dist[id] + 1
				parent[arc.To] = id
				edge[arc.To] = arc.Edge.ID
				next = append(next, arc.To)
				discovered = append(discovered, arc.To)
				edgeIDs = append(edgeIDs, arc.Edge.ID)
				states[arc.To] = graph.StateFrontier
			}
		}
		if len(discovered) == 0 {
			return next, true
		}
		ok := em.send(step.Step{
			Description: fmt.Sprintf("%s frontier reaches %d node(s)", label, len(discovered)),
			Status:      step.StatusRunning,
			NodeIDs:     discovered,
			EdgeIDs:     edgeIDs,
			NodeStates:  states,
			EdgeStates:  highlightAll(edgeIDs),
		})
		return next, ok
	}

	meet := func() (string, bool) {
		var candidates []string
		for id := range distF {
			if _, ok := distB[id]; ok {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) == 0 {
			return "", false
		}
		sort.Strings(candidates)
		best := candidates[0]
		for _, id := range candidates[1:] {
			if distF[id]+distB[id] < distF[best]+distB[best] {
				best = id
			}
		}
		return best, true
	}

	finish := func(m string) {
		nodesF, edgesF := walkParents(parentF, edgeF, p.Start, m)
		nodesB, edgesB := walkParents(parentB, edgeB, p.Goal, m)
		// The backward half runs goal→m; flip it onto the end of the
		// forward half.
		path := append([]string(nil), nodesF...)
		for i := len(nodesB) - 2; i >= 0; i-- {
			path = append(path, nodesB[i])
		}
		edges := append([]string(nil), edgesF...)
		for i := len(edgesB) - 1; i >= 0; i-- {
			edges = append(edges, edgesB[i])
		}
		if !em.send(step.Step{
			Description: fmt.Sprintf("frontiers meet at %s", m),
			Status:      step.StatusRunning,
			NodeIDs:     []string{m},
			NodeStates:  map[string]graph.State{m: graph.StateCurrent},
			Data:        map[string]any{step.KeyMeetingNode: m},
		}) {
			return
		}
		final := pathStep(p.Start, p.Goal, path, edges, float64(distF[m]+distB[m]))
		final.Data[step.KeyMeetingNode] = m
		em.send(final)
	}

	// The backward wave walks incoming arcs so directed graphs meet on a
	// real start-to-goal path.
	for len(frontF) > 0 || len(frontB) > 0 {
		var ok bool
		if len(frontF) > 0 {
			frontF, ok = expand(frontF, ds.Neighbors, distF, parentF, edgeF, "forward")
			if !ok {
				return
			}
			if m, found := meet(); found {
				finish(m)
				return
			}
		}
		if len(frontB) > 0 {
			frontB, ok = expand(frontB, ds.ReverseNeighbors, distB, parentB, edgeB, "backward")
			if !ok {
				return
			}
			if m, found := meet(); found {
				finish(m)
				return
			}
		}
	}
	em.send(noPathStep(p.Start, p.Goal))
}

func highlightAll(edgeIDs []string) map[string]graph.State {
	m := make(map[string]graph.State, len(edgeIDs))
	for _, id := range edgeIDs {
		m[id] = graph.StateHighlighted
	}
	return m
}
