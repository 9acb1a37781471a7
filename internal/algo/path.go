package algo

import (
	"fmt"
	"strings"

	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

// pqItem is a priority-queue entry keyed by priority, with the node id as
// the deterministic tie-break.
type pqItem struct {
	id  string
	pri float64
}

type priorityQueue []pqItem

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	if q[i].pri != q[j].pri {
		return q[i].pri < q[j].pri
	}
	return q[i].id < q[j].id
}

func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *priorityQueue) Push(x any) { *q = append(*q, x.(pqItem)) }

func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

func snapshotDistances(dist map[string]float64) map[string]float64 {
	c := make(map[string]float64, len(dist))
	for k, v := range dist {
		c[k] = v
	}
	return c
}

// walkParents rebuilds the start→goal node and edge sequences from the
// parent links recorded during the search.
func walkParents(parent, parentEdge map[string]string, start, goal string) (nodes, edges []string) {
	nodes = []string{goal}
	for cur := goal; cur != start; {
		p, ok := parent[cur]
		if !ok {
			return nil, nil
		}
		edges = append(edges, parentEdge[cur])
		nodes = append(nodes, p)
		cur = p
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return nodes, edges
}

// pathStep builds the terminal Step for a successful path search,
// highlighting the route and carrying it in Data.
func pathStep(start, goal string, nodes, edges []string, cost float64) step.Step {
	ns := make(map[string]graph.State, len(nodes))
	for _, id := range nodes {
		ns[id] = graph.StateHighlighted
	}
	es := make(map[string]graph.State, len(edges))
	for _, id := range edges {
		es[id] = graph.StateHighlighted
	}
	return step.Step{
		Description: fmt.Sprintf("shortest path %s to %s: %s (cost %g)",
			start, goal, strings.Join(nodes, " -> "), cost),
		Status:     step.StatusCompleted,
		NodeIDs:    append([]string(nil), nodes...),
		EdgeIDs:    append([]string(nil), edges...),
		NodeStates: ns,
		EdgeStates: es,
		Data: map[string]any{
			step.KeyPath: append([]string(nil), nodes...),
			step.KeyCost: cost,
		},
	}
}

// noPathStep is the terminal Step when the goal is unreachable. This is
// data, not an error: the cost key is omitted and the path is empty.
func noPathStep(start, goal string) step.Step {
	return step.Step{
		Description: fmt.Sprintf("no path from %s to %s", start, goal),
		Status:      step.StatusCompleted,
		NodeIDs:     []string{start, goal},
		NodeStates: map[string]graph.State{
			start: graph.StateVisited,
			goal:  graph.StateError,
		},
		Data: map[string]any{
			step.KeyPath: []string{},
		},
	}
}
