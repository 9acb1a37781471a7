package graph

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"

	"github.com/vizlab/algoviz/internal/draw"
)

// State tags an element with its role in the current algorithm moment.
type State uint8

const (
	StateDefault State = iota
	StateVisited
	StateFrontier
	StateCurrent
	StateSorted
	StateHighlighted
	StatePivot
	StateError
)

var stateNames = [...]string{
	StateDefault:     "default",
	StateVisited:     "visited",
	StateFrontier:    "frontier",
	StateCurrent:     "current",
	StateSorted:      "sorted",
	StateHighlighted: "highlighted",
	StatePivot:       "pivot",
	StateError:       "error",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText makes states readable in JSON and DOT output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return errors.Newf("algoviz/graph: unknown state %q", string(b))
}

// Node is one visualizable element. Value doubles as the sort key for
// sequence views and the insertion key for tree construction.
type Node struct {
	ID       string
	Label    string
	Value    float64
	Position Vec3
	Style    draw.Style
	State    State
}

// Edge links two nodes by id. Undirected unless Directed is set; Weight
// defaults to unit weight at construction time.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Weight   float64
	Directed bool
	Style    draw.Style
	State    State
}

// Arc is one traversable hop produced by Neighbors: an undirected edge
// contributes an arc in both directions.
type Arc struct {
	To     string
	Weight float64
	Edge   *Edge
}

// Dataset owns the node/edge tables for exactly one visualizer. It is not
// safe for concurrent use; the owning visualizer serializes access.
type Dataset struct {
	nodes   []*Node
	edges   []*Edge
	nodeIdx swiss.Map[string, *Node]
	edgeIdx swiss.Map[string, *Edge]
}

func New() *Dataset {
	d := &Dataset{}
	d.nodeIdx.Init(16)
	d.edgeIdx.Init(16)
	return d
}

func (d *Dataset) NodeCount() int { return len(d.nodes) }
func (d *Dataset) EdgeCount() int { return len(d.edges) }

// AddNode appends n to the dataset order. The dataset takes ownership of
// the node.
func (d *Dataset) AddNode(n *Node) error {
	if n.ID == "" {
		return errors.Wrap(ErrIntegrity, "empty node id")
	}
	if _, ok := d.nodeIdx.Get(n.ID); ok {
		return errors.Wrapf(ErrDuplicateID, "node %q", n.ID)
	}
	d.nodes = append(d.nodes, n)
	d.nodeIdx.Put(n.ID, n)
	return nil
}

func (d *Dataset) Node(id string) (*Node, bool) {
	return d.nodeIdx.Get(id)
}

// Nodes returns the nodes in insertion order. The slice is fresh; the
// elements are the live nodes.
func (d *Dataset) Nodes() []*Node {
	out := make([]*Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// RemoveNode removes the node and every edge touching it.
func (d *Dataset) RemoveNode(id string) error {
	if _, ok := d.nodeIdx.Get(id); !ok {
		return errors.Wrapf(ErrMissingNode, "remove %q", id)
	}
	kept := d.edges[:0]
	for _, e := range d.edges {
		if e.Source == id || e.Target == id {
			d.edgeIdx.Delete(e.ID)
			continue
		}
		kept = append(kept, e)
	}
	d.edges = kept
	for i, n := range d.nodes {
		if n.ID == id {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			break
		}
	}
	d.nodeIdx.Delete(id)
	return nil
}

// AddEdge appends e after checking both endpoints exist. On failure the
// dataset is unchanged.
func (d *Dataset) AddEdge(e *Edge) error {
	if e.ID == "" {
		return errors.Wrap(ErrIntegrity, "empty edge id")
	}
	if _, ok := d.edgeIdx.Get(e.ID); ok {
		return errors.Wrapf(ErrDuplicateID, "edge %q", e.ID)
	}
	if _, ok := d.nodeIdx.Get(e.Source); !ok {
		return errors.Wrapf(ErrIntegrity, "edge %q references missing node %q", e.ID, e.Source)
	}
	if _, ok := d.nodeIdx.Get(e.Target); !ok {
		return errors.Wrapf(ErrIntegrity, "edge %q references missing node %q", e.ID, e.Target)
	}
	d.edges = append(d.edges, e)
	d.edgeIdx.Put(e.ID, e)
	return nil
}

func (d *Dataset) Edge(id string) (*Edge, bool) {
	return d.edgeIdx.Get(id)
}

func (d *Dataset) Edges() []*Edge {
	out := make([]*Edge, len(d.edges))
	copy(out, d.edges)
	return out
}

func (d *Dataset) RemoveEdge(id string) error {
	if _, ok := d.edgeIdx.Get(id); !ok {
		return errors.Wrapf(ErrMissingEdge, "remove %q", id)
	}
	for i, e := range d.edges {
		if e.ID == id {
			d.edges = append(d.edges[:i], d.edges[i+1:]...)
			break
		}
	}
	d.edgeIdx.Delete(id)
	return nil
}

// Neighbors returns the outgoing arcs of id sorted by target id, then
// edge id. The fixed order is what makes every traversal deterministic.
func (d *Dataset) Neighbors(id string) []Arc {
	var arcs []Arc
	for _, e := range d.edges {
		switch {
		case e.Source == id:
			arcs = append(arcs, Arc{To: e.Target, Weight: e.Weight, Edge: e})
		case e.Target == id && !e.Directed:
			arcs = append(arcs, Arc{To: e.Source, Weight: e.Weight, Edge: e})
		}
	}
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].To != arcs[j].To {
			return arcs[i].To < arcs[j].To
		}
		return arcs[i].Edge.ID < arcs[j].Edge.ID
	})
	return arcs
}

// ReverseNeighbors returns the incoming arcs of id sorted by source id,
// then edge id. An undirected edge contributes an arc in both directions.
func (d *Dataset) ReverseNeighbors(id string) []Arc {
	var arcs []Arc
	for _, e := range d.edges {
		switch {
		case e.Target == id:
			arcs = append(arcs, Arc{To: e.Source, Weight: e.Weight, Edge: e})
		case e.Source == id && !e.Directed:
			arcs = append(arcs, Arc{To: e.Target, Weight: e.Weight, Edge: e})
		}
	}
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].To != arcs[j].To {
			return arcs[i].To < arcs[j].To
		}
		return arcs[i].Edge.ID < arcs[j].Edge.ID
	})
	return arcs
}

// Order returns the node ids in sequence order.
func (d *Dataset) Order() []string {
	ids := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Values returns node values in sequence order.
func (d *Dataset) Values() []float64 {
	vals := make([]float64, len(d.nodes))
	for i, n := range d.nodes {
		vals[i] = n.Value
	}
	return vals
}

// MoveNode repositions id within the sequence order. to addresses the
// final index after the element is lifted out.
func (d *Dataset) MoveNode(id string, to int) error {
	if to < 0 || to >= len(d.nodes) {
		return errors.Newf("algoviz/graph: move index %d out of range [0,%d)", to, len(d.nodes))
	}
	from := -1
	for i, n := range d.nodes {
		if n.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return errors.Wrapf(ErrMissingNode, "move %q", id)
	}
	n := d.nodes[from]
	d.nodes = append(d.nodes[:from], d.nodes[from+1:]...)
	d.nodes = append(d.nodes[:to], append([]*Node{n}, d.nodes[to:]...)...)
	return nil
}

// SetOrder replaces the sequence order. ids must be an exact permutation
// of the current node ids.
func (d *Dataset) SetOrder(ids []string) error {
	if len(ids) != len(d.nodes) {
		return errors.Wrapf(ErrIntegrity, "order has %d ids, dataset has %d nodes", len(ids), len(d.nodes))
	}
	next := make([]*Node, len(ids))
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		n, ok := d.nodeIdx.Get(id)
		if !ok {
			return errors.Wrapf(ErrMissingNode, "order id %q", id)
		}
		if seen[id] {
			return errors.Wrapf(ErrDuplicateID, "order id %q", id)
		}
		seen[id] = true
		next[i] = n
	}
	d.nodes = next
	return nil
}

// TreeEdgeID names the directed edge Reparent creates between parent and
// child.
func TreeEdgeID(parent, child string) string {
	return parent + "->" + child
}

// Reparent relinks child under parent, treating directed in-edges as
// parent links. An empty parent detaches the child (making it a root).
func (d *Dataset) Reparent(child, parent string) error {
	if _, ok := d.nodeIdx.Get(child); !ok {
		return errors.Wrapf(ErrMissingNode, "reparent %q", child)
	}
	if parent != "" {
		if _, ok := d.nodeIdx.Get(parent); !ok {
			return errors.Wrapf(ErrMissingNode, "reparent %q under %q", child, parent)
		}
	}
	kept := d.edges[:0]
	for _, e := range d.edges {
		if e.Directed && e.Target == child {
			d.edgeIdx.Delete(e.ID)
			continue
		}
		kept = append(kept, e)
	}
	d.edges = kept
	if parent == "" {
		return nil
	}
	return d.AddEdge(&Edge{
		ID:       TreeEdgeID(parent, child),
		Source:   parent,
		Target:   child,
		Weight:   1,
		Directed: true,
	})
}

// ParentOf reports the parent of child, if any.
func (d *Dataset) ParentOf(child string) (string, bool) {
	for _, e := range d.edges {
		if e.Directed && e.Target == child {
			return e.Source, true
		}
	}
	return "", false
}

// ChildrenOf returns the children of parent ordered by value, then id,
// which is the left-to-right display order for binary trees.
func (d *Dataset) ChildrenOf(parent string) []string {
	var kids []string
	for _, e := range d.edges {
		if e.Directed && e.Source == parent {
			kids = append(kids, e.Target)
		}
	}
	sort.Slice(kids, func(i, j int) bool {
		a, _ := d.nodeIdx.Get(kids[i])
		b, _ := d.nodeIdx.Get(kids[j])
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		return a.ID < b.ID
	})
	return kids
}

// Roots returns, in insertion order, the nodes with no parent link.
func (d *Dataset) Roots() []string {
	hasParent := make(map[string]bool)
	for _, e := range d.edges {
		if e.Directed {
			hasParent[e.Target] = true
		}
	}
	var roots []string
	for _, n := range d.nodes {
		if !hasParent[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// Clone deep-copies the dataset, preserving order.
func (d *Dataset) Clone() *Dataset {
	c := New()
	for _, n := range d.nodes {
		nn := *n
		c.nodes = append(c.nodes, &nn)
		c.nodeIdx.Put(nn.ID, &nn)
	}
	for _, e := range d.edges {
		ee := *e
		c.edges = append(c.edges, &ee)
		c.edgeIdx.Put(ee.ID, &ee)
	}
	return c
}
