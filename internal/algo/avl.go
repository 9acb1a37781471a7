package algo

import (
	"fmt"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/step"
)

func newAVL() Adapter {
	return &funcAdapter{name: "avl", kind: draw.KindTree, run: runAVL}
}

type avlNode struct {
	id          string
	val         float64
	left, right *avlNode
	height      int
}

func hgt(n *avlNode) int {
	if n == nil {
		return 0
	}
	return n.height
}

func upd(n *avlNode) {
	n.height = 1 + max(hgt(n.left), hgt(n.right))
}

func balance(n *avlNode) int {
	if n == nil {
		return 0
	}
	return hgt(n.left) - hgt(n.right)
}

// runAVL inserts the dataset nodes in sequence order into an AVL tree
// keyed by value, expressing the evolving shape purely through Reparent
// deltas. Equal values go right.
func runAVL(ds *graph.Dataset, p Params, emit func(step.Step) bool) {
	em := &emitter{emit: emit}
	var f focusTracker
	var root *avlNode

	rotationStep := func(dir string, y, x *avlNode, moved *avlNode, parentID string) {
		rep := map[string]string{
			x.id: parentID,
			y.id: x.id,
		}
		if moved != nil {
			rep[moved.id] = y.id
		}
		em.send(step.Step{
			Description: fmt.Sprintf("%s rotation around %s (pivot %s)", dir, y.id, x.id),
			Status:      step.StatusRunning,
			NodeIDs:     []string{y.id, x.id},
			NodeStates: map[string]graph.State{
				x.id: graph.StatePivot,
				y.id: graph.StateHighlighted,
			},
			Reparent: rep,
			Data: map[string]any{
				step.KeyRotation: dir,
				step.KeyPivot:    x.id,
				step.KeyBalance: map[string]int{
					y.id: balance(y),
					x.id: balance(x),
				},
			},
		})
	}

	rotateRight := func(y *avlNode, parentID string) *avlNode {
		x := y.left
		moved := x.right
		rotationStep("right", y, x, moved, parentID)
		x.right = y
		y.left = moved
		upd(y)
		upd(x)
		return x
	}

	rotateLeft := func(y *avlNode, parentID string) *avlNode {
		x := y.right
		moved := x.left
		rotationStep("left", y, x, moved, parentID)
		x.left = y
		y.right = moved
		upd(y)
		upd(x)
		return x
	}

	var insert func(n, nn, parent *avlNode) *avlNode
	insert = func(n, nn, parent *avlNode) *avlNode {
		if n == nil {
			parentID := ""
			desc := fmt.Sprintf("insert %s (value %g) as root", nn.id, nn.val)
			if parent != nil {
				parentID = parent.id
				side := "right"
				if nn.val < parent.val {
					side = "left"
				}
				desc = fmt.Sprintf("place %s (value %g) as %s child of %s", nn.id, nn.val, side, parentID)
			}
			states := map[string]graph.State{}
			f.shift(states, nn.id)
			em.send(step.Step{
				Description: desc,
				Status:      step.StatusRunning,
				NodeIDs:     []string{nn.id},
				NodeStates:  states,
				Reparent:    map[string]string{nn.id: parentID},
			})
			return nn
		}

		dir := "right"
		if nn.val < n.val {
			dir = "left"
		}
		states := map[string]graph.State{}
		f.shift(states, n.id)
		em.send(step.Step{
			Description: fmt.Sprintf("compare %g with %s (value %g): go %s", nn.val, n.id, n.val, dir),
			Status:      step.StatusRunning,
			NodeIDs:     []string{n.id},
			NodeStates:  states,
			Data:        map[string]any{step.KeyBalance: map[string]int{n.id: balance(n)}},
		})

		if dir == "left" {
			n.left = insert(n.left, nn, n)
		} else {
			n.right = insert(n.right, nn, n)
		}
		upd(n)

		pid := ""
		if parent != nil {
			pid = parent.id
		}
		switch b := balance(n); {
		case b > 1 && balance(n.left) >= 0:
			return rotateRight(n, pid)
		case b > 1:
			n.left = rotateLeft(n.left, n.id)
			return rotateRight(n, pid)
		case b < -1 && balance(n.right) <= 0:
			return rotateLeft(n, pid)
		case b < -1:
			n.right = rotateRight(n.right, n.id)
			return rotateLeft(n, pid)
		}
		return n
	}

	for _, n := range ds.Nodes() {
		root = insert(root, &avlNode{id: n.ID, val: n.Value, height: 1}, nil)
	}

	var inorder func(n *avlNode, out []string) []string
	inorder = func(n *avlNode, out []string) []string {
		if n == nil {
			return out
		}
		out = inorder(n.left, out)
		out = append(out, n.id)
		return inorder(n.right, out)
	}
	seq := inorder(root, nil)

	cleanup := make(map[string]graph.State, ds.NodeCount())
	ids := make([]string, 0, ds.NodeCount())
	for _, n := range ds.Nodes() {
		cleanup[n.ID] = graph.StateDefault
		ids = append(ids, n.ID)
	}
	em.send(step.Step{
		Description: fmt.Sprintf("AVL tree complete: %d nodes, height %d", ds.NodeCount(), hgt(root)),
		Status:      step.StatusCompleted,
		NodeIDs:     ids,
		NodeStates:  cleanup,
		Data: map[string]any{
			step.KeyHeight:   hgt(root),
			step.KeySequence: seq,
		},
	})
}
