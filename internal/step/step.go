// Package step defines the immutable record of one inspectable moment of
// an algorithm run, plus the lazy Source used when a full trace cannot be
// materialized.
package step

import "github.com/vizlab/algoviz/internal/graph"

// Status describes where a Step sits in the run lifecycle.
type Status uint8

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusError
)

var statusNames = [...]string{
	StatusPending:   "pending",
	StatusRunning:   "running",
	StatusCompleted: "completed",
	StatusError:     "error",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	*s = StatusPending
	return nil
}

// Well-known Data keys shared between adapters and renderers.
const (
	KeyDistances     = "distances"
	KeyComparisons   = "comparisons"
	KeySwaps         = "swaps"
	KeyPivot         = "pivot"
	KeyBalance       = "balanceFactor"
	KeyRotation      = "rotation"
	KeyPath          = "path"
	KeyCost          = "cost"
	KeySequence      = "sequence"
	KeyVisitOrder    = "visitOrder"
	KeyMSTEdges      = "mstEdges"
	KeyTotalWeight   = "totalWeight"
	KeyIterations    = "iterations"
	KeyMeetingNode   = "meetingNode"
	KeyNegativeCycle = "negativeCycle"
	KeyHeight        = "height"
)

// Move relocates one sequence element to index To. Moves in a Step apply
// in listed order; To addresses the final index after the element is
// lifted out of the order.
type Move struct {
	ID string `json:"id"`
	To int    `json:"to"`
}

// Step is produced once by an adapter and never mutated afterwards. The
// typed delta fields (NodeStates, EdgeStates, Reparent, Moves) carry the
// complete dataset mutation for this moment, so replaying a Step prefix
// fully determines the displayed state; Data carries renderable values
// keyed by the Key* constants and holds only JSON-able kinds.
type Step struct {
	Index       int                    `json:"index"`
	Description string                 `json:"description"`
	Status      Status                 `json:"status"`
	NodeIDs     []string               `json:"nodeIds,omitempty"`
	EdgeIDs     []string               `json:"edgeIds,omitempty"`
	NodeStates  map[string]graph.State `json:"nodeStates,omitempty"`
	EdgeStates  map[string]graph.State `json:"edgeStates,omitempty"`
	Reparent    map[string]string      `json:"reparent,omitempty"`
	Moves       []Move                 `json:"moves,omitempty"`
	Data        map[string]any         `json:"data,omitempty"`
}

// Terminal reports whether no further Steps can follow.
func (s Step) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}

// Clone deep-copies the step so holders can hand it out without aliasing
// the original maps.
func (s Step) Clone() Step {
	c := s
	if s.NodeIDs != nil {
		c.NodeIDs = append([]string(nil), s.NodeIDs...)
	}
	if s.EdgeIDs != nil {
		c.EdgeIDs = append([]string(nil), s.EdgeIDs...)
	}
	if s.NodeStates != nil {
		c.NodeStates = make(map[string]graph.State, len(s.NodeStates))
		for k, v := range s.NodeStates {
			c.NodeStates[k] = v
		}
	}
	if s.EdgeStates != nil {
		c.EdgeStates = make(map[string]graph.State, len(s.EdgeStates))
		for k, v := range s.EdgeStates {
			c.EdgeStates[k] = v
		}
	}
	if s.Reparent != nil {
		c.Reparent = make(map[string]string, len(s.Reparent))
		for k, v := range s.Reparent {
			c.Reparent[k] = v
		}
	}
	if s.Moves != nil {
		c.Moves = append([]Move(nil), s.Moves...)
	}
	if s.Data != nil {
		c.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	return c
}
