package viz

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/step"
)

// EventType names one notification the visualizer emits.
type EventType string

const (
	EventNodeClick      EventType = "node:click"
	EventNodeHover      EventType = "node:hover"
	EventEdgeClick      EventType = "edge:click"
	EventEdgeHover      EventType = "edge:hover"
	EventStepComplete   EventType = "step:complete"
	EventRenderStart    EventType = "render:start"
	EventRenderComplete EventType = "render:complete"
)

func validEventType(t EventType) bool {
	switch t {
	case EventNodeClick, EventNodeHover, EventEdgeClick, EventEdgeHover,
		EventStepComplete, EventRenderStart, EventRenderComplete:
		return true
	}
	return false
}

// Event is the payload delivered to handlers. Fields are filled per
// type: element events carry the id and pointer position, step events
// carry the step, render events carry the frame number.
type Event struct {
	Type   EventType
	NodeID string
	EdgeID string
	X, Y   int
	Step   *step.Step
	Frame  int64
}

// Handler receives events. Handlers run on the goroutine that triggered
// the event, after the visualizer released its internal lock, in
// subscription order.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

type eventBus struct {
	mu   sync.Mutex
	next int
	subs map[EventType][]subscription
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[EventType][]subscription)}
}

// on registers a handler and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (b *eventBus) on(t EventType, fn Handler) (func(), error) {
	if !validEventType(t) {
		return nil, errors.Newf("algoviz/viz: unknown event type %q", t)
	}
	if fn == nil {
		return nil, errors.New("algoviz/viz: nil event handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[t] = append(b.subs[t], subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[t]
		for i, s := range subs {
			if s.id == id {
				b.subs[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}, nil
}

// fire delivers e to the handlers subscribed at call time.
func (b *eventBus) fire(e Event) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[e.Type]...)
	b.mu.Unlock()
	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		s.fn(e)
	}
}
