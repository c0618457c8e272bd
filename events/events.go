package events

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/ecs"
)

// Kind identifies a controller event.
type Kind string

const (
	JumpStarted           Kind = "jump_started"
	DashStarted           Kind = "dash_started"
	Landed                Kind = "landed"
	InteractableTriggered Kind = "interactable_triggered"
)

// Kinds lists every event kind in a stable order.
func Kinds() []Kind {
	return []Kind{JumpStarted, DashStarted, Landed, InteractableTriggered}
}

// Event is a controller notification. Object is set only for
// InteractableTriggered.
type Event struct {
	Kind     Kind
	Object   ecs.Entity
	Position cp.Vector
}

// Queue is a simple FIFO queue.
type Queue struct {
	items []Event
}

// Push adds an event.
func (q *Queue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
