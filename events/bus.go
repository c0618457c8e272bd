package events

// Listener receives dispatched events.
type Listener func(Event)

// Subscription identifies one registered listener.
type Subscription struct {
	kind Kind
	id   uint64
}

type entry struct {
	id uint64
	fn Listener
}

// Bus fans events out to listeners subscribed per kind. Listeners of one kind
// run in subscription order. A Bus is not safe for concurrent use; the
// controller dispatches from its own tick.
type Bus struct {
	listeners map[Kind][]entry
	next      uint64
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[Kind][]entry)}
}

// Subscribe registers fn for kind.
func (b *Bus) Subscribe(kind Kind, fn Listener) Subscription {
	if b.listeners == nil {
		b.listeners = make(map[Kind][]entry)
	}
	b.next++
	b.listeners[kind] = append(b.listeners[kind], entry{id: b.next, fn: fn})
	return Subscription{kind: kind, id: b.next}
}

// Unsubscribe removes a listener. It reports false when sub was not
// registered.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	list := b.listeners[sub.kind]
	for i, e := range list {
		if e.id != sub.id {
			continue
		}
		// copy so a dispatch iterating the old slice is unaffected
		next := make([]entry, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.listeners, sub.kind)
		} else {
			b.listeners[sub.kind] = next
		}
		return true
	}
	return false
}

// Dispatch delivers evts in order.
func (b *Bus) Dispatch(evts []Event) {
	for _, evt := range evts {
		for _, e := range b.listeners[evt.Kind] {
			e.fn(evt)
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	n := 0
	for _, list := range b.listeners {
		n += len(list)
	}
	return n
}
