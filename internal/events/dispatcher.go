package events

import "sync"

// Handler receives dispatched events.
type Handler func(Event)

type subscription struct {
	id      uint64
	kind    Kind // empty matches every kind
	handler Handler
}

// Dispatcher delivers events synchronously, in subscription order.
type Dispatcher struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers h for events of the given kind. The returned func
// removes the subscription; calling it again is harmless.
func (d *Dispatcher) Subscribe(kind Kind, h Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, kind: kind, handler: h})
	return func() { d.unsubscribe(id) }
}

// SubscribeAll registers h for every event.
func (d *Dispatcher) SubscribeAll(h Handler) func() {
	return d.Subscribe("", h)
}

func (d *Dispatcher) unsubscribe(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return
		}
	}
}

// Dispatch calls every matching handler and returns how many ran. Handlers
// may subscribe or unsubscribe; changes apply from the next Dispatch.
func (d *Dispatcher) Dispatch(e Event) int {
	if e == nil {
		return 0
	}
	d.mu.RLock()
	matched := make([]Handler, 0, len(d.subs))
	for _, s := range d.subs {
		if s.kind == "" || s.kind == e.Kind() {
			matched = append(matched, s.handler)
		}
	}
	d.mu.RUnlock()

	for _, h := range matched {
		h(e)
	}
	return len(matched)
}
