package ecs

import (
	"reflect"
	"sync"

	"github.com/cuemby/ecsgo/pkg/ecsmetrics"
)

// Event marks a type that can be broadcast through the event bus.
type Event any

type eventSlot struct {
	payload          any
	remainingReaders int
}

// eventTable is one event type's slot table: a monotonically
// increasing id counter, the number of currently subscribed readers,
// and the map from id to the slots not yet fully consumed.
type eventTable struct {
	mu      sync.RWMutex
	nextID  uint64
	readers int
	bySlot  map[uint64]*eventSlot
}

// eventBus owns one eventTable per event type.
type eventBus struct {
	mu     sync.RWMutex
	tables map[reflect.Type]*eventTable
}

func newEventBus() *eventBus {
	return &eventBus{tables: make(map[reflect.Type]*eventTable)}
}

func (b *eventBus) tableFor(typ reflect.Type) *eventTable {
	b.mu.RLock()
	t, ok := b.tables[typ]
	b.mu.RUnlock()
	if ok {
		return t
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.tables[typ]; ok {
		return t
	}
	t = &eventTable{bySlot: make(map[uint64]*eventSlot)}
	b.tables[typ] = t
	return t
}

// writeEvent allocates the next id for E and stores payload with
// remainingReaders set to the table's current subscriber count. If
// there are no subscribers the payload is dropped immediately.
func writeEvent[E Event](b *eventBus, payload E) uint64 {
	typ := reflect.TypeFor[E]()
	t := b.tableFor(typ)

	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++

	if t.readers > 0 {
		t.bySlot[id] = &eventSlot{payload: payload, remainingReaders: t.readers}
	}
	ecsmetrics.EventsWrittenTotal.WithLabelValues(typ.String()).Inc()
	return id
}

// subscribeEvents increments E's subscriber count and returns the cursor a
// newly created EventReader should start from: the current nextID, so
// it never observes events written before it subscribed.
func subscribeEvents[E Event](b *eventBus) uint64 {
	t := b.tableFor(reflect.TypeFor[E]())

	t.mu.Lock()
	defer t.mu.Unlock()
	t.readers++
	return t.nextID
}

func unsubscribeEvents[E Event](b *eventBus) {
	t := b.tableFor(reflect.TypeFor[E]())

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.readers > 0 {
		t.readers--
	}
}

// readNextEvent looks up the event at cursor; on a hit it decrements the
// slot's remaining-reader count (deleting the slot once it reaches
// zero), advances the cursor by one, and returns the payload. On a
// miss it returns false and leaves the cursor untouched.
func readNextEvent[E Event](b *eventBus, cursor *uint64) (E, bool) {
	t := b.tableFor(reflect.TypeFor[E]())

	t.mu.Lock()
	defer t.mu.Unlock()

	slot, ok := t.bySlot[*cursor]
	if !ok {
		var zero E
		return zero, false
	}

	slot.remainingReaders--
	if slot.remainingReaders <= 0 {
		delete(t.bySlot, *cursor)
	}
	*cursor++

	return slot.payload.(E), true
}

func pendingEvents[E Event](b *eventBus, cursor uint64) uint64 {
	t := b.tableFor(reflect.TypeFor[E]())

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nextID - cursor
}

// EventWriter lets a system broadcast events of type E.
type EventWriter[E Event] struct {
	bus *eventBus
}

// Write broadcasts payload to every reader currently subscribed to E
// and returns the id it was assigned.
func (w EventWriter[E]) Write(payload E) uint64 {
	return writeEvent(w.bus, payload)
}

// EventReader lets a system consume events of type E in ascending id
// order. Each reader owns its own cursor; two readers never interfere
// with each other's view of the stream.
type EventReader[E Event] struct {
	bus    *eventBus
	cursor uint64
}

// Next returns the next unseen event, if one has been written.
func (r *EventReader[E]) Next() (E, bool) {
	return readNextEvent[E](r.bus, &r.cursor)
}

// Pending reports how many events this reader has not yet consumed.
func (r *EventReader[E]) Pending() uint64 {
	return pendingEvents[E](r.bus, r.cursor)
}
