package ecs

import (
	"fmt"
	"sort"
)

// lockSpec names one column lock a query parameter needs, and how to
// acquire it. Gathering these (rather than acquiring immediately) lets
// NewQuery sort them into canonical order before taking any lock, so
// two queries that mention the same types in different declaration
// order can never deadlock against each other.
type lockSpec struct {
	typ       string
	exclusive bool
	acquire   func(w *World) (func(), error)
}

// queryParam is satisfied by every query component request. X is the
// type fetch returns for one entity: T for Read[T], *T for Write[T],
// and a Pair2/Pair3/Pair4 of those for the And combinators.
type queryParam[X any] interface {
	descriptor() Descriptor
	lockSpecs() []lockSpec
	fetch(w *World, id EntityID) (X, bool)
}

// Read requests shared access to component type T.
type Read[T Component] struct{}

func (Read[T]) descriptor() Descriptor {
	return Descriptor{accesses: []fieldAccess{describeColumn[T](false)}}
}

func (Read[T]) lockSpecs() []lockSpec {
	return []lockSpec{{
		typ:     describeColumn[T](false).typ.String(),
		acquire: func(w *World) (func(), error) { return acquireColumnShared[T](w.components) },
	}}
}

func (Read[T]) fetch(w *World, id EntityID) (T, bool) {
	return fetchShared[T](w.components, id)
}

// Write requests exclusive access to component type T, handed out as
// a pointer so the system can mutate it in place.
type Write[T Component] struct{}

func (Write[T]) descriptor() Descriptor {
	return Descriptor{accesses: []fieldAccess{describeColumn[T](true)}}
}

func (Write[T]) lockSpecs() []lockSpec {
	return []lockSpec{{
		typ:       describeColumn[T](true).typ.String(),
		exclusive: true,
		acquire:   func(w *World) (func(), error) { return acquireColumnExclusive[T](w.components) },
	}}
}

// fetch looks up id's slot without locking: the query already holds
// the column's exclusive lock, and taking it again would block.
func (w Write[T]) fetch(world *World, id EntityID) (*T, bool) {
	c := world.components.columnFor(describeColumn[T](true).typ, false)
	if c == nil {
		return nil, false
	}
	slot, ok := c.byEntity[id]
	if !ok {
		return nil, false
	}
	return c.dense.Index(slot).Addr().Interface().(*T), true
}

// Pair2, Pair3, Pair4 are the fetch results of And2/And3/And4.
type Pair2[A, B any] struct {
	A A
	B B
}

type Pair3[A, B, C any] struct {
	A A
	B B
	C C
}

type Pair4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

// And2 requests both Q0 and Q1's components for the same entity.
type And2[X0, X1 any, Q0 queryParam[X0], Q1 queryParam[X1]] struct {
	Q0 Q0
	Q1 Q1
}

func (q And2[X0, X1, Q0, Q1]) descriptor() Descriptor {
	return mergeDescriptors(q.Q0.descriptor(), q.Q1.descriptor())
}

func (q And2[X0, X1, Q0, Q1]) lockSpecs() []lockSpec {
	return append(q.Q0.lockSpecs(), q.Q1.lockSpecs()...)
}

func (q And2[X0, X1, Q0, Q1]) fetch(w *World, id EntityID) (Pair2[X0, X1], bool) {
	a, ok := q.Q0.fetch(w, id)
	if !ok {
		return Pair2[X0, X1]{}, false
	}
	b, ok := q.Q1.fetch(w, id)
	if !ok {
		return Pair2[X0, X1]{}, false
	}
	return Pair2[X0, X1]{A: a, B: b}, true
}

// And3 requests Q0, Q1, and Q2's components for the same entity.
type And3[X0, X1, X2 any, Q0 queryParam[X0], Q1 queryParam[X1], Q2 queryParam[X2]] struct {
	Q0 Q0
	Q1 Q1
	Q2 Q2
}

func (q And3[X0, X1, X2, Q0, Q1, Q2]) descriptor() Descriptor {
	return mergeDescriptors(q.Q0.descriptor(), q.Q1.descriptor(), q.Q2.descriptor())
}

func (q And3[X0, X1, X2, Q0, Q1, Q2]) lockSpecs() []lockSpec {
	out := q.Q0.lockSpecs()
	out = append(out, q.Q1.lockSpecs()...)
	out = append(out, q.Q2.lockSpecs()...)
	return out
}

func (q And3[X0, X1, X2, Q0, Q1, Q2]) fetch(w *World, id EntityID) (Pair3[X0, X1, X2], bool) {
	a, ok := q.Q0.fetch(w, id)
	if !ok {
		return Pair3[X0, X1, X2]{}, false
	}
	b, ok := q.Q1.fetch(w, id)
	if !ok {
		return Pair3[X0, X1, X2]{}, false
	}
	c, ok := q.Q2.fetch(w, id)
	if !ok {
		return Pair3[X0, X1, X2]{}, false
	}
	return Pair3[X0, X1, X2]{A: a, B: b, C: c}, true
}

// And4 requests Q0 through Q3's components for the same entity.
type And4[X0, X1, X2, X3 any, Q0 queryParam[X0], Q1 queryParam[X1], Q2 queryParam[X2], Q3 queryParam[X3]] struct {
	Q0 Q0
	Q1 Q1
	Q2 Q2
	Q3 Q3
}

func (q And4[X0, X1, X2, X3, Q0, Q1, Q2, Q3]) descriptor() Descriptor {
	return mergeDescriptors(q.Q0.descriptor(), q.Q1.descriptor(), q.Q2.descriptor(), q.Q3.descriptor())
}

func (q And4[X0, X1, X2, X3, Q0, Q1, Q2, Q3]) lockSpecs() []lockSpec {
	out := q.Q0.lockSpecs()
	out = append(out, q.Q1.lockSpecs()...)
	out = append(out, q.Q2.lockSpecs()...)
	out = append(out, q.Q3.lockSpecs()...)
	return out
}

func (q And4[X0, X1, X2, X3, Q0, Q1, Q2, Q3]) fetch(w *World, id EntityID) (Pair4[X0, X1, X2, X3], bool) {
	a, ok := q.Q0.fetch(w, id)
	if !ok {
		return Pair4[X0, X1, X2, X3]{}, false
	}
	b, ok := q.Q1.fetch(w, id)
	if !ok {
		return Pair4[X0, X1, X2, X3]{}, false
	}
	c, ok := q.Q2.fetch(w, id)
	if !ok {
		return Pair4[X0, X1, X2, X3]{}, false
	}
	d, ok := q.Q3.fetch(w, id)
	if !ok {
		return Pair4[X0, X1, X2, X3]{}, false
	}
	return Pair4[X0, X1, X2, X3]{A: a, B: b, C: c, D: d}, true
}

// Query is a typed, filtered view over entities. Construction acquires
// every column lock the request set mentions, in canonical order;
// Release drops them in reverse. A Query is not safe to use from a
// goroutine other than the one that constructed it, because the locks
// it holds are only valid for the goroutine that took them. Go's race
// detector cannot observe this the way Rust's Send bound does, so it
// is enforced only by convention and doc comments.
type Query[X any, Q queryParam[X], F filterSet] struct {
	world    *World
	query    Q
	filter   F
	released []func()
}

// NewQuery constructs a query, acquiring locks for every column Q
// mentions. The caller must call Release when done with it.
func NewQuery[X any, Q queryParam[X], F filterSet](w *World, query Q, filter F) (*Query[X, Q, F], error) {
	specs := query.lockSpecs()
	sort.Slice(specs, func(i, j int) bool { return specs[i].typ < specs[j].typ })

	acquired := make([]func(), 0, len(specs))
	for _, spec := range specs {
		release, err := spec.acquire(w)
		if err != nil {
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i]()
			}
			return nil, fmt.Errorf("query construction: %w", err)
		}
		acquired = append(acquired, release)
	}

	return &Query[X, Q, F]{world: w, query: query, filter: filter, released: acquired}, nil
}

// Release drops every lock this query holds, in reverse acquisition
// order. Calling Release more than once is a no-op after the first.
func (q *Query[X, Q, F]) Release() {
	for i := len(q.released) - 1; i >= 0; i-- {
		q.released[i]()
	}
	q.released = nil
}

// Each visits every live entity that matches the filter and owns every
// requested component, in ascending-id order, calling fn with the
// entity and its fetched component tuple.
func (q *Query[X, Q, F]) Each(fn func(EntityID, X)) {
	for _, id := range q.world.entities.iterLive() {
		if !q.filter.match(q.world, id) {
			continue
		}
		item, ok := q.query.fetch(q.world, id)
		if !ok {
			continue
		}
		fn(id, item)
	}
}

func queryDescriptor[X any, Q queryParam[X]](query Q) Descriptor {
	return query.descriptor()
}
