package ecs

import (
	"fmt"
	"reflect"
	"sync"
)

// Component marks a type that can be attached to an entity and stored
// in its own column. Any type satisfies it; the name exists so
// signatures read as intent ("insert a Component"), the way the
// source crate uses a marker trait for the same purpose.
type Component any

// column is the type-erased storage for one component type: a dense
// slice of values, a reverse index from slot to entity, a map from
// entity to slot, and the lock that a Query acquires for the lifetime
// of its iteration.
//
// Invariants (held at every tick boundary): len(dense) == len(reverse)
// == len(byEntity); for every (id, slot) in byEntity, reverse[slot] ==
// id.
type column struct {
	mu       sync.RWMutex
	typ      reflect.Type
	dense    reflect.Value // addressable slice of the concrete component type
	reverse  []EntityID
	byEntity map[EntityID]int
}

func newColumn(typ reflect.Type) *column {
	return &column{
		typ:      typ,
		dense:    reflect.MakeSlice(reflect.SliceOf(typ), 0, 0),
		byEntity: make(map[EntityID]int),
	}
}

// insert adds or replaces the component for entity. It returns the
// previous value (as a reflect.Value of the column's type) and
// whether one existed. The caller must hold c.mu for writing.
func (c *column) insert(entity EntityID, value reflect.Value) (reflect.Value, bool) {
	if slot, ok := c.byEntity[entity]; ok {
		old := reflect.New(c.typ).Elem()
		old.Set(c.dense.Index(slot))
		c.dense.Index(slot).Set(value)
		return old, true
	}

	slot := c.dense.Len()
	c.dense = reflect.Append(c.dense, value)
	c.reverse = append(c.reverse, entity)
	c.byEntity[entity] = slot
	return reflect.Value{}, false
}

// removeLocked performs swap_remove on entity's slot: the tail element
// is moved into the vacated slot, the map entry for the entity that
// used to own the tail slot is rewritten, and the tail is dropped. The
// caller must hold c.mu for writing. Returns whether entity had a
// component here and whether the column is now empty.
func (c *column) removeLocked(entity EntityID) (removed, empty bool) {
	slot, ok := c.byEntity[entity]
	if !ok {
		return false, c.dense.Len() == 0
	}

	delete(c.byEntity, entity)
	last := c.dense.Len() - 1

	if slot != last {
		c.dense.Index(slot).Set(c.dense.Index(last))
		movedEntity := c.reverse[last]
		c.reverse[slot] = movedEntity
		c.byEntity[movedEntity] = slot
	}

	c.dense = c.dense.Slice(0, last)
	c.reverse = c.reverse[:last]

	return true, c.dense.Len() == 0
}

func (c *column) hasLocked(entity EntityID) bool {
	_, ok := c.byEntity[entity]
	return ok
}

// componentStore is the type-keyed table of columns that the world
// owns exclusively. Registering a new component type takes the store
// lock only long enough to insert the column; all further access goes
// through the column's own lock.
type componentStore struct {
	mu      sync.RWMutex
	columns map[reflect.Type]*column
}

func newComponentStore() *componentStore {
	return &componentStore{columns: make(map[reflect.Type]*column)}
}

func (s *componentStore) columnFor(typ reflect.Type, create bool) *column {
	s.mu.RLock()
	c, ok := s.columns[typ]
	s.mu.RUnlock()
	if ok {
		return c
	}
	if !create {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.columns[typ]; ok {
		return c
	}
	c = newColumn(typ)
	s.columns[typ] = c
	return c
}

func insertComponent[T Component](s *componentStore, entity EntityID, value T) (T, bool) {
	typ := reflect.TypeFor[T]()
	c := s.columnFor(typ, true)

	c.mu.Lock()
	old, had := c.insert(entity, reflect.ValueOf(value))
	c.mu.Unlock()

	if !had {
		var zero T
		return zero, false
	}
	return old.Interface().(T), true
}

func hasComponent[T Component](s *componentStore, entity EntityID) bool {
	typ := reflect.TypeFor[T]()
	c := s.columnFor(typ, false)
	if c == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasLocked(entity)
}

func removeComponent[T Component](s *componentStore, entity EntityID) bool {
	typ := reflect.TypeFor[T]()
	c := s.columnFor(typ, false)
	if c == nil {
		return false
	}

	c.mu.Lock()
	removed, empty := c.removeLocked(entity)
	c.mu.Unlock()
	return removed && empty
}

// despawnFrom removes entity from every column, ignoring columns that
// never held it. Used by the scheduler's post-tick despawn pass.
func (s *componentStore) despawnFrom(entity EntityID) {
	s.mu.RLock()
	cols := make([]*column, 0, len(s.columns))
	for _, c := range s.columns {
		cols = append(cols, c)
	}
	s.mu.RUnlock()

	for _, c := range cols {
		c.mu.Lock()
		c.removeLocked(entity)
		c.mu.Unlock()
	}
}

// removeType removes entity from the column for typ, if that column
// exists. Used by the scheduler's post-tick component-removal pass.
func (s *componentStore) removeType(typ reflect.Type, entity EntityID) {
	c := s.columnFor(typ, false)
	if c == nil {
		return
	}
	c.mu.Lock()
	c.removeLocked(entity)
	c.mu.Unlock()
}

// pruneEmpty drops columns whose dense storage is empty. Called once
// per tick after deferred mutations have been applied (spec step 5).
func (s *componentStore) pruneEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for typ, c := range s.columns {
		c.mu.RLock()
		empty := c.dense.Len() == 0
		c.mu.RUnlock()
		if empty {
			delete(s.columns, typ)
		}
	}
}

func fetchShared[T Component](s *componentStore, entity EntityID) (T, bool) {
	typ := reflect.TypeFor[T]()
	c := s.columnFor(typ, false)
	if c == nil {
		var zero T
		return zero, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	slot, ok := c.byEntity[entity]
	if !ok {
		var zero T
		return zero, false
	}
	return c.dense.Index(slot).Interface().(T), true
}

func fetchExclusive[T Component](s *componentStore, entity EntityID, fn func(*T)) bool {
	typ := reflect.TypeFor[T]()
	c := s.columnFor(typ, false)
	if c == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.byEntity[entity]
	if !ok {
		return false
	}

	ptr := c.dense.Index(slot).Addr().Interface().(*T)
	fn(ptr)
	return true
}

// acquireColumnShared acquires the column's read lock without
// blocking: query construction fails rather than waits when a
// conflicting exclusive holder is already active. In correctly
// scheduled code the scheduler never runs conflicting systems
// concurrently, so this is expected to always succeed.
func acquireColumnShared[T Component](s *componentStore) (func(), error) {
	c := s.columnFor(reflect.TypeFor[T](), true)
	if !c.mu.TryRLock() {
		return nil, fmt.Errorf("%w: column %s", ErrStorageLocked, c.typ)
	}
	return c.mu.RUnlock, nil
}

func acquireColumnExclusive[T Component](s *componentStore) (func(), error) {
	c := s.columnFor(reflect.TypeFor[T](), true)
	if !c.mu.TryLock() {
		return nil, fmt.Errorf("%w: column %s", ErrStorageLocked, c.typ)
	}
	return c.mu.Unlock, nil
}

func describeColumn[T Component](exclusive bool) fieldAccess {
	return fieldAccess{typ: reflect.TypeFor[T](), exclusive: exclusive}
}

// String renders the column's component type and entity count for
// diagnostics.
func (c *column) String() string {
	return fmt.Sprintf("column[%s] (%d entities)", c.typ, c.dense.Len())
}
