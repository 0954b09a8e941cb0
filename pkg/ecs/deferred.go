package ecs

import (
	"reflect"
	"sync"

	"github.com/cuemby/ecsgo/pkg/ecsmetrics"
)

// deferredQueue collects structural mutations requested during a tick
// so they can be applied once every system in the tick has finished
// reading and writing storage. Despawning an entity or removing one of
// its components mid-tick would invalidate another system's in-flight
// query, so both are recorded here instead and drained by the
// scheduler once every system in the tick has finished.
type deferredQueue struct {
	mu       sync.Mutex
	despawns map[EntityID]struct{}
	removals map[reflect.Type]map[EntityID]struct{}
}

func newDeferredQueue() *deferredQueue {
	return &deferredQueue{
		despawns: make(map[EntityID]struct{}),
		removals: make(map[reflect.Type]map[EntityID]struct{}),
	}
}

func (q *deferredQueue) scheduleDespawn(entity EntityID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.despawns[entity] = struct{}{}
}

func (q *deferredQueue) scheduleRemoval(typ reflect.Type, entity EntityID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	set, ok := q.removals[typ]
	if !ok {
		set = make(map[EntityID]struct{})
		q.removals[typ] = set
	}
	set[entity] = struct{}{}
}

// drain empties the queue and returns its contents. Called once at the
// start of apply so the next tick starts from an empty queue even if
// apply panics partway through.
func (q *deferredQueue) drain() (despawns []EntityID, removals map[reflect.Type][]EntityID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id := range q.despawns {
		despawns = append(despawns, id)
	}
	q.despawns = make(map[EntityID]struct{})

	removals = make(map[reflect.Type][]EntityID, len(q.removals))
	for typ, set := range q.removals {
		ids := make([]EntityID, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		removals[typ] = ids
	}
	q.removals = make(map[reflect.Type]map[EntityID]struct{})

	return despawns, removals
}

// apply drains the queue and performs removals before despawns, then
// prunes any column left empty, matching the order the source
// scheduler's post_tick uses (remove_queue before despawn_queue), plus
// an empty-column prune the source scheduler never reached.
func (q *deferredQueue) apply(entities *entities, components *componentStore) {
	despawns, removals := q.drain()

	for typ, ids := range removals {
		for _, id := range ids {
			components.removeType(typ, id)
		}
		ecsmetrics.DeferredMutationsApplied.WithLabelValues("remove:" + typ.String()).Add(float64(len(ids)))
	}

	for _, id := range despawns {
		components.despawnFrom(id)
	}
	entities.freeMany(despawns)
	if len(despawns) > 0 {
		ecsmetrics.DeferredMutationsApplied.WithLabelValues("despawn").Add(float64(len(despawns)))
	}

	components.pruneEmpty()
}
