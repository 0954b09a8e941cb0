/*
Package ecs implements a data-oriented entity-component-system runtime:
an in-process entity registry, column-oriented component storage, a
multi-reader event bus, and a concurrent tick scheduler.

# Architecture

	┌───────────────────────── WORLD ───────────────────────────┐
	│                                                             │
	│  ┌───────────┐  ┌───────────────┐  ┌──────────────────┐  │
	│  │  entities  │  │ componentStore │  │  resourceStore    │  │
	│  │ (bitset)   │  │ map[Type]*col  │  │ map[Type]*slot    │  │
	│  └───────────┘  └───────┬───────┘  └──────────┬────────┘  │
	│                          │                      │           │
	│                    ┌─────▼──────┐         ┌─────▼─────┐    │
	│                    │   column    │         │ resourceSlot│  │
	│                    │ dense slice │         │  RWMutex    │  │
	│                    │ reverse idx │         │  value      │  │
	│                    │ byEntity map│         └────────────┘   │
	│                    │   RWMutex   │                          │
	│                    └────────────┘                          │
	│                                                             │
	│  ┌───────────┐  ┌──────────────────────────────────────┐  │
	│  │ eventBus   │  │           deferredQueue               │  │
	│  │ map[Type]  │  │ despawns map[EntityID]struct{}         │  │
	│  │ *eventTable│  │ removals map[Type]map[EntityID]struct{}│  │
	│  └───────────┘  └──────────────────────────────────────┘  │
	└─────────────────────────────────────────────────────────┘

# Entities and components

An Entity is an opaque, non-versioned id allocated from a growable
bitset (lowest cleared bit semantics, entity.go). Components are
attached via Insert[T], stored in a per-type column (component.go) that
keeps a dense slice, a reverse slot→entity index, and an entity→slot
map, so removal is a swap-remove in O(1) at the cost of slot-index
stability across removals.

# Queries and locking

A Query[X,Q,F] (query.go) acquires, at construction, every column lock
its request set mentions (Read[T] takes a shared lock, Write[T] an
exclusive one), in a fixed order (sorted by type name) so that two
queries naming the same types in different declaration order can never
deadlock each other. Go has no destructor-scoped guard, so callers must
call Release when done; for a system's Query parameter the scheduler
calls it as soon as the system returns.
Lock acquisition is non-blocking: a conflicting hold surfaces as
ErrStorageLocked rather than stalling the caller, matching the
invariant that the scheduler never runs conflicting systems
concurrently in the first place.

# Systems and scheduling

A system's parameters (Query, Res, ResMut, EventReader, EventWriter,
State) are described by a Param[V] (param.go) built once at
registration (system.go's AddSystem1..4/AddAsyncSystem1..2). Each
Param's Descriptor names the (type, exclusive) pairs it touches; the
Schedule (schedule.go) groups registered systems into waves such that
no two systems in the same wave have conflicting descriptors, then
dispatches each wave through errgroup.Group. A panicking system is
recovered and turned into an error for that system only; its siblings
still run to completion.

# Deferred mutation

Despawning an entity or removing one of its components mid-tick would
invalidate another system's in-flight query over the same column, so
both are recorded in the deferredQueue (deferred.go) instead and
applied once every system in the tick has returned: removals first,
then despawns, then a pass that prunes any column left empty.

# Events

The event bus (event.go) delivers each write to every reader that was
subscribed at write time: a write stores the payload once with a
remaining-reader count, and each EventReader's Next() decrements that
count on its own cursor, deleting the slot once every subscriber has
consumed it. A reader that subscribes after a write never sees it.
*/
package ecs
