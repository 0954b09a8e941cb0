package ecs

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/cuemby/ecsgo/pkg/ecslog"
)

// World is the top-level container for one ECS instance: entity
// allocation, component columns, resources, the event bus, and the
// deferred-mutation queue it drains after every tick.
type World struct {
	entities   *entities
	components *componentStore
	resources  *resourceStore
	events     *eventBus
	deferred   *deferredQueue

	logger zerolog.Logger
}

// NewWorld constructs an empty world.
func NewWorld() *World {
	return &World{
		entities:   newEntities(),
		components: newComponentStore(),
		resources:  newResourceStore(),
		events:     newEventBus(),
		deferred:   newDeferredQueue(),
		logger:     ecslog.WithComponent("world"),
	}
}

// NewSchedule creates a Schedule bound to this world whose systems run
// concurrently, grouped into conflict-free waves.
func (w *World) NewSchedule() *Schedule {
	return newSchedule(w)
}

// NewSingleThreadedSchedule creates a Schedule bound to this world
// whose systems run one at a time, in registration order, regardless
// of descriptor conflicts. Use it when a tick's outcome must not
// depend on goroutine scheduling, such as a producer system's events
// needing to be visible to a consumer system within the same tick.
func (w *World) NewSingleThreadedSchedule() *Schedule {
	return newSingleThreadedSchedule(w)
}

// AddResource registers the world singleton of type R, overwriting any
// previous value of that type.
func AddResource[R Resource](w *World, value R) {
	addResource(w.resources, value)
}

// Entity is a handle to a single live (or formerly live) entity,
// bundling its id with the world it belongs to so despawn/component
// operations can be called without threading the world through every
// call site.
type Entity struct {
	id    EntityID
	world *World
}

// Spawn creates a new entity with no components.
func (w *World) Spawn() Entity {
	return Entity{id: w.entities.alloc(), world: w}
}

// EntityFor wraps an id observed elsewhere (e.g. carried by an event)
// back into a handle bound to this world.
func (w *World) EntityFor(id EntityID) Entity {
	return Entity{id: id, world: w}
}

// ID returns the entity's identifier.
func (e Entity) ID() EntityID { return e.id }

// IsLive reports whether the entity has not been despawned.
func (e Entity) IsLive() bool { return e.world.entities.isLive(e.id) }

// Insert attaches component value to the entity, replacing any
// existing component of the same type and returning the value it
// replaced.
func Insert[T Component](e Entity, value T) (T, bool) {
	return insertComponent[T](e.world.components, e.id, value)
}

// Has reports whether the entity currently owns a component of type T.
func Has[T Component](e Entity) bool {
	return hasComponent[T](e.world.components, e.id)
}

// Remove schedules component type T for removal from the entity. The
// removal takes effect at the next deferred-mutation drain, not
// immediately: removing it synchronously could race with a query that
// is mid-iteration over the same column.
func Remove[T Component](e Entity) {
	e.world.deferred.scheduleRemoval(reflect.TypeFor[T](), e.id)
}

// Despawn schedules the entity for removal from every column and frees
// its id, both deferred to the next mutation drain.
func (e Entity) Despawn() {
	e.world.deferred.scheduleDespawn(e.id)
}

// String renders the entity for diagnostics.
func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d)", e.id)
}
