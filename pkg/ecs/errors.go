package ecs

import "errors"

// ErrStorageLocked is returned when query construction attempts to
// acquire a component column lock in a mode that conflicts with a lock
// already held. Resource handles do not return it; they block on their
// lock instead. In correctly scheduled code this never surfaces: the scheduler
// computes access descriptors so that no two concurrently running
// systems can conflict. Seeing it means the descriptor computation for
// some system is wrong.
var ErrStorageLocked = errors.New("ecs: storage locked")

// ErrNotFound is returned when a resource lookup targets a type that
// was never registered with the world. Component lookups report a
// missing column or entity with a false result instead.
var ErrNotFound = errors.New("ecs: not found")
