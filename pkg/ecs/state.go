package ecs

// State is a per-system scratchpad: created once, by factory, when the
// system is registered, then handed to that system on every tick it
// runs. No other system can see or touch it, so it participates in no
// scheduling conflict.
type State[S any] struct {
	value *S
}

// Get returns a pointer to the persisted value, usable for both
// reading and mutating across ticks.
func (s *State[S]) Get() *S {
	return s.value
}
