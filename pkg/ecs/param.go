package ecs

// Param describes one system parameter slot: how to create its
// persistent state at registration time, how that state folds into
// the system's scheduling descriptor, and how to fetch a fresh,
// properly locked value of V from the world on every tick. Go has no
// associated types, so V is carried as Param's own type parameter
// instead of an associated one the way an equivalent Rust trait would.
type Param[V any] struct {
	newState func(w *World) any
	describe func(state any) Descriptor
	fetch    func(w *World, state any) (V, func(), error)
	destroy  func(w *World, state any)
}

// QueryOf binds a Query[X,Q,F] parameter: a fresh query is constructed
// (acquiring its column locks) on every tick and released once the
// system returns.
func QueryOf[X any, Q queryParam[X], F filterSet](query Q, filter F) Param[*Query[X, Q, F]] {
	return Param[*Query[X, Q, F]]{
		describe: func(any) Descriptor { return query.descriptor() },
		fetch: func(w *World, _ any) (*Query[X, Q, F], func(), error) {
			q, err := NewQuery[X, Q, F](w, query, filter)
			if err != nil {
				return nil, nil, err
			}
			return q, q.Release, nil
		},
	}
}

// ResOf binds a Res[R] parameter: shared, read-only resource access.
func ResOf[R Resource]() Param[Res[R]] {
	return Param[Res[R]]{
		describe: func(any) Descriptor {
			return Descriptor{accesses: []fieldAccess{resourceAccess[R](false)}}
		},
		fetch: func(w *World, _ any) (Res[R], func(), error) {
			r, err := newRes[R](w.resources)
			if err != nil {
				return Res[R]{}, nil, err
			}
			return r, r.Release, nil
		},
	}
}

// ResMutOf binds a ResMut[R] parameter: exclusive, mutable resource
// access.
func ResMutOf[R Resource]() Param[ResMut[R]] {
	return Param[ResMut[R]]{
		describe: func(any) Descriptor {
			return Descriptor{accesses: []fieldAccess{resourceAccess[R](true)}}
		},
		fetch: func(w *World, _ any) (ResMut[R], func(), error) {
			r, err := newResMut[R](w.resources)
			if err != nil {
				return ResMut[R]{}, nil, err
			}
			return r, r.Release, nil
		},
	}
}

// WriterOf binds an EventWriter[E] parameter. Writing events never
// conflicts with anything, so it carries an empty descriptor.
func WriterOf[E Event]() Param[EventWriter[E]] {
	return Param[EventWriter[E]]{
		describe: func(any) Descriptor { return Descriptor{} },
		fetch: func(w *World, _ any) (EventWriter[E], func(), error) {
			return EventWriter[E]{bus: w.events}, func() {}, nil
		},
	}
}

// ReaderOf binds an EventReader[E] parameter. The reader's cursor must
// survive across ticks, so it lives in the parameter's persisted
// state: created and subscribed once at registration, unsubscribed if
// the system is ever torn down.
func ReaderOf[E Event]() Param[*EventReader[E]] {
	return Param[*EventReader[E]]{
		newState: func(w *World) any {
			return &EventReader[E]{bus: w.events, cursor: subscribeEvents[E](w.events)}
		},
		describe: func(any) Descriptor { return Descriptor{} },
		fetch: func(w *World, state any) (*EventReader[E], func(), error) {
			return state.(*EventReader[E]), func() {}, nil
		},
		destroy: func(w *World, _ any) {
			unsubscribeEvents[E](w.events)
		},
	}
}

// StateOf binds a State[S] parameter: a per-system scratchpad built
// once at registration by factory, and handed back unchanged on every
// tick.
func StateOf[S any](factory func() S) Param[*State[S]] {
	return Param[*State[S]]{
		newState: func(*World) any {
			v := factory()
			return &State[S]{value: &v}
		},
		describe: func(any) Descriptor { return Descriptor{} },
		fetch: func(w *World, state any) (*State[S], func(), error) {
			return state.(*State[S]), func() {}, nil
		},
	}
}
