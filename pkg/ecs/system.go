package ecs

// SystemID names a registered system within a Schedule.
type SystemID uint64

// registeredSystem is a type-erased, ready-to-run system: its
// descriptor (computed once, at registration), a closure that fetches
// parameters and invokes the user function for one tick, and a
// closure that releases any per-parameter state the system owns
// (currently only EventReader subscriptions).
type registeredSystem struct {
	id         SystemID
	descriptor Descriptor
	run        func(w *World) error
	destroy    func(w *World)
}

func fetchParam[V any](w *World, p *Param[V], state any) (V, func(), error) {
	return p.fetch(w, state)
}

func newState[V any](w *World, p *Param[V]) any {
	if p.newState == nil {
		return nil
	}
	return p.newState(w)
}

func describeParam[V any](p *Param[V], state any) Descriptor {
	return p.describe(state)
}

// AddSystem1 registers a synchronous, single-parameter system.
func AddSystem1[V0 any](s *Schedule, p0 Param[V0], fn func(V0)) SystemID {
	st0 := newState(s.world, &p0)
	desc := describeParam(&p0, st0)

	run := func(w *World) error {
		v0, release0, err := fetchParam(w, &p0, st0)
		if err != nil {
			return err
		}
		defer release0()
		fn(v0)
		return nil
	}
	destroy := func(w *World) {
		if p0.destroy != nil {
			p0.destroy(w, st0)
		}
	}
	return s.register(desc, run, destroy)
}

// AddSystem2 registers a synchronous, two-parameter system.
func AddSystem2[V0, V1 any](s *Schedule, p0 Param[V0], p1 Param[V1], fn func(V0, V1)) SystemID {
	st0, st1 := newState(s.world, &p0), newState(s.world, &p1)
	desc := mergeDescriptors(describeParam(&p0, st0), describeParam(&p1, st1))

	run := func(w *World) error {
		v0, release0, err := fetchParam(w, &p0, st0)
		if err != nil {
			return err
		}
		defer release0()
		v1, release1, err := fetchParam(w, &p1, st1)
		if err != nil {
			return err
		}
		defer release1()
		fn(v0, v1)
		return nil
	}
	destroy := func(w *World) {
		if p0.destroy != nil {
			p0.destroy(w, st0)
		}
		if p1.destroy != nil {
			p1.destroy(w, st1)
		}
	}
	return s.register(desc, run, destroy)
}

// AddSystem3 registers a synchronous, three-parameter system.
func AddSystem3[V0, V1, V2 any](s *Schedule, p0 Param[V0], p1 Param[V1], p2 Param[V2], fn func(V0, V1, V2)) SystemID {
	st0, st1, st2 := newState(s.world, &p0), newState(s.world, &p1), newState(s.world, &p2)
	desc := mergeDescriptors(describeParam(&p0, st0), describeParam(&p1, st1), describeParam(&p2, st2))

	run := func(w *World) error {
		v0, release0, err := fetchParam(w, &p0, st0)
		if err != nil {
			return err
		}
		defer release0()
		v1, release1, err := fetchParam(w, &p1, st1)
		if err != nil {
			return err
		}
		defer release1()
		v2, release2, err := fetchParam(w, &p2, st2)
		if err != nil {
			return err
		}
		defer release2()
		fn(v0, v1, v2)
		return nil
	}
	destroy := func(w *World) {
		if p0.destroy != nil {
			p0.destroy(w, st0)
		}
		if p1.destroy != nil {
			p1.destroy(w, st1)
		}
		if p2.destroy != nil {
			p2.destroy(w, st2)
		}
	}
	return s.register(desc, run, destroy)
}

// AddSystem4 registers a synchronous, four-parameter system.
func AddSystem4[V0, V1, V2, V3 any](s *Schedule, p0 Param[V0], p1 Param[V1], p2 Param[V2], p3 Param[V3], fn func(V0, V1, V2, V3)) SystemID {
	st0, st1, st2, st3 := newState(s.world, &p0), newState(s.world, &p1), newState(s.world, &p2), newState(s.world, &p3)
	desc := mergeDescriptors(describeParam(&p0, st0), describeParam(&p1, st1), describeParam(&p2, st2), describeParam(&p3, st3))

	run := func(w *World) error {
		v0, release0, err := fetchParam(w, &p0, st0)
		if err != nil {
			return err
		}
		defer release0()
		v1, release1, err := fetchParam(w, &p1, st1)
		if err != nil {
			return err
		}
		defer release1()
		v2, release2, err := fetchParam(w, &p2, st2)
		if err != nil {
			return err
		}
		defer release2()
		v3, release3, err := fetchParam(w, &p3, st3)
		if err != nil {
			return err
		}
		defer release3()
		fn(v0, v1, v2, v3)
		return nil
	}
	destroy := func(w *World) {
		if p0.destroy != nil {
			p0.destroy(w, st0)
		}
		if p1.destroy != nil {
			p1.destroy(w, st1)
		}
		if p2.destroy != nil {
			p2.destroy(w, st2)
		}
		if p3.destroy != nil {
			p3.destroy(w, st3)
		}
	}
	return s.register(desc, run, destroy)
}

// AddAsyncSystem1 registers a system whose function reports failure
// instead of panicking. Both variants are dispatched identically by
// the scheduler, as plain errgroup.Group goroutines; only the
// user-facing signature differs.
func AddAsyncSystem1[V0 any](s *Schedule, p0 Param[V0], fn func(V0) error) SystemID {
	st0 := newState(s.world, &p0)
	desc := describeParam(&p0, st0)

	run := func(w *World) error {
		v0, release0, err := fetchParam(w, &p0, st0)
		if err != nil {
			return err
		}
		defer release0()
		return fn(v0)
	}
	destroy := func(w *World) {
		if p0.destroy != nil {
			p0.destroy(w, st0)
		}
	}
	return s.register(desc, run, destroy)
}

// AddAsyncSystem2 registers a two-parameter fallible system.
func AddAsyncSystem2[V0, V1 any](s *Schedule, p0 Param[V0], p1 Param[V1], fn func(V0, V1) error) SystemID {
	st0, st1 := newState(s.world, &p0), newState(s.world, &p1)
	desc := mergeDescriptors(describeParam(&p0, st0), describeParam(&p1, st1))

	run := func(w *World) error {
		v0, release0, err := fetchParam(w, &p0, st0)
		if err != nil {
			return err
		}
		defer release0()
		v1, release1, err := fetchParam(w, &p1, st1)
		if err != nil {
			return err
		}
		defer release1()
		return fn(v0, v1)
	}
	destroy := func(w *World) {
		if p0.destroy != nil {
			p0.destroy(w, st0)
		}
		if p1.destroy != nil {
			p1.destroy(w, st1)
		}
	}
	return s.register(desc, run, destroy)
}
