package ecs

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cuemby/ecsgo/pkg/ecslog"
	"github.com/cuemby/ecsgo/pkg/ecsmetrics"
)

// Schedule owns a registry of systems and drives one tick at a time.
// Descriptors are computed once at registration, the way the source
// crate's Schedule::add_system does; Run recomputes the wave grouping
// every call since the registry can grow between ticks.
//
// A Schedule built by World.NewSchedule groups conflict-free systems
// into waves and dispatches each wave concurrently. A Schedule built
// by World.NewSingleThreadedSchedule ignores descriptor conflicts
// entirely and runs every system alone, one at a time, in registration
// order: every system sees the prior system's writes and event
// production for that tick, at the cost of giving up intra-tick
// concurrency.
type Schedule struct {
	world *World

	mu             sync.Mutex
	nextID         SystemID
	systems        []*registeredSystem
	singleThreaded bool
}

func newSchedule(w *World) *Schedule {
	return &Schedule{world: w}
}

func newSingleThreadedSchedule(w *World) *Schedule {
	return &Schedule{world: w, singleThreaded: true}
}

func (s *Schedule) register(desc Descriptor, run func(w *World) error, destroy func(w *World)) SystemID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.systems = append(s.systems, &registeredSystem{id: id, descriptor: desc, run: run, destroy: destroy})
	return id
}

// Remove unregisters a system, running its destroy hook (unsubscribing
// any EventReader it owned). A no-op if id is unknown.
func (s *Schedule) Remove(id SystemID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sys := range s.systems {
		if sys.id == id {
			sys.destroy(s.world)
			s.systems = append(s.systems[:i], s.systems[i+1:]...)
			return
		}
	}
}

// waves groups the current systems so that, within a wave, no two
// systems' descriptors conflict. It is a greedy bin-packing pass over
// the registration order: each system goes into the earliest wave it
// doesn't conflict with.
//
// On a single-threaded schedule, waves instead puts each system in its
// own wave, in registration order, regardless of conflicts: Run always
// dispatches waves strictly in sequence and waits for one to finish
// before starting the next, so a singleton wave per system gives
// register-order execution with no overlap.
func (s *Schedule) waves() [][]*registeredSystem {
	if s.singleThreaded {
		out := make([][]*registeredSystem, len(s.systems))
		for i, sys := range s.systems {
			out[i] = []*registeredSystem{sys}
		}
		return out
	}

	var out [][]*registeredSystem
	for _, sys := range s.systems {
		placed := false
		for i, wave := range out {
			conflicts := false
			for _, other := range wave {
				if sys.descriptor.conflictsWith(other.descriptor) {
					conflicts = true
					break
				}
			}
			if !conflicts {
				out[i] = append(out[i], sys)
				placed = true
				break
			}
		}
		if !placed {
			out = append(out, []*registeredSystem{sys})
		}
	}
	return out
}

// Run executes one tick: every registered system runs exactly once,
// wave by wave, with each wave's systems launched concurrently through
// errgroup.Group and awaited together before the next wave starts. On
// a single-threaded schedule every wave holds exactly one system, so
// this degenerates to running systems one at a time in registration
// order. A panicking system is recovered and reported as an error
// rather than bringing down the tick, after its wave's siblings have
// either completed or also panicked. Deferred despawns and component
// removals are applied once, after every wave has finished, regardless
// of whether any system failed.
func (s *Schedule) Run(ctx context.Context) error {
	tickID := uuid.NewString()
	logger := ecslog.WithTickID(tickID)
	timer := ecsmetrics.NewTimer()
	defer func() {
		ecsmetrics.TicksTotal.Inc()
		timer.ObserveDuration(ecsmetrics.TickDuration)
	}()

	s.mu.Lock()
	waves := s.waves()
	s.mu.Unlock()
	ecsmetrics.WavesPerTick.Observe(float64(len(waves)))
	logger.Debug().Int("systems", len(s.systems)).Int("waves", len(waves)).Msg("tick started")

	var firstErr error
	for waveIdx, wave := range waves {
		if err := ctx.Err(); err != nil {
			return err
		}

		var g errgroup.Group
		for _, sys := range wave {
			sys := sys
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("system %d panicked: %v", sys.id, r)
					}
					if err != nil {
						ecsmetrics.SystemsRunTotal.WithLabelValues("error").Inc()
					} else {
						ecsmetrics.SystemsRunTotal.WithLabelValues("ok").Inc()
					}
				}()
				return sys.run(s.world)
			})
		}
		if err := g.Wait(); err != nil {
			logger.Error().Err(err).Int("wave", waveIdx).Msg("system failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	s.world.deferred.apply(s.world.entities, s.world.components)
	ecsmetrics.EntitiesLive.Set(float64(len(s.world.entities.iterLive())))
	logger.Debug().Msg("tick completed")
	return firstErr
}
