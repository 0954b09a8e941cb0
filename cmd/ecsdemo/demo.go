package main

import (
	"context"
	"time"

	"github.com/cuemby/ecsgo/pkg/ecs"
)

// Health, Immortal, Killed, and KillCounter back the kill scenario:
// entities with non-positive health are killed unless immortal.
type Health float64

type Immortal struct{}

type Killed struct{ Entity ecs.EntityID }

type KillCounter struct{ Count int }

// LastUpdate and Interval back the interval scenario: an entity that
// reports an Interval event once at least 1000ms have elapsed since
// its last update.
type LastUpdate struct{ Instant time.Time }

type Interval struct{ Entity ecs.EntityID }

// Counter backs the counter-state scenario: a per-system State<Counter>
// that increments once per tick.
type Counter struct{ Value int }

// killScenarioResult is the outcome of running killScenario.
type killScenarioResult struct {
	KillCount int
	Immortal  ecs.Entity
}

// killScenario builds the world and schedule for scenario 1 and runs
// exactly one tick.
func killScenario(ctx context.Context) (killScenarioResult, error) {
	world := ecs.NewWorld()
	ecs.AddResource(world, KillCounter{})

	world.Spawn()
	ecs.Insert(world.Spawn(), Health(0))
	ecs.Insert(world.Spawn(), Health(1))
	ecs.Insert(world.Spawn(), Health(0))

	immortal := world.Spawn()
	ecs.Insert(immortal, Health(0))
	ecs.Insert(immortal, Immortal{})

	// The kill-producer and kill-consumer share no component type, so a
	// wave-concurrent schedule would place them in the same wave with no
	// ordering guarantee between the producer's Write and the consumer's
	// Next. The outcome here must be deterministic, so this scenario runs
	// single-threaded: producer before consumer, every tick.
	schedule := world.NewSingleThreadedSchedule()

	ecs.AddSystem2(
		schedule,
		ecs.QueryOf[Health](ecs.Read[Health]{}, ecs.Without[Immortal]{}),
		ecs.WriterOf[Killed](),
		func(q *ecs.Query[Health, ecs.Read[Health], ecs.Without[Immortal]], w ecs.EventWriter[Killed]) {
			q.Each(func(id ecs.EntityID, health Health) {
				if health <= 0 {
					w.Write(Killed{Entity: id})
				}
			})
		},
	)

	ecs.AddSystem2(
		schedule,
		ecs.ReaderOf[Killed](),
		ecs.ResMutOf[KillCounter](),
		func(r *ecs.EventReader[Killed], counter ecs.ResMut[KillCounter]) {
			for {
				evt, ok := r.Next()
				if !ok {
					break
				}
				counter.Get().Count++
				world.EntityFor(evt.Entity).Despawn()
			}
		},
	)

	if err := schedule.Run(ctx); err != nil {
		return killScenarioResult{}, err
	}

	count, err := readKillCounter(world)
	if err != nil {
		return killScenarioResult{}, err
	}

	return killScenarioResult{KillCount: count, Immortal: immortal}, nil
}

func readKillCounter(world *ecs.World) (int, error) {
	schedule := world.NewSchedule()
	var count int
	ecs.AddSystem1(schedule, ecs.ResOf[KillCounter](), func(r ecs.Res[KillCounter]) {
		count = r.Get().Count
	})
	if err := schedule.Run(context.Background()); err != nil {
		return 0, err
	}
	return count, nil
}

// intervalScenarioResult is the outcome of running intervalScenario.
type intervalScenarioResult struct {
	IntervalsObserved int
}

// intervalScenario builds the world and schedule for scenario 2: an
// entity's LastUpdate is checked every tick, and an Interval event
// fires once at least 1000ms have elapsed since the last reset. Ticks
// are simulated 50ms apart over 25 ticks.
func intervalScenario(ctx context.Context) (intervalScenarioResult, error) {
	world := ecs.NewWorld()
	start := time.Now()

	e := world.Spawn()
	ecs.Insert(e, LastUpdate{Instant: start})

	schedule := world.NewSchedule()

	ecs.AddSystem2(
		schedule,
		ecs.QueryOf[*LastUpdate](ecs.Write[LastUpdate]{}, ecs.NoFilter{}),
		ecs.WriterOf[Interval](),
		func(q *ecs.Query[*LastUpdate, ecs.Write[LastUpdate], ecs.NoFilter], w ecs.EventWriter[Interval]) {
			q.Each(func(id ecs.EntityID, lastUpdate *LastUpdate) {
				if time.Since(lastUpdate.Instant) >= time.Second {
					w.Write(Interval{Entity: id})
					lastUpdate.Instant = time.Now()
				}
			})
		},
	)

	observed := 0
	ecs.AddSystem1(schedule, ecs.ReaderOf[Interval](), func(r *ecs.EventReader[Interval]) {
		for {
			if _, ok := r.Next(); !ok {
				break
			}
			observed++
		}
	})

	for tick := 0; tick < 25; tick++ {
		if err := schedule.Run(ctx); err != nil {
			return intervalScenarioResult{}, err
		}
		time.Sleep(50 * time.Millisecond)
	}

	return intervalScenarioResult{IntervalsObserved: observed}, nil
}

// counterStateScenarioResult is the outcome of running
// counterStateScenario.
type counterStateScenarioResult struct {
	Values []int
}

// counterStateScenario runs a State[Counter] owned by one system,
// incremented once per tick for 5 ticks.
func counterStateScenario(ctx context.Context) (counterStateScenarioResult, error) {
	world := ecs.NewWorld()
	schedule := world.NewSchedule()

	var values []int
	ecs.AddSystem1(schedule, ecs.StateOf(func() Counter { return Counter{} }), func(s *ecs.State[Counter]) {
		s.Get().Value++
		values = append(values, s.Get().Value)
	})

	for tick := 0; tick < 5; tick++ {
		if err := schedule.Run(ctx); err != nil {
			return counterStateScenarioResult{}, err
		}
	}

	return counterStateScenarioResult{Values: values}, nil
}
