package ecs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSystem1RunsAgainstLiveQuery(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Insert(e, posComp{X: 1})

	s := w.NewSchedule()
	var seen int
	AddSystem1(s, QueryOf[posComp](Read[posComp]{}, NoFilter{}), func(q *Query[posComp, Read[posComp], NoFilter]) {
		q.Each(func(id EntityID, c posComp) { seen++ })
	})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, seen)
}

func TestAddSystem2WiresEventWriterAndReader(t *testing.T) {
	w := NewWorld()
	s := w.NewSchedule()

	var got pingEvent
	AddSystem2(s, WriterOf[pingEvent](), ReaderOf[pingEvent](), func(w EventWriter[pingEvent], r *EventReader[pingEvent]) {
		w.Write(pingEvent{N: 7})
		v, ok := r.Next()
		if ok {
			got = v
		}
	})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, pingEvent{N: 7}, got)
}

func TestAddAsyncSystem1PropagatesError(t *testing.T) {
	w := NewWorld()
	s := w.NewSchedule()

	boom := errors.New("boom")
	AddAsyncSystem1(s, ResOf[budget](), func(r Res[budget]) error {
		return boom
	})
	AddResource(w, budget{Remaining: 1})

	err := s.Run(context.Background())
	assert.ErrorContains(t, err, "boom")
}

func TestScheduleRemoveRunsDestroyHook(t *testing.T) {
	w := NewWorld()
	s := w.NewSchedule()

	id := AddSystem1(s, ReaderOf[pingEvent](), func(r *EventReader[pingEvent]) {})

	s.Remove(id)

	s.mu.Lock()
	count := len(s.systems)
	s.mu.Unlock()
	assert.Zero(t, count)

	w.events.mu.RLock()
	table := w.events.tables[reflect.TypeFor[pingEvent]()]
	w.events.mu.RUnlock()
	table.mu.RLock()
	readers := table.readers
	table.mu.RUnlock()
	assert.Zero(t, readers, "the destroy hook unsubscribes the system's EventReader")
}
