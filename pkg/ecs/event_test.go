package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct{ N int }

func TestEventWriteWithNoSubscribersIsDropped(t *testing.T) {
	b := newEventBus()
	id := writeEvent(b, pingEvent{N: 1})

	// no reader ever subscribed, so the id was allocated but nothing
	// was retained to deliver.
	var cursor uint64 = id
	_, ok := readNextEvent[pingEvent](b, &cursor)
	assert.False(t, ok)
}

func TestEventSingleReaderSeesWrittenEvents(t *testing.T) {
	b := newEventBus()
	cursor := subscribeEvents[pingEvent](b)
	reader := &EventReader[pingEvent]{bus: b, cursor: cursor}

	writeEvent(b, pingEvent{N: 1})
	writeEvent(b, pingEvent{N: 2})

	first, ok := reader.Next()
	require.True(t, ok)
	assert.Equal(t, pingEvent{N: 1}, first)

	second, ok := reader.Next()
	require.True(t, ok)
	assert.Equal(t, pingEvent{N: 2}, second)

	_, ok = reader.Next()
	assert.False(t, ok)
}

func TestEventMultipleReadersEachSeeEveryEvent(t *testing.T) {
	b := newEventBus()
	c1 := subscribeEvents[pingEvent](b)
	c2 := subscribeEvents[pingEvent](b)
	r1 := &EventReader[pingEvent]{bus: b, cursor: c1}
	r2 := &EventReader[pingEvent]{bus: b, cursor: c2}

	writeEvent(b, pingEvent{N: 1})

	v1, ok := r1.Next()
	require.True(t, ok)
	assert.Equal(t, pingEvent{N: 1}, v1)

	v2, ok := r2.Next()
	require.True(t, ok)
	assert.Equal(t, pingEvent{N: 1}, v2)
}

func TestEventLateSubscriberMissesEarlierEvents(t *testing.T) {
	b := newEventBus()
	early := subscribeEvents[pingEvent](b)
	earlyReader := &EventReader[pingEvent]{bus: b, cursor: early}

	writeEvent(b, pingEvent{N: 1})

	late := subscribeEvents[pingEvent](b)
	lateReader := &EventReader[pingEvent]{bus: b, cursor: late}

	_, ok := earlyReader.Next()
	assert.True(t, ok, "the early reader subscribed before the write")

	_, ok = lateReader.Next()
	assert.False(t, ok, "the late reader's cursor starts after the earlier write")
}

func TestEventUnsubscribeStopsRetention(t *testing.T) {
	b := newEventBus()
	cursor := subscribeEvents[pingEvent](b)
	reader := &EventReader[pingEvent]{bus: b, cursor: cursor}
	unsubscribeEvents[pingEvent](b)

	id := writeEvent(b, pingEvent{N: 1})

	c := id
	_, ok := readNextEvent[pingEvent](b, &c)
	assert.False(t, ok, "no subscribers were left at write time")
	_ = reader
}

func TestEventPendingCountsUnconsumedEvents(t *testing.T) {
	b := newEventBus()
	cursor := subscribeEvents[pingEvent](b)
	reader := &EventReader[pingEvent]{bus: b, cursor: cursor}

	writeEvent(b, pingEvent{N: 1})
	writeEvent(b, pingEvent{N: 2})
	assert.Equal(t, uint64(2), reader.Pending())

	reader.Next()
	assert.Equal(t, uint64(1), reader.Pending())
}
