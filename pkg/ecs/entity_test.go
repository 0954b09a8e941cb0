package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntitiesAllocIsDenseAndAscending(t *testing.T) {
	e := newEntities()

	ids := make([]EntityID, 4)
	for i := range ids {
		ids[i] = e.alloc()
	}

	assert.Equal(t, []EntityID{0, 1, 2, 3}, ids)
	for _, id := range ids {
		assert.True(t, e.isLive(id))
	}
}

func TestEntitiesFreeReusesLowestBit(t *testing.T) {
	e := newEntities()
	a := e.alloc()
	b := e.alloc()
	c := e.alloc()

	e.free(b)
	assert.False(t, e.isLive(b))
	assert.True(t, e.isLive(a))
	assert.True(t, e.isLive(c))

	reused := e.alloc()
	assert.Equal(t, b, reused)
}

func TestEntitiesFreeUnknownIsNoop(t *testing.T) {
	e := newEntities()
	assert.NotPanics(t, func() { e.free(EntityID(999)) })
	assert.False(t, e.isLive(EntityID(999)))
}

func TestEntitiesAllocGrowsPastOneWord(t *testing.T) {
	e := newEntities()
	var last EntityID
	for i := 0; i < wordBits+1; i++ {
		last = e.alloc()
	}
	assert.Equal(t, EntityID(wordBits), last)
	assert.True(t, e.isLive(last))
}

func TestEntitiesFreeManyClearsAllGiven(t *testing.T) {
	e := newEntities()
	ids := []EntityID{e.alloc(), e.alloc(), e.alloc()}

	e.freeMany([]EntityID{ids[0], ids[2]})

	assert.False(t, e.isLive(ids[0]))
	assert.True(t, e.isLive(ids[1]))
	assert.False(t, e.isLive(ids[2]))
}

func TestEntitiesIterLiveAscendingOrder(t *testing.T) {
	e := newEntities()
	ids := []EntityID{e.alloc(), e.alloc(), e.alloc(), e.alloc()}
	e.free(ids[1])

	live := e.iterLive()
	assert.Equal(t, []EntityID{ids[0], ids[2], ids[3]}, live)
}
