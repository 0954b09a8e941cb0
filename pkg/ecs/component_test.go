package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type posComp struct{ X, Y float64 }
type velComp struct{ DX, DY float64 }

func TestComponentInsertAndFetch(t *testing.T) {
	s := newComponentStore()
	e := EntityID(1)

	_, had := insertComponent[posComp](s, e, posComp{X: 1, Y: 2})
	assert.False(t, had)

	got, ok := fetchShared[posComp](s, e)
	require.True(t, ok)
	assert.Equal(t, posComp{X: 1, Y: 2}, got)
}

func TestComponentInsertReplacesAndReturnsOld(t *testing.T) {
	s := newComponentStore()
	e := EntityID(1)

	insertComponent[posComp](s, e, posComp{X: 1, Y: 1})
	old, had := insertComponent[posComp](s, e, posComp{X: 2, Y: 2})

	assert.True(t, had)
	assert.Equal(t, posComp{X: 1, Y: 1}, old)

	got, _ := fetchShared[posComp](s, e)
	assert.Equal(t, posComp{X: 2, Y: 2}, got)
}

func TestComponentHasMissingColumnIsFalse(t *testing.T) {
	s := newComponentStore()
	assert.False(t, hasComponent[posComp](s, EntityID(1)))
}

func TestComponentSwapRemoveRewritesMovedIndex(t *testing.T) {
	s := newComponentStore()
	a, b, c := EntityID(1), EntityID(2), EntityID(3)

	insertComponent[posComp](s, a, posComp{X: 1})
	insertComponent[posComp](s, b, posComp{X: 2})
	insertComponent[posComp](s, c, posComp{X: 3})

	removed := removeComponent[posComp](s, a)
	assert.False(t, removed, "column still holds b and c, so it is not empty")

	assert.False(t, hasComponent[posComp](s, a))
	bVal, ok := fetchShared[posComp](s, b)
	require.True(t, ok)
	assert.Equal(t, posComp{X: 2}, bVal)
	cVal, ok := fetchShared[posComp](s, c)
	require.True(t, ok)
	assert.Equal(t, posComp{X: 3}, cVal)
}

func TestComponentRemoveLastEntityEmptiesColumn(t *testing.T) {
	s := newComponentStore()
	e := EntityID(1)
	insertComponent[posComp](s, e, posComp{X: 1})

	empty := removeComponent[posComp](s, e)
	assert.True(t, empty)
	assert.False(t, hasComponent[posComp](s, e))
}

func TestComponentRemoveUnknownEntityIsNoop(t *testing.T) {
	s := newComponentStore()
	insertComponent[posComp](s, EntityID(1), posComp{X: 1})

	removed := removeComponent[posComp](s, EntityID(99))
	assert.False(t, removed)
}

func TestComponentFetchExclusiveMutatesInPlace(t *testing.T) {
	s := newComponentStore()
	e := EntityID(1)
	insertComponent[posComp](s, e, posComp{X: 1, Y: 1})

	ok := fetchExclusive[posComp](s, e, func(p *posComp) { p.X = 42 })
	require.True(t, ok)

	got, _ := fetchShared[posComp](s, e)
	assert.Equal(t, 42.0, got.X)
}

func TestComponentDespawnFromRemovesAllTypes(t *testing.T) {
	s := newComponentStore()
	e := EntityID(1)
	insertComponent[posComp](s, e, posComp{X: 1})
	insertComponent[velComp](s, e, velComp{DX: 1})

	s.despawnFrom(e)

	assert.False(t, hasComponent[posComp](s, e))
	assert.False(t, hasComponent[velComp](s, e))
}

func TestComponentPruneEmptyDropsEmptyColumns(t *testing.T) {
	s := newComponentStore()
	e := EntityID(1)
	insertComponent[posComp](s, e, posComp{X: 1})
	removeComponent[posComp](s, e)

	s.pruneEmpty()

	s.mu.RLock()
	_, stillThere := s.columns[reflect.TypeFor[posComp]()]
	s.mu.RUnlock()
	assert.False(t, stillThere)
}

func TestComponentAcquireSharedConflictsWithExclusive(t *testing.T) {
	s := newComponentStore()
	insertComponent[posComp](s, EntityID(1), posComp{})

	releaseExclusive, err := acquireColumnExclusive[posComp](s)
	require.NoError(t, err)

	_, err = acquireColumnShared[posComp](s)
	assert.ErrorIs(t, err, ErrStorageLocked)

	releaseExclusive()

	releaseShared, err := acquireColumnShared[posComp](s)
	require.NoError(t, err)
	releaseShared()
}
