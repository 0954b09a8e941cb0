package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type budget struct{ Remaining int }

func TestResourceReadAfterRegister(t *testing.T) {
	s := newResourceStore()
	addResource(s, budget{Remaining: 10})

	r, err := newRes[budget](s)
	require.NoError(t, err)
	assert.Equal(t, budget{Remaining: 10}, r.Get())
	r.Release()
}

func TestResourceMutMutatesInPlace(t *testing.T) {
	s := newResourceStore()
	addResource(s, budget{Remaining: 10})

	rm, err := newResMut[budget](s)
	require.NoError(t, err)
	rm.Get().Remaining -= 3
	rm.Release()

	r, _ := newRes[budget](s)
	assert.Equal(t, 7, r.Get().Remaining)
	r.Release()
}

func TestResourceUnregisteredTypeIsNotFound(t *testing.T) {
	s := newResourceStore()
	_, err := newRes[budget](s)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResourceAddResourceOverwritesPreviousValue(t *testing.T) {
	s := newResourceStore()
	addResource(s, budget{Remaining: 1})
	addResource(s, budget{Remaining: 2})

	r, _ := newRes[budget](s)
	assert.Equal(t, 2, r.Get().Remaining)
	r.Release()
}

func TestReadResourceSnapshotsWithoutASystem(t *testing.T) {
	w := NewWorld()
	AddResource(w, budget{Remaining: 5})

	got, err := ReadResource[budget](w)
	require.NoError(t, err)
	assert.Equal(t, budget{Remaining: 5}, got)
}

func TestReadResourceUnregisteredTypeErrors(t *testing.T) {
	w := NewWorld()
	_, err := ReadResource[budget](w)
	assert.ErrorIs(t, err, ErrNotFound)
}
