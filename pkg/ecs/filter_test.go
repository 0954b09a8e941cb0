package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tag struct{}

func TestFilterNoFilterMatchesEverything(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.True(t, NoFilter{}.match(w, e.ID()))
}

func TestFilterWithMatchesOwnersOnly(t *testing.T) {
	w := NewWorld()
	owner := w.Spawn()
	Insert(owner, tag{})
	other := w.Spawn()

	f := With[tag]{}
	assert.True(t, f.match(w, owner.ID()))
	assert.False(t, f.match(w, other.ID()))
}

func TestFilterWithoutMatchesNonOwnersOnly(t *testing.T) {
	w := NewWorld()
	owner := w.Spawn()
	Insert(owner, tag{})
	other := w.Spawn()

	f := Without[tag]{}
	assert.False(t, f.match(w, owner.ID()))
	assert.True(t, f.match(w, other.ID()))
}

func TestFilterAndFilter2RequiresBoth(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Insert(e, tag{})

	f := AndFilter2[With[tag], Without[posComp]]{}
	assert.True(t, f.match(w, e.ID()))

	Insert(e, posComp{})
	assert.False(t, f.match(w, e.ID()))
}
