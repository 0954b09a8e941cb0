package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counterState struct{ Value int }

func TestStateGetReturnsMutableSharedPointer(t *testing.T) {
	v := counterState{}
	s := State[counterState]{value: &v}

	s.Get().Value++
	s.Get().Value++

	assert.Equal(t, 2, s.Get().Value)
	assert.Equal(t, 2, v.Value, "State wraps the same backing value across calls")
}
