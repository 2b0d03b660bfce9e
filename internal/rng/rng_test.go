package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocked_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestLocked_Range(t *testing.T) {
	src := New(7)
	for i := 0; i < 10_000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestIntInclusive(t *testing.T) {
	assert.Equal(t, 2, IntInclusive(NewSequence(0), 2, 5))
	assert.Equal(t, 5, IntInclusive(NewSequence(0.9999), 2, 5))
	assert.Equal(t, 3, IntInclusive(NewSequence(0.3), 2, 5))
	assert.Equal(t, 4, IntInclusive(NewSequence(0.5), 4, 4))

	seen := map[int]bool{}
	src := New(1)
	for i := 0; i < 1000; i++ {
		n := IntInclusive(src, 3, 8)
		assert.GreaterOrEqual(t, n, 3)
		assert.LessOrEqual(t, n, 8)
		seen[n] = true
	}
	assert.Len(t, seen, 6)
}

func TestUniformAndChance(t *testing.T) {
	assert.Equal(t, 10.0, Uniform(NewSequence(0), 10, 20))
	assert.Equal(t, 15.0, Uniform(NewSequence(0.5), 10, 20))

	assert.True(t, Chance(NewSequence(0.79), 0.8))
	assert.False(t, Chance(NewSequence(0.8), 0.8))
	assert.True(t, Chance(NewSequence(0.9999), 1.0))
}

func TestSequence_Cycles(t *testing.T) {
	s := NewSequence(0.1, 0.2)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.2, s.Float64())
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 3, s.Drawn())
}
