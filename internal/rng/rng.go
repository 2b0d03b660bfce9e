// Package rng provides the random source used by every stochastic draw in the simulation.
package rng

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Source yields uniform values in [0,1).
type Source interface {
	Float64() float64
}

// Locked is a seeded PCG source safe for concurrent use.
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New creates a Locked source. A zero seed picks a time-based seed.
func New(seed uint64) *Locked {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Locked{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a uniform value in [0,1).
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Uniform returns a uniform value in [min,max).
func Uniform(src Source, min, max float64) float64 {
	return min + src.Float64()*(max-min)
}

// IntInclusive returns a uniform integer in [min,max].
func IntInclusive(src Source, min, max int) int {
	if max <= min {
		return min
	}
	n := min + int(math.Floor(src.Float64()*float64(max-min+1)))
	if n > max {
		n = max
	}
	return n
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
