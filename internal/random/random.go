// Package random provides the injectable randomness source used by the
// engine for shuffles, die rolls, and AI selection. A single seeded Source
// makes every randomized path in a match replayable.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source wraps a seeded PRNG behind a mutex so a session can share one
// stream across its driver goroutines.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource creates a source from an explicit seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NewSeededSource creates a source seeded from crypto/rand.
func NewSeededSource() (*Source, int64, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, 0, err
	}
	return NewSource(seed), seed, nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Intn returns a uniform integer in [0, n).
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Roll returns a uniform integer in [1, sides], i.e. one die roll.
func (s *Source) Roll(sides int) int {
	if sides < 1 {
		return 1
	}
	return s.Intn(sides) + 1
}

// Float64 returns a uniform float in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Shuffle performs a Fisher-Yates shuffle over n elements via swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}
