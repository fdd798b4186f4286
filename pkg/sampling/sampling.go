// Package sampling draws from discrete distributions by cumulative weight.
package sampling

import (
	"errors"
	"math/rand"
)

var ErrNoWeight = errors.New("sampling: no positive weight")

// Source yields uniform floats in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded generator. Seed 0 is mapped to 1 so that an
// unset seed still gives a reproducible stream.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// Choose draws one index from items with probability proportional to
// weight(item). A single uniform draw is scaled to the total weight and
// matched against the running cumulative sum.
func Choose[T any](src Source, items []T, weight func(T) float64) (int, error) {
	total := 0.0
	last := -1
	for i, item := range items {
		w := weight(item)
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return -1, ErrNoWeight
	}

	u := src.Float64() * total
	cumulative := 0.0
	for i, item := range items {
		w := weight(item)
		if w <= 0 {
			continue
		}
		cumulative += w
		if u < cumulative {
			return i, nil
		}
	}
	// Rounding can leave u == total; the last weighted item owns that edge.
	return last, nil
}

// Fixed replays a fixed sequence of draws, cycling when exhausted.
type Fixed struct {
	values []float64
	next   int
}

func NewFixed(values ...float64) *Fixed {
	return &Fixed{values: values}
}

func (f *Fixed) Float64() float64 {
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}
