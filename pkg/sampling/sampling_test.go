package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weighted struct {
	name string
	w    float64
}

func weightOf(x weighted) float64 { return x.w }

func TestChoose(t *testing.T) {
	items := []weighted{{"a", 0.2}, {"b", 0.5}, {"c", 0.3}}

	t.Run("partitions the unit interval by cumulative weight", func(t *testing.T) {
		cases := []struct {
			draw float64
			want int
		}{
			{0.0, 0},
			{0.19, 0},
			{0.21, 1},
			{0.69, 1},
			{0.71, 2},
			{0.999, 2},
		}
		for _, tc := range cases {
			idx, err := Choose(NewFixed(tc.draw), items, weightOf)
			require.NoError(t, err)
			assert.Equal(t, tc.want, idx, "draw %v", tc.draw)
		}
	})

	t.Run("skips zero weights", func(t *testing.T) {
		sparse := []weighted{{"a", 0}, {"b", 1}, {"c", 0}}
		for _, draw := range []float64{0, 0.5, 0.999} {
			idx, err := Choose(NewFixed(draw), sparse, weightOf)
			require.NoError(t, err)
			assert.Equal(t, 1, idx)
		}
	})

	t.Run("unnormalized weights are scaled", func(t *testing.T) {
		raw := []weighted{{"a", 1}, {"b", 3}}
		idx, err := Choose(NewFixed(0.24), raw, weightOf)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		idx, err = Choose(NewFixed(0.26), raw, weightOf)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("no positive weight is an error", func(t *testing.T) {
		_, err := Choose(NewFixed(0.5), []weighted{{"a", 0}}, weightOf)
		assert.ErrorIs(t, err, ErrNoWeight)
		_, err = Choose(NewFixed(0.5), nil, weightOf)
		assert.ErrorIs(t, err, ErrNoWeight)
	})

	t.Run("frequencies follow weights", func(t *testing.T) {
		src := NewSource(42)
		counts := make([]int, len(items))
		const n = 30000
		for i := 0; i < n; i++ {
			idx, err := Choose(src, items, weightOf)
			require.NoError(t, err)
			counts[idx]++
		}
		for i, item := range items {
			assert.InDelta(t, item.w, float64(counts[i])/n, 0.02, "item %s", item.name)
		}
	})
}

func TestNewSourceZeroSeed(t *testing.T) {
	a := NewSource(0)
	b := NewSource(1)
	for i := 0; i < 5; i++ {
		assert.Equal(t, b.Float64(), a.Float64())
	}
}

func TestFixedCycles(t *testing.T) {
	f := NewFixed(0.1, 0.9)
	assert.Equal(t, 0.1, f.Float64())
	assert.Equal(t, 0.9, f.Float64())
	assert.Equal(t, 0.1, f.Float64())
	assert.Equal(t, 0.0, NewFixed().Float64())
}
