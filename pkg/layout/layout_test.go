package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultGrid(t *testing.T) {
	l, err := Parse(DefaultGrid())
	require.NoError(t, err)
	require.NoError(t, l.RequireSquare())

	assert.Equal(t, 4, l.Rows())
	assert.Equal(t, 4, l.Cols())
	assert.Equal(t, 16, l.Size())
	assert.Equal(t, Cell{Row: 0, Col: 0}, l.Start())
	assert.Equal(t, []Cell{{1, 1}, {1, 3}, {2, 3}, {3, 0}}, l.Holes())
	assert.Equal(t, []Cell{{3, 3}}, l.Goals())

	assert.Equal(t, Start, l.KindAt(0, 0))
	assert.Equal(t, Free, l.KindAt(0, 1))
	assert.True(t, l.IsHole(1, 1))
	assert.True(t, l.IsGoal(3, 3))
	assert.True(t, l.IsTerminal(3, 0))
	assert.False(t, l.IsTerminal(2, 2))
	assert.Equal(t, DefaultGrid(), l.Lines())
}

func TestParseCorridor(t *testing.T) {
	l, err := Parse(DefaultCorridor())
	require.NoError(t, err)
	assert.Equal(t, 1, l.Rows())
	assert.Equal(t, 3, l.Cols())
	assert.Equal(t, Cell{Row: 0, Col: 1}, l.Start())

	err = l.RequireSquare()
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"empty row", []string{""}},
		{"ragged", []string{"SFF", "FF", "FFG"}},
		{"unknown symbol", []string{"SF", "XG"}},
		{"lowercase symbol", []string{"sF", "FG"}},
		{"no start", []string{"FF", "HG"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.lines)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "layout", cfgErr.Field)
		})
	}
}

func TestMultipleStartsUsesFirst(t *testing.T) {
	l, err := Parse([]string{"FFS", "SFF", "FFG"})
	require.NoError(t, err)
	assert.Equal(t, Cell{Row: 0, Col: 2}, l.Start())
}

func TestBuiltinsAreFreshCopies(t *testing.T) {
	a := DefaultGrid()
	a[0] = "HHHH"
	assert.Equal(t, "SFFF", DefaultGrid()[0])

	l := MustParse(CustomGrid())
	lines := l.Lines()
	lines[0] = "GGGG"
	assert.Equal(t, "SFFF", l.Lines()[0])
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse([]string{"QQ"}) })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "hole", Hole.String())
	assert.Equal(t, "goal", Goal.String())
	assert.Contains(t, Kind('x').String(), "unknown")
}
