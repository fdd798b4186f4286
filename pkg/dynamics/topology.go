package dynamics

import (
	"fmt"
	"strings"

	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/layout"
)

const (
	TopologyGrid     = "grid"
	TopologyCorridor = "corridor"

	// DefaultCorridorSlip is the chance a corridor move goes the other way.
	DefaultCorridorSlip = 0.2
)

// Grid actions, in the cyclic order used for slipping.
const (
	Left core.Action = iota
	Down
	Right
	Up
)

// Corridor actions.
const (
	CorridorLeft core.Action = iota
	CorridorRight
)

// Direction is the geometric effect of an action.
type Direction struct {
	Name string
	DRow int
	DCol int
}

// WeightedAction is one actual move the expander may produce.
type WeightedAction struct {
	Action core.Action
	Weight float64
}

// Topology bundles an action enumeration with its movement and slip rules.
// Grid worlds and corridors are two values of this type feeding the same
// table builder.
type Topology struct {
	name       string
	directions []Direction
	slipProb   float64
	slip       func(a core.Action) []WeightedAction
	validate   func(l *layout.Layout) error
}

// Grid returns the four-action lake topology. Slipping deflects the intended
// move to either cyclic neighbour with equal probability.
func Grid() *Topology {
	t := &Topology{
		name: TopologyGrid,
		directions: []Direction{
			Left:  {Name: "left", DRow: 0, DCol: -1},
			Down:  {Name: "down", DRow: 1, DCol: 0},
			Right: {Name: "right", DRow: 0, DCol: 1},
			Up:    {Name: "up", DRow: -1, DCol: 0},
		},
		validate: func(l *layout.Layout) error { return l.RequireSquare() },
	}
	n := core.Action(len(t.directions))
	t.slip = func(a core.Action) []WeightedAction {
		const third = 1.0 / 3.0
		return []WeightedAction{
			{Action: (a + n - 1) % n, Weight: third},
			{Action: a, Weight: third},
			{Action: (a + 1) % n, Weight: third},
		}
	}
	return t
}

// Corridor returns the two-action walk. Slipping reverses the move with
// probability slip.
func Corridor(slip float64) (*Topology, error) {
	if slip < 0 || slip > 1 {
		return nil, layout.ConfigErrorf("slip_probability", "must be within [0, 1], got %v", slip)
	}
	t := &Topology{
		name:     TopologyCorridor,
		slipProb: slip,
		directions: []Direction{
			CorridorLeft:  {Name: "left", DRow: 0, DCol: -1},
			CorridorRight: {Name: "right", DRow: 0, DCol: 1},
		},
		validate: func(l *layout.Layout) error {
			if l.Rows() != 1 {
				return layout.ConfigErrorf("layout", "corridor must be a single row, got %d rows", l.Rows())
			}
			return nil
		},
	}
	t.slip = func(a core.Action) []WeightedAction {
		moves := make([]WeightedAction, 0, 2)
		if slip < 1 {
			moves = append(moves, WeightedAction{Action: a, Weight: 1 - slip})
		}
		if slip > 0 {
			moves = append(moves, WeightedAction{Action: 1 - a, Weight: slip})
		}
		return moves
	}
	return t, nil
}

// TopologyByName resolves a configured topology name.
func TopologyByName(name string, corridorSlip float64) (*Topology, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", TopologyGrid:
		return Grid(), nil
	case TopologyCorridor:
		return Corridor(corridorSlip)
	default:
		return nil, layout.ConfigErrorf("topology", "unknown topology %q", name)
	}
}

func (t *Topology) Name() string    { return t.name }
func (t *Topology) NumActions() int { return len(t.directions) }

// SlipProbability is the corridor reversal chance; grids report 0.
func (t *Topology) SlipProbability() float64 { return t.slipProb }

// Valid reports whether a belongs to the enumeration.
func (t *Topology) Valid(a core.Action) bool {
	return a >= 0 && int(a) < len(t.directions)
}

// Direction returns the geometry of a.
func (t *Topology) Direction(a core.Action) (Direction, error) {
	if !t.Valid(a) {
		return Direction{}, fmt.Errorf("%w: %d for %s topology", ErrInvalidAction, a, t.name)
	}
	return t.directions[a], nil
}

// ActionName returns the label of a, or a placeholder for unknown actions.
func (t *Topology) ActionName(a core.Action) string {
	if !t.Valid(a) {
		return fmt.Sprintf("action(%d)", a)
	}
	return t.directions[a].Name
}

// ParseAction maps a label or decimal index back to an action.
func (t *Topology) ParseAction(s string) (core.Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, d := range t.directions {
		if d.Name == s || fmt.Sprint(i) == s {
			return core.Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q for %s topology", ErrInvalidAction, s, t.name)
}

// Validate checks that l has the shape this topology needs.
func (t *Topology) Validate(l *layout.Layout) error {
	return t.validate(l)
}

// PossibleMoves expands an intended action into the actual moves that can
// happen. Deterministic mode always yields the action itself at weight 1.
func (t *Topology) PossibleMoves(a core.Action, slippery bool) ([]WeightedAction, error) {
	if !t.Valid(a) {
		return nil, fmt.Errorf("%w: %d for %s topology", ErrInvalidAction, a, t.name)
	}
	if !slippery {
		return []WeightedAction{{Action: a, Weight: 1}}, nil
	}
	return t.slip(a), nil
}
