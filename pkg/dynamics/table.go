// Package dynamics derives the stochastic transition model of a layout.
//
// The table is built once from the layout, a topology and the slippery flag
// and is read-only afterwards, so a single *Table may back any number of
// environments.
package dynamics

import (
	"fmt"
	"math"

	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/layout"
	"github.com/boristopalov/mdpsim/pkg/sampling"
)

// MaxFanOut bounds the number of outcomes of one (state, action) pair.
const MaxFanOut = 3

// Tolerance is the allowed drift of a distribution's total from 1.
const Tolerance = 1e-9

type slot struct {
	n        int
	outcomes [MaxFanOut]core.Outcome
}

func (s *slot) list() []core.Outcome {
	return s.outcomes[:s.n]
}

// Table is the complete transition model, indexed by state*actions+action.
type Table struct {
	states   int
	actions  int
	cols     int
	slippery bool
	topology string
	slipProb float64
	lines    []string
	slots    []slot
}

// Build computes outcomes for every (state, action) pair of l. Terminal
// source states get entries too. The result is checked for normalization
// before it is returned.
func Build(l *layout.Layout, topo *Topology, slippery bool) (*Table, error) {
	if err := topo.Validate(l); err != nil {
		return nil, err
	}

	states, actions := l.Size(), topo.NumActions()
	t := &Table{
		states:   states,
		actions:  actions,
		cols:     l.Cols(),
		slippery: slippery,
		topology: topo.Name(),
		slipProb: topo.SlipProbability(),
		lines:    l.Lines(),
		slots:    make([]slot, states*actions),
	}

	for s := 0; s < states; s++ {
		row, col := Decode(core.State(s), l.Cols())
		for a := 0; a < actions; a++ {
			moves, err := topo.PossibleMoves(core.Action(a), slippery)
			if err != nil {
				return nil, err
			}
			if len(moves) > MaxFanOut {
				return nil, fmt.Errorf("%w: %d moves for state %d action %d exceeds fan-out %d",
					ErrMalformedDistribution, len(moves), s, a, MaxFanOut)
			}
			sl := &t.slots[s*actions+a]
			for _, m := range moves {
				d, err := topo.Direction(m.Action)
				if err != nil {
					return nil, err
				}
				r, c := Move(l.Rows(), l.Cols(), row, col, d)
				var reward core.Reward
				if l.IsGoal(r, c) {
					reward = 1
				}
				sl.outcomes[sl.n] = core.Outcome{
					Next:        Encode(r, c, l.Cols()),
					Probability: m.Weight,
					Reward:      reward,
					Terminal:    l.IsTerminal(r, c),
				}
				sl.n++
			}
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every distribution sums to 1 within Tolerance.
func (t *Table) Validate() error {
	for s := 0; s < t.states; s++ {
		for a := 0; a < t.actions; a++ {
			sl := &t.slots[s*t.actions+a]
			if sl.n == 0 {
				return fmt.Errorf("%w: state %d action %d has no outcomes", ErrMalformedDistribution, s, a)
			}
			sum := 0.0
			for _, o := range sl.list() {
				if o.Probability < 0 {
					return fmt.Errorf("%w: state %d action %d has negative probability %v",
						ErrMalformedDistribution, s, a, o.Probability)
				}
				sum += o.Probability
			}
			if math.Abs(sum-1) > Tolerance {
				return fmt.Errorf("%w: state %d action %d sums to %v",
					ErrMalformedDistribution, s, a, sum)
			}
		}
	}
	return nil
}

func (t *Table) NumStates() int  { return t.states }
func (t *Table) NumActions() int { return t.actions }
func (t *Table) Cols() int       { return t.cols }
func (t *Table) Slippery() bool  { return t.slippery }

// Topology names the topology the table was built for.
func (t *Table) Topology() string         { return t.topology }
func (t *Table) SlipProbability() float64 { return t.slipProb }

// Lines returns a copy of the layout rows the table was built from.
func (t *Table) Lines() []string { return append([]string(nil), t.lines...) }

// Matches returns a ConfigError unless t was built from exactly this layout,
// topology and slippery flag.
func (t *Table) Matches(l *layout.Layout, topo *Topology, slippery bool) error {
	switch {
	case t.topology != topo.Name():
		return layout.ConfigErrorf("table", "built for %s topology, environment uses %s", t.topology, topo.Name())
	case t.slipProb != topo.SlipProbability():
		return layout.ConfigErrorf("table", "built with slip probability %v, environment uses %v", t.slipProb, topo.SlipProbability())
	case t.slippery != slippery:
		return layout.ConfigErrorf("table", "built with slippery=%t, environment slippery=%t", t.slippery, slippery)
	}
	lines := l.Lines()
	if len(lines) != len(t.lines) {
		return layout.ConfigErrorf("table", "built for a %d-row layout, environment has %d rows", len(t.lines), len(lines))
	}
	for r := range lines {
		if lines[r] != t.lines[r] {
			return layout.ConfigErrorf("table", "layout row %d is %q, table was built from %q", r, lines[r], t.lines[r])
		}
	}
	return nil
}

// Has reports whether s has entries in the table.
func (t *Table) Has(s core.State) bool {
	return s >= 0 && int(s) < t.states
}

func (t *Table) lookup(s core.State, a core.Action) (*slot, error) {
	if a < 0 || int(a) >= t.actions {
		return nil, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidAction, a, t.actions-1)
	}
	if !t.Has(s) {
		return nil, fmt.Errorf("%w: %d has no table entry", ErrInvalidState, s)
	}
	return &t.slots[int(s)*t.actions+int(a)], nil
}

// Outcomes returns a copy of the distribution for (s, a).
func (t *Table) Outcomes(s core.State, a core.Action) ([]core.Outcome, error) {
	sl, err := t.lookup(s, a)
	if err != nil {
		return nil, err
	}
	return append([]core.Outcome(nil), sl.list()...), nil
}

// Sample draws one outcome for (s, a) using the outcome probabilities as
// categorical weights.
func (t *Table) Sample(src sampling.Source, s core.State, a core.Action) (core.Outcome, error) {
	sl, err := t.lookup(s, a)
	if err != nil {
		return core.Outcome{}, err
	}
	outcomes := sl.list()
	idx, err := sampling.Choose(src, outcomes, func(o core.Outcome) float64 { return o.Probability })
	if err != nil {
		return core.Outcome{}, fmt.Errorf("%w: state %d action %d: %v", ErrMalformedDistribution, s, a, err)
	}
	return outcomes[idx], nil
}

// Each visits every (state, action) pair in index order.
func (t *Table) Each(fn func(s core.State, a core.Action, outcomes []core.Outcome)) {
	for s := 0; s < t.states; s++ {
		for a := 0; a < t.actions; a++ {
			fn(core.State(s), core.Action(a), append([]core.Outcome(nil), t.slots[s*t.actions+a].list()...))
		}
	}
}
