package environment

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/dynamics"
	"github.com/boristopalov/mdpsim/pkg/layout"
	"github.com/boristopalov/mdpsim/pkg/sampling"
)

var (
	ErrInvalidAction = dynamics.ErrInvalidAction
	ErrInvalidState  = dynamics.ErrInvalidState
)

// Environment samples transitions from a shared, immutable table. The only
// mutable field is the current state, so an Environment must not be stepped
// from more than one goroutine. Use Clone to get one engine per worker.
type Environment struct {
	id       string
	topology *dynamics.Topology
	layout   *layout.Layout
	table    *dynamics.Table
	slippery bool
	start    core.State
	current  core.State
	rng      sampling.Source
	logger   *slog.Logger
}

var _ core.Environment = (*Environment)(nil)

type Params struct {
	ID              string
	Layout          []string
	Topology        string
	Slippery        bool
	SlipProbability float64
	StartState      *core.State
	Source          sampling.Source
	Seed            int64
	Logger          *slog.Logger
	Table           *dynamics.Table
}

type Option func(*Params)

// WithLayout replaces the built-in layout for the chosen topology.
func WithLayout(lines []string) Option {
	return func(p *Params) {
		p.Layout = append([]string(nil), lines...)
	}
}

func WithTopology(name string) Option {
	return func(p *Params) {
		p.Topology = name
	}
}

func WithSlippery(slippery bool) Option {
	return func(p *Params) {
		p.Slippery = slippery
	}
}

func WithStartState(s core.State) Option {
	return func(p *Params) {
		p.StartState = &s
	}
}

// WithSlipProbability sets the reverse-move probability of the corridor.
// It has no effect on grid topologies.
func WithSlipProbability(prob float64) Option {
	return func(p *Params) {
		p.SlipProbability = prob
	}
}

// WithRandomSource injects the draw source used by Step. It takes
// precedence over WithSeed.
func WithRandomSource(src sampling.Source) Option {
	return func(p *Params) {
		p.Source = src
	}
}

func WithSeed(seed int64) Option {
	return func(p *Params) {
		p.Seed = seed
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Params) {
		p.Logger = logger
	}
}

func WithID(id string) Option {
	return func(p *Params) {
		p.ID = id
	}
}

// WithTable reuses an already built table instead of building a new one.
// The table must have been built from the same layout, topology, slip
// probability and slippery flag, or New fails with a ConfigError.
func WithTable(t *dynamics.Table) Option {
	return func(p *Params) {
		p.Table = t
	}
}

func defaultParams() *Params {
	return &Params{
		ID:              "env-" + uuid.New().String(),
		Topology:        dynamics.TopologyGrid,
		Slippery:        true,
		SlipProbability: dynamics.DefaultCorridorSlip,
		Seed:            1,
		Logger:          slog.Default(),
	}
}

// New builds an environment. Without options it is the slippery 4x4 grid.
func New(opts ...Option) (*Environment, error) {
	params := defaultParams()
	for _, opt := range opts {
		opt(params)
	}

	topo, err := dynamics.TopologyByName(params.Topology, params.SlipProbability)
	if err != nil {
		return nil, err
	}

	lines := params.Layout
	if lines == nil {
		lines = defaultLayout(topo.Name())
	}
	l, err := layout.Parse(lines)
	if err != nil {
		return nil, err
	}

	table := params.Table
	if table == nil {
		table, err = dynamics.Build(l, topo, params.Slippery)
		if err != nil {
			return nil, err
		}
	} else if err := table.Matches(l, topo, params.Slippery); err != nil {
		return nil, err
	}

	start := dynamics.Encode(l.Start().Row, l.Start().Col, l.Cols())
	if params.StartState != nil {
		start = *params.StartState
		if !table.Has(start) {
			return nil, layout.ConfigErrorf("start_state", "%d is outside 0..%d", start, table.NumStates()-1)
		}
	}

	src := params.Source
	if src == nil {
		src = sampling.NewSource(params.Seed)
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	env := &Environment{
		id:       params.ID,
		topology: topo,
		layout:   l,
		table:    table,
		slippery: params.Slippery,
		start:    start,
		current:  start,
		rng:      src,
		logger:   logger,
	}
	logger.Debug("environment created",
		"env_id", params.ID,
		"topology", topo.Name(),
		"states", table.NumStates(),
		"actions", table.NumActions(),
		"slippery", params.Slippery,
		"start", start,
	)
	return env, nil
}

func defaultLayout(topology string) []string {
	if topology == dynamics.TopologyCorridor {
		return layout.DefaultCorridor()
	}
	return layout.DefaultGrid()
}

// Reset puts the agent back on the start state.
func (e *Environment) Reset() core.State {
	e.current = e.start
	e.logger.Debug("environment reset", "env_id", e.id, "state", e.start)
	return e.current
}

// Step samples one outcome for the current state and a. On error the
// current state is left as it was.
func (e *Environment) Step(a core.Action) (core.Observation, error) {
	o, err := e.table.Sample(e.rng, e.current, a)
	if err != nil {
		return core.Observation{}, fmt.Errorf("step from state %d: %w", e.current, err)
	}
	e.current = o.Next
	return core.Observation{State: o.Next, Reward: o.Reward, Terminal: o.Terminal}, nil
}

// Clone returns an environment sharing e's table, positioned at the start
// state, with its own random source seeded by seed.
func (e *Environment) Clone(seed int64) *Environment {
	return &Environment{
		id:       "env-" + uuid.New().String(),
		topology: e.topology,
		layout:   e.layout,
		table:    e.table,
		slippery: e.slippery,
		start:    e.start,
		current:  e.start,
		rng:      sampling.NewSource(seed),
		logger:   e.logger,
	}
}

func (e *Environment) ID() string {
	return e.id
}

func (e *Environment) CurrentState() core.State {
	return e.current
}

func (e *Environment) StartState() core.State {
	return e.start
}

func (e *Environment) Table() *dynamics.Table {
	return e.table
}

func (e *Environment) Layout() *layout.Layout {
	return e.layout
}

func (e *Environment) Topology() *dynamics.Topology {
	return e.topology
}

func (e *Environment) Slippery() bool {
	return e.slippery
}

func (e *Environment) NumActions() int {
	return e.table.NumActions()
}

func (e *Environment) ActionName(a core.Action) string {
	return e.topology.ActionName(a)
}
