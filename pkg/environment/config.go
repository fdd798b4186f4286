package environment

import (
	"github.com/boristopalov/mdpsim/pkg/config"
	"github.com/boristopalov/mdpsim/pkg/core"
)

// FromConfig translates an EnvConfig into options. Extra options are
// applied last and win over the config.
func FromConfig(c config.EnvConfig, seed int64, extra ...Option) (*Environment, error) {
	opts := []Option{
		WithTopology(c.Topology),
		WithSlippery(c.Slippery),
		WithSlipProbability(c.SlipProbability),
		WithSeed(seed),
	}
	if len(c.Layout) > 0 {
		opts = append(opts, WithLayout(c.Layout))
	}
	if c.StartState != nil {
		opts = append(opts, WithStartState(core.State(*c.StartState)))
	}
	return New(append(opts, extra...)...)
}
