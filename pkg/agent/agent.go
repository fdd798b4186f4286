package agent

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/sampling"
)

var (
	_ core.Policy = (*RandomAgent)(nil)
	_ core.Policy = (*ScriptedAgent)(nil)
)

type AgentParams struct {
	AgentID string
	Seed    int64
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

func WithSeed(seed int64) AgentOption {
	return func(p *AgentParams) {
		p.Seed = seed
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		AgentID: "agent-" + uuid.New().String(),
		Seed:    1,
	}
}

// RandomAgent picks uniformly among the available actions. It owns its
// generator, so give each goroutine its own agent.
type RandomAgent struct {
	id  string
	rng *rand.Rand
}

func NewRandomAgent(opts ...AgentOption) *RandomAgent {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	return &RandomAgent{
		id:  params.AgentID,
		rng: sampling.NewSource(params.Seed),
	}
}

func (a *RandomAgent) Act(_ core.State, numActions int) core.Action {
	if numActions <= 0 {
		return 0
	}
	return core.Action(a.rng.Intn(numActions))
}

func (a *RandomAgent) Name() string  { return "random" }
func (a *RandomAgent) GetID() string { return a.id }

// ScriptedAgent replays a fixed action sequence, starting over when it
// runs out.
type ScriptedAgent struct {
	id      string
	actions []core.Action
	next    int
}

func NewScriptedAgent(actions []core.Action, opts ...AgentOption) *ScriptedAgent {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	return &ScriptedAgent{
		id:      params.AgentID,
		actions: append([]core.Action(nil), actions...),
	}
}

func (a *ScriptedAgent) Act(_ core.State, _ int) core.Action {
	if len(a.actions) == 0 {
		return 0
	}
	act := a.actions[a.next%len(a.actions)]
	a.next++
	return act
}

// Rewind restarts the script from its first action.
func (a *ScriptedAgent) Rewind() { a.next = 0 }

func (a *ScriptedAgent) Name() string  { return "scripted" }
func (a *ScriptedAgent) GetID() string { return a.id }
