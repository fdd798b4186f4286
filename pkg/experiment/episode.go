package experiment

import (
	"context"

	"github.com/boristopalov/mdpsim/pkg/core"
)

// Publisher receives every transition an episode produces.
type Publisher func(core.Transition)

type identified interface {
	ID() string
}

// RunEpisode resets env and lets policy act until a terminal outcome or
// maxSteps steps, whichever comes first. ctx is checked before each step.
func RunEpisode(ctx context.Context, env core.Environment, policy core.Policy, episode, maxSteps int, publish Publisher) (core.EpisodeResult, error) {
	var envID string
	if e, ok := env.(identified); ok {
		envID = e.ID()
	}

	result := core.EpisodeResult{Episode: episode}
	state := env.Reset()
	for result.Steps < maxSteps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		action := policy.Act(state, env.NumActions())
		obs, err := env.Step(action)
		if err != nil {
			return result, err
		}
		result.Steps++
		result.Return += obs.Reward
		if publish != nil {
			publish(core.Transition{
				EnvID:    envID,
				Episode:  episode,
				Step:     result.Steps,
				From:     state,
				Action:   action,
				To:       obs.State,
				Reward:   obs.Reward,
				Terminal: obs.Terminal,
			})
		}
		state = obs.State
		if obs.Terminal {
			result.Terminal = true
			break
		}
	}
	result.Final = state
	result.Truncated = !result.Terminal
	return result, nil
}
