package experiment

import (
	"fmt"

	"github.com/boristopalov/mdpsim/pkg/core"
)

// Summary aggregates a batch of episodes. An episode succeeds when it
// ends on a terminal outcome with positive return.
type Summary struct {
	Episodes    int
	Successes   int
	Truncated   int
	SuccessRate float64
	MeanReturn  float64
	MeanSteps   float64
}

func Summarize(results []core.EpisodeResult) Summary {
	s := Summary{Episodes: len(results)}
	if s.Episodes == 0 {
		return s
	}
	var ret, steps int
	for _, r := range results {
		if r.Terminal && r.Return > 0 {
			s.Successes++
		}
		if r.Truncated {
			s.Truncated++
		}
		ret += int(r.Return)
		steps += r.Steps
	}
	n := float64(s.Episodes)
	s.SuccessRate = float64(s.Successes) / n
	s.MeanReturn = float64(ret) / n
	s.MeanSteps = float64(steps) / n
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("episodes: %d, success rate: %.3f, mean return: %.3f, mean steps: %.2f, truncated: %d",
		s.Episodes, s.SuccessRate, s.MeanReturn, s.MeanSteps, s.Truncated)
}
