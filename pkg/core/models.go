package core

import "fmt"

// State is the canonical cell encoding, row*cols + col.
type State int

// Action indexes into a topology's closed action enumeration.
type Action int

// Reward is the scalar payoff attached to an outcome. Only goals pay.
type Reward int

// Outcome is one weighted entry of a transition distribution.
type Outcome struct {
	Next        State
	Probability float64
	Reward      Reward
	Terminal    bool
}

func (o Outcome) String() string {
	return fmt.Sprintf("(%d, %.4f, %d, %t)", o.Next, o.Probability, o.Reward, o.Terminal)
}

// Observation is what Step hands back to the caller.
type Observation struct {
	State    State
	Reward   Reward
	Terminal bool
}

// Transition records a single realized step of an episode.
type Transition struct {
	EnvID    string
	Episode  int
	Step     int
	From     State
	Action   Action
	To       State
	Reward   Reward
	Terminal bool
}

// EpisodeResult summarises one finished episode.
type EpisodeResult struct {
	Episode   int
	Steps     int
	Return    Reward
	Terminal  bool
	Truncated bool
	Final     State
}
