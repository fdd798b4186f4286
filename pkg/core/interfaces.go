package core

// Environment defines the dynamics an agent interacts with
type Environment interface {
	// Reset puts the environment back at its start state and returns it
	Reset() State
	// Step applies one action and returns the sampled observation
	Step(action Action) (Observation, error)
	// CurrentState returns the state the next Step starts from
	CurrentState() State
	// NumActions returns the size of the action enumeration
	NumActions() int
}

// Policy chooses the next action for a given state
type Policy interface {
	// Act picks an action from [0, numActions)
	Act(state State, numActions int) Action
	// Name labels the policy in reports
	Name() string
}
