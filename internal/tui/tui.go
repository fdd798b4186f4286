// Package tui is an interactive session over one environment. Arrow keys
// or hjkl move, r resets and q quits.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/environment"
	"github.com/boristopalov/mdpsim/pkg/memory"
	"github.com/boristopalov/mdpsim/pkg/render"
)

const recentSteps = 5

var keyActions = map[string]string{
	"left": "left", "h": "left",
	"down": "down", "j": "down",
	"right": "right", "l": "right",
	"up": "up", "k": "up",
}

type model struct {
	env      *environment.Environment
	renderer *render.Renderer
	history  *memory.Memory
	episode  int
	steps    int
	ret      core.Reward
	done     bool
	status   string
}

func NewModel(env *environment.Environment, color bool, history int) tea.Model {
	env.Reset()
	return model{
		env:      env,
		renderer: render.New(color),
		history:  memory.NewMemory(history),
		status:   "new episode",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.env.Reset()
		m.episode++
		m.steps, m.ret, m.done = 0, 0, false
		m.status = "new episode"
		return m, nil
	}

	name, ok := keyActions[key.String()]
	if !ok {
		return m, nil
	}
	action, err := m.env.Topology().ParseAction(name)
	if err != nil {
		m.status = fmt.Sprintf("%s is not an action on a %s", name, m.env.Topology().Name())
		return m, nil
	}

	from := m.env.CurrentState()
	obs, err := m.env.Step(action)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.steps++
	m.ret += obs.Reward
	m.done = obs.Terminal
	m.history.Store(core.Transition{
		EnvID:    m.env.ID(),
		Episode:  m.episode,
		Step:     m.steps,
		From:     from,
		Action:   action,
		To:       obs.State,
		Reward:   obs.Reward,
		Terminal: obs.Terminal,
	})
	m.status = render.StepLine(action, obs)
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	_ = m.renderer.Render(&b, m.env.Layout(), m.env.CurrentState())

	fmt.Fprintf(&b, "Episode: %d  Steps: %d  Return: %d\n", m.episode, m.steps, m.ret)
	if m.done {
		b.WriteString("Terminal state reached, press r to reset.\n")
	}
	b.WriteString(m.status + "\n\n")

	recent := m.history.Last(recentSteps)
	if len(recent) > 0 {
		b.WriteString("Recent steps:\n")
		for _, t := range recent {
			fmt.Fprintf(&b, "  ep %d #%d: %d --%s--> %d\n", t.Episode, t.Step, t.From, m.env.ActionName(t.Action), t.To)
		}
	}

	b.WriteString("\nArrows/hjkl move, r resets, q quits.\n")
	return b.String()
}

// Run blocks until the session is quit.
func Run(env *environment.Environment, color bool, history int) error {
	_, err := tea.NewProgram(NewModel(env, color, history)).Run()
	return err
}
