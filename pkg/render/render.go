// Package render draws a text snapshot of a layout with the agent on it.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/layout"
)

// Renderer writes one glyph pair per cell: "A " for the agent, ". " for
// the start cell, "- " for free ice, "H " and "G " for holes and goals.
// Each row ends with a newline and the grid is framed by blank lines.
type Renderer struct {
	au aurora.Aurora
}

// New returns a renderer. With color set, glyphs carry ANSI escapes.
func New(color bool) *Renderer {
	return &Renderer{au: aurora.NewAurora(color)}
}

func (r *Renderer) glyph(kind layout.Kind, agent bool) string {
	if agent {
		return r.au.Bold(r.au.Yellow("A")).String() + " "
	}
	switch kind {
	case layout.Start:
		return r.au.Cyan(".").String() + " "
	case layout.Free:
		return "- "
	case layout.Hole:
		return r.au.Red("H").String() + " "
	case layout.Goal:
		return r.au.Green("G").String() + " "
	}
	return "? "
}

// Render writes l with the agent drawn at current. It never mutates
// anything; a current state outside the layout draws no agent.
func (r *Renderer) Render(w io.Writer, l *layout.Layout, current core.State) error {
	var b strings.Builder
	b.WriteString("\n")
	for row := 0; row < l.Rows(); row++ {
		for col := 0; col < l.Cols(); col++ {
			state := core.State(row*l.Cols() + col)
			b.WriteString(r.glyph(l.KindAt(row, col), state == current))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Text is the uncolored snapshot as a string.
func Text(l *layout.Layout, current core.State) string {
	var b strings.Builder
	_ = New(false).Render(&b, l, current)
	return b.String()
}

// StepLine formats one driver step the way the run command prints it.
func StepLine(action core.Action, obs core.Observation) string {
	return fmt.Sprintf("Action: %d, State: %d, Reward: %d, Done: %t", action, obs.State, obs.Reward, obs.Terminal)
}
