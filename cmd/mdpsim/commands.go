package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boristopalov/mdpsim/internal/tui"
	"github.com/boristopalov/mdpsim/pkg/agent"
	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/dynamics"
	"github.com/boristopalov/mdpsim/pkg/environment"
	"github.com/boristopalov/mdpsim/pkg/experiment"
	"github.com/boristopalov/mdpsim/pkg/layout"
	"github.com/boristopalov/mdpsim/pkg/memory"
	"github.com/boristopalov/mdpsim/pkg/messaging"
	"github.com/boristopalov/mdpsim/pkg/render"
)

// envFlags are shared by every command that builds an environment.
type envFlags struct {
	topology string
	slippery bool
	seed     int64
	grid     string
}

func (f *envFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.topology, "topology", "grid", "grid or corridor")
	cmd.Flags().BoolVar(&f.slippery, "slippery", true, "stochastic movement")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&f.grid, "map", "default", "built-in 4x4 layout, default or custom (grid topology only)")
}

// apply overrides the loaded config with flags the user actually set.
func (a *app) apply(cmd *cobra.Command, f *envFlags) error {
	if cmd.Flags().Changed("topology") {
		a.cfg.Environment.Topology = f.topology
	}
	if cmd.Flags().Changed("slippery") {
		a.cfg.Environment.Slippery = f.slippery
	}
	if cmd.Flags().Changed("seed") {
		a.cfg.Seed = f.seed
	}
	if cmd.Flags().Changed("map") {
		if strings.EqualFold(a.cfg.Environment.Topology, dynamics.TopologyCorridor) {
			return layout.ConfigErrorf("map", "built-in maps are 4x4 grids and cannot be used with the corridor topology")
		}
		switch f.grid {
		case "default":
			a.cfg.Environment.Layout = layout.DefaultGrid()
		case "custom":
			a.cfg.Environment.Layout = layout.CustomGrid()
		default:
			return layout.ConfigErrorf("map", "unknown built-in layout %q", f.grid)
		}
	}
	return a.cfg.Validate()
}

func (a *app) newEnvironment() (*environment.Environment, error) {
	return environment.FromConfig(a.cfg.Environment, a.cfg.Seed, environment.WithLogger(a.logger))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func (a *app) runCommand() *cobra.Command {
	var (
		flags          envFlags
		steps          int
		color          bool
		stopOnTerminal bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reset, render and take random steps, printing every transition",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.apply(cmd, &flags); err != nil {
				return err
			}
			env, err := a.newEnvironment()
			if err != nil {
				return err
			}
			policy := agent.NewRandomAgent(agent.WithSeed(a.cfg.Seed + 1))
			r := render.New(color)
			out := cmd.OutOrStdout()

			state := env.Reset()
			if err := r.Render(out, env.Layout(), state); err != nil {
				return err
			}
			for i := 0; i < steps; i++ {
				action := policy.Act(state, env.NumActions())
				obs, err := env.Step(action)
				if err != nil {
					return err
				}
				state = obs.State
				if err := r.Render(out, env.Layout(), state); err != nil {
					return err
				}
				fmt.Fprintln(out, render.StepLine(action, obs))
				if obs.Terminal && stopOnTerminal {
					break
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&steps, "steps", 20, "number of steps to take")
	cmd.Flags().BoolVar(&color, "color", false, "color the grid with ANSI escapes")
	cmd.Flags().BoolVar(&stopOnTerminal, "stop-on-terminal", false, "stop at the first terminal state")
	return cmd
}

func (a *app) rolloutCommand() *cobra.Command {
	var (
		flags envFlags
		chart string
	)
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Run random-policy episodes in parallel and summarise them",
		RunE: func(cmd *cobra.Command, args []string) error {
			for name, dst := range map[string]*int{
				"episodes":  &a.cfg.Episodes,
				"workers":   &a.cfg.Workers,
				"max-steps": &a.cfg.MaxSteps,
			} {
				if cmd.Flags().Changed(name) {
					v, err := cmd.Flags().GetInt(name)
					if err != nil {
						return err
					}
					*dst = v
				}
			}
			if cmd.Flags().Changed("chart") {
				a.cfg.Chart = chart
			}
			if err := a.apply(cmd, &flags); err != nil {
				return err
			}
			env, err := a.newEnvironment()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			broker := messaging.NewBroker()
			defer broker.Reset()
			history := memory.NewMemory(a.cfg.History)
			sub, err := messaging.NewSubscription(broker, "history", 4096)
			if err != nil {
				return err
			}
			recorded := history.Record(ctx, sub)

			exp := experiment.NewExperiment(a.cfg, env,
				experiment.WithBroker(broker),
				experiment.WithLogger(a.logger),
			)
			results, err := exp.Run(ctx)
			_ = sub.Close()
			<-recorded
			if err != nil {
				return fmt.Errorf("rollout failed: %w", err)
			}

			for _, t := range history.Last(10) {
				a.logger.Debug("recent transition",
					"env_id", t.EnvID, "episode", t.Episode, "step", t.Step,
					"from", t.From, "action", env.ActionName(t.Action), "to", t.To,
					"reward", t.Reward, "terminal", t.Terminal)
			}

			fmt.Fprintln(cmd.OutOrStdout(), experiment.Summarize(results))
			if a.cfg.Chart != "" {
				if err := experiment.WriteChart(a.cfg.Chart, a.cfg.Name, results); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", a.cfg.Chart)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Int("episodes", 100, "number of episodes")
	cmd.Flags().Int("workers", 4, "parallel workers")
	cmd.Flags().Int("max-steps", 100, "step limit per episode")
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML chart of episode returns to this file")
	return cmd
}

func (a *app) tableCommand() *cobra.Command {
	var flags envFlags
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the transition table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.apply(cmd, &flags); err != nil {
				return err
			}
			env, err := a.newEnvironment()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			env.Table().Each(func(s core.State, act core.Action, outcomes []core.Outcome) {
				fmt.Fprintf(out, "%3d %-6s", s, env.ActionName(act))
				for _, o := range outcomes {
					fmt.Fprintf(out, " %s", o)
				}
				fmt.Fprintln(out)
			})
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) playCommand() *cobra.Command {
	var (
		flags envFlags
		color bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Step through an environment from the keyboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.apply(cmd, &flags); err != nil {
				return err
			}
			env, err := a.newEnvironment()
			if err != nil {
				return err
			}
			return tui.Run(env, color, a.cfg.History)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&color, "color", true, "color the grid with ANSI escapes")
	return cmd
}
