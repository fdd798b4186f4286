package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/boristopalov/mdpsim/pkg/agent"
	"github.com/boristopalov/mdpsim/pkg/config"
	"github.com/boristopalov/mdpsim/pkg/core"
	"github.com/boristopalov/mdpsim/pkg/environment"
	"github.com/boristopalov/mdpsim/pkg/messaging"
)

// PolicyFactory builds the policy for one episode from a derived seed.
type PolicyFactory func(seed int64) core.Policy

// RandomPolicy is the default factory.
func RandomPolicy(seed int64) core.Policy {
	return agent.NewRandomAgent(agent.WithSeed(seed))
}

type Status struct {
	Running   bool
	Completed int
	StartTime time.Time
	EndTime   time.Time
}

// Experiment runs independent episodes in parallel. Each episode steps its
// own clone of the prototype environment, so all workers read the same
// transition table.
type Experiment struct {
	name      string
	episodes  int
	maxSteps  int
	workers   int
	seed      int64
	proto     *environment.Environment
	newPolicy PolicyFactory
	broker    messaging.Broker
	logger    *slog.Logger
	mu        sync.RWMutex
	status    Status
}

type Option func(*Experiment)

func WithPolicy(f PolicyFactory) Option {
	return func(e *Experiment) { e.newPolicy = f }
}

// WithBroker publishes every transition to b.
func WithBroker(b messaging.Broker) Option {
	return func(e *Experiment) { e.broker = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func NewExperiment(cfg *config.ExperimentConfig, proto *environment.Environment, opts ...Option) *Experiment {
	e := &Experiment{
		name:      cfg.Name,
		episodes:  cfg.Episodes,
		maxSteps:  cfg.MaxSteps,
		workers:   cfg.Workers,
		seed:      cfg.Seed,
		proto:     proto,
		newPolicy: RandomPolicy,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

func (e *Experiment) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// episodeSeeds derives the environment and policy seeds of one episode so
// that results do not depend on the number of workers.
func (e *Experiment) episodeSeeds(episode int) (int64, int64) {
	base := e.seed*1_000_003 + int64(episode)*2
	return base + 1, base + 2
}

// Run plays every episode and returns the results in episode order. The
// first error cancels the remaining episodes.
func (e *Experiment) Run(ctx context.Context) ([]core.EpisodeResult, error) {
	e.mu.Lock()
	e.status = Status{Running: true, StartTime: time.Now()}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.status.Running = false
		e.status.EndTime = time.Now()
		e.mu.Unlock()
	}()

	e.logger.Info("experiment started",
		"name", e.name,
		"episodes", e.episodes,
		"workers", e.workers,
		"max_steps", e.maxSteps,
	)

	results := make([]core.EpisodeResult, e.episodes)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < e.episodes; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			envSeed, policySeed := e.episodeSeeds(i)
			env := e.proto.Clone(envSeed)
			res, err := RunEpisode(gctx, env, e.newPolicy(policySeed), i, e.maxSteps, e.publisher(env.ID()))
			if err != nil {
				return fmt.Errorf("episode %d: %w", i, err)
			}
			results[i] = res

			e.mu.Lock()
			e.status.Completed++
			e.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := Summarize(results)
	e.logger.Info("experiment finished",
		"name", e.name,
		"success_rate", s.SuccessRate,
		"mean_return", s.MeanReturn,
		"mean_steps", s.MeanSteps,
	)
	return results, nil
}

func (e *Experiment) publisher(envID string) Publisher {
	if e.broker == nil {
		return nil
	}
	return func(t core.Transition) {
		err := e.broker.Publish(messaging.Event{
			From:       envID,
			Transition: t,
			Timestamp:  time.Now(),
		})
		if err != nil {
			e.logger.Warn("transition dropped", "env_id", envID, "episode", t.Episode, "step", t.Step, "err", err)
		}
	}
}
