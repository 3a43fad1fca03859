package engine

import (
	"time"

	"packetroyale/experiments/metrics"
	"packetroyale/game"
	"packetroyale/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

func WithMaxTicks(ticks int) Option {
	return func(e *Engine) {
		if ticks > 0 {
			e.maxTicks = ticks
		}
	}
}

func WithTickInterval(interval time.Duration) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.tickInterval = interval
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithInvariantChecks verifies the graph after every tick and stops the match
// on the first violation.
func WithInvariantChecks() Option {
	return func(e *Engine) {
		e.checkInvariants = true
	}
}

// Engine drives a headless match: one tick, then every agent, on a fixed
// match-clock cadence.
type Engine struct {
	State     *game.State
	Simulator *game.Simulator
	Agents    []Agent

	maxTicks        int
	tickInterval    time.Duration
	seed            uint64
	now             time.Duration
	decisions       int
	checkInvariants bool
	err             error
	logger          zerolog.Logger
}

func LocalEngine(state *game.State, sim *game.Simulator, agents []Agent, options ...Option) *Engine {
	if state == nil || sim == nil {
		panic("engine needs a state and a simulator")
	}
	e := &Engine{
		State:        state,
		Simulator:    sim,
		Agents:       agents,
		maxTicks:     meta.MAX_TICKS,
		tickInterval: meta.TICK_INTERVAL,
		logger:       log.Logger,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Now returns the match clock.
func (e *Engine) Now() time.Duration {
	return e.now
}

// Err returns the invariant violation that stopped the match, if any.
func (e *Engine) Err() error {
	return e.err
}

// Step advances one tick and lets every agent think. It reports whether the
// match is over.
func (e *Engine) Step() bool {
	e.Simulator.Tick(e.State)
	if e.checkInvariants {
		if err := e.State.CheckInvariants(); err != nil {
			e.err = err
			return true
		}
		if err := e.State.CheckAggregates(); err != nil {
			e.err = err
			return true
		}
	}

	e.now += e.tickInterval
	for _, agent := range e.Agents {
		if agent.Think(e.State, e.now) {
			e.decisions++
		}
		// No one acts after the final attack
		if e.State.Winner() != game.NoOwner {
			return true
		}
	}
	return e.State.Winner() != game.NoOwner
}

// Run steps until a player falls or the tick cap is reached.
func (e *Engine) Run() (game.PlayerID, metrics.GameMetric) {
	start := time.Now()
	e.logger.Info().Int("nodes", len(e.State.Nodes)).Int("max_ticks", e.maxTicks).Msg("match starting")

	for e.State.CurrentTick < e.maxTicks {
		if e.Step() {
			break
		}
	}

	winner := e.State.Winner()
	switch {
	case e.err != nil:
		e.logger.Error().Err(e.err).Int("tick", e.State.CurrentTick).Msg("match stopped on invariant violation")
	case winner != game.NoOwner:
		e.logger.Info().Int("tick", e.State.CurrentTick).Msgf("player %d wins", winner)
	default:
		e.logger.Info().Msgf("stopped after %d ticks (no winner yet)", e.State.CurrentTick)
	}

	end := time.Now()
	return winner, e.metric(winner, start, end)
}

func (e *Engine) metric(winner game.PlayerID, start, end time.Time) metrics.GameMetric {
	nodes := make([]int, len(e.State.Players))
	throughput := make([]float64, len(e.State.Players))
	for _, p := range e.State.Players {
		if int(p.ID) < len(nodes) {
			nodes[p.ID] = p.NodesOwned
			throughput[p.ID] = p.TotalThroughput
		}
	}
	return metrics.GameMetric{
		Seed:       e.seed,
		Winner:     winner,
		Ticks:      e.State.CurrentTick,
		Decisions:  e.decisions,
		NodesOwned: nodes,
		Throughput: throughput,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
	}
}
