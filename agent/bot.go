package agent

import (
	"cmp"
	"time"

	"packetroyale/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const (
	DefaultThinkDelay     = 2 * time.Second
	DefaultAggressiveness = 0.6

	MaxAttempts = 3 // Candidates tried per decision cycle
)

// Config tunes a bot's pace and temperament.
type Config struct {
	ThinkDelay     time.Duration `yaml:"think_delay" validate:"gte=0"`
	Aggressiveness float64       `yaml:"aggressiveness" validate:"gte=0,lte=1"`
}

func DefaultConfig() Config {
	return Config{
		ThinkDelay:     DefaultThinkDelay,
		Aggressiveness: DefaultAggressiveness,
	}
}

// PartialConfig carries the fields SetConfig should replace; nil fields are kept.
type PartialConfig struct {
	ThinkDelay     *time.Duration
	Aggressiveness *float64
}

type Option func(b *Bot)

func WithThinkDelay(delay time.Duration) Option {
	return func(b *Bot) {
		if delay >= 0 {
			b.config.ThinkDelay = delay
		}
	}
}

func WithAggressiveness(aggressiveness float64) Option {
	return func(b *Bot) {
		if aggressiveness >= 0 && aggressiveness <= 1 {
			b.config.Aggressiveness = aggressiveness
		}
	}
}

func WithConfig(config Config) Option {
	return func(b *Bot) {
		b.config = config
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// Bot plays one seat by scoring every legal stream and opening the best few
// on a fixed cooldown.
type Bot struct {
	player    game.PlayerID
	config    Config
	executor  *game.Executor
	lastThink time.Duration
	logger    zerolog.Logger
}

func NewBot(player game.PlayerID, executor *game.Executor, options ...Option) *Bot {
	b := &Bot{
		player:   player,
		config:   DefaultConfig(),
		executor: executor,
		logger:   log.Logger,
	}
	for _, option := range options {
		option(b)
	}
	b.logger = b.logger.With().Int("bot", int(player)).Logger()
	return b
}

func (b *Bot) Player() game.PlayerID {
	return b.player
}

func (b *Bot) Config() Config {
	return b.config
}

// Think runs a decision cycle when at least ThinkDelay has passed since the
// last one. now is the match clock. It reports whether a cycle ran.
func (b *Bot) Think(gs *game.State, now time.Duration) bool {
	if now-b.lastThink < b.config.ThinkDelay {
		return false
	}
	b.lastThink = now
	b.decide(gs)
	return true
}

// Reset zeroes the cooldown.
func (b *Bot) Reset() {
	b.lastThink = 0
}

func (b *Bot) SetConfig(partial PartialConfig) {
	if partial.ThinkDelay != nil {
		b.config.ThinkDelay = *partial.ThinkDelay
	}
	if partial.Aggressiveness != nil {
		b.config.Aggressiveness = *partial.Aggressiveness
	}
}

type candidate struct {
	key   game.EdgeKey
	score float64
}

func (b *Bot) decide(gs *game.State) {
	// The final attack preempts everything else
	if b.executor.CanAttackEnemyBase(gs, b.player) {
		b.logger.Info().Msg("all nodes around the enemy base secured, launching final attack")
		if b.executor.LaunchAttack(gs, b.player) {
			b.logger.Info().Msg("final attack launched")
		}
		return
	}

	connections := b.executor.CapturableConnections(gs, b.player)
	if len(connections) == 0 {
		b.logger.Debug().Msg("no capturable connections available")
		return
	}

	candidates := make([]candidate, len(connections))
	for i, key := range connections {
		candidates[i] = candidate{key: key, score: b.Score(gs, key)}
	}
	slices.SortStableFunc(candidates, func(x, y candidate) int {
		return cmp.Compare(y.score, x.score)
	})

	attempts := min(MaxAttempts, len(candidates))
	for _, c := range candidates[:attempts] {
		target, ok := gs.Node(c.key.Target)
		if !ok {
			continue
		}
		// Already resourced, leave it to the streams in place
		if target.State == game.Capturing && target.CurrentLoad >= target.BandwidthThreshold {
			continue
		}
		if !b.executor.InitiateCaptureViaEdge(gs, c.key.Source, c.key.Target, b.player) {
			continue
		}
		b.logger.Info().
			Stringer("edge", c.key).
			Float64("score", c.score).
			Msgf("initiated capture (threshold %.1f Gbps, current %.1f Gbps)", target.BandwidthThreshold, target.CurrentLoad)

		if target.State == game.Capturing && target.CurrentLoad < target.BandwidthThreshold {
			b.logger.Debug().
				Int("node", int(target.ID)).
				Msgf("need more streams (%.1f/%.1f Gbps)", target.CurrentLoad, target.BandwidthThreshold)
			continue
		}
		break
	}
}
