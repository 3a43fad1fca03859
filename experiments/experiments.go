package experiments

import (
	"fmt"

	"packetroyale/agent"
	"packetroyale/config"
	"packetroyale/engine"
	"packetroyale/experiments/metrics"
	"packetroyale/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// NewMatch generates a seeded map and seats one bot per config. A single
// generator feeds map generation, the simulator and both bots, so the seed
// alone determines the match.
func NewMatch(cfg *config.Config, seed uint64, bots []agent.Config, collector metrics.Collector) (*engine.Engine, error) {
	if len(bots) != 2 {
		return nil, fmt.Errorf("need two bot configs, got %d", len(bots))
	}
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}

	rnd := game.NewRandom(seed)
	state, err := game.GenerateState(cfg.Map, rnd)
	if err != nil {
		return nil, fmt.Errorf("failed to generate map: %w", err)
	}

	sim := game.NewSimulator(rnd, game.WithObserver(collector))
	executor := game.NewExecutor(rnd)
	agents := make([]engine.Agent, 0, len(bots))
	for i, botConfig := range bots {
		agents = append(agents, agent.NewBot(game.PlayerID(i), executor, agent.WithConfig(botConfig)))
	}

	return engine.LocalEngine(state, sim, agents,
		engine.WithMaxTicks(cfg.Simulation.MaxTicks),
		engine.WithTickInterval(cfg.Simulation.TickInterval),
		engine.WithSeed(seed),
	), nil
}

// PlayMatch runs one match with the configured bots and seed.
func PlayMatch(cfg *config.Config, collector metrics.Collector) (game.PlayerID, metrics.GameMetric, error) {
	e, err := NewMatch(cfg, cfg.Simulation.Seed, cfg.Bots, collector)
	if err != nil {
		return game.NoOwner, metrics.GameMetric{}, err
	}
	winner, gameMetric := e.Run()
	if err := e.Err(); err != nil {
		return winner, gameMetric, fmt.Errorf("match aborted: %w", err)
	}
	return winner, gameMetric, nil
}

// matchUps pairs every aggressiveness setting with itself and every later one.
func matchUps(cfg *config.Config) []metrics.MatchConfig {
	var configs []metrics.MatchConfig
	values := cfg.Experiment.Aggressiveness
	for i := range values {
		for j := i; j < len(values); j++ {
			configs = append(configs, metrics.MatchConfig{
				ID:                  len(configs) + 1,
				HumanAggressiveness: values[i],
				BotAggressiveness:   values[j],
				ThinkDelay:          cfg.Bots[game.BotPlayer].ThinkDelay,
			})
		}
	}
	return configs
}

// RunAggressivenessExperiment plays Experiment.Games bot-vs-bot matches per
// aggressiveness pairing and stores the results under Experiment.OutputDir. When
// reg is set, events are also exported as Prometheus series. It returns the
// directory the records were written to.
func RunAggressivenessExperiment(cfg *config.Config, reg prometheus.Registerer) (string, error) {
	const name = "aggressiveness"
	configs := matchUps(cfg)
	games := cfg.Experiment.Games
	records := []metrics.GameRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range configs {
		log.Info().Msgf("starting matchup %d of %d between aggressiveness %.2f and %.2f...",
			mi+1, len(configs), matchUp.HumanAggressiveness, matchUp.BotAggressiveness)

		bots := []agent.Config{
			{ThinkDelay: cfg.Bots[game.HumanPlayer].ThinkDelay, Aggressiveness: matchUp.HumanAggressiveness},
			{ThinkDelay: cfg.Bots[game.BotPlayer].ThinkDelay, Aggressiveness: matchUp.BotAggressiveness},
		}
		for i := 0; i < games; i++ {
			seed := cfg.Simulation.Seed + uint64(len(records))

			collector, err := newCollector(reg)
			if err != nil {
				return "", err
			}
			e, err := NewMatch(cfg, seed, bots, collector)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", matchUp.ID, i+1, err)
			}
			winner, gameMetric := e.Run()

			records = append(records, metrics.GameRecord{
				ID:           len(records) + 1,
				Config:       matchUp.ID,
				GameMetric:   gameMetric,
				EventSummary: collector.Summary(),
			})
			log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %d", mi+1, len(configs), i+1, games, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(cfg.Experiment.OutputDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteMatchConfigs(configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored match configs")
	if err := writer.WriteGameRecords(records); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	return writer.Dir(), nil
}

func newCollector(reg prometheus.Registerer) (metrics.Collector, error) {
	if reg == nil {
		return metrics.NewCollector(), nil
	}
	return metrics.NewPrometheusCollector(reg)
}
