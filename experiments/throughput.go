package experiments

import (
	"fmt"
	"time"

	"packetroyale/config"

	"github.com/rs/zerolog/log"
)

// ThroughputResult is the simulation speed measured on one map size.
type ThroughputResult struct {
	Nodes       int // Requested, the lattice may hold fewer
	Ticks       int
	Elapsed     time.Duration
	TicksPerSec float64
}

// RunThroughputExperiment measures how many ticks per second a headless
// match sustains on each map size. Matches run to completion or the tick cap.
func RunThroughputExperiment(cfg *config.Config, sizes []int) ([]ThroughputResult, error) {
	results := make([]ThroughputResult, 0, len(sizes))

	log.Info().Msgf("starting throughput experiment over %d map sizes...", len(sizes))
	for _, size := range sizes {
		sized := *cfg
		sized.Map.Nodes = size

		ticks := 0
		var elapsed time.Duration
		for i := 0; i < cfg.Experiment.Games; i++ {
			e, err := NewMatch(&sized, cfg.Simulation.Seed+uint64(i), cfg.Bots, nil)
			if err != nil {
				return nil, fmt.Errorf("map size %d: %w", size, err)
			}
			_, gameMetric := e.Run()
			ticks += gameMetric.Ticks
			elapsed += gameMetric.Duration
		}

		result := ThroughputResult{Nodes: size, Ticks: ticks, Elapsed: elapsed}
		if elapsed > 0 {
			result.TicksPerSec = float64(ticks) / elapsed.Seconds()
		}
		results = append(results, result)
		log.Info().Msgf("map size %d: %d ticks in %v (%.0f ticks/s)", size, ticks, elapsed, result.TicksPerSec)
	}
	log.Info().Msg("completed throughput experiment")

	return results, nil
}
