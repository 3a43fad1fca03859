package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"packetroyale/config"
	"packetroyale/experiments"
	"packetroyale/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "packetroyale",
		Short: "Headless Packet Royale matches between bots",
		Long: `packetroyale simulates the bandwidth territory game without a renderer.

Two bots contest a generated network graph by streaming bandwidth into
neighbouring nodes until one surrounds the other's base.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file (defaults apply when empty)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Override simulation.seed")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(
		newRunCmd(),
		newExperimentCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Play one bot-vs-bot match",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var collector metrics.Collector = metrics.NewCollector()
			if reg := serveMetrics(cmd); reg != nil {
				if collector, err = metrics.NewPrometheusCollector(reg); err != nil {
					return err
				}
			}

			winner, gameMetric, err := experiments.PlayMatch(cfg, collector)
			if err != nil {
				return err
			}
			summary := collector.Summary()
			fmt.Printf("winner: %d after %d ticks (%v)\n", winner, gameMetric.Ticks, gameMetric.Duration)
			fmt.Printf("captures: %d (%d hostile), failed: %d, destroyed: %d\n",
				summary.Captures, summary.HostileCaptures, summary.FailedCaptures, summary.NodesDestroyed)
			return nil
		},
	}
}

func newExperimentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run a batch of seeded matches and store the records as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			kind, _ := cmd.Flags().GetString("kind")

			switch kind {
			case "aggressiveness":
				dir, err := experiments.RunAggressivenessExperiment(cfg, serveMetrics(cmd))
				if err != nil {
					return err
				}
				fmt.Printf("records written to %s\n", dir)
			case "throughput":
				sizes, _ := cmd.Flags().GetIntSlice("sizes")
				results, err := experiments.RunThroughputExperiment(cfg, sizes)
				if err != nil {
					return err
				}
				for _, r := range results {
					fmt.Printf("%5d nodes: %8.0f ticks/s\n", r.Nodes, r.TicksPerSec)
				}
			default:
				return fmt.Errorf("unknown experiment %q (want aggressiveness or throughput)", kind)
			}
			return nil
		},
	}
	cmd.Flags().String("kind", "aggressiveness", "Experiment to run: aggressiveness or throughput")
	cmd.Flags().IntSlice("sizes", []int{50, 100, 200, 400}, "Map sizes for the throughput experiment")
	return cmd
}

// loadConfig resolves the configuration and applies flag overrides and the
// logging level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed, _ = cmd.Flags().GetUint64("seed")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	return cfg, nil
}

// serveMetrics starts the Prometheus endpoint when --metrics-addr is set and
// returns the registry to record into, or nil.
func serveMetrics(cmd *cobra.Command) prometheus.Registerer {
	addr, _ := cmd.Flags().GetString("metrics-addr")
	if addr == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	log.Info().Msgf("serving metrics on %s/metrics", addr)
	return reg
}
