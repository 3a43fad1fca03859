package metrics

import (
	"errors"
	"fmt"
	"strconv"

	"packetroyale/game"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exports simulation events as Prometheus series while
// keeping the in-memory summary of a plain collector.
type PrometheusCollector struct {
	Collector

	Captures       *prometheus.CounterVec
	CaptureFails   *prometheus.CounterVec
	NodesDestroyed *prometheus.CounterVec
	Ticks          prometheus.Counter
	Throughput     *prometheus.GaugeVec
	NodesOwned     *prometheus.GaugeVec
	Edges          prometheus.Gauge
}

// NewPrometheusCollector registers match metrics against reg, defaulting to
// the global registry when nil. Metrics already registered are reused.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	captures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "packetroyale_captures_total",
		Help: "Completed node captures, labeled by capturing player and kind (neutral or hostile).",
	}, []string{"player", "kind"}))
	if err != nil {
		return nil, err
	}
	fails, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "packetroyale_capture_failures_total",
		Help: "Hostile captures that failed and reflected, labeled by defending player.",
	}, []string{"player"}))
	if err != nil {
		return nil, err
	}
	destroyed, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "packetroyale_nodes_destroyed_total",
		Help: "Attacking nodes reverted to neutral by packet reflection, labeled by former owner.",
	}, []string{"player"}))
	if err != nil {
		return nil, err
	}
	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "packetroyale_ticks_total",
		Help: "Simulation ticks advanced.",
	}))
	if err != nil {
		return nil, err
	}
	throughput, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "packetroyale_player_throughput_gbps",
		Help: "Sum of stream bandwidth owned by each player after the last tick.",
	}, []string{"player"}))
	if err != nil {
		return nil, err
	}
	owned, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "packetroyale_player_nodes_owned",
		Help: "Nodes owned by each player after the last tick.",
	}, []string{"player"}))
	if err != nil {
		return nil, err
	}
	edges, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "packetroyale_edges",
		Help: "Streams present in the graph after the last tick.",
	}))
	if err != nil {
		return nil, err
	}

	return &PrometheusCollector{
		Collector:      NewCollector(),
		Captures:       captures,
		CaptureFails:   fails,
		NodesDestroyed: destroyed,
		Ticks:          ticks,
		Throughput:     throughput,
		NodesOwned:     owned,
		Edges:          edges,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("failed to register metric: %w", err)
	}
	return c, nil
}

func playerLabel(id game.PlayerID) string {
	return strconv.Itoa(int(id))
}

func (c *PrometheusCollector) CaptureCompleted(node game.NodeID, by game.PlayerID, hostile bool) {
	c.Collector.CaptureCompleted(node, by, hostile)
	kind := "neutral"
	if hostile {
		kind = "hostile"
	}
	c.Captures.WithLabelValues(playerLabel(by), kind).Inc()
}

func (c *PrometheusCollector) CaptureFailed(node game.NodeID, owner game.PlayerID) {
	c.Collector.CaptureFailed(node, owner)
	c.CaptureFails.WithLabelValues(playerLabel(owner)).Inc()
}

func (c *PrometheusCollector) NodeDestroyed(node game.NodeID, owner game.PlayerID) {
	c.Collector.NodeDestroyed(node, owner)
	c.NodesDestroyed.WithLabelValues(playerLabel(owner)).Inc()
}

func (c *PrometheusCollector) TickCompleted(gs *game.State) {
	c.Collector.TickCompleted(gs)
	c.Ticks.Inc()
	for _, p := range gs.Players {
		c.Throughput.WithLabelValues(playerLabel(p.ID)).Set(p.TotalThroughput)
		c.NodesOwned.WithLabelValues(playerLabel(p.ID)).Set(float64(p.NodesOwned))
	}
	c.Edges.Set(float64(len(gs.Edges)))
}
