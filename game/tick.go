package game

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Option func(s *Simulator)

// WithLogger routes simulation notices to logger instead of the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithObserver attaches an event observer, e.g. a metrics collector.
func WithObserver(observer Observer) Option {
	return func(s *Simulator) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// Simulator advances a State by discrete ticks.
type Simulator struct {
	rnd      Random
	logger   zerolog.Logger
	observer Observer
}

func NewSimulator(rnd Random, options ...Option) *Simulator {
	s := &Simulator{
		rnd:      rnd,
		logger:   log.Logger,
		observer: nopObserver{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Tick advances the state by one step: edge bandwidth first, then per node
// load and capture resolution in id order, then player aggregates. Random
// draws follow key order so a seeded run is reproducible.
func (s *Simulator) Tick(gs *State) {
	gs.CurrentTick++

	s.updateEdges(gs)

	for _, id := range gs.NodeIDs() {
		s.updateNode(gs, id)
	}

	gs.RecomputeAggregates()
	s.observer.TickCompleted(gs)
}

func (s *Simulator) updateEdges(gs *State) {
	for _, k := range gs.EdgeKeys() {
		e := gs.Edges[k]
		if !e.Active {
			continue
		}
		fluctuation := (s.rnd.Float64() - 0.5) * FLUCTUATION
		e.Bandwidth = clamp(e.Bandwidth*(1+fluctuation), 1, e.MaxBandwidth)

		e.PacketsSent += int(math.Floor(e.Bandwidth * PACKETS_PER_GBPS))

		lossRate := (e.Bandwidth / e.MaxBandwidth) * MAX_LOSS_RATE
		if s.rnd.Float64() < lossRate {
			e.PacketsLost++
		}
	}
}

func (s *Simulator) updateNode(gs *State, id NodeID) {
	node := gs.Nodes[id]

	incoming := gs.AttackingEdges(id)
	load := 0.0
	for _, e := range incoming {
		load += e.Bandwidth
	}
	node.CurrentLoad = load

	if node.State != Capturing {
		return
	}

	threshold := node.BandwidthThreshold
	wasOwned := node.Owner != NoOwner

	switch {
	case load >= threshold:
		// A node without a positive threshold falls to any stream in one tick
		speed := 1.0
		if threshold > 0 {
			surplus := load - threshold
			speed = BASE_CAPTURE_SPEED + (surplus/threshold)*SURPLUS_SPEED_BONUS
		}
		node.CaptureProgress = math.Min(1, node.CaptureProgress+speed)
		if node.CaptureProgress >= 1 {
			s.completeCapture(gs, node, incoming[0], wasOwned)
		}
	case wasOwned:
		s.reflect(gs, node, incoming)
	default:
		// Neutral siege without enough bandwidth keeps its streams and decays
		node.CaptureProgress = math.Max(0, node.CaptureProgress-NEUTRAL_DECAY)
		if gs.CurrentTick%SIEGE_LOG_INTERVAL == 0 {
			s.logger.Debug().
				Int("node", int(id)).
				Int("streams", len(incoming)).
				Msgf("insufficient bandwidth: %.1f/%.1f Gbps", load, threshold)
		}
	}
}

// completeCapture hands node to the owner of the lowest-keyed attacking edge.
func (s *Simulator) completeCapture(gs *State, node *Node, winning *Edge, hostile bool) {
	node.Owner = winning.Owner
	node.Role = Owned
	node.State = Idle
	node.CaptureProgress = 0

	for _, adj := range node.Connections {
		if n, ok := gs.Nodes[adj]; ok {
			n.Explored = true
		}
	}

	s.logger.Info().
		Int("node", int(node.ID)).
		Int("player", int(winning.Owner)).
		Bool("hostile", hostile).
		Msgf("node captured (threshold %.1f Gbps, load %.1f Gbps)", node.BandwidthThreshold, node.CurrentLoad)
	s.observer.CaptureCompleted(node.ID, winning.Owner, hostile)
}

// reflect resolves a failed hostile capture. Every attacking edge is dropped and
// each attacker risks losing its source node.
func (s *Simulator) reflect(gs *State, node *Node, incoming []*Edge) {
	threshold := node.BandwidthThreshold
	s.logger.Info().
		Int("node", int(node.ID)).
		Msgf("hostile capture failed, reflecting packets (%.1f/%.1f Gbps)", node.CurrentLoad, threshold)
	s.observer.CaptureFailed(node.ID, node.Owner)

	for _, attack := range incoming {
		if _, ok := gs.Edges[attack.Key]; !ok {
			continue
		}
		source, ok := gs.Nodes[attack.Key.Source]
		if ok {
			reflectionDamage := attack.Bandwidth / threshold
			chance := clamp(BASE_DESTRUCTION_CHANCE+reflectionDamage*REFLECTION_WEIGHT, 0, 1)
			roll := s.rnd.Float64()
			switch {
			case source.Role == Base:
				// Bases are permanent and absorb the reflection
				s.logger.Debug().Int("node", int(source.ID)).Msg("base absorbed packet reflection")
			case roll < chance:
				s.destroy(gs, source, chance)
			default:
				s.logger.Debug().
					Int("node", int(source.ID)).
					Msgf("node survived packet reflection (%.0f%% chance)", chance*100)
			}
		}
		delete(gs.Edges, attack.Key)
	}

	node.State = Idle
	node.CaptureProgress = 0
	node.CurrentLoad = 0
}

// destroy reverts source to neutral and drops every edge touching it.
func (s *Simulator) destroy(gs *State, source *Node, chance float64) {
	owner := source.Owner
	source.Owner = NoOwner
	source.Role = Neutral
	source.State = Idle
	source.CaptureProgress = 0
	removed := gs.removeEdgesTouching(source.ID)

	s.logger.Info().
		Int("node", int(source.ID)).
		Int("owner", int(owner)).
		Int("edges_removed", removed).
		Msgf("node destroyed by packet reflection (%.0f%% chance)", chance*100)
	s.observer.NodeDestroyed(source.ID, owner)
}
