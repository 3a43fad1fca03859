package metrics

import (
	"packetroyale/game"
	"sync/atomic"
	"time"
)

// EventSummary counts the notable simulation events of one match.
type EventSummary struct {
	Ticks           int
	Captures        int
	HostileCaptures int
	FailedCaptures  int
	NodesDestroyed  int
}

type GameMetric struct {
	Seed       uint64
	Winner     game.PlayerID // NoOwner on timeout
	Ticks      int
	Decisions  int           // Bot decision cycles that ran
	NodesOwned []int         // Indexed by player id, at the end of the match
	Throughput []float64     // Gbps, indexed by player id
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// Collector observes a running simulation.
type Collector interface {
	game.Observer
	Summary() EventSummary
}

type collector struct {
	ticks           atomic.Int32
	captures        atomic.Int32
	hostileCaptures atomic.Int32
	failedCaptures  atomic.Int32
	nodesDestroyed  atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) CaptureCompleted(_ game.NodeID, _ game.PlayerID, hostile bool) {
	m.captures.Add(1)
	if hostile {
		m.hostileCaptures.Add(1)
	}
}

func (m *collector) CaptureFailed(game.NodeID, game.PlayerID) {
	m.failedCaptures.Add(1)
}

func (m *collector) NodeDestroyed(game.NodeID, game.PlayerID) {
	m.nodesDestroyed.Add(1)
}

func (m *collector) TickCompleted(*game.State) {
	m.ticks.Add(1)
}

func (m *collector) Summary() EventSummary {
	return EventSummary{
		Ticks:           int(m.ticks.Load()),
		Captures:        int(m.captures.Load()),
		HostileCaptures: int(m.hostileCaptures.Load()),
		FailedCaptures:  int(m.failedCaptures.Load()),
		NodesDestroyed:  int(m.nodesDestroyed.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) CaptureCompleted(game.NodeID, game.PlayerID, bool) {}
func (m *dummyCollector) CaptureFailed(game.NodeID, game.PlayerID)          {}
func (m *dummyCollector) NodeDestroyed(game.NodeID, game.PlayerID)          {}
func (m *dummyCollector) TickCompleted(*game.State)                         {}
func (m *dummyCollector) Summary() EventSummary                             { return EventSummary{} }
