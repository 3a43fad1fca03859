package game

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestTickEdges(t *testing.T) {
	t.Run("bandwidth stays within bounds", func(t *testing.T) {
		gs := newFixture()
		high := addEdge(gs, 1, 2, HumanPlayer, 9.5)
		low := addEdge(gs, 3, 2, BotPlayer, 1)
		// Draws: fluctuation then loss, per edge in key order
		sim := NewSimulator(&scriptedRandom{draws: []float64{0.9999, 0.9, 0, 0}})

		sim.Tick(gs)

		require.Equal(t, MAX_BANDWIDTH, high.Bandwidth)
		require.Equal(t, 100, high.PacketsSent)
		require.Equal(t, 0, high.PacketsLost)
		require.Equal(t, 1.0, low.Bandwidth)
		require.Equal(t, 10, low.PacketsSent)
		require.Equal(t, 1, low.PacketsLost)
	})

	t.Run("inactive edges are left alone", func(t *testing.T) {
		gs := newFixture()
		e := addEdge(gs, 1, 2, HumanPlayer, 4)
		e.Active = false

		NewSimulator(constRandom(0.9)).Tick(gs)

		require.Equal(t, 4.0, e.Bandwidth)
		require.Equal(t, 0, e.PacketsSent)
		require.Equal(t, 0.0, gs.Nodes[2].CurrentLoad)
	})
}

func TestTickInsufficientNeutralSiege(t *testing.T) {
	t.Run("progress decays and the stream survives", func(t *testing.T) {
		gs := newFixture()
		addEdge(gs, 1, 2, HumanPlayer, 3)
		gs.Nodes[2].State = Capturing
		gs.Nodes[2].CaptureProgress = 0.5

		NewSimulator(constRandom(0.5)).Tick(gs)

		n := gs.Nodes[2]
		require.Equal(t, Capturing, n.State)
		require.InDelta(t, 0.495, n.CaptureProgress, 1e-9)
		require.Equal(t, 3.0, n.CurrentLoad)
		require.Equal(t, NoOwner, n.Owner)
		require.Contains(t, gs.Edges, EdgeKey{Source: 1, Target: 2})
	})

	t.Run("progress does not drop below zero", func(t *testing.T) {
		gs := newFixture()
		addEdge(gs, 1, 2, HumanPlayer, 3)
		gs.Nodes[2].State = Capturing
		gs.Nodes[2].CaptureProgress = 0.003

		NewSimulator(constRandom(0.5)).Tick(gs)

		require.Equal(t, 0.0, gs.Nodes[2].CaptureProgress)
		require.Equal(t, Capturing, gs.Nodes[2].State)
	})
}

func TestTickCapture(t *testing.T) {
	t.Run("surplus bandwidth speeds up a hostile capture", func(t *testing.T) {
		gs := newFixture()
		setOwner(gs, 2, HumanPlayer)
		addEdge(gs, 1, 3, HumanPlayer, 6)
		addEdge(gs, 2, 3, HumanPlayer, 6)
		gs.Nodes[3].State = Capturing
		obs := &recordingObserver{}
		sim := NewSimulator(constRandom(0.5), WithObserver(obs))

		sim.Tick(gs)
		// 0.01 + (12-8)/8 * 0.02
		require.InDelta(t, 0.02, gs.Nodes[3].CaptureProgress, 1e-9)
		require.Equal(t, 12.0, gs.Nodes[3].CurrentLoad)

		for i := 0; i < 100 && gs.Nodes[3].Owner == BotPlayer; i++ {
			sim.Tick(gs)
		}

		n := gs.Nodes[3]
		require.Equal(t, HumanPlayer, n.Owner)
		require.Equal(t, Owned, n.Role)
		require.Equal(t, Idle, n.State)
		require.Equal(t, 0.0, n.CaptureProgress)
		require.True(t, gs.Nodes[5].Explored)
		require.Equal(t, []capture{{node: 3, by: HumanPlayer, hostile: true}}, obs.captures)
		require.NoError(t, gs.CheckInvariants())
	})

	t.Run("streams into an own node carry no load", func(t *testing.T) {
		gs := newFixture()
		setOwner(gs, 3, HumanPlayer)
		addEdge(gs, 1, 3, HumanPlayer, 6)

		NewSimulator(constRandom(0.5)).Tick(gs)

		require.Equal(t, 0.0, gs.Nodes[3].CurrentLoad)
		require.InDelta(t, 6.0, gs.Players[HumanPlayer].TotalThroughput, 1e-9)
	})

	t.Run("a node without a positive threshold falls at once", func(t *testing.T) {
		gs := newFixture()
		addEdge(gs, 1, 2, HumanPlayer, 3)
		gs.Nodes[2].BandwidthThreshold = 0
		gs.Nodes[2].State = Capturing

		NewSimulator(constRandom(0.5)).Tick(gs)

		n := gs.Nodes[2]
		require.Equal(t, HumanPlayer, n.Owner)
		require.Equal(t, Idle, n.State)
		require.Equal(t, 0.0, n.CaptureProgress)
	})

	t.Run("contested completion goes to the lowest attacking edge", func(t *testing.T) {
		gs := newFixture()
		addEdge(gs, 3, 2, BotPlayer, 6)
		addEdge(gs, 1, 2, HumanPlayer, 6)
		gs.Nodes[2].State = Capturing
		gs.Nodes[2].CaptureProgress = 0.99
		obs := &recordingObserver{}

		NewSimulator(constRandom(0.5), WithObserver(obs)).Tick(gs)

		require.Equal(t, HumanPlayer, gs.Nodes[2].Owner)
		require.Equal(t, []capture{{node: 2, by: HumanPlayer, hostile: false}}, obs.captures)
		// Losing streams remain, now attacking the new owner
		require.Len(t, gs.Edges, 2)
		require.Equal(t, 3, gs.Players[HumanPlayer].NodesOwned)
	})

	t.Run("logs the capture", func(t *testing.T) {
		var buf bytes.Buffer
		gs := newFixture()
		addEdge(gs, 1, 2, HumanPlayer, 6)
		gs.Nodes[2].State = Capturing
		gs.Nodes[2].CaptureProgress = 0.995

		NewSimulator(constRandom(0.5), WithLogger(zerolog.New(&buf))).Tick(gs)

		require.Contains(t, buf.String(), "node captured")
	})
}

func TestTickHostileFailure(t *testing.T) {
	// Node 3 (bot, threshold 8) under-attacked by a 3 Gbps human stream:
	// destruction chance is 0.3 + 3/8*0.4 = 0.45.
	setup := func() *State {
		gs := newFixture()
		addEdge(gs, 1, 2, HumanPlayer, 5) // Idle target, removed if node 1 falls
		addEdge(gs, 1, 3, HumanPlayer, 3)
		gs.Nodes[3].State = Capturing
		gs.Nodes[3].CaptureProgress = 0.4
		return gs
	}

	t.Run("reflection can destroy the attacking node", func(t *testing.T) {
		gs := setup()
		obs := &recordingObserver{}
		// Two draws per edge, then the destruction roll
		rnd := &scriptedRandom{draws: []float64{0.5, 0.5, 0.5, 0.5, 0.1}}

		NewSimulator(rnd, WithObserver(obs)).Tick(gs)

		source := gs.Nodes[1]
		require.Equal(t, NoOwner, source.Owner)
		require.Equal(t, Neutral, source.Role)
		require.Empty(t, gs.Edges)

		target := gs.Nodes[3]
		require.Equal(t, BotPlayer, target.Owner)
		require.Equal(t, Idle, target.State)
		require.Equal(t, 0.0, target.CaptureProgress)
		require.Equal(t, 0.0, target.CurrentLoad)

		require.Equal(t, []NodeID{3}, obs.failures)
		require.Equal(t, []NodeID{1}, obs.destroyed)
		require.Equal(t, 1, gs.Players[HumanPlayer].NodesOwned)
		require.NoError(t, gs.CheckInvariants())
	})

	t.Run("a surviving attacker still loses the stream", func(t *testing.T) {
		gs := setup()
		obs := &recordingObserver{}
		rnd := &scriptedRandom{draws: []float64{0.5, 0.5, 0.5, 0.5, 0.45}}

		NewSimulator(rnd, WithObserver(obs)).Tick(gs)

		require.Equal(t, HumanPlayer, gs.Nodes[1].Owner)
		require.NotContains(t, gs.Edges, EdgeKey{Source: 1, Target: 3})
		require.Contains(t, gs.Edges, EdgeKey{Source: 1, Target: 2})
		require.Equal(t, Idle, gs.Nodes[3].State)
		require.Empty(t, obs.destroyed)
	})

	t.Run("bases absorb the reflection", func(t *testing.T) {
		gs := newFixture()
		setOwner(gs, 1, BotPlayer)
		addEdge(gs, 0, 1, HumanPlayer, 3)
		gs.Nodes[1].State = Capturing
		gs.Nodes[1].CaptureProgress = 0.2
		rnd := &scriptedRandom{draws: []float64{0.5, 0.5, 0}}

		NewSimulator(rnd).Tick(gs)

		require.Equal(t, Base, gs.Nodes[0].Role)
		require.Equal(t, HumanPlayer, gs.Nodes[0].Owner)
		require.Empty(t, gs.Edges)
		require.Equal(t, Idle, gs.Nodes[1].State)
		require.NoError(t, gs.CheckInvariants())
	})
}

func TestTickBookkeeping(t *testing.T) {
	gs := newFixture()
	addEdge(gs, 1, 2, HumanPlayer, 4)
	obs := &recordingObserver{}
	sim := NewSimulator(constRandom(0.5), WithObserver(obs))

	sim.Tick(gs)
	sim.Tick(gs)

	require.Equal(t, 2, gs.CurrentTick)
	require.Equal(t, 2, obs.ticks)
	// Idle targets still report their load
	require.Equal(t, 4.0, gs.Nodes[2].CurrentLoad)
	require.Equal(t, Idle, gs.Nodes[2].State)
	require.NoError(t, gs.CheckAggregates())
}
