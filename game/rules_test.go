package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanCaptureNode(t *testing.T) {
	r := Resolver{}

	t.Run("explored neutral and enemy nodes next to own territory", func(t *testing.T) {
		gs := newFixture()
		require.True(t, r.CanCaptureNode(gs, 2, HumanPlayer))
		require.True(t, r.CanCaptureNode(gs, 3, HumanPlayer))
		require.True(t, r.CanCaptureNode(gs, 2, BotPlayer))
		require.Equal(t, []NodeID{2, 3}, r.CapturableNodes(gs, HumanPlayer))
	})

	t.Run("own nodes, bases and unknown nodes are excluded", func(t *testing.T) {
		gs := newFixture()
		require.False(t, r.CanCaptureNode(gs, 1, HumanPlayer))
		require.False(t, r.CanCaptureNode(gs, 4, HumanPlayer))
		require.False(t, r.CanCaptureNode(gs, 42, HumanPlayer))
	})

	t.Run("unexplored nodes are excluded", func(t *testing.T) {
		gs := newFixture()
		require.False(t, r.CanCaptureNode(gs, 5, HumanPlayer))

		gs.Nodes[5].Explored = true
		require.True(t, r.CanCaptureNode(gs, 5, HumanPlayer))
	})

	t.Run("nodes already under capture are excluded", func(t *testing.T) {
		gs := newFixture()
		gs.Nodes[2].State = Capturing
		require.False(t, r.CanCaptureNode(gs, 2, HumanPlayer))
	})

	t.Run("nodes away from own territory are excluded", func(t *testing.T) {
		gs := newFixture()
		setOwner(gs, 1, BotPlayer)
		require.False(t, r.CanCaptureNode(gs, 2, HumanPlayer))
	})
}

func TestIsCapturableConnection(t *testing.T) {
	r := Resolver{}

	tests := []struct {
		name   string
		source NodeID
		target NodeID
		player PlayerID
		setup  func(gs *State)
		want   bool
	}{
		{name: "neutral neighbour", source: 1, target: 2, player: HumanPlayer, want: true},
		{name: "enemy neighbour", source: 1, target: 3, player: HumanPlayer, want: true},
		{name: "hidden target for the human", source: 1, target: 5, player: HumanPlayer, want: false},
		{name: "hidden target for the bot", source: 3, target: 5, player: BotPlayer, want: true},
		{name: "source not owned", source: 2, target: 3, player: HumanPlayer, want: false},
		{name: "own target", source: 1, target: 0, player: HumanPlayer, want: false},
		{name: "not adjacent", source: 0, target: 2, player: HumanPlayer, want: false},
		{name: "missing target", source: 1, target: 42, player: HumanPlayer, want: false},
		{
			name: "enemy base", source: 3, target: 4, player: HumanPlayer, want: false,
			setup: func(gs *State) { setOwner(gs, 3, HumanPlayer) },
		},
		{
			name: "stream already exists", source: 1, target: 2, player: HumanPlayer, want: false,
			setup: func(gs *State) { addEdge(gs, 1, 2, HumanPlayer, 4) },
		},
		{
			name: "target already under capture", source: 3, target: 2, player: BotPlayer, want: true,
			setup: func(gs *State) {
				addEdge(gs, 1, 2, HumanPlayer, 4)
				gs.Nodes[2].State = Capturing
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newFixture()
			if tt.setup != nil {
				tt.setup(gs)
			}
			require.Equal(t, tt.want, r.IsCapturableConnection(gs, tt.source, tt.target, tt.player))
		})
	}
}

func TestCapturableConnections(t *testing.T) {
	r := Resolver{}
	gs := newFixture()

	require.Equal(t, []EdgeKey{{Source: 1, Target: 2}, {Source: 1, Target: 3}}, r.CapturableConnections(gs, HumanPlayer))
	require.Equal(t, []EdgeKey{{Source: 3, Target: 1}, {Source: 3, Target: 2}, {Source: 3, Target: 5}}, r.CapturableConnections(gs, BotPlayer))

	t.Run("every listed connection is accepted individually", func(t *testing.T) {
		for _, player := range []PlayerID{HumanPlayer, BotPlayer} {
			for _, k := range r.CapturableConnections(gs, player) {
				require.True(t, r.IsCapturableConnection(gs, k.Source, k.Target, player))
			}
		}
	})

	t.Run("does not mutate the state", func(t *testing.T) {
		before := gs.Copy()
		r.CapturableConnections(gs, HumanPlayer)
		r.CapturableNodes(gs, BotPlayer)
		r.CanAttackEnemyBase(gs, HumanPlayer)
		require.Equal(t, before, gs)
	})
}

func TestCanAttackEnemyBase(t *testing.T) {
	r := Resolver{}

	t.Run("requires every neighbour of the enemy base", func(t *testing.T) {
		gs := newFixture()
		require.False(t, r.CanAttackEnemyBase(gs, HumanPlayer))

		setOwner(gs, 3, HumanPlayer)
		require.True(t, r.CanAttackEnemyBase(gs, HumanPlayer))
	})

	t.Run("applies to the bot as well", func(t *testing.T) {
		gs := newFixture()
		require.False(t, r.CanAttackEnemyBase(gs, BotPlayer))

		setOwner(gs, 1, BotPlayer)
		require.True(t, r.CanAttackEnemyBase(gs, BotPlayer))
	})

	t.Run("a defeated opponent cannot be attacked again", func(t *testing.T) {
		gs := newFixture()
		setOwner(gs, 3, HumanPlayer)
		gs.Players[BotPlayer].IsAlive = false
		require.False(t, r.CanAttackEnemyBase(gs, HumanPlayer))
	})
}
