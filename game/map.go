package game

import (
	"cmp"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// MapConfig controls territory generation.
type MapConfig struct {
	Nodes int `yaml:"nodes" validate:"min=8"`
	// HexSize is the distance from a hex centre to its vertex.
	HexSize         float64 `yaml:"hex_size" validate:"gt=0"`
	ConnectDistance float64 `yaml:"connect_distance" validate:"gt=0"`
	MaxNeighbours   int     `yaml:"max_neighbours" validate:"min=1"`
	// MaxNodes is the per-player soft cap; the simulation does not enforce it.
	MaxNodes        int `yaml:"max_nodes" validate:"min=1"`
	HumanStartNodes int `yaml:"human_start_nodes" validate:"gte=0"`
	// BotStartNodes start owned by the bot and hidden from the human.
	BotStartNodes int `yaml:"bot_start_nodes" validate:"gte=0"`
}

func DefaultMapConfig() MapConfig {
	return MapConfig{
		Nodes:           100,
		HexSize:         80,
		ConnectDistance: 160,
		MaxNeighbours:   6,
		MaxNodes:        20,
		HumanStartNodes: 4,
		BotStartNodes:   3,
	}
}

// GenerateState lays out nodes on a hexagonal lattice, links near neighbours,
// and places both bases with their starting territory. Only the human's
// territory and its frontier start explored, plus the enemy base itself.
func GenerateState(cfg MapConfig, rnd Random) (*State, error) {
	gs := NewState(NewPlayers(cfg.MaxNodes))

	generateNodes(gs, cfg, rnd)
	generateConnections(gs, cfg)

	required := 2 + cfg.HumanStartNodes + cfg.BotStartNodes
	if len(gs.Nodes) < required {
		return nil, fmt.Errorf("map of %d nodes cannot hold two bases and %d starting nodes", len(gs.Nodes), required-2)
	}
	if err := setupTerritories(gs, cfg); err != nil {
		return nil, fmt.Errorf("failed to set up territories: %w", err)
	}

	gs.RecomputeAggregates()
	return gs, nil
}

func generateNodes(gs *State, cfg MapConfig, rnd Random) {
	radius := int(math.Ceil(math.Sqrt(float64(cfg.Nodes) / 7)))
	seen := make(map[[2]int]bool)

	id := 0
	for q := -radius; q <= radius && id < cfg.Nodes; q++ {
		r1 := max(-radius, -q-radius)
		r2 := min(radius, -q+radius)
		for r := r1; r <= r2 && id < cfg.Nodes; r++ {
			// Axial coordinates to pixels
			x := cfg.HexSize * (1.5 * float64(q))
			y := cfg.HexSize * (math.Sqrt(3)/2*float64(q) + math.Sqrt(3)*float64(r))

			key := [2]int{int(math.Round(x)), int(math.Round(y))}
			if seen[key] {
				continue
			}
			seen[key] = true

			gs.AddNode(&Node{
				ID:                 NodeID(id),
				Position:           Position{X: x, Y: y},
				Owner:              NoOwner,
				Role:               Neutral,
				State:              Idle,
				BandwidthThreshold: uniform(rnd, MIN_THRESHOLD, MAX_THRESHOLD),
			})
			id++
		}
	}
}

type neighbour struct {
	id       NodeID
	distance float64
}

// nearest returns the other nodes ordered by distance from origin, ties by id.
func nearest(gs *State, origin *Node, accept func(*Node) bool) []neighbour {
	var out []neighbour
	for _, id := range gs.NodeIDs() {
		n := gs.Nodes[id]
		if id == origin.ID || !accept(n) {
			continue
		}
		out = append(out, neighbour{id: id, distance: origin.Position.DistanceTo(n.Position)})
	}
	slices.SortStableFunc(out, func(a, b neighbour) int {
		return cmp.Compare(a.distance, b.distance)
	})
	return out
}

func generateConnections(gs *State, cfg MapConfig) {
	for _, id := range gs.NodeIDs() {
		origin := gs.Nodes[id]
		candidates := nearest(gs, origin, func(*Node) bool { return true })
		linked := 0
		for _, c := range candidates {
			if c.distance >= cfg.ConnectDistance || linked == cfg.MaxNeighbours {
				break
			}
			gs.Connect(id, c.id)
			linked++
		}
	}
}

func setupTerritories(gs *State, cfg MapConfig) error {
	ids := gs.NodeIDs()
	human := gs.Player(HumanPlayer)
	bot := gs.Player(BotPlayer)

	humanBase := gs.Nodes[ids[0]]
	claim(humanBase, HumanPlayer, Base)
	humanBase.Explored = true
	human.BaseNodeID = humanBase.ID

	unowned := func(n *Node) bool { return n.Owner == NoOwner }
	for _, c := range nearest(gs, humanBase, unowned)[:cfg.HumanStartNodes] {
		n := gs.Nodes[c.id]
		claim(n, HumanPlayer, Owned)
		n.Explored = true
	}

	farthest := nearest(gs, humanBase, unowned)
	if len(farthest) == 0 {
		return fmt.Errorf("no node left for the bot base")
	}
	botBase := gs.Nodes[farthest[len(farthest)-1].id]
	claim(botBase, BotPlayer, Base)
	botBase.Explored = true // The enemy base is always visible
	bot.BaseNodeID = botBase.ID

	botTerritory := nearest(gs, botBase, unowned)
	if len(botTerritory) < cfg.BotStartNodes {
		return fmt.Errorf("only %d nodes left for %d bot starting nodes", len(botTerritory), cfg.BotStartNodes)
	}
	for _, c := range botTerritory[:cfg.BotStartNodes] {
		claim(gs.Nodes[c.id], BotPlayer, Owned) // Hidden from the human
	}

	// Reveal the human's immediate frontier
	for _, id := range ids {
		n := gs.Nodes[id]
		if n.IsOwnedBy(HumanPlayer) || n.Explored {
			continue
		}
		for _, adj := range n.Connections {
			if gs.Nodes[adj].IsOwnedBy(HumanPlayer) {
				n.Explored = true
				break
			}
		}
	}
	return nil
}

func claim(n *Node, player PlayerID, role Role) {
	n.Owner = player
	n.Role = role
}
