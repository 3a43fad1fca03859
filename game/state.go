package game

import (
	"cmp"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

type Role int

const (
	Neutral Role = iota
	Owned
	Base
)

func (r Role) String() string {
	switch r {
	case Neutral:
		return "NEUTRAL"
	case Owned:
		return "OWNED"
	case Base:
		return "BASE"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

type NodeState int

const (
	Idle NodeState = iota
	Capturing
	UnderAttack
)

func (s NodeState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Capturing:
		return "CAPTURING"
	case UnderAttack:
		return "UNDER_ATTACK"
	default:
		return fmt.Sprintf("NodeState(%d)", int(s))
	}
}

type Position struct {
	X float64
	Y float64
}

func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Node is a vertex of the territory graph.
type Node struct {
	ID                 NodeID
	Position           Position
	Owner              PlayerID  // NoOwner iff Role == Neutral
	Role               Role      // Base nodes are permanent, one per player
	State              NodeState // See Simulator.Tick for transitions
	BandwidthThreshold float64   // Gbps needed to capture, immutable after generation
	CurrentLoad        float64   // Hostile inflow, re-derived every tick
	CaptureProgress    float64   // [0,1], zero unless Capturing
	Explored           bool      // Visible to the human seat
	Connections        []NodeID  // Symmetric adjacency
}

func (n *Node) IsOwnedBy(player PlayerID) bool {
	return n.Owner != NoOwner && n.Owner == player
}

func (n *Node) IsConnected(other NodeID) bool {
	return slices.Contains(n.Connections, other)
}

// EdgeKey identifies a stream by its endpoints. At most one edge per ordered
// pair exists at a time.
type EdgeKey struct {
	Source NodeID
	Target NodeID
}

// Compare orders keys by source, then target.
func (k EdgeKey) Compare(other EdgeKey) int {
	if c := cmp.Compare(k.Source, other.Source); c != 0 {
		return c
	}
	return cmp.Compare(k.Target, other.Target)
}

func (k EdgeKey) Less(other EdgeKey) bool {
	return k.Compare(other) < 0
}

func (k EdgeKey) Touches(id NodeID) bool {
	return k.Source == id || k.Target == id
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%d->%d", k.Source, k.Target)
}

// Edge is a directed capture stream from an owned node to an adjacent target.
type Edge struct {
	Key          EdgeKey
	Owner        PlayerID
	Bandwidth    float64 // Gbps, within [1, MaxBandwidth]
	MaxBandwidth float64
	PacketsSent  int // Telemetry only
	PacketsLost  int
	Active       bool
}

type Player struct {
	ID              PlayerID
	Name            string
	BaseNodeID      NodeID
	IsAlive         bool
	TotalThroughput float64 // Derived each tick
	NodesOwned      int     // Derived each tick
	MaxNodes        int     // Soft cap, for callers
}

// State is the aggregate a match runs on. It is owned by one caller, which
// serializes every mutating call (actions and ticks) against it.
type State struct {
	Nodes         map[NodeID]*Node
	Edges         map[EdgeKey]*Edge
	Players       []*Player
	CurrentTick   int
	CurrentPlayer PlayerID
}

// NewState returns an empty graph for the given players.
func NewState(players []*Player) *State {
	return &State{
		Nodes:         make(map[NodeID]*Node),
		Edges:         make(map[EdgeKey]*Edge),
		Players:       players,
		CurrentPlayer: HumanPlayer,
	}
}

// NewPlayers creates the human and bot seats.
func NewPlayers(maxNodes int) []*Player {
	return []*Player{
		{ID: HumanPlayer, Name: "Player 1 (You)", IsAlive: true, MaxNodes: maxNodes},
		{ID: BotPlayer, Name: "Player 2", IsAlive: true, MaxNodes: maxNodes},
	}
}

func (gs *State) AddNode(n *Node) {
	gs.Nodes[n.ID] = n
}

// Connect adds an undirected link between two existing nodes. It is idempotent
// and keeps adjacency symmetric.
func (gs *State) Connect(a, b NodeID) bool {
	na, okA := gs.Nodes[a]
	nb, okB := gs.Nodes[b]
	if !okA || !okB || a == b {
		return false
	}
	if !na.IsConnected(b) {
		na.Connections = append(na.Connections, b)
	}
	if !nb.IsConnected(a) {
		nb.Connections = append(nb.Connections, a)
	}
	return true
}

func (gs *State) Node(id NodeID) (*Node, bool) {
	n, ok := gs.Nodes[id]
	return n, ok
}

func (gs *State) Player(id PlayerID) *Player {
	for _, p := range gs.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the first player that is not id.
func (gs *State) Opponent(id PlayerID) *Player {
	for _, p := range gs.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// NodeIDs returns every node id in ascending order.
func (gs *State) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(gs.Nodes))
	for id := range gs.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EdgeKeys returns every edge key in ascending order.
func (gs *State) EdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, len(gs.Edges))
	for k := range gs.Edges {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, EdgeKey.Compare)
	return keys
}

// AttackingEdges returns the active edges into target whose owner differs from
// the target's owner, ordered by key.
func (gs *State) AttackingEdges(target NodeID) []*Edge {
	node, ok := gs.Nodes[target]
	if !ok {
		return nil
	}
	var edges []*Edge
	for _, k := range gs.EdgeKeys() {
		e := gs.Edges[k]
		if k.Target == target && e.Active && e.Owner != node.Owner {
			edges = append(edges, e)
		}
	}
	return edges
}

// InflowFrom sums the bandwidth player streams into target.
func (gs *State) InflowFrom(target NodeID, player PlayerID) float64 {
	total := 0.0
	for k, e := range gs.Edges {
		if k.Target == target && e.Owner == player {
			total += e.Bandwidth
		}
	}
	return total
}

func (gs *State) removeEdgesTouching(id NodeID) int {
	removed := 0
	for k := range gs.Edges {
		if k.Touches(id) {
			delete(gs.Edges, k)
			removed++
		}
	}
	return removed
}

// RecomputeAggregates derives each player's throughput and node count from the
// graph. Nothing else writes those fields.
func (gs *State) RecomputeAggregates() {
	for _, p := range gs.Players {
		p.TotalThroughput = 0
		p.NodesOwned = 0
	}
	for _, k := range gs.EdgeKeys() {
		e := gs.Edges[k]
		if p := gs.Player(e.Owner); p != nil {
			p.TotalThroughput += e.Bandwidth
		}
	}
	for _, n := range gs.Nodes {
		if n.Owner == NoOwner {
			continue
		}
		if p := gs.Player(n.Owner); p != nil {
			p.NodesOwned++
		}
	}
}

// Winner returns the last player alive, or NoOwner while the contest is open.
func (gs *State) Winner() PlayerID {
	alive := NoOwner
	count := 0
	for _, p := range gs.Players {
		if p.IsAlive {
			alive = p.ID
			count++
		}
	}
	if count == 1 {
		return alive
	}
	return NoOwner
}

func (gs *State) Copy() *State {
	nodes := make(map[NodeID]*Node, len(gs.Nodes))
	for id, n := range gs.Nodes {
		nodeCopy := *n
		nodeCopy.Connections = slices.Clone(n.Connections)
		nodes[id] = &nodeCopy
	}

	edges := make(map[EdgeKey]*Edge, len(gs.Edges))
	for k, e := range gs.Edges {
		edgeCopy := *e
		edges[k] = &edgeCopy
	}

	players := make([]*Player, len(gs.Players))
	for i, p := range gs.Players {
		playerCopy := *p
		players[i] = &playerCopy
	}

	return &State{
		Nodes:         nodes,
		Edges:         edges,
		Players:       players,
		CurrentTick:   gs.CurrentTick,
		CurrentPlayer: gs.CurrentPlayer,
	}
}
