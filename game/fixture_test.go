package game

// constRandom always draws the same value. 0.5 means no bandwidth
// fluctuation, no packet loss and a 5.5 Gbps stream.
type constRandom float64

func (r constRandom) Float64() float64 {
	return float64(r)
}

// scriptedRandom replays draws in order, then falls back to 0.5.
type scriptedRandom struct {
	draws []float64
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.draws) == 0 {
		return 0.5
	}
	v := r.draws[0]
	r.draws = r.draws[1:]
	return v
}

type capture struct {
	node    NodeID
	by      PlayerID
	hostile bool
}

type recordingObserver struct {
	captures  []capture
	failures  []NodeID
	destroyed []NodeID
	ticks     int
}

func (o *recordingObserver) CaptureCompleted(node NodeID, by PlayerID, hostile bool) {
	o.captures = append(o.captures, capture{node: node, by: by, hostile: hostile})
}

func (o *recordingObserver) CaptureFailed(node NodeID, _ PlayerID) {
	o.failures = append(o.failures, node)
}

func (o *recordingObserver) NodeDestroyed(node NodeID, _ PlayerID) {
	o.destroyed = append(o.destroyed, node)
}

func (o *recordingObserver) TickCompleted(*State) {
	o.ticks++
}

// newFixture builds a six node graph:
//
//	0 human base ── 1 human ── 2 neutral (thr 5)
//	                │ ╲        │
//	                │  ╲       │
//	                5 ── 3 bot (thr 8) ── 4 bot base
//
// Node 1 has threshold 6. Node 5 is neutral, threshold 8 and hidden from the
// human. Links: 0-1, 1-2, 1-3, 1-5, 2-3, 3-4, 3-5.
func newFixture() *State {
	gs := NewState(NewPlayers(20))
	nodes := []*Node{
		{ID: 0, Position: Position{X: 0, Y: 0}, Owner: HumanPlayer, Role: Base, BandwidthThreshold: 10, Explored: true},
		{ID: 1, Position: Position{X: 100, Y: 0}, Owner: HumanPlayer, Role: Owned, BandwidthThreshold: 6, Explored: true},
		{ID: 2, Position: Position{X: 200, Y: -50}, Owner: NoOwner, Role: Neutral, BandwidthThreshold: 5, Explored: true},
		{ID: 3, Position: Position{X: 200, Y: 50}, Owner: BotPlayer, Role: Owned, BandwidthThreshold: 8, Explored: true},
		{ID: 4, Position: Position{X: 300, Y: 50}, Owner: BotPlayer, Role: Base, BandwidthThreshold: 10, Explored: true},
		{ID: 5, Position: Position{X: 200, Y: 150}, Owner: NoOwner, Role: Neutral, BandwidthThreshold: 8},
	}
	for _, n := range nodes {
		gs.AddNode(n)
	}
	for _, link := range [][2]NodeID{{0, 1}, {1, 2}, {1, 3}, {1, 5}, {2, 3}, {3, 4}, {3, 5}} {
		gs.Connect(link[0], link[1])
	}
	gs.Players[HumanPlayer].BaseNodeID = 0
	gs.Players[BotPlayer].BaseNodeID = 4
	gs.RecomputeAggregates()
	return gs
}

func addEdge(gs *State, source, target NodeID, owner PlayerID, bandwidth float64) *Edge {
	key := EdgeKey{Source: source, Target: target}
	e := &Edge{Key: key, Owner: owner, Bandwidth: bandwidth, MaxBandwidth: MAX_BANDWIDTH, Active: true}
	gs.Edges[key] = e
	return e
}

func setOwner(gs *State, id NodeID, owner PlayerID) {
	n := gs.Nodes[id]
	n.Owner = owner
	n.Role = Owned
	if owner == NoOwner {
		n.Role = Neutral
	}
}
