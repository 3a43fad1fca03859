package game

import "golang.org/x/exp/slices"

// Resolver answers which actions are legal. It never mutates the state it is
// given and holds no state of its own.
type Resolver struct{}

// CanCaptureNode reports whether player may open a capture on nodeID from any
// adjacent node it owns.
func (Resolver) CanCaptureNode(gs *State, nodeID NodeID, player PlayerID) bool {
	node, ok := gs.Nodes[nodeID]
	if !ok || !node.Explored {
		return false
	}
	// Can't capture own nodes, bases, or nodes already under capture
	if node.IsOwnedBy(player) || node.Role == Base || node.State == Capturing {
		return false
	}
	for _, adj := range node.Connections {
		if n, ok := gs.Nodes[adj]; ok && n.IsOwnedBy(player) {
			return true
		}
	}
	return false
}

// CapturableNodes lists every node CanCaptureNode accepts, by id.
func (r Resolver) CapturableNodes(gs *State, player PlayerID) []NodeID {
	var ids []NodeID
	for _, id := range gs.NodeIDs() {
		if r.CanCaptureNode(gs, id, player) {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsCapturableConnection reports whether player may open a new stream from
// source to target. Targets already under capture are allowed so several
// streams can pile onto one node. Only the human seat is held to fog of war.
func (Resolver) IsCapturableConnection(gs *State, source, target NodeID, player PlayerID) bool {
	sourceNode, okS := gs.Nodes[source]
	targetNode, okT := gs.Nodes[target]
	if !okS || !okT {
		return false
	}
	if player == HumanPlayer && !targetNode.Explored {
		return false
	}
	if !sourceNode.IsOwnedBy(player) {
		return false
	}
	if targetNode.IsOwnedBy(player) || targetNode.Role == Base {
		return false
	}
	if !sourceNode.IsConnected(target) {
		return false
	}
	if _, exists := gs.Edges[EdgeKey{Source: source, Target: target}]; exists {
		return false
	}
	return true
}

// CapturableConnections lists every legal (source, target) stream for player
// in ascending key order.
func (r Resolver) CapturableConnections(gs *State, player PlayerID) []EdgeKey {
	var keys []EdgeKey
	for _, id := range gs.NodeIDs() {
		node := gs.Nodes[id]
		if !node.IsOwnedBy(player) {
			continue
		}
		for _, adj := range node.Connections {
			if r.IsCapturableConnection(gs, id, adj, player) {
				keys = append(keys, EdgeKey{Source: id, Target: adj})
			}
		}
	}
	slices.SortFunc(keys, EdgeKey.Compare)
	return keys
}

// CanAttackEnemyBase reports whether player holds every neighbour of a living
// opponent's base.
func (Resolver) CanAttackEnemyBase(gs *State, player PlayerID) bool {
	enemy := gs.Opponent(player)
	if enemy == nil || !enemy.IsAlive {
		return false
	}
	base, ok := gs.Nodes[enemy.BaseNodeID]
	if !ok {
		return false
	}
	for _, adj := range base.Connections {
		n, ok := gs.Nodes[adj]
		if !ok || !n.IsOwnedBy(player) {
			return false
		}
	}
	return true
}
