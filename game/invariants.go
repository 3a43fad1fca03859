package game

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvariant = errors.New("invariant violated")

// CheckInvariants reports the first structural invariant the state breaks, or
// nil when the graph is consistent.
func (gs *State) CheckInvariants() error {
	for _, id := range gs.NodeIDs() {
		n := gs.Nodes[id]
		if n.ID != id {
			return fmt.Errorf("%w: node stored under %d carries id %d", ErrInvariant, id, n.ID)
		}
		if (n.Owner == NoOwner) != (n.Role == Neutral) {
			return fmt.Errorf("%w: node %d has owner %d with role %s", ErrInvariant, id, n.Owner, n.Role)
		}
		if n.State != Capturing && n.CaptureProgress != 0 {
			return fmt.Errorf("%w: node %d has progress %.3f while %s", ErrInvariant, id, n.CaptureProgress, n.State)
		}
		if !(n.BandwidthThreshold > 0) {
			return fmt.Errorf("%w: node %d has threshold %.3f", ErrInvariant, id, n.BandwidthThreshold)
		}
		if n.CaptureProgress < 0 || n.CaptureProgress > 1 {
			return fmt.Errorf("%w: node %d has progress %.3f outside [0,1]", ErrInvariant, id, n.CaptureProgress)
		}
		for _, adj := range n.Connections {
			other, ok := gs.Nodes[adj]
			if !ok {
				return fmt.Errorf("%w: node %d lists missing neighbour %d", ErrInvariant, id, adj)
			}
			if !other.IsConnected(id) {
				return fmt.Errorf("%w: node %d lists %d but not the reverse", ErrInvariant, id, adj)
			}
		}
	}

	for _, p := range gs.Players {
		base, ok := gs.Nodes[p.BaseNodeID]
		if !ok {
			return fmt.Errorf("%w: player %d base %d is missing", ErrInvariant, p.ID, p.BaseNodeID)
		}
		if base.Role != Base || base.Owner != p.ID {
			return fmt.Errorf("%w: player %d base %d is %s owned by %d", ErrInvariant, p.ID, base.ID, base.Role, base.Owner)
		}
	}

	for _, k := range gs.EdgeKeys() {
		e := gs.Edges[k]
		if e.Key != k {
			return fmt.Errorf("%w: edge stored under %s carries key %s", ErrInvariant, k, e.Key)
		}
		source, ok := gs.Nodes[k.Source]
		if !ok {
			return fmt.Errorf("%w: edge %s has missing source", ErrInvariant, k)
		}
		if _, ok := gs.Nodes[k.Target]; !ok {
			return fmt.Errorf("%w: edge %s has missing target", ErrInvariant, k)
		}
		if !source.IsConnected(k.Target) {
			return fmt.Errorf("%w: edge %s joins non-adjacent nodes", ErrInvariant, k)
		}
		if e.Bandwidth < 1 || e.Bandwidth > e.MaxBandwidth {
			return fmt.Errorf("%w: edge %s bandwidth %.3f outside [1,%.1f]", ErrInvariant, k, e.Bandwidth, e.MaxBandwidth)
		}
	}
	return nil
}

// CheckAggregates reports whether the derived player fields match the graph.
func (gs *State) CheckAggregates() error {
	for _, p := range gs.Players {
		throughput := 0.0
		for _, e := range gs.Edges {
			if e.Owner == p.ID {
				throughput += e.Bandwidth
			}
		}
		owned := 0
		for _, n := range gs.Nodes {
			if n.IsOwnedBy(p.ID) {
				owned++
			}
		}
		if math.Abs(throughput-p.TotalThroughput) > 1e-9 {
			return fmt.Errorf("%w: player %d throughput %.6f, edges sum to %.6f", ErrInvariant, p.ID, p.TotalThroughput, throughput)
		}
		if owned != p.NodesOwned {
			return fmt.Errorf("%w: player %d owns %d nodes, counted %d", ErrInvariant, p.ID, p.NodesOwned, owned)
		}
	}
	return nil
}
