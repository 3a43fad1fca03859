package game

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Executor applies legal commands to the state. Each command re-checks
// eligibility and leaves the state untouched when it fails.
type Executor struct {
	Resolver
	rnd    Random
	logger zerolog.Logger
}

func NewExecutor(rnd Random) *Executor {
	return &Executor{rnd: rnd, logger: log.Logger}
}

// WithLogger returns a copy of the executor that logs to logger.
func (ex *Executor) WithLogger(logger zerolog.Logger) *Executor {
	c := *ex
	c.logger = logger
	return &c
}

// InitiateCaptureViaEdge opens a stream from source to target at a random
// bandwidth in [3,8) Gbps. Progress is only reset when the target was not
// already under capture.
func (ex *Executor) InitiateCaptureViaEdge(gs *State, source, target NodeID, player PlayerID) bool {
	if !ex.IsCapturableConnection(gs, source, target, player) {
		return false
	}
	targetNode := gs.Nodes[target]

	if targetNode.State != Capturing {
		targetNode.State = Capturing
		targetNode.CaptureProgress = 0
	}

	key := EdgeKey{Source: source, Target: target}
	gs.Edges[key] = &Edge{
		Key:          key,
		Owner:        player,
		Bandwidth:    uniform(ex.rnd, MIN_STREAM_BANDWIDTH, MAX_STREAM_BANDWIDTH),
		MaxBandwidth: MAX_BANDWIDTH,
		Active:       true,
	}

	ex.logger.Debug().
		Int("player", int(player)).
		Stringer("edge", key).
		Float64("bandwidth", gs.Edges[key].Bandwidth).
		Float64("threshold", targetNode.BandwidthThreshold).
		Msg("stream opened")
	return true
}

// InitiateCapture opens a stream on target from the lowest-id adjacent node
// player owns that can still carry a new stream.
func (ex *Executor) InitiateCapture(gs *State, target NodeID, player PlayerID) bool {
	if !ex.CanCaptureNode(gs, target, player) {
		return false
	}
	best := NodeID(-1)
	for _, adj := range gs.Nodes[target].Connections {
		if !ex.IsCapturableConnection(gs, adj, target, player) {
			continue
		}
		if best < 0 || adj < best {
			best = adj
		}
	}
	if best < 0 {
		return false
	}
	return ex.InitiateCaptureViaEdge(gs, best, target, player)
}

// LaunchAttack ends the contest once player surrounds the opponent's base.
func (ex *Executor) LaunchAttack(gs *State, player PlayerID) bool {
	if !ex.CanAttackEnemyBase(gs, player) {
		return false
	}
	enemy := gs.Opponent(player)
	base := gs.Nodes[enemy.BaseNodeID]

	enemy.IsAlive = false
	base.State = UnderAttack
	base.CaptureProgress = 0

	ex.logger.Info().Msgf("player %d launched the final attack on player %d's base %d", player, enemy.ID, base.ID)
	ex.logger.Info().Msgf("player %d has been defeated", enemy.ID)
	return true
}
