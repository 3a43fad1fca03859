package game

type NodeID int

type PlayerID int

const (
	NoOwner     PlayerID = -1 // Unowned node, or no winner yet
	HumanPlayer PlayerID = 0  // Fog of war applies to this seat only
	BotPlayer   PlayerID = 1
)

const (
	MAX_BANDWIDTH = 10.0 // Gbps, per edge

	MIN_STREAM_BANDWIDTH = 3.0 // Gbps, initial draw for a new stream
	MAX_STREAM_BANDWIDTH = 8.0

	MIN_THRESHOLD = 2.0 // Gbps, capture threshold drawn at generation
	MAX_THRESHOLD = 10.0

	FLUCTUATION      = 0.4 // Total width of the per-tick multiplicative swing (+-20%)
	PACKETS_PER_GBPS = 10
	MAX_LOSS_RATE    = 0.05

	BASE_CAPTURE_SPEED  = 0.01
	SURPLUS_SPEED_BONUS = 0.02
	NEUTRAL_DECAY       = 0.005

	BASE_DESTRUCTION_CHANCE = 0.3
	REFLECTION_WEIGHT       = 0.4

	SIEGE_LOG_INTERVAL = 20 // Ticks between insufficient-bandwidth notices
)

// Observer receives simulation events as they happen. It is the hook metrics
// collectors attach to; the simulator never depends on what an observer does.
type Observer interface {
	CaptureCompleted(node NodeID, by PlayerID, hostile bool)
	CaptureFailed(node NodeID, owner PlayerID)
	NodeDestroyed(node NodeID, owner PlayerID)
	TickCompleted(gs *State)
}

type nopObserver struct{}

func (nopObserver) CaptureCompleted(NodeID, PlayerID, bool) {}
func (nopObserver) CaptureFailed(NodeID, PlayerID)          {}
func (nopObserver) NodeDestroyed(NodeID, PlayerID)          {}
func (nopObserver) TickCompleted(*State)                    {}
