package engine

import (
	"time"

	"packetroyale/game"
)

// Agent is anything that acts on the state between ticks. Think reports
// whether a decision cycle ran.
type Agent interface {
	Think(gs *game.State, now time.Duration) bool
}
