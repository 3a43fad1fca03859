package agent

import (
	"math"

	"packetroyale/game"
)

const (
	EASE_WEIGHT          = 10.0
	IN_PROGRESS_BONUS    = 50.0
	EXPANSION_WEIGHT     = 5.0
	AGGRESSION_WEIGHT    = 40.0
	PROXIMITY_CEILING    = 30.0
	PROXIMITY_SCALE      = 100.0
	REINFORCEMENT_BONUS  = 70.0
	OVEREXTENSION_CHARGE = 20.0
)

// Score rates how worthwhile opening the stream key would be. Higher is better.
// Factors are independent and summed over the target node.
func (b *Bot) Score(gs *game.State, key game.EdgeKey) float64 {
	target, ok := gs.Node(key.Target)
	if !ok {
		return 0
	}
	threshold := target.BandwidthThreshold
	score := 0.0

	// Easier targets first (0-80)
	score += (game.MAX_THRESHOLD - threshold) * EASE_WEIGHT

	// Finish what is already started
	if target.State == game.Capturing && !target.IsOwnedBy(b.player) {
		score += IN_PROGRESS_BONUS
	}

	// Well-connected nodes open more of the map
	score += float64(len(target.Connections)) * EXPANSION_WEIGHT

	if target.Owner != game.NoOwner && !target.IsOwnedBy(b.player) {
		score += b.config.Aggressiveness * AGGRESSION_WEIGHT
	}

	if enemy := gs.Opponent(b.player); enemy != nil {
		if base, ok := gs.Node(enemy.BaseNodeID); ok {
			distance := target.Position.DistanceTo(base.Position)
			score += math.Max(0, PROXIMITY_CEILING-distance/PROXIMITY_SCALE)
		}
	}

	// An under-resourced siege needs support
	if target.State == game.Capturing && target.CurrentLoad > 0 && target.CurrentLoad < threshold {
		score += REINFORCEMENT_BONUS
	}

	// Own streams still far short of the threshold
	ownLoad := gs.InflowFrom(target.ID, b.player)
	if ownLoad > 0 && ownLoad < threshold*0.5 {
		score -= OVEREXTENSION_CHARGE
	}

	return score
}
