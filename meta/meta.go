// meta/meta.go
package meta

import "time"

// MAX_TICKS caps a headless match. At the default cadence this is ~5.5 minutes.
const MAX_TICKS = 20000

// TICK_INTERVAL is the match-clock time one tick represents (60 ticks per second).
const TICK_INTERVAL = time.Second / 60

// DEFAULT_SEED seeds the match generator when none is configured.
const DEFAULT_SEED = 42

// EXPERIMENT_GAMES is the number of games per matchup in an experiment.
const EXPERIMENT_GAMES = 10

// EXPERIMENT_DIR is where experiment records are written.
const EXPERIMENT_DIR = "experiments"
