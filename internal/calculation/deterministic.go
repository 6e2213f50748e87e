package calculation

import (
	"math/rand"
	"time"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// seedFunc returns a pseudo-random seed when a plan does not pin one.
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

// trialRand gives every Monte Carlo trial its own source so results do not
// depend on goroutine scheduling.
func trialRand(seed int64, trial int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(trial)*1_000_003))
}
