package engine

import (
	"math"
	"math/rand"
	"time"
)

// Roller supplies the randomness a battle consumes. *rand.Rand satisfies it,
// so tests seed one for reproducible fights.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

// NewRNG seeds a generator from the clock.
func NewRNG() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }

// Seeded returns a generator that replays the same sequence for the same seed.
func Seeded(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// roll reports whether a percent chance succeeds. A zero or negative chance
// never draws from r.
func roll(r Roller, percent float64) bool {
	if percent <= 0 {
		return false
	}
	return r.Float64()*100 < percent
}

// round is half-up rounding, applied after every damage step.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
