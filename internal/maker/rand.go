package maker

import "math/rand/v2"

// SystemRand implements domain.Rand with the process-wide math/rand/v2
// generator.
type SystemRand struct{}

// Float64 returns a uniform value in [0, 1).
func (SystemRand) Float64() float64 {
	return rand.Float64()
}
