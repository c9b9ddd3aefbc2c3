package dialog

import (
	"math/rand/v2"
	"strconv"
)

// Rand is the randomness source for reply selection and reservation codes.
// Tests inject a deterministic implementation.
type Rand interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}

// globalRand draws from the process-wide math/rand/v2 source, which is safe
// for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// reservationCode returns "HTL" followed by a number in 1000..9999.
func reservationCode(r Rand) string {
	return "HTL" + strconv.Itoa(1000+r.IntN(9000))
}
