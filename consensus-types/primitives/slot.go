package primitives

import (
	"fmt"
	"math"
)

// Slot represents a single slot.
type Slot uint64

var _ fmt.Stringer = Slot(0)

// Add increases slot by x.
func (s Slot) Add(x uint64) Slot {
	return s + Slot(x)
}

// Sub subtracts x from the slot, clamping at zero.
func (s Slot) Sub(x uint64) Slot {
	if uint64(s) < x {
		return 0
	}
	return s - Slot(x)
}

// Mul multiplies slot by x.
func (s Slot) Mul(x uint64) Slot {
	return s * Slot(x)
}

// Div divides slot by x.
func (s Slot) Div(x uint64) Slot {
	if x == 0 {
		panic("divbyzero")
	}
	return s / Slot(x)
}

// Mod returns the remainder of slot divided by x.
func (s Slot) Mod(x uint64) Slot {
	if x == 0 {
		panic("divbyzero")
	}
	return s % Slot(x)
}

// SafeAdd increases slot by x, returning an error on overflow.
func (s Slot) SafeAdd(x uint64) (Slot, error) {
	if uint64(s) > math.MaxUint64-x {
		return 0, ErrOverflow
	}
	return s + Slot(x), nil
}

// String implements fmt.Stringer.
func (s Slot) String() string {
	return fmt.Sprintf("%d", uint64(s))
}
