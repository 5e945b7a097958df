package primitives

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrOverflow is returned by the checked arithmetic helpers.
var ErrOverflow = errors.New("arithmetic overflow")

// Epoch represents a single epoch.
type Epoch uint64

var _ fmt.Stringer = Epoch(0)

// Add increases epoch by x.
func (e Epoch) Add(x uint64) Epoch {
	return e + Epoch(x)
}

// Sub subtracts x from the epoch, clamping at zero.
func (e Epoch) Sub(x uint64) Epoch {
	if uint64(e) < x {
		return 0
	}
	return e - Epoch(x)
}

// Mul multiplies epoch by x.
func (e Epoch) Mul(x uint64) Epoch {
	return e * Epoch(x)
}

// Div divides epoch by x.
func (e Epoch) Div(x uint64) Epoch {
	if x == 0 {
		panic("divbyzero")
	}
	return e / Epoch(x)
}

// SafeAdd increases epoch by x, returning an error on overflow.
func (e Epoch) SafeAdd(x uint64) (Epoch, error) {
	if uint64(e) > math.MaxUint64-x {
		return 0, ErrOverflow
	}
	return e + Epoch(x), nil
}

// MaxEpoch returns the larger of the two epochs.
func MaxEpoch(a, b Epoch) Epoch {
	if a > b {
		return a
	}
	return b
}

// String implements fmt.Stringer.
func (e Epoch) String() string {
	return fmt.Sprintf("%d", uint64(e))
}
