// Package bytesutil defines helper methods for converting between byte
// slices and the fixed-size arrays used throughout the beacon chain.
package bytesutil

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
)

// ToBytes32 is a convenience method for converting a byte slice to a fixed
// 32-byte array. This method will truncate the input if it is larger than
// 32 bytes.
func ToBytes32(x []byte) [32]byte {
	var y [32]byte
	copy(y[:], x)
	return y
}

// ToBytes4 is a convenience method for converting a byte slice to a fixed
// 4-byte array. This method will truncate the input if it is larger than
// 4 bytes.
func ToBytes4(x []byte) [4]byte {
	var y [4]byte
	copy(y[:], x)
	return y
}

// Bytes8 returns integer x to bytes in little-endian format, x.to_bytes(8, 'little').
func Bytes8(x uint64) []byte {
	bytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(bytes, x)
	return bytes
}

// FromBytes8 returns an integer from a little-endian 8-byte sequence.
func FromBytes8(x []byte) uint64 {
	if len(x) < 8 {
		padded := make([]byte, 8)
		copy(padded, x)
		x = padded
	}
	return binary.LittleEndian.Uint64(x[:8])
}

// SafeCopyBytes returns a safe copy of the input byte slice.
func SafeCopyBytes(cp []byte) []byte {
	if cp == nil {
		return nil
	}
	copied := make([]byte, len(cp))
	copy(copied, cp)
	return copied
}

// ZeroRoot checks whether the byte slice consists only of zero bytes.
func ZeroRoot(root []byte) bool {
	for _, b := range root {
		if b != 0 {
			return false
		}
	}
	return true
}

// Trunc truncates a byte slice to its first 6 bytes for terse logging of
// roots and digests.
func Trunc(x []byte) []byte {
	if len(x) > 6 {
		return x[:6]
	}
	return x
}

// PadTo pads a byte slice to the given size. If the byte slice is larger
// than the given size, the original slice is returned.
func PadTo(b []byte, size int) []byte {
	if len(b) > size {
		return b
	}
	return append(b, make([]byte, size-len(b))...)
}

// DecodeHexWithLength decodes a hex string and requires the decoded form
// to have exactly the given length.
func DecodeHexWithLength(s string, length int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode hex string %s", s)
	}
	if len(b) != length {
		return nil, errors.Errorf("decoded value is not length of %d: %s", length, s)
	}
	return b, nil
}
