// Package hash includes all hashing functions used by the beacon chain,
// backed by the SHA-2 assembly implementations in sha256-simd.
package hash

import (
	"github.com/minio/sha256-simd"
)

// Hash defines a function that returns the sha256 checksum of the data
// passed in.
//
// Spec pseudocode definition:
//
//	def hash(data: bytes) -> Bytes32
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}
