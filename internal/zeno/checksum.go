package zeno

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Checksum is a BLAKE3-256 digest.
type Checksum [32]byte

// Sum computes the checksum of data.
func Sum(data []byte) Checksum {
	return Checksum(blake3.Sum256(data))
}

// String returns the hex form of the checksum.
func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}
