package remote

import "math"

// float32Bits/float64Bits return the IEEE-754 raw bit pattern of v. The
// wire layout (spec.md §6) is big-endian for every multi-byte integer but
// little-endian for floats/doubles, so these bits are appended with
// appendF32LE/appendF64LE below rather than the big-endian appendU32/appendU64.
func float32Bits(v float32) uint32 { return math.Float32bits(v) }
func float64Bits(v float64) uint64 { return math.Float64bits(v) }
