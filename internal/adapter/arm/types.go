// Package arm is the ARM NEON intrinsic fuzzing flavor (spec.md §4.1,
// "ARM NEON"): a closed SIMD(base, lane_count) type system, emitting
// self-contained C++ using <arm_neon.h>, executed in-process through the
// same arena/loader machinery as the x86 flavor, with AArch64-specific
// relocation handling supplied by internal/loader. Grounded on
// original_source/src/intrinsics.rs's ArmBaseType/ArmSIMDType and
// x86_codegen_ctx.rs's generation context (the ARM generation context in
// the prototype mirrors the x86 one closely enough to share structure).
package arm

import "fmt"

// BaseType is a NEON lane's element type.
type BaseType int

const (
	BaseInt8 BaseType = iota
	BaseUInt8
	BaseInt16
	BaseUInt16
	BaseInt32
	BaseUInt32
	BaseInt64
	BaseUInt64
	BaseFloat32
	BaseFloat64
	BaseFloat16
	BasePoly8
	BasePoly16
)

// Type is SIMD(base, lane_count) per spec.md §3: a vector register holding
// lane_count lanes of base, or lane_count==1 for a plain scalar. ArrayLen
// models SIMDArr — NEON's register-list intrinsics (vld2/vld3/vld4-style
// multi-register results) — with ArrayLen==0 meaning "not an array type".
type Type struct {
	Base      BaseType
	LaneCount int
	ArrayLen  int
}

// Scalar builds a single-lane (non-vector) primitive type.
func Scalar(base BaseType) Type { return Type{Base: base, LaneCount: 1} }

// Vector builds an N-lane NEON vector type.
func Vector(base BaseType, laneCount int) Type { return Type{Base: base, LaneCount: laneCount} }

// VectorArray builds a NEON register-list type (vld2/vld3/vld4 results).
func VectorArray(base BaseType, laneCount, arrayLen int) Type {
	return Type{Base: base, LaneCount: laneCount, ArrayLen: arrayLen}
}

// Ops implements graph.TypeOps[Type].
type Ops struct{}

// Underlying is the identity map: the ARM flavor's comparable struct has
// no mask-carrying variant to collapse, so every type is already its own
// reuse key.
func (Ops) Underlying(t Type) Type { return t }

// ConstantBounds reports no constant-immediate types for the ARM flavor:
// NEON's shift/lane-index immediates are small enough that the catalog
// models them as ordinary scalar parameters with a narrowed random range
// rather than as a distinct compile-time-constant node kind.
func (Ops) ConstantBounds(t Type) (int64, int64, bool) { return 0, 0, false }

// IsPrimitive reports whether t is a plain (single-lane, non-array) scalar,
// the case spec.md §4.2 says an unproducible Pending hole should fill with
// an Immediate rather than an Entry.
func (Ops) IsPrimitive(t Type) bool {
	return t.LaneCount <= 1 && t.ArrayLen == 0
}

// CName returns the arm_neon.h spelling of t.
func (t Type) CName() string {
	if t.LaneCount <= 1 {
		return scalarCName(t.Base)
	}
	name := neonVectorName(t.Base, t.LaneCount)
	if t.ArrayLen > 0 {
		return fmt.Sprintf("%sx%d_t", name[:len(name)-2], t.ArrayLen)
	}
	return name
}

func scalarCName(b BaseType) string {
	switch b {
	case BaseInt8:
		return "int8_t"
	case BaseUInt8:
		return "uint8_t"
	case BaseInt16:
		return "int16_t"
	case BaseUInt16:
		return "uint16_t"
	case BaseInt32:
		return "int32_t"
	case BaseUInt32:
		return "uint32_t"
	case BaseInt64:
		return "int64_t"
	case BaseUInt64:
		return "uint64_t"
	case BaseFloat32:
		return "float32_t"
	case BaseFloat64:
		return "float64_t"
	case BaseFloat16:
		return "float16_t"
	case BasePoly8:
		return "poly8_t"
	case BasePoly16:
		return "poly16_t"
	default:
		return "int32_t"
	}
}

func baseLetter(b BaseType) string {
	switch b {
	case BaseInt8, BaseInt16, BaseInt32, BaseInt64:
		return "s"
	case BaseUInt8, BaseUInt16, BaseUInt32, BaseUInt64:
		return "u"
	case BaseFloat16:
		return "f16"
	case BaseFloat32:
		return "f32"
	case BaseFloat64:
		return "f64"
	case BasePoly8, BasePoly16:
		return "p"
	default:
		return "s"
	}
}

func baseBits(b BaseType) int {
	switch b {
	case BaseInt8, BaseUInt8, BasePoly8:
		return 8
	case BaseInt16, BaseUInt16, BaseFloat16, BasePoly16:
		return 16
	case BaseInt32, BaseUInt32, BaseFloat32:
		return 32
	case BaseInt64, BaseUInt64, BaseFloat64:
		return 64
	default:
		return 32
	}
}

// neonVectorName builds the <arm_neon.h> spelling, e.g. int32x4_t,
// uint8x16_t, float32x2_t: <letter><bits>x<lanes>_t, where letter is s/u/f/p.
func neonVectorName(b BaseType, laneCount int) string {
	letter := baseLetter(b)
	bits := baseBits(b)
	if letter == "f16" {
		return fmt.Sprintf("float16x%d_t", laneCount)
	}
	prefix := map[string]string{"s": "int", "u": "uint", "f32": "float32", "f64": "float64", "p": "poly"}[letter]
	if prefix == "" {
		prefix = "int"
	}
	if letter == "f32" || letter == "f64" {
		return fmt.Sprintf("%sx%d_t", prefix, laneCount)
	}
	return fmt.Sprintf("%s%dx%d_t", prefix, bits, laneCount)
}

// ByteWidth is the total size in bytes of a value of t.
func (t Type) ByteWidth() int {
	perReg := (baseBits(t.Base) / 8) * t.LaneCount
	if t.ArrayLen > 0 {
		return perReg * t.ArrayLen
	}
	return perReg
}
