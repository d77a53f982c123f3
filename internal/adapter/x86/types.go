// Package x86 is the x86 SIMD intrinsic fuzzing flavor (spec.md §4.1,
// "x86 SIMD"): it instantiates internal/graph over a closed x86 vector/
// scalar type system, emits self-contained C++ using <immintrin.h>, and
// calls the compiled function with four pointer arguments, reading the
// 128/256-bit result back through an out pointer.
// Grounded on original_source/src/intrinsics.rs's X86SIMDType/X86BaseType
// and src/x86_codegen_ctx.rs's generation context, translated from tagged
// Rust enums into a single comparable Go struct (graph.Graph[T] requires
// T to satisfy `comparable`, which rules out the slice-bearing variants
// the Rust enum could hold — we drop ConstantImmediate's payload onto
// graph.Node.ConstMin/Max instead, matching what TypeOps.ConstantBounds
// already models generically).
package x86

// ElemKind is a SIMD lane's element type, or Void for plain scalars.
type ElemKind int

const (
	ElemVoid ElemKind = iota
	ElemInt8
	ElemUInt8
	ElemInt16
	ElemUInt16
	ElemInt32
	ElemUInt32
	ElemInt64
	ElemUInt64
	ElemFloat32
	ElemFloat64
)

// VectorWidth is the SIMD register width in bits, or 0 for a scalar.
type VectorWidth int

const (
	WidthScalar VectorWidth = 0
	Width64     VectorWidth = 64
	Width128    VectorWidth = 128
	Width256    VectorWidth = 256
)

// RegisterKind distinguishes the three __m128-family C++ types a given
// width can surface as (packed int, packed float/double), matching the
// prototype's M128/M128d/M128i split.
type RegisterKind int

const (
	RegInt RegisterKind = iota
	RegFloat
	RegDouble
)

// Type is the flavor's closed, comparable type: either a scalar
// primitive, a constant-bounded compile-time immediate, or a SIMD vector
// register of some width/kind carrying one element type.
type Type struct {
	Width      VectorWidth
	Reg        RegisterKind
	Elem       ElemKind
	IsConstImm bool
	ImmBits    int
}

// Scalar builds a plain (non-vector) primitive type.
func Scalar(elem ElemKind) Type { return Type{Width: WidthScalar, Elem: elem} }

// Vector builds a SIMD vector type of the given width/kind/lane element.
func Vector(width VectorWidth, reg RegisterKind, elem ElemKind) Type {
	return Type{Width: width, Reg: reg, Elem: elem}
}

// ConstImm builds a compile-time-bounded integer immediate type, the kind
// used for shift counts, rounding-mode selectors, and other intrinsic
// arguments gcc/clang require as literals rather than ordinary operands.
func ConstImm(bits int) Type { return Type{IsConstImm: true, ImmBits: bits} }

// Ops implements graph.TypeOps[Type].
type Ops struct{}

// Underlying is the identity map: Type has no mask-carrying variant, so
// every type is already its own reuse key.
func (Ops) Underlying(t Type) Type {
	return t
}

// ConstantBounds reports the [0, 2^bits) range for constant-immediate
// types (the prototype uses `rng.rand() % (1 << imm_size)`); all other
// types are not constants.
func (Ops) ConstantBounds(t Type) (int64, int64, bool) {
	if !t.IsConstImm {
		return 0, 0, false
	}
	return 0, int64(1)<<uint(t.ImmBits) - 1, true
}

// IsPrimitive reports whether t is a plain scalar (not a SIMD vector
// register), the case spec.md §4.2 says an unproducible Pending hole
// should fill with an Immediate rather than an Entry.
func (Ops) IsPrimitive(t Type) bool {
	return t.Width == WidthScalar && !t.IsConstImm
}

// CName returns the C++ spelling of t, used by the emitter for variable
// declarations and cast expressions.
func (t Type) CName() string {
	if t.IsConstImm {
		return "int"
	}
	if t.Width == WidthScalar {
		return scalarCName(t.Elem)
	}
	switch t.Width {
	case Width64:
		return "__m64"
	case Width128:
		switch t.Reg {
		case RegFloat:
			return "__m128"
		case RegDouble:
			return "__m128d"
		default:
			return "__m128i"
		}
	case Width256:
		switch t.Reg {
		case RegFloat:
			return "__m256"
		case RegDouble:
			return "__m256d"
		default:
			return "__m256i"
		}
	}
	return "__m128i"
}

func scalarCName(e ElemKind) string {
	switch e {
	case ElemInt8:
		return "int8_t"
	case ElemUInt8:
		return "uint8_t"
	case ElemInt16:
		return "int16_t"
	case ElemUInt16:
		return "uint16_t"
	case ElemInt32:
		return "int32_t"
	case ElemUInt32:
		return "uint32_t"
	case ElemInt64:
		return "int64_t"
	case ElemUInt64:
		return "uint64_t"
	case ElemFloat32:
		return "float"
	case ElemFloat64:
		return "double"
	default:
		return "int32_t"
	}
}

// ByteWidth is the number of bytes a value of t occupies when captured
// from a register return, used to size the output comparison.
func (t Type) ByteWidth() int {
	if t.Width != WidthScalar {
		return int(t.Width) / 8
	}
	switch t.Elem {
	case ElemInt8, ElemUInt8:
		return 1
	case ElemInt16, ElemUInt16:
		return 2
	case ElemInt64, ElemUInt64, ElemFloat64:
		return 8
	default:
		return 4
	}
}
