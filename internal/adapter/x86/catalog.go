package x86

import "github.com/xyproto/simddiff/internal/graph"

// catalog is a small, hand-seeded stand-in for the XML intrinsic spec
// spec.md §6 places out of core scope: enough <immintrin.h> surface
// (128/256-bit integer arithmetic/logic/min/max, 128-bit shifts by a
// constant, broadcast-from-scalar) to drive generation, emission, and the seed test
// suite without needing the full AVX/AVX2/AVX-512 catalog parser.
func catalog() map[Type][]graph.Intrinsic[Type] {
	i32x4 := Vector(Width128, RegInt, ElemInt32)
	i32x8 := Vector(Width256, RegInt, ElemInt32)
	i8x16 := Vector(Width128, RegInt, ElemInt8)
	i8x32 := Vector(Width256, RegInt, ElemInt8)
	scalarI32 := Scalar(ElemInt32)
	shiftImm := ConstImm(5)

	byType := map[Type][]graph.Intrinsic[Type]{
		i32x4: {
			{Name: "_mm_add_epi32", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_sub_epi32", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_mullo_epi32", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_and_si128", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_or_si128", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_xor_si128", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_min_epi32", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_max_epi32", ReturnType: i32x4, ParamTypes: []Type{i32x4, i32x4}},
			{Name: "_mm_slli_epi32", ReturnType: i32x4, ParamTypes: []Type{i32x4, shiftImm}},
			{Name: "_mm_srli_epi32", ReturnType: i32x4, ParamTypes: []Type{i32x4, shiftImm}},
			{Name: "_mm_set1_epi32", ReturnType: i32x4, ParamTypes: []Type{scalarI32}},
		},
		i32x8: {
			{Name: "_mm256_add_epi32", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_sub_epi32", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_mullo_epi32", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_and_si256", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_or_si256", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_xor_si256", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_min_epi32", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_max_epi32", ReturnType: i32x8, ParamTypes: []Type{i32x8, i32x8}},
			{Name: "_mm256_set1_epi32", ReturnType: i32x8, ParamTypes: []Type{scalarI32}},
		},
		i8x16: {
			{Name: "_mm_add_epi8", ReturnType: i8x16, ParamTypes: []Type{i8x16, i8x16}},
			{Name: "_mm_adds_epi8", ReturnType: i8x16, ParamTypes: []Type{i8x16, i8x16}},
			{Name: "_mm_sub_epi8", ReturnType: i8x16, ParamTypes: []Type{i8x16, i8x16}},
			{Name: "_mm_min_epi8", ReturnType: i8x16, ParamTypes: []Type{i8x16, i8x16}},
			{Name: "_mm_max_epi8", ReturnType: i8x16, ParamTypes: []Type{i8x16, i8x16}},
		},
		i8x32: {
			{Name: "_mm256_add_epi8", ReturnType: i8x32, ParamTypes: []Type{i8x32, i8x32}},
			{Name: "_mm256_sub_epi8", ReturnType: i8x32, ParamTypes: []Type{i8x32, i8x32}},
			{Name: "_mm256_min_epi8", ReturnType: i8x32, ParamTypes: []Type{i8x32, i8x32}},
			{Name: "_mm256_max_epi8", ReturnType: i8x32, ParamTypes: []Type{i8x32, i8x32}},
		},
		scalarI32: {
			{Name: "__x86diff_scalar_add", ReturnType: scalarI32, ParamTypes: []Type{scalarI32, scalarI32}},
		},
	}
	return byType
}

// returnTypeChoices lists the types generation is allowed to pick as a
// program's overall return type: the widest, most intrinsic-rich types,
// so that generated graphs exercise real vector code paths rather than
// degenerating to scalar passthroughs.
func returnTypeChoices() []Type {
	return []Type{
		Vector(Width128, RegInt, ElemInt32),
		Vector(Width256, RegInt, ElemInt32),
		Vector(Width128, RegInt, ElemInt8),
		Vector(Width256, RegInt, ElemInt8),
	}
}
