package arm

import "github.com/xyproto/simddiff/internal/graph"

// catalog is a small, hand-seeded stand-in for the JSON NEON intrinsic
// spec spec.md §6 places out of core scope (mirrors internal/adapter/x86's
// catalog.go): enough <arm_neon.h> arithmetic/logic surface across the
// 64-bit and 128-bit lane widths to drive generation and the seed test
// suite.
func catalog() map[Type][]graph.Intrinsic[Type] {
	s32x2 := Vector(BaseInt32, 2)
	s32x4 := Vector(BaseInt32, 4)
	s8x8 := Vector(BaseInt8, 8)
	s8x16 := Vector(BaseInt8, 16)
	f32x4 := Vector(BaseFloat32, 4)
	scalarS32 := Scalar(BaseInt32)

	return map[Type][]graph.Intrinsic[Type]{
		s32x2: {
			{Name: "vadd_s32", ReturnType: s32x2, ParamTypes: []Type{s32x2, s32x2}},
			{Name: "vsub_s32", ReturnType: s32x2, ParamTypes: []Type{s32x2, s32x2}},
			{Name: "vmul_s32", ReturnType: s32x2, ParamTypes: []Type{s32x2, s32x2}},
			{Name: "vand_s32", ReturnType: s32x2, ParamTypes: []Type{s32x2, s32x2}},
			{Name: "vorr_s32", ReturnType: s32x2, ParamTypes: []Type{s32x2, s32x2}},
			{Name: "vmin_s32", ReturnType: s32x2, ParamTypes: []Type{s32x2, s32x2}},
			{Name: "vmax_s32", ReturnType: s32x2, ParamTypes: []Type{s32x2, s32x2}},
			{Name: "vdup_n_s32", ReturnType: s32x2, ParamTypes: []Type{scalarS32}},
		},
		s32x4: {
			{Name: "vaddq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "vsubq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "vmulq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "vandq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "vorrq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "veorq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "vminq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "vmaxq_s32", ReturnType: s32x4, ParamTypes: []Type{s32x4, s32x4}},
			{Name: "vdupq_n_s32", ReturnType: s32x4, ParamTypes: []Type{scalarS32}},
		},
		s8x8: {
			{Name: "vadd_s8", ReturnType: s8x8, ParamTypes: []Type{s8x8, s8x8}},
			{Name: "vqadd_s8", ReturnType: s8x8, ParamTypes: []Type{s8x8, s8x8}},
			{Name: "vsub_s8", ReturnType: s8x8, ParamTypes: []Type{s8x8, s8x8}},
			{Name: "vmin_s8", ReturnType: s8x8, ParamTypes: []Type{s8x8, s8x8}},
			{Name: "vmax_s8", ReturnType: s8x8, ParamTypes: []Type{s8x8, s8x8}},
		},
		s8x16: {
			{Name: "vaddq_s8", ReturnType: s8x16, ParamTypes: []Type{s8x16, s8x16}},
			{Name: "vqaddq_s8", ReturnType: s8x16, ParamTypes: []Type{s8x16, s8x16}},
			{Name: "vsubq_s8", ReturnType: s8x16, ParamTypes: []Type{s8x16, s8x16}},
			{Name: "vminq_s8", ReturnType: s8x16, ParamTypes: []Type{s8x16, s8x16}},
			{Name: "vmaxq_s8", ReturnType: s8x16, ParamTypes: []Type{s8x16, s8x16}},
		},
		f32x4: {
			{Name: "vaddq_f32", ReturnType: f32x4, ParamTypes: []Type{f32x4, f32x4}},
			{Name: "vsubq_f32", ReturnType: f32x4, ParamTypes: []Type{f32x4, f32x4}},
			{Name: "vmulq_f32", ReturnType: f32x4, ParamTypes: []Type{f32x4, f32x4}},
			{Name: "vminq_f32", ReturnType: f32x4, ParamTypes: []Type{f32x4, f32x4}},
			{Name: "vmaxq_f32", ReturnType: f32x4, ParamTypes: []Type{f32x4, f32x4}},
		},
		scalarS32: {
			{Name: "__armdiff_scalar_add", ReturnType: scalarS32, ParamTypes: []Type{scalarS32, scalarS32}},
		},
	}
}

// returnTypeChoices lists the types generation may choose as a program's
// overall return type.
func returnTypeChoices() []Type {
	return []Type{
		Vector(BaseInt32, 4),
		Vector(BaseInt32, 2),
		Vector(BaseInt8, 16),
		Vector(BaseFloat32, 4),
	}
}
