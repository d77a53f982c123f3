package x86

import (
	"fmt"
	"strings"

	"github.com/xyproto/simddiff/internal/graph"
)

// Meta is the code-generation metadata the emitter produces alongside the
// source: how many scalar int/float/double input slots the harness must
// fill (spec.md §4.3).
type Meta struct {
	NumI int
	NumF int
	NumD int
	Ret  Type
}

func (m Meta) NumIVals() int { return m.NumI }
func (m Meta) NumFVals() int { return m.NumF }
func (m Meta) NumDVals() int { return m.NumD }

// entryCursor tracks, per scalar kind, how many input-buffer elements have
// been consumed; SIMD Entry nodes consume ceil(ByteWidth/4) int slots (we
// always source vector entries from the i_vals buffer, reinterpret-cast
// to the vector type, since the harness only has to agree with itself
// across toolchains, not with any particular ABI).
type entryCursor struct {
	iCursor, fCursor, dCursor int
}

// FuncName is the fixed exported entry point every emitted program uses.
const FuncName = "fuzz_target"

// Emit renders g as a self-contained C++ translation unit with the fixed
// three-const-pointer signature spec.md §4.3 mandates, traversing nodes
// in reverse (sink last, so every reference is already declared above its
// use — the sink is node 0, so index N-1 is declared first).
func Emit(g *graph.Graph[Type]) (string, Meta) {
	var body strings.Builder
	cursor := entryCursor{}
	ops := Ops{}

	for i := g.NumNodes() - 1; i >= 0; i-- {
		n := g.Nodes[i]
		switch n.Kind {
		case graph.KindNoOp, graph.KindConstantImmediate:
			// ConstantImmediate is never declared; inlined at call sites.
			continue
		case graph.KindEntry:
			emitEntry(&body, i, n.Type, &cursor)
		case graph.KindZero:
			emitZero(&body, i, n.Type)
		case graph.KindImmediate:
			emitImmediate(&body, i, n.Type)
		case graph.KindProduced:
			emitProduced(&body, g, i, n)
		case graph.KindOptBait:
			// never reached by the crash/crash+diff loops; nothing to
			// emit (see SPEC_FULL.md §4).
		}
	}

	sinkIdx := g.ReturnNodeIndex()
	retType := g.Nodes[sinkIdx].Type
	_ = ops

	// The return value is written through an output pointer rather than
	// returned in a register: __m128i/__m256i register-return ABI varies
	// by toolchain's calling-convention lowering in ways a raw function
	// pointer call from Go cannot portably decode, while a fixed
	// out-param is identical machine code on every target and lets
	// execution read back a plain byte buffer regardless of return type.
	var src strings.Builder
	src.WriteString("#include <immintrin.h>\n#include <cstdint>\n#include <cstring>\n\n")
	fmt.Fprintf(&src, "extern \"C\" __attribute__((noinline)) void %s(const int32_t* i_vals, const float* f_vals, const double* d_vals, void* out) {\n", FuncName)
	src.WriteString(body.String())
	fmt.Fprintf(&src, "\t%s result = var_%d;\n\tmemcpy(out, &result, sizeof(result));\n}\n", retType.CName(), sinkIdx)

	return src.String(), Meta{NumI: cursor.iCursor, NumF: cursor.fCursor, NumD: cursor.dCursor, Ret: retType}
}

func emitEntry(body *strings.Builder, idx int, t Type, cur *entryCursor) {
	decl := fmt.Sprintf("var_%d", idx)
	if t.Width == WidthScalar {
		switch t.Elem {
		case ElemFloat32:
			fmt.Fprintf(body, "\tfloat %s = f_vals[%d];\n", decl, cur.fCursor)
			cur.fCursor++
		case ElemFloat64:
			fmt.Fprintf(body, "\tdouble %s = d_vals[%d];\n", decl, cur.dCursor)
			cur.dCursor++
		default:
			fmt.Fprintf(body, "\t%s %s = (%s)i_vals[%d];\n", t.CName(), decl, t.CName(), cur.iCursor)
			cur.iCursor++
		}
		return
	}

	// SIMD entry: an unaligned (loadu) load of one vector's worth of bytes
	// from i_vals, reinterpreting the pointer at the current cursor, which
	// is only 4-byte aligned.
	lanes := t.ByteWidth() / 4
	if lanes == 0 {
		lanes = 1
	}
	loadFn := simdLoadFn(t)
	fmt.Fprintf(body, "\t%s %s = %s((const %s*)(i_vals + %d));\n", t.CName(), decl, loadFn, vectorPtrCast(t), cur.iCursor)
	cur.iCursor += lanes
}

func simdLoadFn(t Type) string {
	switch t.Width {
	case Width128:
		return "_mm_loadu_si128"
	case Width256:
		return "_mm256_loadu_si256"
	default:
		return "_mm_loadu_si64"
	}
}

func vectorPtrCast(t Type) string {
	switch t.Width {
	case Width256:
		return "__m256i"
	default:
		return "__m128i"
	}
}

func emitZero(body *strings.Builder, idx int, t Type) {
	decl := fmt.Sprintf("var_%d", idx)
	if t.Width == WidthScalar {
		fmt.Fprintf(body, "\t%s %s = (%s)0;\n", t.CName(), decl, t.CName())
		return
	}
	switch t.Width {
	case Width128:
		fmt.Fprintf(body, "\t__m128i %s = _mm_setzero_si128();\n", decl)
	case Width256:
		fmt.Fprintf(body, "\t__m256i %s = _mm256_setzero_si256();\n", decl)
	default:
		fmt.Fprintf(body, "\t%s %s = {0};\n", t.CName(), decl)
	}
}

func emitImmediate(body *strings.Builder, idx int, t Type) {
	decl := fmt.Sprintf("var_%d", idx)
	fmt.Fprintf(body, "\t%s %s = (%s)1;\n", t.CName(), decl, t.CName())
}

func emitProduced(body *strings.Builder, g *graph.Graph[Type], idx int, n graph.Node[Type]) {
	args := make([]string, len(n.Operands))
	for k, opIdx := range n.Operands {
		op := g.Nodes[opIdx]
		if op.Kind == graph.KindConstantImmediate {
			args[k] = fmt.Sprintf("%d", op.ConstVal)
		} else {
			args[k] = fmt.Sprintf("var_%d", opIdx)
		}
	}
	fmt.Fprintf(body, "\t%s var_%d = %s(%s);\n", n.Type.CName(), idx, n.Op, strings.Join(args, ", "))
}
