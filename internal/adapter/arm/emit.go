package arm

import (
	"fmt"
	"strings"

	"github.com/xyproto/simddiff/internal/graph"
)

// Meta is the ARM flavor's code-generation metadata (spec.md §4.3);
// resolves spec.md §9's Open Question about the ARM input layout by
// tracking all three scalar-slot counts symmetrically with x86, rather
// than leaving floats/doubles unserialized.
type Meta struct {
	NumI int
	NumF int
	NumD int
	Ret  Type
}

func (m Meta) NumIVals() int { return m.NumI }
func (m Meta) NumFVals() int { return m.NumF }
func (m Meta) NumDVals() int { return m.NumD }

// SerializeMeta renders the three slot counts in the flat text format
// spec.md §4.1 calls serialize_meta, used only for on-disk repro.
func (m Meta) SerializeMeta() string {
	return fmt.Sprintf("num_i_vals=%d\nnum_f_vals=%d\nnum_d_vals=%d\n", m.NumI, m.NumF, m.NumD)
}

// fullBufferRet is the sentinel return type DeserializeMeta assigns: since
// serialize_meta only round-trips the three slot counts (not the full
// return-type tag graph generation recorded), repro-arm cannot recover the
// exact emitted return type from disk. A 32-byte NEON register-list type
// reports the whole capture buffer as valid instead of truncating it,
// which is always safe for a human (or an external diff) comparing two
// repro runs' raw output bytes.
var fullBufferRet = VectorArray(BaseInt64, 2, 2)

// DeserializeMeta parses the num_i_vals/num_f_vals/num_d_vals text format
// SerializeMeta produces. The returned Meta's Ret is not the original
// program's true return type (see fullBufferRet) — only its slot counts
// are meaningful for replaying a captured input.
func DeserializeMeta(text string) (Meta, error) {
	var m Meta
	m.Ret = fullBufferRet
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return Meta{}, fmt.Errorf("arm: malformed meta line %q", line)
		}
		var n int
		if _, err := fmt.Sscanf(parts[1], "%d", &n); err != nil {
			return Meta{}, fmt.Errorf("arm: parse meta value %q: %w", line, err)
		}
		switch parts[0] {
		case "num_i_vals":
			m.NumI = n
		case "num_f_vals":
			m.NumF = n
		case "num_d_vals":
			m.NumD = n
		default:
			return Meta{}, fmt.Errorf("arm: unknown meta field %q", parts[0])
		}
	}
	return m, nil
}

type entryCursor struct {
	iCursor, fCursor, dCursor int
}

// FuncName is the fixed exported entry point every emitted program uses.
const FuncName = "fuzz_target"

// Emit renders g as a self-contained C++ translation unit using
// <arm_neon.h>, with the same reverse-traversal/out-pointer convention as
// the x86 flavor's emitter (internal/adapter/x86/emit.go).
func Emit(g *graph.Graph[Type]) (string, Meta) {
	var body strings.Builder
	cursor := entryCursor{}

	for i := g.NumNodes() - 1; i >= 0; i-- {
		n := g.Nodes[i]
		switch n.Kind {
		case graph.KindNoOp, graph.KindConstantImmediate:
			continue
		case graph.KindEntry:
			emitEntry(&body, i, n.Type, &cursor)
		case graph.KindZero:
			emitZero(&body, i, n.Type)
		case graph.KindImmediate:
			fmt.Fprintf(&body, "\t%s var_%d = (%s)1;\n", n.Type.CName(), i, n.Type.CName())
		case graph.KindProduced:
			emitProduced(&body, g, i, n)
		case graph.KindOptBait:
		}
	}

	sinkIdx := g.ReturnNodeIndex()
	retType := g.Nodes[sinkIdx].Type

	var src strings.Builder
	src.WriteString("#include <arm_neon.h>\n#include <cstdint>\n#include <cstring>\n\n")
	fmt.Fprintf(&src, "extern \"C\" __attribute__((noinline)) void %s(const int32_t* i_vals, const float* f_vals, const double* d_vals, void* out) {\n", FuncName)
	src.WriteString(body.String())
	fmt.Fprintf(&src, "\t%s result = var_%d;\n\tmemcpy(out, &result, sizeof(result));\n}\n", retType.CName(), sinkIdx)

	return src.String(), Meta{NumI: cursor.iCursor, NumF: cursor.fCursor, NumD: cursor.dCursor, Ret: retType}
}

func emitEntry(body *strings.Builder, idx int, t Type, cur *entryCursor) {
	decl := fmt.Sprintf("var_%d", idx)
	if t.LaneCount <= 1 {
		switch t.Base {
		case BaseFloat32:
			fmt.Fprintf(body, "\tfloat32_t %s = f_vals[%d];\n", decl, cur.fCursor)
			cur.fCursor++
		case BaseFloat64:
			fmt.Fprintf(body, "\tfloat64_t %s = d_vals[%d];\n", decl, cur.dCursor)
			cur.dCursor++
		default:
			fmt.Fprintf(body, "\t%s %s = (%s)i_vals[%d];\n", t.CName(), decl, t.CName(), cur.iCursor)
			cur.iCursor++
		}
		return
	}

	lanes := (t.ByteWidth() + 3) / 4
	loadFn := neonLoadFn(t)
	fmt.Fprintf(body, "\t%s %s = %s((const %s*)(i_vals + %d));\n", t.CName(), decl, loadFn, scalarPtrCast(t), cur.iCursor)
	cur.iCursor += lanes
}

func neonLoadFn(t Type) string {
	return "vld1" + loadSuffix(t) + "_" + intrinsicSuffix(t)
}

func loadSuffix(t Type) string {
	if t.ByteWidth() > 8 {
		return "q"
	}
	return ""
}

func intrinsicSuffix(t Type) string {
	return baseLetter(t.Base) + fmt.Sprintf("%d", baseBits(t.Base))
}

func scalarPtrCast(t Type) string { return scalarCName(t.Base) }

func emitZero(body *strings.Builder, idx int, t Type) {
	decl := fmt.Sprintf("var_%d", idx)
	if t.LaneCount <= 1 {
		fmt.Fprintf(body, "\t%s %s = (%s)0;\n", t.CName(), decl, t.CName())
		return
	}
	fmt.Fprintf(body, "\t%s %s = vdupq_n_%s(0);\n", t.CName(), decl, intrinsicSuffix(t))
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
