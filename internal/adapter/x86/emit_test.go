package x86

import (
	"strings"
	"testing"

	"github.com/xyproto/simddiff/internal/graph"
	"github.com/xyproto/simddiff/internal/rng"
)

// buildAddSubGraph builds: sink(i32x4) = Produced(_mm_add_epi32, [Entry, Entry]).
func buildAddSubGraph() *graph.Graph[Type] {
	g := graph.New[Type]()
	retType := Vector(Width128, RegInt, ElemInt32)
	g.Nodes = append(g.Nodes,
		graph.Node[Type]{Kind: graph.KindPending, Type: retType},
		graph.Node[Type]{Kind: graph.KindPending, Type: retType},
		graph.Node[Type]{Kind: graph.KindPending, Type: retType},
	)
	g.MarkEntry(1)
	g.MarkEntry(2)
	g.MarkProduced(0, retType, "_mm_add_epi32", []int{1, 2})
	return g
}

func TestEmitProducesFixedSignature(t *testing.T) {
	g := buildAddSubGraph()
	src, meta := Emit(g)

	if !strings.Contains(src, "void fuzz_target(const int32_t* i_vals, const float* f_vals, const double* d_vals, void* out)") {
		t.Fatalf("expected fixed function signature, got:\n%s", src)
	}
	if !strings.Contains(src, "_mm_add_epi32(var_1, var_2)") {
		t.Fatalf("expected intrinsic call over declared operands, got:\n%s", src)
	}
	if meta.NumI != 8 {
		t.Fatalf("expected two 128-bit entries to consume 8 int slots, got %d", meta.NumI)
	}
	if meta.Ret.CName() != "__m128i" {
		t.Fatalf("expected __m128i return type, got %s", meta.Ret.CName())
	}
}

func TestEmitSkipsNoOpAndConstantImmediate(t *testing.T) {
	g := buildAddSubGraph()
	g.Nodes = append(g.Nodes, graph.Node[Type]{Kind: graph.KindNoOp, Type: Vector(Width128, RegInt, ElemInt32)})
	g.Nodes = append(g.Nodes, graph.Node[Type]{Kind: graph.KindConstantImmediate, Type: ConstImm(5), ConstVal: 3})

	src, _ := Emit(g)
	if strings.Contains(src, "var_3") || strings.Contains(src, "var_4") {
		t.Fatalf("expected NoOp/ConstantImmediate nodes to emit nothing, got:\n%s", src)
	}
}

func TestEmitInlinesConstantImmediateAtCallSite(t *testing.T) {
	g := graph.New[Type]()
	retType := Vector(Width128, RegInt, ElemInt32)
	shiftType := ConstImm(5)
	g.Nodes = append(g.Nodes,
		graph.Node[Type]{Kind: graph.KindPending, Type: retType},
		graph.Node[Type]{Kind: graph.KindPending, Type: retType},
		graph.Node[Type]{Kind: graph.KindConstantImmediate, Type: shiftType, ConstVal: 3},
	)
	g.MarkEntry(1)
	g.MarkProduced(0, retType, "_mm_slli_epi32", []int{1, 2})

	src, _ := Emit(g)
	if !strings.Contains(src, "_mm_slli_epi32(var_1, 3)") {
		t.Fatalf("expected constant immediate inlined as a literal, got:\n%s", src)
	}
}

func TestRandomInputMatchesMetaCounts(t *testing.T) {
	g := buildAddSubGraph()
	_, meta := Emit(g)

	in := RandomInput(rng.New(1), meta)
	if len(in.IVals) != meta.NumI || len(in.FVals) != meta.NumF || len(in.DVals) != meta.NumD {
		t.Fatalf("expected input slot counts to match meta, got %d/%d/%d want %d/%d/%d",
			len(in.IVals), len(in.FVals), len(in.DVals), meta.NumI, meta.NumF, meta.NumD)
	}
	if !strings.Contains(in.Serialize(), "\n") {
		t.Fatalf("expected newline-delimited serialization")
	}
}
