package scalarloop

import (
	"strings"
	"testing"

	"github.com/xyproto/simddiff/internal/rng"
)

func TestGenerateProducesBoundedNodeCount(t *testing.T) {
	ctx := Generate(rng.New(1))
	if len(ctx.Nodes) < 50 || len(ctx.Nodes) > 149 {
		t.Fatalf("expected 50-149 nodes, got %d", len(ctx.Nodes))
	}
}

func TestEmitIncludesLoopAndRegisters(t *testing.T) {
	ctx := &Ctx{Nodes: []Node{
		{Op: OpAdd, Dest: 0, Src1: Value{Register: 0}, Src2: Value{IsConst: true, Const: 7}},
		{Op: OpShiftLeft, Dest: 1, Src1: Value{Register: 1}, Src2: Value{Register: 2}},
	}}
	src, meta := Emit(ctx)
	if !strings.Contains(src, "do_stuff") {
		t.Fatalf("expected fixed entry point name, got:\n%s", src)
	}
	if !strings.Contains(src, "r0 = r0 + 7U;") {
		t.Fatalf("expected add statement, got:\n%s", src)
	}
	if !strings.Contains(src, "(r2 & 0x0f)") {
		t.Fatalf("expected shift operand masked, got:\n%s", src)
	}
	if meta.LoopInnerStride != NumRegisters {
		t.Fatalf("expected stride %d, got %d", NumRegisters, meta.LoopInnerStride)
	}
}

func TestEmitSkipsNoOpNodes(t *testing.T) {
	ctx := &Ctx{Nodes: []Node{{Op: OpNoOp, Dest: 0}}}
	src, _ := Emit(ctx)
	if strings.Contains(src, "r0 = ") {
		t.Fatalf("expected NoOp node to emit nothing, got:\n%s", src)
	}
}

func TestMinimizeTruncatesTail(t *testing.T) {
	ctx := Generate(rng.New(2))
	original := len(ctx.Nodes)

	result := Minimize(ctx, func(c *Ctx) bool { return len(c.Nodes) >= original/2 })
	if len(result.Nodes) >= original {
		t.Fatalf("expected Minimize to shrink the node list")
	}
	if len(result.Nodes) < original/2 {
		t.Fatalf("expected Minimize to respect the predicate's floor")
	}
}

func TestRandomInputSizeRange(t *testing.T) {
	in := RandomInput(rng.New(5))
	if len(in.Vals) < 32 || len(in.Vals) > 47 {
		t.Fatalf("expected 32-47 values, got %d", len(in.Vals))
	}
	if !strings.HasPrefix(in.Serialize(), "") {
		t.Fatalf("expected serialized input")
	}
}
