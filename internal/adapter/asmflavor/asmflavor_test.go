package asmflavor

import (
	"strings"
	"testing"

	"github.com/xyproto/simddiff/internal/rng"
)

func TestGenerateProducesBoundedStmtCount(t *testing.T) {
	ctx := Generate(rng.New(9))
	if len(ctx.Stmts) < 8 || len(ctx.Stmts) > 23 {
		t.Fatalf("expected 8-23 statements, got %d", len(ctx.Stmts))
	}
}

func TestEmitProducesBalancedConstraints(t *testing.T) {
	ctx := &Ctx{Stmts: []Stmt{
		{Op: OpMov, Values: []Value{{Kind: ValCVar, Var: 0}, {Kind: ValCVar, Var: 1}}},
		{Op: OpXor, Values: []Value{{Kind: ValCVar, Var: 0}, {Kind: ValReg, Reg: RegRAX}}},
	}}
	src, _ := Emit(ctx)
	if !strings.Contains(src, "run_asm_block") {
		t.Fatalf("expected fixed entry point, got:\n%s", src)
	}
	if !strings.Contains(src, `[c_0] "+r"(c_0)`) {
		t.Fatalf("expected read-write constraint for c_0, got:\n%s", src)
	}
	if strings.Count(src, "[c_0]") < 2 {
		t.Fatalf("expected c_0 referenced in both asm text and constraints, got:\n%s", src)
	}
}

func TestEmitLeaStatement(t *testing.T) {
	ctx := &Ctx{Stmts: []Stmt{
		{Op: OpLea, Values: []Value{
			{Kind: ValCVar, Var: 0},
			{Kind: ValCVar, Var: 1},
			{Kind: ValCVar, Var: 2},
		}},
	}}
	src, _ := Emit(ctx)
	if !strings.Contains(src, "lea %[c_0], [%[c_1] + %[c_2]]") {
		t.Fatalf("expected lea statement with bracketed operands, got:\n%s", src)
	}
}

func TestMinimizeTruncatesTail(t *testing.T) {
	ctx := Generate(rng.New(4))
	original := len(ctx.Stmts)
	result := Minimize(ctx, func(c *Ctx) bool { return len(c.Stmts) >= original/2 })
	if len(result.Stmts) >= original {
		t.Fatalf("expected Minimize to shrink the statement list")
	}
}
