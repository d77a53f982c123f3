package asmflavor

import (
	"fmt"
	"strings"
)

// Meta satisfies adapter.Meta; the asm flavor, like scalarloop, reads its
// whole input through one buffer rather than three typed ones.
type Meta struct{}

func (Meta) NumIVals() int { return 0 }
func (Meta) NumFVals() int { return 0 }
func (Meta) NumDVals() int { return 0 }

// FuncName is the fixed exported entry point.
const FuncName = "run_asm_block"

// Emit renders ctx as a self-contained C++ function declaring NumVars
// uint64_t C variables seeded from the inputs buffer, one GCC extended
// inline-asm block built from the statement sequence, and the variables
// written back to outputs.
func Emit(ctx *Ctx) (string, Meta) {
	var b strings.Builder
	b.WriteString("#include <cstdint>\n\n")
	fmt.Fprintf(&b, "extern \"C\" void %s(const uint64_t* __restrict inputs, uint64_t* __restrict outputs) {\n", FuncName)

	for i := 0; i < NumVars; i++ {
		fmt.Fprintf(&b, "\tuint64_t c_%d = inputs[%d];\n", i, i)
	}

	writeAsmBlock(&b, ctx)

	for i := 0; i < NumVars; i++ {
		fmt.Fprintf(&b, "\toutputs[%d] = c_%d;\n", i, i)
	}
	b.WriteString("}\n")

	return b.String(), Meta{}
}

func writeAsmBlock(b *strings.Builder, ctx *Ctx) {
	b.WriteString("\tasm(")
	for _, s := range ctx.Stmts {
		b.WriteString("\n\t\t\"")
		writeStmt(b, s)
		b.WriteString("\\n\\t\"")
	}
	b.WriteString("\n\t\t:")
	writeOperandConstraints(b, ctx)
	b.WriteString("\n\t);\n")
}

func writeStmt(b *strings.Builder, s Stmt) {
	if s.Op == OpLea {
		b.WriteString("lea ")
		writeValue(b, s.Values[0])
		b.WriteString(", [")
		writeValue(b, s.Values[1])
		b.WriteString(" + ")
		writeValue(b, s.Values[2])
		b.WriteString("]")
		return
	}
	b.WriteString(s.Op.String())
	for i, v := range s.Values {
		if i == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		writeValue(b, v)
	}
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case ValCVar:
		fmt.Fprintf(b, "%%[c_%d]", v.Var)
	case ValCVarPtr:
		fmt.Fprintf(b, "%%[p_%d]", v.Var)
	case ValReg:
		b.WriteString(v.Reg.String())
	}
}

// writeOperandConstraints emits a single "+r" (read-write) constraint
// for every distinct C variable referenced anywhere in the block,
// conservative in exchange for not needing the early-clobber liveness
// scan (see package doc comment).
func writeOperandConstraints(b *strings.Builder, ctx *Ctx) {
	seen := make(map[int]bool)
	first := true
	for _, s := range ctx.Stmts {
		for _, v := range s.Values {
			if v.Kind != ValCVar || seen[v.Var] {
				continue
			}
			seen[v.Var] = true
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(b, "[c_%d] \"+r\"(c_%d)", v.Var, v.Var)
		}
	}
}
