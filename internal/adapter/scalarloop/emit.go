package scalarloop

import (
	"fmt"
	"strings"
)

// Meta carries no scalar-slot counts (the loop flavor reads its entire
// randomized input through one int array rather than three typed
// buffers); it exists only to satisfy adapter.Meta.
type Meta struct {
	LoopInnerStride int
}

func (Meta) NumIVals() int { return 0 }
func (Meta) NumFVals() int { return 0 }
func (Meta) NumDVals() int { return 0 }

// FuncName is the fixed exported entry point.
const FuncName = "do_stuff"

// Emit renders ctx as a self-contained C++ translation unit: a
// restrict-qualified loop over `count` elements, NumRegisters registers
// seeded from the input per iteration, the node sequence applied in
// order, and the registers written back to outputs — translated directly
// from LoopCodegenCtx::generate_cpp_code.
func Emit(ctx *Ctx) (string, Meta) {
	var b strings.Builder
	b.WriteString("#include <cstdint>\n\n")
	fmt.Fprintf(&b, "extern \"C\" void %s(const int* __restrict inputs, int* __restrict outputs, int count) {\n", FuncName)
	fmt.Fprintf(&b, "\tfor (int i = 0; i < count - %d; i += %d) {\n", NumRegisters-1, NumRegisters)

	for i := 0; i < NumRegisters; i++ {
		fmt.Fprintf(&b, "\t\tunsigned int r%d = inputs[i + %d];\n", i, i)
	}

	for _, n := range ctx.Nodes {
		writeNode(&b, n)
	}

	for i := 0; i < NumRegisters; i++ {
		fmt.Fprintf(&b, "\t\toutputs[i + %d] = r%d;\n", i, i)
	}

	b.WriteString("\t}\n}\n")
	return b.String(), Meta{LoopInnerStride: NumRegisters}
}

func writeNode(b *strings.Builder, n Node) {
	if n.Op == OpNoOp {
		return
	}
	fmt.Fprintf(b, "\t\tr%d = ", n.Dest)
	writeValue(b, n.Src1, false)
	fmt.Fprintf(b, " %s ", n.Op.symbol())
	writeValue(b, n.Src2, n.Op.isShift())
	b.WriteString(";\n")
}

func writeValue(b *strings.Builder, v Value, maskForShift bool) {
	if maskForShift {
		b.WriteString("(")
	}
	if v.IsConst {
		fmt.Fprintf(b, "%dU", v.Const)
	} else {
		fmt.Fprintf(b, "r%d", v.Register)
	}
	if maskForShift {
		b.WriteString(" & 0x0f)")
	}
}
