// Package scalarloop is the scalar-loop-body fuzzing flavor (spec.md
// §4.1, "scalar loop bodies"): instead of internal/graph's reference-DAG
// model, it generates a flat sequence of fixed-width integer register
// operations executed inside an auto-vectorizable loop, exercising a
// compiler's loop-vectorization codegen rather than its intrinsic
// lowering. Grounded directly on
// original_source/src/loop_codegen_fuzzing.rs's LoopCodegenCtx/
// LoopCodegenNode, translated node-for-node from its Rust enum/struct
// pair into Go.
package scalarloop

import "github.com/xyproto/simddiff/internal/rng"

// Op is one of the loop body's arithmetic/logic/shift operators.
type Op int

const (
	OpNoOp Op = iota // minimization tombstone
	OpAdd
	OpSub
	OpMul
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight
)

func (o Op) symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpShiftLeft:
		return "<<"
	case OpShiftRight:
		return ">>"
	default:
		return "+"
	}
}

func (o Op) isShift() bool { return o == OpShiftLeft || o == OpShiftRight }

// Value is either a register reference or an inlined constant.
type Value struct {
	IsConst  bool
	Register int
	Const    uint32
}

// Node is one "r<dest> = <src1> <op> <src2>;" statement.
type Node struct {
	Op   Op
	Dest int
	Src1 Value
	Src2 Value
}

// NumRegisters is the fixed register-file width the prototype uses.
const NumRegisters = 4

const (
	immediateChanceNum   = 1
	immediateChanceDenom = 4
)

// Ctx is the generated loop body: an ordered node sequence executed
// once per NumRegisters-wide loop stride.
type Ctx struct {
	Nodes []Node
}

// Generate builds a new Ctx with 50-149 nodes, matching
// LoopCodegenCtx::new's `rng.rand() % 100 + 50`.
func Generate(r *rng.Rand) *Ctx {
	numNodes := 50 + r.Intn(100)
	nodes := make([]Node, numNodes)
	for i := range nodes {
		nodes[i] = randomNode(r)
	}
	return &Ctx{Nodes: nodes}
}

func randomRegister(r *rng.Rand) Value { return Value{Register: r.Intn(NumRegisters)} }

func randomValue(r *rng.Rand) Value {
	if r.Intn(immediateChanceDenom) < immediateChanceNum {
		return Value{IsConst: true, Const: r.Uint32()}
	}
	return randomRegister(r)
}

func randomNode(r *rng.Rand) Node {
	opDecider := r.Intn(8)
	ops := []Op{OpAdd, OpAdd, OpMul, OpBitAnd, OpBitOr, OpBitXor, OpShiftLeft, OpShiftRight}
	return Node{
		Op:   ops[opDecider],
		Dest: r.Intn(NumRegisters),
		Src1: randomRegister(r),
		Src2: randomValue(r),
	}
}

// Clone deep-copies ctx for the minimizer.
func (c *Ctx) Clone() *Ctx {
	nodes := make([]Node, len(c.Nodes))
	copy(nodes, c.Nodes)
	return &Ctx{Nodes: nodes}
}
