// Package asmflavor is the inline-asm-block fuzzing flavor (spec.md
// §4.1, "inline-asm blocks"): generates GCC extended-asm statement
// sequences over a small set of C variables, exercising a compiler's
// inline-asm operand/constraint lowering rather than its intrinsic or
// autovectorizer codegen. Grounded on
// original_source/src/inline_asm_codegen_fuzzing.rs's
// AsmCodegenNodeAsm/AsmCodegenAsmStmt. The prototype's early-clobber
// constraint analysis (does_output_need_early_clobber) is simplified:
// every C variable operand is always read-write ("+r"), which is always
// correct (if occasionally more conservative than necessary) and avoids
// reproducing the original's statement-order liveness scan.
package asmflavor

import "github.com/xyproto/simddiff/internal/rng"

// Register is one of the eight general-purpose registers the prototype's
// temp-register pool draws from.
type Register int

const (
	RegRAX Register = iota
	RegRBX
	RegRCX
	RegRDX
	RegRSI
	RegRDI
	RegR8
	RegR9
)

func (r Register) String() string {
	return [...]string{"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "r8", "r9"}[r]
}

func randomRegister(r *rng.Rand) Register { return Register(r.Intn(8)) }

// Opcode is one of the small instruction set the generator emits.
type Opcode int

const (
	OpLea Opcode = iota
	OpIMul
	OpMov
	OpXor
)

func (o Opcode) String() string {
	switch o {
	case OpLea:
		return "lea"
	case OpIMul:
		return "imul"
	case OpMov:
		return "mov"
	case OpXor:
		return "xor"
	default:
		return "mov"
	}
}

// ValueKind tags an asm operand: a C variable, a pointer to one, or a
// scratch register.
type ValueKind int

const (
	ValCVar ValueKind = iota
	ValCVarPtr
	ValReg
)

// Value is one operand of an asm statement.
type Value struct {
	Kind ValueKind
	Var  int // ValCVar / ValCVarPtr
	Reg  Register
}

// Stmt is one asm statement: an opcode over 2 or 3 operands (Lea takes
// dest, base, offset; the others take dest plus one source).
type Stmt struct {
	Op     Opcode
	Values []Value
}

// NumVars is the fixed number of C variables the harness exposes to the
// asm block (mirrors the loop flavor's fixed register count).
const NumVars = 4

// Ctx is the generated asm block: an ordered statement sequence.
type Ctx struct {
	Stmts []Stmt
}

// Generate builds a new Ctx with 8-23 statements.
func Generate(r *rng.Rand) *Ctx {
	n := 8 + r.Intn(16)
	stmts := make([]Stmt, n)
	for i := range stmts {
		stmts[i] = randomStmt(r)
	}
	return &Ctx{Stmts: stmts}
}

// randomOperand never produces ValCVarPtr: the prototype's pointer
// operands need an address-of-variable ("=m"/"p" constraint) this
// flavor's fixed local-variable harness has no natural way to supply, so
// generation is restricted to the two operand kinds every statement can
// always satisfy with the "+r" constraint writeOperandConstraints emits.
func randomOperand(r *rng.Rand) Value {
	if r.Intn(2) == 0 {
		return Value{Kind: ValCVar, Var: r.Intn(NumVars)}
	}
	return Value{Kind: ValReg, Reg: randomRegister(r)}
}

func randomStmt(r *rng.Rand) Stmt {
	decider := r.Intn(4)
	ops := []Opcode{OpLea, OpIMul, OpMov, OpXor}
	op := ops[decider]

	dest := Value{Kind: ValCVar, Var: r.Intn(NumVars)}
	if op == OpLea {
		base := randomOperand(r)
		offset := Value{Kind: ValCVar, Var: r.Intn(NumVars)}
		return Stmt{Op: op, Values: []Value{dest, base, offset}}
	}
	src := randomOperand(r)
	return Stmt{Op: op, Values: []Value{dest, src}}
}

// Clone deep-copies ctx for the minimizer.
func (c *Ctx) Clone() *Ctx {
	stmts := make([]Stmt, len(c.Stmts))
	for i, s := range c.Stmts {
		values := make([]Value, len(s.Values))
		copy(values, s.Values)
		stmts[i] = Stmt{Op: s.Op, Values: values}
	}
	return &Ctx{Stmts: stmts}
}
