// Package adapter defines the flavor capability contract (spec.md §4.1).
// Each flavor (x86 SIMD, ARM NEON, scalar loop, inline asm) implements
// Adapter for its own graph type/output type; internal/fuzzloop drives any
// Adapter identically. Flavor-independent code parameterizes over this
// capability set rather than dispatching virtually on node kind, per the
// "tagged variants over polymorphism" design note.
package adapter

import "github.com/xyproto/simddiff/internal/arena"

// Meta is the code-generation metadata produced alongside emitted source:
// how many int/float/double input slots the harness must fill, and enough
// information for the adapter to dispatch execute() to the right typed
// entry point.
type Meta interface {
	NumIVals() int
	NumFVals() int
	NumDVals() int
}

// Input is a flavor's randomized argument buffers.
type Input interface {
	Serialize() string
}

// Output is a flavor's captured return value, compared byte-exact.
type Output interface {
	Bytes() []byte
}

// Adapter is the generic flavor contract; G is the flavor's concrete graph
// type (e.g. *graph.Graph[x86.Type]), kept as `any` here since Go's method
// sets can't express "some instantiation of a generic type" as a type
// parameter bound.
type Adapter interface {
	// GenerateCtx builds a new graph bounded by a per-iteration node budget.
	GenerateCtx() any

	// Emit is a pure function from graph to C++ source plus metadata.
	Emit(g any) (source string, meta Meta)

	// RandomInput builds randomized int/float/double buffers sized per meta.
	RandomInput(meta Meta) Input

	// Execute invokes the compiled function via a correctly-typed function
	// pointer and returns its raw output bytes.
	Execute(page *arena.Page, meta Meta, in Input) (Output, error)

	// OutputsEqual compares two outputs byte-exact over their valid length.
	OutputsEqual(a, b Output) bool

	// Minimize shrinks g while predicate(g) continues to hold, returning
	// the smallest graph found (never nil; may equal g unchanged).
	Minimize(g any, predicate func(any) bool) any

	// InputsPerCodegen is how many random inputs to try per compiled
	// program: 1 for crash-only mode, ~1000 for differential mode.
	InputsPerCodegen() int

	// EntryPointName is the fixed exported symbol name the loader must
	// locate in a compiled object to extract and call this flavor's
	// emitted function.
	EntryPointName() string
}
