package graph

// Intrinsic describes one catalogued operation: its declared return type,
// its parameter types in call order, and the name emitted into source.
// The catalog itself (XML for x86, JSON for ARM) is out of core scope per
// spec.md §6; each flavor's catalog.go ships a small built-in seed
// sufficient to drive generation and the seed test suite.
type Intrinsic[T comparable] struct {
	Name       string
	ReturnType T
	ParamTypes []T
}

// randSource is the minimal interface graph generation needs from an RNG,
// satisfied by *rng.Rand without importing it here (avoids a dependency
// cycle, since rng has no reason to know about graph).
type randSource interface {
	Intn(int) int
}

// GenOptions parameterizes Generate; ReuseNum/ReuseDenom control how often
// get_ref reuses an existing producer instead of creating a new Pending
// hole (spec.md §4.2 default is 1/6), and Cap bounds the node budget.
type GenOptions struct {
	ReuseNum, ReuseDenom int
	Cap                  int
	ZeroChance           float32
}

// DefaultGenOptions mirrors the original prototype's defaults: a 1-in-6
// reuse chance and a node cap drawn by the caller uniformly from
// [CapLow, CapHigh) (typically 20-140, see spec.md §4.2).
func DefaultGenOptions(cap int) GenOptions {
	return GenOptions{ReuseNum: 1, ReuseDenom: 6, Cap: cap}
}

// Generate builds a new graph per spec.md §4.2: pick a return type, then
// iterate the node budget filling Pending holes with Produced/Zero/Entry/
// Immediate nodes, finally converting any still-Pending nodes beyond the
// cap to Entry. byType maps a (collapsed) type to the intrinsics that can
// produce it; returnType must be a key of byType.
func Generate[T comparable](rnd randSource, ops TypeOps[T], byType map[T][]Intrinsic[T], returnType T, opt GenOptions) *Graph[T] {
	g := New[T]()
	g.GetRefOfType(rnd, ops, returnType, 0, opt.ReuseNum, opt.ReuseDenom)

	for i := 0; i < opt.Cap; i++ {
		if i >= g.NumNodes() {
			g.GetRefOfType(rnd, ops, returnType, i, opt.ReuseNum, opt.ReuseDenom)
		}

		nodeType, isPending := g.PendingType(i)
		if !isPending {
			continue
		}
		underlying := ops.Underlying(nodeType)

		if i > 0 && opt.ZeroChance > 0 && randFloat(rnd) < opt.ZeroChance {
			g.MarkZero(i)
			continue
		}

		if candidates, ok := byType[underlying]; ok && len(candidates) > 0 {
			chosen := candidates[rnd.Intn(len(candidates))]
			operands := make([]int, len(chosen.ParamTypes))
			for pi, paramType := range chosen.ParamTypes {
				operands[pi] = g.GetRefOfType(rnd, ops, paramType, i, opt.ReuseNum, opt.ReuseDenom)
			}
			g.MarkProduced(i, chosen.ReturnType, chosen.Name, operands)
		} else if _, _, isConst := ops.ConstantBounds(nodeType); !isConst {
			// No catalog intrinsic produces this type (spec.md §4.2): a
			// primitive scalar hole gets a literal Immediate, since any
			// scalar C++ type can be default-initialized that way; a
			// non-primitive (vector/array) hole has no such literal form,
			// so it becomes an Entry, filled from the function's input
			// buffers instead.
			if ops.IsPrimitive(nodeType) {
				g.MarkImmediate(i)
			} else {
				g.MarkEntry(i)
			}
		}
	}

	for i := opt.Cap; i < g.NumNodes(); i++ {
		if _, isPending := g.PendingType(i); isPending {
			g.MarkEntry(i)
		}
	}

	return g
}

// randFloat draws a value in [0,1) from anything satisfying randSource
// from a single Intn(65536) draw; generation only needs this for the
// rare zero-node coin flip so the extra precision of rng.Rand.Float32 is
// not required here and would otherwise force an import cycle.
func randFloat(rnd randSource) float32 {
	const precision = 1 << 16
	return float32(rnd.Intn(precision)) / float32(precision)
}
