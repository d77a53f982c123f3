// Package minimizer implements delta-reduction over internal/graph (spec.md
// §4.4): given a graph that reproduces some predicate (a crash, a
// differential mismatch), repeatedly try blanking one live Produced node
// at a time, rerouting its downstream references to an alternate producer
// of the same type, and keep the change if the predicate still holds.
// Grounded directly on original_source/src/x86_codegen_fuzzing.rs's
// minimize_gen_code, translated from its clone-and-mutate style into Go
// generics over graph.Graph[T] so every flavor shares one implementation.
package minimizer

import "github.com/xyproto/simddiff/internal/graph"

// Options controls the minimization search.
type Options struct {
	// StopAtFirstShrink restarts the outer sweep after every single
	// successful node removal (the prototype's behavior: `break` out of
	// the node loop as soon as one removal reproduces). This is slower
	// (O(n) sweeps in the worst case) but matches node-removal order to
	// what a human re-running the prototype would see. When false, a
	// sweep keeps removing additional nodes without restarting, trading
	// removal-order fidelity for fewer predicate evaluations.
	StopAtFirstShrink bool
}

// DefaultOptions picks the non-breaking variant: a pass scans every
// candidate node before looping again, finding a strictly-equal-or-smaller
// graph per pass at the cost of more predicate evaluations per pass than
// the prototype's break-on-first-shrink behavior, which remains available via
// StopAtFirstShrink for callers that prefer greedier termination.
func DefaultOptions() Options {
	return Options{StopAtFirstShrink: false}
}

// Predicate re-tests whether a candidate graph still reproduces the
// failure being minimized (compile+run+compare, or compile+run-for-crash,
// depending on mode). It must not mutate g.
type Predicate[T comparable] func(g *graph.Graph[T]) bool

// Minimize shrinks g while predicate(g) continues to hold, returning the
// smallest graph found. It never returns nil; if no node can be removed
// without breaking the predicate, the input graph (cloned) is returned
// unchanged.
func Minimize[T comparable](g *graph.Graph[T], ops graph.TypeOps[T], predicate Predicate[T], opt Options) *graph.Graph[T] {
	best := g.Clone()

	for {
		madeProgress := false

		for nodeIdx := 1; nodeIdx < best.NumNodes(); nodeIdx++ {
			n := best.Nodes[nodeIdx]
			if n.Kind != graph.KindProduced {
				continue
			}

			candidate := best.Clone()
			if !rerouteReferences(candidate, ops, nodeIdx, n.Type) {
				continue
			}
			candidate.MarkNoOp(ops, nodeIdx)

			if predicate(candidate) {
				best = candidate
				madeProgress = true
				if opt.StopAtFirstShrink {
					break
				}
			}
		}

		if !madeProgress {
			break
		}
	}

	return best
}

// rerouteReferences walks every Produced node before removeIdx and, for
// each operand slot referencing removeIdx, substitutes an alternate
// live producer of the same type. Returns false if any such slot has no
// alternate — the removal cannot be performed without leaving a dangling
// reference.
func rerouteReferences[T comparable](g *graph.Graph[T], ops graph.TypeOps[T], removeIdx int, removedType T) bool {
	for j := 0; j < removeIdx; j++ {
		if g.Nodes[j].Kind != graph.KindProduced {
			continue
		}
		operands := g.Nodes[j].Operands
		for k, ref := range operands {
			if ref != removeIdx {
				continue
			}
			alt, ok := g.MaybeAlternateProducer(ops.Underlying(removedType), j, removeIdx)
			if !ok {
				return false
			}
			operands[k] = alt
		}
	}
	return true
}
