package scalarloop

// Minimize shrinks ctx's node list by binary-ish truncation from the
// tail (spec.md §4.4: "for inline-asm and loop flavors, an additional
// pass attempts to truncate the trailing portion of each ... statement
// list because ... dependencies are opaque to us" — unlike internal/graph's
// flavors, a loop node can write a register another later node reads, so
// blanking an arbitrary middle node is unsound; only removing a
// contiguous tail is always structurally valid).
func Minimize(ctx *Ctx, predicate func(*Ctx) bool) *Ctx {
	best := ctx.Clone()

	for {
		progressed := false
		chunk := len(best.Nodes) / 2
		for chunk >= 1 {
			candidate := &Ctx{Nodes: append([]Node(nil), best.Nodes[:len(best.Nodes)-chunk]...)}
			if len(candidate.Nodes) > 0 && predicate(candidate) {
				best = candidate
				progressed = true
				break
			}
			chunk /= 2
		}
		if !progressed {
			break
		}
	}

	return best
}
