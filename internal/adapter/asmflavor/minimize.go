package asmflavor

// Minimize shrinks ctx's statement list by tail truncation (spec.md
// §4.4's asm-specific pass — see internal/adapter/scalarloop.Minimize for
// the identical rationale: asm statement dependencies are opaque, so only
// a contiguous tail removal is always structurally valid).
func Minimize(ctx *Ctx, predicate func(*Ctx) bool) *Ctx {
	best := ctx.Clone()

	for {
		progressed := false
		chunk := len(best.Stmts) / 2
		for chunk >= 1 {
			candidate := &Ctx{Stmts: append([]Stmt(nil), best.Stmts[:len(best.Stmts)-chunk]...)}
			if len(candidate.Stmts) > 0 && predicate(candidate) {
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
