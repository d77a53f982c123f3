package x86

import (
	"fmt"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/arena"
	"github.com/xyproto/simddiff/internal/graph"
	"github.com/xyproto/simddiff/internal/minimizer"
	"github.com/xyproto/simddiff/internal/rng"
)

// Adapter implements adapter.Adapter for the x86 SIMD intrinsic flavor.
type Adapter struct {
	r         *rng.Rand
	capLow    int
	capHigh   int
	inputsPer int
}

// New builds an x86 Adapter seeded by seed; capLow/capHigh bound the
// per-iteration node budget (spec.md §4.2 default 20-140), and
// inputsPerCodegen is how many random inputs to try per compiled program.
func New(seed uint64, capLow, capHigh, inputsPerCodegen int) *Adapter {
	return &Adapter{r: rng.New(seed), capLow: capLow, capHigh: capHigh, inputsPer: inputsPerCodegen}
}

// GenerateCtx implements adapter.Adapter.
func (a *Adapter) GenerateCtx() any {
	cap := a.capLow
	if a.capHigh > a.capLow {
		cap += a.r.Intn(a.capHigh - a.capLow)
	}
	choices := returnTypeChoices()
	retType := choices[a.r.Intn(len(choices))]
	opt := graph.DefaultGenOptions(cap)
	opt.ZeroChance = 0.05
	return graph.Generate[Type](a.r, Ops{}, catalog(), retType, opt)
}

// Emit implements adapter.Adapter.
func (a *Adapter) Emit(g any) (string, adapter.Meta) {
	src, meta := Emit(g.(*graph.Graph[Type]))
	return src, meta
}

// RandomInput implements adapter.Adapter.
func (a *Adapter) RandomInput(meta adapter.Meta) adapter.Input {
	m, ok := meta.(Meta)
	if !ok {
		m = Meta{NumI: meta.NumIVals(), NumF: meta.NumFVals(), NumD: meta.NumDVals()}
	}
	return RandomInput(a.r, m)
}

// Execute implements adapter.Adapter.
func (a *Adapter) Execute(page *arena.Page, meta adapter.Meta, in adapter.Input) (adapter.Output, error) {
	m, ok := meta.(Meta)
	if !ok {
		return Output{}, fmt.Errorf("x86: unexpected meta type %T", meta)
	}
	riIn, ok := in.(RandomInputs)
	if !ok {
		return Output{}, fmt.Errorf("x86: unexpected input type %T", in)
	}
	return Execute(page, m, riIn)
}

// OutputsEqual implements adapter.Adapter.
func (a *Adapter) OutputsEqual(x, y adapter.Output) bool {
	ox, okx := x.(Output)
	oy, oky := y.(Output)
	if !okx || !oky {
		return false
	}
	return ox.Equal(oy)
}

// Minimize implements adapter.Adapter.
func (a *Adapter) Minimize(g any, predicate func(any) bool) any {
	gg := g.(*graph.Graph[Type])
	p := func(candidate *graph.Graph[Type]) bool { return predicate(candidate) }
	return minimizer.Minimize[Type](gg, Ops{}, p, minimizer.DefaultOptions())
}

// InputsPerCodegen implements adapter.Adapter.
func (a *Adapter) InputsPerCodegen() int { return a.inputsPer }

// EntryPointName implements adapter.Adapter.
func (a *Adapter) EntryPointName() string { return FuncName }
