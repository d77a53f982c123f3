package scalarloop

import (
	"fmt"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/arena"
	"github.com/xyproto/simddiff/internal/rng"
)

// Adapter implements adapter.Adapter for the scalar-loop-body flavor.
type Adapter struct {
	r         *rng.Rand
	inputsPer int
}

// New builds a scalarloop Adapter seeded by seed.
func New(seed uint64, inputsPerCodegen int) *Adapter {
	return &Adapter{r: rng.New(seed), inputsPer: inputsPerCodegen}
}

// GenerateCtx implements adapter.Adapter.
func (a *Adapter) GenerateCtx() any { return Generate(a.r) }

// Emit implements adapter.Adapter.
func (a *Adapter) Emit(g any) (string, adapter.Meta) {
	src, meta := Emit(g.(*Ctx))
	return src, meta
}

// RandomInput implements adapter.Adapter.
func (a *Adapter) RandomInput(meta adapter.Meta) adapter.Input {
	return RandomInput(a.r)
}

// Execute implements adapter.Adapter.
func (a *Adapter) Execute(page *arena.Page, meta adapter.Meta, in adapter.Input) (adapter.Output, error) {
	riIn, ok := in.(Input)
	if !ok {
		return Output{}, fmt.Errorf("scalarloop: unexpected input type %T", in)
	}
	return Execute(page, riIn)
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
	ctx := g.(*Ctx)
	p := func(candidate *Ctx) bool { return predicate(candidate) }
	return Minimize(ctx, p)
}

// InputsPerCodegen implements adapter.Adapter.
func (a *Adapter) InputsPerCodegen() int { return a.inputsPer }

// EntryPointName implements adapter.Adapter.
func (a *Adapter) EntryPointName() string { return FuncName }
