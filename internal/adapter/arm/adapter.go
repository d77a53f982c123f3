package arm

import (
	"fmt"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/arena"
	"github.com/xyproto/simddiff/internal/graph"
	"github.com/xyproto/simddiff/internal/minimizer"
	"github.com/xyproto/simddiff/internal/remote"
	"github.com/xyproto/simddiff/internal/rng"
)

// Adapter implements adapter.Adapter for the ARM NEON intrinsic flavor.
// When remoteClient is non-nil, Execute dispatches over internal/remote
// instead of invoking the composed code in-process (spec.md §4.10).
type Adapter struct {
	r            *rng.Rand
	capLow       int
	capHigh      int
	inputsPer    int
	remoteClient *remote.Client
}

// New builds an ARM Adapter seeded by seed; see internal/adapter/x86.New
// for capLow/capHigh/inputsPerCodegen semantics.
func New(seed uint64, capLow, capHigh, inputsPerCodegen int) *Adapter {
	return &Adapter{r: rng.New(seed), capLow: capLow, capHigh: capHigh, inputsPer: inputsPerCodegen}
}

// WithRemote attaches a remote code-exec client, switching Execute to the
// ARM-on-device path.
func (a *Adapter) WithRemote(c *remote.Client) *Adapter {
	a.remoteClient = c
	return a
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
		return Output{}, fmt.Errorf("arm: unexpected meta type %T", meta)
	}
	riIn, ok := in.(RandomInputs)
	if !ok {
		return Output{}, fmt.Errorf("arm: unexpected input type %T", in)
	}
	if a.remoteClient != nil {
		return ExecuteRemote(a.remoteClient, page, m, riIn)
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
