package x86

import (
	"fmt"
	"strings"

	"github.com/xyproto/simddiff/internal/rng"
)

// RandomInputs is a compiled program's three typed argument buffers:
// num_i_vals signed 32-bit integers, num_f_vals floats in [-1, 1), and
// num_d_vals doubles in [-1, 1), matching generate_random_input_for_program.
type RandomInputs struct {
	IVals []int32
	FVals []float32
	DVals []float64
}

// Serialize implements adapter.Input using the count-prefixed, per-buffer
// on-disk repro format spec.md §6 fixes:
//
//	<N_i>\n <i0> <i1> ... \n
//	<N_f>\n <f0> <f1> ... \n
//	<N_d>\n <d0> <d1> ... \n
func (in RandomInputs) Serialize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", len(in.IVals))
	for i, v := range in.IVals {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%d\n", len(in.FVals))
	for i, v := range in.FVals {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g", v)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%d\n", len(in.DVals))
	for i, v := range in.DVals {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g", v)
	}
	b.WriteByte('\n')
	return b.String()
}

// RandomInput draws a fresh RandomInputs for meta's declared slot counts.
func RandomInput(r *rng.Rand, meta Meta) RandomInputs {
	in := RandomInputs{
		IVals: make([]int32, meta.NumI),
		FVals: make([]float32, meta.NumF),
		DVals: make([]float64, meta.NumD),
	}
	for i := range in.IVals {
		in.IVals[i] = r.BiasedInt32()
	}
	for i := range in.FVals {
		in.FVals[i] = r.SignedFloat()
	}
	for i := range in.DVals {
		in.DVals[i] = float64(r.SignedFloat())
	}
	return in
}
