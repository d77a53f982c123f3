package asmflavor

import (
	"fmt"
	"strings"

	"github.com/xyproto/simddiff/internal/rng"
)

// Input is NumVars random uint64 values, one per C variable, serialized
// the same length-prefixed way as scalarloop.Input (AsmFuzzerInputValues
// ::write_to_str uses the identical layout over u64 instead of u32).
type Input struct {
	Vals []uint64
}

// Serialize implements adapter.Input.
func (in Input) Serialize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", len(in.Vals))
	for _, v := range in.Vals {
		fmt.Fprintf(&b, "%d ", v)
	}
	b.WriteString("\n")
	return b.String()
}

// RandomInput draws NumVars random uint64 values.
func RandomInput(r *rng.Rand) Input {
	vals := make([]uint64, NumVars)
	for i := range vals {
		vals[i] = r.Uint64()
	}
	return Input{Vals: vals}
}
