package scalarloop

import (
	"fmt"
	"strings"

	"github.com/xyproto/simddiff/internal/rng"
)

// Input is the loop flavor's single flat uint32 buffer, serialized as a
// length line followed by a space-separated value line, matching
// LoopFuzzerInputValues::write_to_str.
type Input struct {
	Vals []uint32
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

// RandomInput draws 32-47 random uint32 inputs, matching
// LoopFuzzer::generate_random_input's `32 + rng.rand() % 16`.
func RandomInput(r *rng.Rand) Input {
	n := 32 + r.Intn(16)
	vals := make([]uint32, n)
	for i := range vals {
		vals[i] = r.Uint32()
	}
	return Input{Vals: vals}
}
