package fuzzloop

import (
	"fmt"

	"github.com/xyproto/simddiff/internal/adapter"
)

// serializeMeta renders a CodeMeta as the flat text format spec.md §4.2
// defines for on-disk repro (serialize_meta/deserialize_meta): the three
// input-buffer slot counts every flavor's meta carries, one per line.
// Flavor-specific fields (e.g. x86's return Type) are not needed by
// repro-arm's deserialize path, which only replays the recorded input
// against freshly emitted code sharing the same graph.
func serializeMeta(m adapter.Meta) string {
	return fmt.Sprintf("num_i_vals=%d\nnum_f_vals=%d\nnum_d_vals=%d\n", m.NumIVals(), m.NumFVals(), m.NumDVals())
}
