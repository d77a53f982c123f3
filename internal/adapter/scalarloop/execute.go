package scalarloop

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/xyproto/simddiff/internal/arena"
)

// Output is the full outputs[] buffer do_stuff wrote, one int32 per
// input slot (uninitialized trailing elements outside the vectorized
// range are zeroed before the call so comparisons are deterministic).
type Output struct {
	Vals []int32
}

// Bytes implements adapter.Output as the little-endian concatenation of
// Vals, so byte-exact comparison also catches endianness-sensitive
// miscompiles.
func (o Output) Bytes() []byte {
	buf := make([]byte, 4*len(o.Vals))
	for i, v := range o.Vals {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return buf
}

// Equal reports whether two captures hold identical values.
func (o Output) Equal(other Output) bool { return bytes.Equal(o.Bytes(), other.Bytes()) }

// Execute invokes do_stuff(inputs, outputs, count) in-process via
// purego.SyscallN, over a freshly zeroed outputs buffer the same length
// as the input.
func Execute(page *arena.Page, in Input) (Output, error) {
	if len(in.Vals) == 0 {
		return Output{}, fmt.Errorf("scalarloop: empty input")
	}
	inputs := make([]int32, len(in.Vals))
	for i, v := range in.Vals {
		inputs[i] = int32(v)
	}
	outputs := make([]int32, len(in.Vals))

	inPtr := uintptr(unsafe.Pointer(&inputs[0]))
	outPtr := uintptr(unsafe.Pointer(&outputs[0]))
	purego.SyscallN(page.FuncPointer(), inPtr, outPtr, uintptr(len(in.Vals)))

	return Output{Vals: outputs}, nil
}
