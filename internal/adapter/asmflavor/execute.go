package asmflavor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/xyproto/simddiff/internal/arena"
)

// Output is the NumVars uint64 outputs run_asm_block wrote back.
type Output struct {
	Vals []uint64
}

// Bytes implements adapter.Output.
func (o Output) Bytes() []byte {
	buf := make([]byte, 8*len(o.Vals))
	for i, v := range o.Vals {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return buf
}

// Equal reports whether two captures hold identical values.
func (o Output) Equal(other Output) bool { return bytes.Equal(o.Bytes(), other.Bytes()) }

// Execute invokes run_asm_block(inputs, outputs) in-process.
func Execute(page *arena.Page, in Input) (Output, error) {
	if len(in.Vals) != NumVars {
		return Output{}, fmt.Errorf("asmflavor: expected %d input values, got %d", NumVars, len(in.Vals))
	}
	inputs := append([]uint64(nil), in.Vals...)
	outputs := make([]uint64, NumVars)

	inPtr := uintptr(unsafe.Pointer(&inputs[0]))
	outPtr := uintptr(unsafe.Pointer(&outputs[0]))
	purego.SyscallN(page.FuncPointer(), inPtr, outPtr)

	return Output{Vals: outputs}, nil
}
