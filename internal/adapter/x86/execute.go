package x86

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/xyproto/simddiff/internal/arena"
)

// Output is the fixed-capacity byte capture of a call's out-parameter
// (spec.md §4.7's "fixed-capacity byte array plus valid length"); Len
// bytes of Buf are meaningful, sized by the emitted return type's
// ByteWidth.
type Output struct {
	Buf [32]byte
	Len int
}

// Bytes implements adapter.Output.
func (o Output) Bytes() []byte { return o.Buf[:o.Len] }

// Equal reports whether two captures hold identical bytes.
func (o Output) Equal(other Output) bool {
	return bytes.Equal(o.Bytes(), other.Bytes())
}

// Execute invokes the composed function loaded into page via
// purego.SyscallN: the generated signature is four raw pointers (i_vals,
// f_vals, d_vals, out), so the C integer-register calling convention
// purego targets is exactly what is needed — no float/vector-register
// argument marshalling to get right, since the output is written through
// memory rather than returned in a register (see emit.go).
func Execute(page *arena.Page, meta Meta, in RandomInputs) (Output, error) {
	if len(in.IVals) < meta.NumI || len(in.FVals) < meta.NumF || len(in.DVals) < meta.NumD {
		return Output{}, fmt.Errorf("x86: input shorter than meta requires")
	}

	var out Output
	out.Len = meta.Ret.ByteWidth()
	if out.Len > len(out.Buf) {
		return Output{}, fmt.Errorf("x86: return type byte width %d exceeds capture buffer", out.Len)
	}

	iPtr := slicePtr(in.IVals)
	fPtr := slicePtr(in.FVals)
	dPtr := slicePtr(in.DVals)
	outPtr := uintptr(unsafe.Pointer(&out.Buf[0]))

	purego.SyscallN(page.FuncPointer(), iPtr, fPtr, dPtr, outPtr)
	return out, nil
}

func slicePtr[T any](s []T) uintptr {
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s[0]))
}
