package arm

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/xyproto/simddiff/internal/arena"
	"github.com/xyproto/simddiff/internal/remote"
)

// Output is the fixed-capacity byte capture of a call's out-parameter,
// shared shape with internal/adapter/x86.Output.
type Output struct {
	Buf [32]byte
	Len int
}

// Bytes implements adapter.Output.
func (o Output) Bytes() []byte { return o.Buf[:o.Len] }

// Equal reports whether two captures hold identical bytes.
func (o Output) Equal(other Output) bool { return bytes.Equal(o.Bytes(), other.Bytes()) }

// Execute invokes the composed function in-process, for when the fuzzer
// itself runs on an AArch64 host (see internal/loader's AArch64
// relocation handling): same four-raw-pointer ABI as the x86 flavor.
func Execute(page *arena.Page, meta Meta, in RandomInputs) (Output, error) {
	if len(in.IVals) < meta.NumI || len(in.FVals) < meta.NumF || len(in.DVals) < meta.NumD {
		return Output{}, fmt.Errorf("arm: input shorter than meta requires")
	}
	var out Output
	out.Len = meta.Ret.ByteWidth()
	if out.Len > len(out.Buf) {
		return Output{}, fmt.Errorf("arm: return type byte width %d exceeds capture buffer", out.Len)
	}

	iPtr := slicePtr(in.IVals)
	fPtr := slicePtr(in.FVals)
	dPtr := slicePtr(in.DVals)
	outPtr := uintptr(unsafe.Pointer(&out.Buf[0]))

	purego.SyscallN(page.FuncPointer(), iPtr, fPtr, dPtr, outPtr)
	return out, nil
}

// ExecuteRemote is spec.md §4.10's ARM-on-device path: the composed
// machine code and inputs are shipped to a remote code-exec server over
// internal/remote rather than run on the local (non-ARM) fuzzing host.
func ExecuteRemote(client *remote.Client, page *arena.Page, meta Meta, in RandomInputs) (Output, error) {
	req := remote.ExecRequest{
		ReturnType: packReturnType(meta.Ret),
		FuncOffset: uint32(page.FuncOffset()),
		Code:       page.Bytes(),
		IVals:      in.IVals,
		FVals:      in.FVals,
		DVals:      in.DVals,
	}
	data, err := client.Exec(req)
	if err != nil {
		return Output{}, fmt.Errorf("arm: remote exec: %w", err)
	}
	var out Output
	out.Len = copy(out.Buf[:], data)
	return out, nil
}

func packReturnType(t Type) remote.ReturnType {
	base := remote.BaseSignedInt
	switch t.Base {
	case BaseUInt8, BaseUInt16, BaseUInt32, BaseUInt64:
		base = remote.BaseUnsignedInt
	case BaseFloat16, BaseFloat32, BaseFloat64:
		base = remote.BaseFloat
	case BasePoly8, BasePoly16:
		base = remote.BasePoly
	}
	log2Bits := log2(uint32(baseBits(t.Base)))
	log2SIMDPlus1 := uint32(0)
	if t.LaneCount > 1 {
		log2SIMDPlus1 = log2(uint32(t.LaneCount)) + 1
	}
	arrayMinus1 := uint32(0)
	if t.ArrayLen > 0 {
		arrayMinus1 = uint32(t.ArrayLen - 1)
	}
	return remote.PackReturnType(uint32(base), log2Bits, log2SIMDPlus1, arrayMinus1)
}

func log2(v uint32) uint32 {
	var n uint32
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

func slicePtr[T any](s []T) uintptr {
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s[0]))
}
