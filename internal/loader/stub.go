package loader

import "bytes"

// stubBuilder accumulates the bytes of an inline runtime-symbol stub. It
// mirrors the teacher's BufferWrapper emission style (emit.go) with the
// per-byte stderr trace dropped: that trace served the teacher's own
// codegen debugging and has no equivalent need here.
type stubBuilder struct {
	buf bytes.Buffer
}

func (b *stubBuilder) byte(v byte) *stubBuilder {
	b.buf.WriteByte(v)
	return b
}

func (b *stubBuilder) bytes(vs ...byte) *stubBuilder {
	b.buf.Write(vs)
	return b
}

func (b *stubBuilder) Bytes() []byte { return b.buf.Bytes() }

// memsetStubX86_64 builds the 9-instruction byte-store loop substituted for
// any `memset` symbol an object file references (spec.md §4.6). Grounded
// on original_source/src/parse_exe.rs's MEMSET_x86_BYTES: a tight
// byte-at-a-time store loop implementing void *memset(rdi dst, esi val,
// rdx len) with the System V calling convention (the Windows prototype
// used rcx/rdx/r8; here we target the Linux/SysV argument registers the
// ELF-focused loader actually compiles against).
func memsetStubX86_64() []byte {
	var b stubBuilder
	b.bytes(0x48, 0x89, 0xf8)             // mov %rdi, %rax
	b.bytes(0x48, 0x85, 0xd2)             // test %rdx, %rdx
	b.bytes(0x74, 0x0e)                   // je done
	b.bytes(0x40, 0x88, 0x37)             // mov %sil, (%rdi) (loop:)
	b.bytes(0x48, 0xff, 0xc7)             // inc %rdi
	b.bytes(0x48, 0xff, 0xca)             // dec %rdx
	b.bytes(0x48, 0x85, 0xd2)             // test %rdx, %rdx
	b.bytes(0x75, 0xf2)                   // jne loop
	b.byte(0xc3)                          // ret (done:)
	return b.Bytes()
}

// chkstkStubX86_64 is a single ret: __chkstk's stack probe is a no-op once
// we run compiled code in our own process's already-committed stack
// (spec.md §4.6, §9 — explicitly unsound outside a fuzzing harness).
func chkstkStubX86_64() []byte {
	return []byte{0xc3}
}

// stackChkGuardRegion is a small constant region substituted for
// `__stack_chk_guard`: its value only needs to be self-consistent between
// the write in the function prologue and the read in the epilogue, which
// it is by construction since both patch sites point at this same offset.
func stackChkGuardRegion() []byte {
	return []byte{0, 0, 0, 0, 0, 0, 0, 0}
}

// stackChkFailStub is a ret-only stub for `__stack_chk_fail`; on AArch64
// every relocation site against that symbol (the caller's branch) is
// NOPed out instead by applyRelocation, since the NOP must replace the
// *caller's* branch, not provide a callee to redirect to.
func stackChkFailStub() []byte {
	return []byte{0xc3}
}
