// Package arena implements the executable-memory arena (spec.md §4.7): a
// single W+X page allocation holding one composed compiled function,
// ready to be invoked via a typed function pointer. Adapted from the
// teacher's own hot-reload code page allocator (hotreload.go), which used
// a raw syscall.Syscall6(SYS_MMAP, ...) call; here we use the portable
// golang.org/x/sys/unix equivalent instead, since nothing about our
// domain benefits from the teacher's raw-syscall style for this concern
// the way it does for relocation bit-twiddling.
package arena

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const pageSize = 4096

// Page is an owned, page-aligned W+X region: the loader's composed image
// (copied object sections, inline runtime stubs, patched relocation
// sites), the byte offset of the target function within it, and the
// total size of loaded bytes. All writes are bounds-checked against the
// recorded code size.
type Page struct {
	mem        []byte
	funcOffset int
	codeSize   int
}

// New allocates a W+X page large enough to hold size bytes, rounded up to
// the system page size.
func New(size int) (*Page, error) {
	if size <= 0 {
		size = 1
	}
	alloc := ((size + pageSize - 1) / pageSize) * pageSize
	mem, err := unix.Mmap(-1, 0, alloc, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes: %w", alloc, err)
	}
	return &Page{mem: mem}, nil
}

// Close releases the page's memory. Every iteration's page belongs
// exclusively to the worker that built it and is freed before the worker
// moves to the next iteration (spec.md §5).
func (p *Page) Close() error {
	if p.mem == nil {
		return nil
	}
	err := unix.Munmap(p.mem)
	p.mem = nil
	return err
}

// Size returns the allocated (page-rounded) capacity.
func (p *Page) Size() int { return len(p.mem) }

// LoadCode copies the composed image into the page and records the
// function's offset and the total bytes loaded.
func (p *Page) LoadCode(code []byte, funcOffset int) error {
	if len(code) > len(p.mem) {
		return fmt.Errorf("arena: code size %d exceeds page size %d", len(code), len(p.mem))
	}
	copy(p.mem, code)
	p.funcOffset = funcOffset
	p.codeSize = len(code)
	return nil
}

// checkBounds verifies [offset, offset+n) lies within the recorded code.
func (p *Page) checkBounds(offset, n int) error {
	if offset < 0 || n < 0 || offset+n > p.codeSize {
		return fmt.Errorf("arena: write [%d,%d) out of bounds (code size %d)", offset, offset+n, p.codeSize)
	}
	return nil
}

// WriteAt writes raw bytes at offset, bounds-checked against the loaded
// code size.
func (p *Page) WriteAt(offset int, b []byte) error {
	if err := p.checkBounds(offset, len(b)); err != nil {
		return err
	}
	copy(p.mem[offset:], b)
	return nil
}

// PatchLE patches a little-endian integer of widthBytes at offset. When
// implicitAddend is true, value is added to the bytes already present
// (generic PC-relative relocations with an implicit addend per spec.md
// §4.6); otherwise it replaces them outright.
func (p *Page) PatchLE(offset, widthBytes int, value int64, implicitAddend bool) error {
	if err := p.checkBounds(offset, widthBytes); err != nil {
		return err
	}
	if implicitAddend {
		var cur [8]byte
		copy(cur[:], p.mem[offset:offset+widthBytes])
		value += int64(int64(binary.LittleEndian.Uint64(cur[:])))
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(value))
	copy(p.mem[offset:offset+widthBytes], buf[:widthBytes])
	return nil
}

// PatchARMAdrp encodes an ADRP page-difference into instruction bits
// [29:30] (low two bits of the 21-bit immediate) and [5:23] (high 19
// bits), per AArch64 ELF relocation type 275. value is the signed page
// count (targetPage - pcPage).
func (p *Page) PatchARMAdrp(offset int, value int32) error {
	immlo := (uint32(value) & 0x3) << 29
	immhi := ((uint32(value) >> 2) & 0x7FFFF) << 5
	return p.patchInstrBits(offset, immlo|immhi)
}

// PatchARMLdrImm encodes a page-relative scaled load/store immediate into
// bits [10:21] of the instruction word (relocation types 286 and 299;
// scaledValue is the low 12 bits divided by 4, and shift is 9 for
// doubleword access (286) and 8 for quadword access (299), matching how
// far that value must be shifted to land in imm12's bit position).
func (p *Page) PatchARMLdrImm(offset int, scaledValue int32, shift uint) error {
	if scaledValue < 0 {
		return fmt.Errorf("arena: negative LDR immediate %d", scaledValue)
	}
	return p.patchInstrBits(offset, uint32(scaledValue)<<shift)
}

// PatchARMAddImm encodes a page-offset immediate into bits [10:21] of an
// ADD (immediate) instruction, for relocation type 277 (the low-12-bits
// companion to an ADRP).
func (p *Page) PatchARMAddImm(offset int, value int32) error {
	if value < 0 {
		return fmt.Errorf("arena: negative ADD immediate %d", value)
	}
	return p.patchInstrBits(offset, uint32(value)<<10)
}

// PatchARMNop overwrites the instruction at offset with AArch64 NOP
// (0xD503201F), used to neutralize the two instructions that load and
// check __stack_chk_guard (relocation types 311/312 — see spec.md §4.6
// and §9: sound only because generated code runs in our own process).
func (p *Page) PatchARMNop(offset int) error {
	if err := p.checkBounds(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p.mem[offset:offset+4], 0xD503201F)
	return nil
}

func (p *Page) patchInstrBits(offset int, orBits uint32) error {
	if err := p.checkBounds(offset, 4); err != nil {
		return err
	}
	cur := binary.LittleEndian.Uint32(p.mem[offset : offset+4])
	binary.LittleEndian.PutUint32(p.mem[offset:offset+4], cur|orBits)
	return nil
}

// FlushCache makes the page's loaded bytes visible to the instruction
// fetch unit (spec.md §4.6/§4.7): after writing fresh code into a W+X
// mapping, AArch64 requires an explicit clean-to-unification of the data
// cache (dc cvau) followed by an invalidate of the instruction cache
// (ic ivau) over the same range, each bounded by a barrier, before the
// core is guaranteed to execute what was just written rather than a
// stale i-cache line. Line sizes come from CTR_EL0 (DminLine bits
// [19:16], IminLine bits [3:0], each log2 of the line size in words).
// A no-op on x86 and on an empty/unloaded page.
func (p *Page) FlushCache() {
	if len(p.mem) == 0 {
		return
	}
	base := uintptr(unsafe.Pointer(&p.mem[0]))
	end := base + uintptr(len(p.mem))

	ctr := ctrEL0()
	dLine := uintptr(4) << ((ctr >> 16) & 0xF)
	iLine := uintptr(4) << (ctr & 0xF)

	for addr := base &^ (dLine - 1); addr < end; addr += dLine {
		dcCVAU(addr)
	}
	dsbISH()

	for addr := base &^ (iLine - 1); addr < end; addr += iLine {
		icIVAU(addr)
	}
	dsbISH()
	isb()
}

// FuncPointer returns the absolute address of the loaded function, for
// use with unsafe function-pointer transmutation by the flavor adapter's
// Execute.
func (p *Page) FuncPointer() uintptr {
	return uintptr(unsafe.Pointer(&p.mem[p.funcOffset]))
}

// Bytes returns the loaded code region (not the full, page-rounded
// allocation), for archiving or relocation-correctness tests.
func (p *Page) Bytes() []byte {
	return p.mem[:p.codeSize]
}

// FuncOffset returns the recorded function offset within the page.
func (p *Page) FuncOffset() int { return p.funcOffset }
