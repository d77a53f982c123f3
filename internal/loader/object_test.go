package loader

import (
	"bytes"
	"debug/elf"
	"testing"

	"github.com/xyproto/simddiff/internal/arena"
)

func TestAlignPadsToBoundary(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(1)
	buf.WriteByte(2)
	buf.WriteByte(3)
	align(&buf, 8)
	if buf.Len() != 8 {
		t.Fatalf("expected padded length 8, got %d", buf.Len())
	}
}

func TestAlignNoOpWhenAlreadyAligned(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 16))
	align(&buf, 8)
	if buf.Len() != 16 {
		t.Fatalf("expected no padding, got length %d", buf.Len())
	}
}

func TestApplyAArch64AdrpEncodesPageDelta(t *testing.T) {
	page, err := arena.New(64)
	if err != nil {
		t.Fatalf("arena.New: %v", err)
	}
	defer page.Close()
	code := make([]byte, 16)
	if err := page.LoadCode(code, 0); err != nil {
		t.Fatalf("LoadCode: %v", err)
	}

	// site at offset 0, target at 0x3000: page delta = 3
	if err := applyAArch64Specific(page, 275, 0x3000, 0); err != nil {
		t.Fatalf("applyAArch64Specific: %v", err)
	}
	got := page.Bytes()[0:4]
	want := uint32(3) << 29
	if u32(got) != want {
		t.Fatalf("expected bits %#x, got %#x", want, u32(got))
	}
}

func TestApplyAArch64UnknownRelocationReported(t *testing.T) {
	page, _ := arena.New(64)
	defer page.Close()
	page.LoadCode(make([]byte, 16), 0)

	err := applyAArch64Specific(page, 999, 0, 0)
	if err == nil {
		t.Fatalf("expected error for unknown relocation type")
	}
	if _, ok := err.(*UnknownRelocationError); !ok {
		t.Fatalf("expected *UnknownRelocationError, got %T", err)
	}
}

func TestApplyAArch64StackGuardRelocationsNop(t *testing.T) {
	page, _ := arena.New(64)
	defer page.Close()
	code := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0, 0, 0, 0}
	page.LoadCode(code, 0)

	if err := applyAArch64Specific(page, 311, 0, 0); err != nil {
		t.Fatalf("applyAArch64Specific: %v", err)
	}
	got := u32(page.Bytes()[0:4])
	if got != 0xD503201F {
		t.Fatalf("expected NOP encoding, got %#x", got)
	}
}

func TestResolveSymbolOffsetPrefersSection(t *testing.T) {
	sym := elf.Symbol{Name: "memset", Value: 4, Section: 1}
	sectionOffset := map[int]int{1: 100}
	stubOffset := map[stubName]int{stubMemset: 9999}

	off, err := resolveSymbolOffset(sym, sectionOffset, stubOffset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != 104 {
		t.Fatalf("expected section-relative offset 104, got %d", off)
	}
}

func TestResolveSymbolOffsetFallsBackToStub(t *testing.T) {
	sym := elf.Symbol{Name: "memset", Section: elf.SectionIndex(elf.SHN_UNDEF)}
	sectionOffset := map[int]int{}
	stubOffset := map[stubName]int{stubMemset: 42}

	off, err := resolveSymbolOffset(sym, sectionOffset, stubOffset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != 42 {
		t.Fatalf("expected stub offset 42, got %d", off)
	}
}

func TestResolveSymbolOffsetUnresolvable(t *testing.T) {
	sym := elf.Symbol{Name: "totally_unknown_symbol", Section: elf.SectionIndex(elf.SHN_UNDEF)}
	_, err := resolveSymbolOffset(sym, map[int]int{}, map[stubName]int{})
	if err == nil {
		t.Fatalf("expected UnresolvedSymbolError")
	}
	if _, ok := err.(*UnresolvedSymbolError); !ok {
		t.Fatalf("expected *UnresolvedSymbolError, got %T", err)
	}
}

func u32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
