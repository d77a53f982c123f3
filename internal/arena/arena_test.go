package arena

import (
	"testing"
	"unsafe"
)

func TestLoadCodeRejectsOversizedImage(t *testing.T) {
	p, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	big := make([]byte, p.Size()+1)
	if err := p.LoadCode(big, 0); err == nil {
		t.Fatalf("expected error loading code larger than the page")
	}
}

func TestWriteAtBoundsChecked(t *testing.T) {
	p, _ := New(16)
	defer p.Close()
	p.LoadCode([]byte{1, 2, 3, 4}, 0)

	if err := p.WriteAt(2, []byte{9, 9, 9}); err == nil {
		t.Fatalf("expected out-of-bounds write to fail")
	}
	if err := p.WriteAt(0, []byte{9, 9}); err != nil {
		t.Fatalf("unexpected error on in-bounds write: %v", err)
	}
	if p.Bytes()[0] != 9 || p.Bytes()[1] != 9 {
		t.Fatalf("WriteAt did not patch expected bytes: %v", p.Bytes())
	}
}

func TestPatchLEWithImplicitAddend(t *testing.T) {
	p, _ := New(16)
	defer p.Close()
	p.LoadCode([]byte{5, 0, 0, 0}, 0)

	if err := p.PatchLE(0, 4, 10, true); err != nil {
		t.Fatalf("PatchLE: %v", err)
	}
	if p.Bytes()[0] != 15 {
		t.Fatalf("expected implicit addend 5+10=15, got %d", p.Bytes()[0])
	}
}

func TestPatchLEWithoutImplicitAddend(t *testing.T) {
	p, _ := New(16)
	defer p.Close()
	p.LoadCode([]byte{5, 0, 0, 0}, 0)

	if err := p.PatchLE(0, 4, 7, false); err != nil {
		t.Fatalf("PatchLE: %v", err)
	}
	if p.Bytes()[0] != 7 {
		t.Fatalf("expected replaced value 7, got %d", p.Bytes()[0])
	}
}

func TestFuncPointerReflectsOffset(t *testing.T) {
	p, _ := New(16)
	defer p.Close()
	p.LoadCode([]byte{0, 0, 0, 0, 0xC3}, 4)

	basePtr := p.FuncPointer()
	if basePtr == 0 {
		t.Fatalf("expected non-zero function pointer")
	}
	if got := basePtr - uintptr(unsafe.Pointer(&p.Bytes()[0])); got != 4 {
		t.Fatalf("expected function pointer 4 bytes past the page start, got %d", got)
	}
}

func TestPatchARMAddImmRejectsNegative(t *testing.T) {
	p, _ := New(16)
	defer p.Close()
	p.LoadCode([]byte{0, 0, 0, 0}, 0)

	if err := p.PatchARMAddImm(0, -1); err == nil {
		t.Fatalf("expected negative ADD immediate to be rejected")
	}
}
