package arm

import (
	"testing"

	"github.com/xyproto/simddiff/internal/adapter"
)

func TestAdapterGenerateEmitRoundTrip(t *testing.T) {
	var a adapter.Adapter = New(11, 8, 16, 1)

	g := a.GenerateCtx()
	src, meta := a.Emit(g)
	if src == "" {
		t.Fatalf("expected non-empty emitted source")
	}

	in := a.RandomInput(meta)
	_ = in.Serialize()
}

func TestPackReturnTypeRoundTripsBaseBits(t *testing.T) {
	rt := packReturnType(Vector(BaseFloat32, 4))
	if rt&0x3 != 2 {
		t.Fatalf("expected float base type tag, got %d", rt&0x3)
	}
}
