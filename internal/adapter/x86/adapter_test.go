package x86

import (
	"testing"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/graph"
)

func TestAdapterGenerateEmitRoundTrip(t *testing.T) {
	var a adapter.Adapter = New(42, 8, 16, 1)

	g := a.GenerateCtx()
	src, meta := a.Emit(g)
	if src == "" {
		t.Fatalf("expected non-empty emitted source")
	}
	if meta.NumIVals() < 0 || meta.NumFVals() < 0 || meta.NumDVals() < 0 {
		t.Fatalf("expected non-negative slot counts")
	}

	in := a.RandomInput(meta)
	if in.Serialize() == "" && (meta.NumIVals() > 0 || meta.NumFVals() > 0 || meta.NumDVals() > 0) {
		t.Fatalf("expected non-empty serialized input when meta declares slots")
	}
}

func TestAdapterMinimizeNeverReturnsNil(t *testing.T) {
	a := New(7, 8, 16, 1)
	g := buildAddSubGraph()

	result := a.Minimize(g, func(candidate any) bool {
		cg := candidate.(*graph.Graph[Type])
		return cg.NumNodes() == g.NumNodes()
	})
	if result == nil {
		t.Fatalf("expected Minimize to never return nil")
	}
}

func TestAdapterInputsPerCodegen(t *testing.T) {
	a := New(1, 8, 16, 1000)
	if a.InputsPerCodegen() != 1000 {
		t.Fatalf("expected InputsPerCodegen to return the configured value")
	}
}
