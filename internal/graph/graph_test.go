package graph

import (
	"testing"
)

// testType is a tiny closed type set used only to exercise the generic
// graph machinery independent of any real flavor's type system.
type testType int

const (
	typeI32 testType = iota
	typeVec
	typeConstImm
)

type testOps struct{}

func (testOps) Underlying(t testType) testType { return t }
func (testOps) ConstantBounds(t testType) (int64, int64, bool) {
	if t == typeConstImm {
		return 0, 7, true
	}
	return 0, 0, false
}
func (testOps) IsPrimitive(t testType) bool { return t == typeI32 }

type fakeRand struct{ vals []int; i int }

func (f *fakeRand) Intn(n int) int {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v % n
}

func TestGetRefOfTypeAppendsPending(t *testing.T) {
	g := New[testType]()
	r := &fakeRand{vals: []int{5}} // never reuse: the graph is empty and reuseNum is 0
	idx := g.GetRefOfType(r, testOps{}, typeI32, 0, 0, 6)
	if idx != 0 {
		t.Fatalf("expected first ref at index 0, got %d", idx)
	}
	if g.Nodes[0].Kind != KindPending {
		t.Fatalf("expected Pending node, got %v", g.Nodes[0].Kind)
	}
}

func TestGetRefOfTypeConstantImmediate(t *testing.T) {
	g := New[testType]()
	r := &fakeRand{vals: []int{3}}
	idx := g.GetRefOfType(r, testOps{}, typeConstImm, 0, 1, 6)
	n := g.Nodes[idx]
	if n.Kind != KindConstantImmediate {
		t.Fatalf("expected ConstantImmediate, got %v", n.Kind)
	}
	if n.ConstVal < n.ConstMin || n.ConstVal > n.ConstMax {
		t.Fatalf("constant %d out of bounds [%d,%d]", n.ConstVal, n.ConstMin, n.ConstMax)
	}
}

func TestMarkNoOpRemovesFromReuseIndex(t *testing.T) {
	g := New[testType]()
	g.Nodes = append(g.Nodes, Node[testType]{Kind: KindProduced, Type: typeVec})
	g.TypeToRefs[typeVec] = []int{0}

	g.MarkNoOp(testOps{}, 0)

	if g.Nodes[0].Kind != KindNoOp {
		t.Fatalf("expected NoOp after MarkNoOp")
	}
	if refs := g.TypeToRefs[typeVec]; len(refs) != 0 {
		t.Fatalf("expected empty reuse index, got %v", refs)
	}
}

func TestCheckInvariantsCatchesBadTopology(t *testing.T) {
	g := New[testType]()
	g.Nodes = []Node[testType]{
		{Kind: KindProduced, Type: typeI32, Operands: []int{0}}, // self-reference: not > 0
	}
	if err := g.CheckInvariants(testOps{}); err == nil {
		t.Fatalf("expected topological violation to be detected")
	}
}

func TestCheckInvariantsAcceptsValidGraph(t *testing.T) {
	g := New[testType]()
	g.Nodes = []Node[testType]{
		{Kind: KindProduced, Type: typeI32, Operands: []int{1}},
		{Kind: KindEntry, Type: typeI32},
	}
	g.TypeToRefs[typeI32] = []int{1}
	if err := g.CheckInvariants(testOps{}); err != nil {
		t.Fatalf("unexpected error on valid graph: %v", err)
	}
}

func TestReturnNodeIndexSkipsOptBait(t *testing.T) {
	g := New[testType]()
	g.Nodes = []Node[testType]{
		{Kind: KindOptBait},
		{Kind: KindEntry, Type: typeI32},
	}
	if idx := g.ReturnNodeIndex(); idx != 1 {
		t.Fatalf("expected return node 1, got %d", idx)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New[testType]()
	g.Nodes = append(g.Nodes, Node[testType]{Kind: KindProduced, Operands: []int{1, 2}})
	g.TypeToRefs[typeI32] = []int{0}

	clone := g.Clone()
	clone.Nodes[0].Operands[0] = 99
	clone.TypeToRefs[typeI32][0] = 42

	if g.Nodes[0].Operands[0] == 99 {
		t.Fatalf("mutation of clone leaked into original operands")
	}
	if g.TypeToRefs[typeI32][0] == 42 {
		t.Fatalf("mutation of clone leaked into original reuse index")
	}
}

func TestGenerateProducesNoPendingNodes(t *testing.T) {
	byType := map[testType][]Intrinsic[testType]{
		typeVec: {{Name: "make_vec", ReturnType: typeVec, ParamTypes: []testType{typeI32, typeI32}}},
	}
	r := &fakeRand{vals: []int{0, 1, 2, 3, 4, 5}}
	g := Generate[testType](r, testOps{}, byType, typeVec, GenOptions{ReuseNum: 1, ReuseDenom: 6, Cap: 20})

	for i, n := range g.Nodes {
		if n.Kind == KindPending {
			t.Fatalf("node %d still Pending after Generate", i)
		}
	}
	if err := g.CheckInvariants(testOps{}); err != nil {
		t.Fatalf("generated graph violates invariants: %v", err)
	}
}
