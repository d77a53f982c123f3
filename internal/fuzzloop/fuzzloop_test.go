package fuzzloop

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/archive"
	"github.com/xyproto/simddiff/internal/arena"
	"github.com/xyproto/simddiff/internal/compiledriver"
	"github.com/xyproto/simddiff/internal/config"
)

// fakeGraph is a minimal stand-in flavor graph: just a statement count, so
// Minimize can shrink it deterministically without any real codegen.
type fakeGraph struct{ n int }

type fakeMeta struct{}

func (fakeMeta) NumIVals() int { return 0 }
func (fakeMeta) NumFVals() int { return 0 }
func (fakeMeta) NumDVals() int { return 0 }

type fakeInput struct{}

func (fakeInput) Serialize() string { return "" }

type fakeOutput struct{ v byte }

func (o fakeOutput) Bytes() []byte { return []byte{o.v} }

// fakeAdapter implements adapter.Adapter with no real C++ codegen, so
// Worker's orchestration (compile classification, minimize, archive) can
// be exercised without a toolchain.
type fakeAdapter struct{}

func (fakeAdapter) GenerateCtx() any { return &fakeGraph{n: 10} }

func (fakeAdapter) Emit(g any) (string, adapter.Meta) {
	return "int main(){}", fakeMeta{}
}

func (fakeAdapter) RandomInput(meta adapter.Meta) adapter.Input { return fakeInput{} }

func (fakeAdapter) Execute(page *arena.Page, meta adapter.Meta, in adapter.Input) (adapter.Output, error) {
	return fakeOutput{}, nil
}

func (fakeAdapter) OutputsEqual(a, b adapter.Output) bool { return true }

func (fakeAdapter) Minimize(g any, predicate func(any) bool) any {
	best := g.(*fakeGraph)
	for best.n > 0 {
		candidate := &fakeGraph{n: best.n - 1}
		if !predicate(candidate) {
			break
		}
		best = candidate
	}
	return best
}

func (fakeAdapter) InputsPerCodegen() int { return 1 }

func (fakeAdapter) EntryPointName() string { return "fuzz_target" }

func newTestWorker(t *testing.T, mode config.Mode, toolchains []config.Compilation) (*Worker, string) {
	t.Helper()
	dir := t.TempDir()
	return &Worker{
		ThreadID:   0,
		Adapter:    fakeAdapter{},
		Toolchains: toolchains,
		Mode:       mode,
		Timeout:    2 * time.Second,
		TempDir:    dir,
		DumpDir:    dir,
		Archive:    archive.New(dir),
		Counters:   &Counters{},
	}, dir
}

func TestRunIterationArchivesCompilerFailure(t *testing.T) {
	w, dir := newTestWorker(t, config.ModeCrash, []config.Compilation{{CompilerExe: "false"}})
	if err := w.RunIteration(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := w.Counters.Snapshot()
	if snap.Bugs != 1 {
		t.Fatalf("expected 1 bug archived, got %d", snap.Bugs)
	}
	if snap.Iterations != 1 {
		t.Fatalf("expected 1 iteration counted, got %d", snap.Iterations)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "fuzz_issues", "compiler_fails", "*_min.cpp"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("expected an archived compiler_fails/*_min.cpp file")
	}
}

func TestRunIterationCleanCompileIsNotABug(t *testing.T) {
	w, _ := newTestWorker(t, config.ModeCrash, []config.Compilation{{CompilerExe: "true"}})
	if err := w.RunIteration(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := w.Counters.Snapshot()
	if snap.Bugs != 0 {
		t.Fatalf("expected no bugs for a clean compile, got %d", snap.Bugs)
	}
	if snap.Iterations != 1 {
		t.Fatalf("expected 1 iteration counted, got %d", snap.Iterations)
	}
}

func TestRunIterationPanicsOnLoaderFailure(t *testing.T) {
	w, _ := newTestWorker(t, config.ModeCrashDiff, []config.Compilation{
		{CompilerExe: "/bin/sh", CompilerArgs: []string{"-c", "printf not-an-elf-object"}},
	})
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected RunIteration to panic on an unloadable object (spec.md §7: loader inconsistencies are fatal to the worker)")
		}
	}()
	_ = w.RunIteration(context.Background())
	t.Fatalf("expected RunIteration to panic, it returned normally")
}

func TestFirstFailureFindsEarliestNonSuccess(t *testing.T) {
	results := []toolchainResult{
		{res: compiledriver.Result{Outcome: compiledriver.OutcomeSuccess}},
		{res: compiledriver.Result{Outcome: compiledriver.OutcomeFailure}},
		{res: compiledriver.Result{Outcome: compiledriver.OutcomeSuccess}},
	}
	idx, ok := firstFailure(results)
	if !ok || idx != 1 {
		t.Fatalf("expected failure at index 1, got idx=%d ok=%v", idx, ok)
	}
}

func TestSubstituteTempFilename(t *testing.T) {
	args := []string{"-o", tmpFilePlaceholder, "-c", "src.cpp"}
	out := substituteTempFilename(args, "/tmp/obj123.o")
	if out[1] != "/tmp/obj123.o" {
		t.Fatalf("expected placeholder substituted, got %v", out)
	}
	if args[1] != tmpFilePlaceholder {
		t.Fatalf("substituteTempFilename must not mutate its input slice")
	}
}

func TestDeriveSeedDivergesAcrossThreadsAndRuns(t *testing.T) {
	a := deriveSeed(0, 1000)
	b := deriveSeed(1, 1000)
	c := deriveSeed(0, 2000)
	if a == b || a == c || b == c {
		t.Fatalf("expected distinct seeds, got a=%d b=%d c=%d", a, b, c)
	}
}

func TestSerializeMeta(t *testing.T) {
	got := serializeMeta(fakeMeta{})
	want := "num_i_vals=0\nnum_f_vals=0\nnum_d_vals=0\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
