package fuzzloop

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/archive"
	"github.com/xyproto/simddiff/internal/arena"
	"github.com/xyproto/simddiff/internal/compiledriver"
	"github.com/xyproto/simddiff/internal/config"
	"github.com/xyproto/simddiff/internal/loader"
)

// maxCompileRetries is the flake-recheck budget spec.md §4.5 describes: a
// spurious compiler failure is re-checked up to three times.
const maxCompileRetries = 3

// tmpFilePlaceholder is the marker spec.md §4.5 says a compiler's argument
// vector carries when it insists on writing its object to a named file
// instead of stdout.
const tmpFilePlaceholder = "^TMP_FILENAME^"

// Worker holds one fuzz thread's isolated state: its own adapter (with its
// own RNG), the shared compiler list and mode, and a handle to the shared
// counters and archive (spec.md §4.8, §5).
type Worker struct {
	ThreadID    int
	Adapter     adapter.Adapter
	Toolchains  []config.Compilation
	Mode        config.Mode
	Timeout     time.Duration
	TempDir     string
	DumpDir     string
	Archive     *archive.Archive
	Counters    *Counters
}

// toolchainResult is one compiler invocation's classified outcome plus, on
// success, the compiled object bytes.
type toolchainResult struct {
	res compiledriver.Result
	obj []byte
}

// sourcePath returns this worker's dedicated temp-file path for generated
// source, keyed by thread id so concurrent workers never collide (spec.md
// §4.8: "own temp-file path keyed by thread id").
func (w *Worker) sourcePath() string {
	return filepath.Join(w.TempDir, fmt.Sprintf("worker_%d_gen.cpp", w.ThreadID))
}

func (w *Worker) objectPath(toolchainIdx int) string {
	return filepath.Join(w.TempDir, fmt.Sprintf("worker_%d_gen_%d.o", w.ThreadID, toolchainIdx))
}

// substituteTempFilename resolves the ^TMP_FILENAME^ placeholder a
// compiler's arguments may carry into this invocation's real object path.
func substituteTempFilename(args []string, path string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = strings.ReplaceAll(a, tmpFilePlaceholder, path)
	}
	return out
}

// compileToolchain runs one configured compiler against src and returns its
// classified result plus, on success, the object bytes — read from stdout
// or, when the compiler writes to a named file, from that file (spec.md
// §4.5).
func (w *Worker) compileToolchain(ctx context.Context, idx int, src string) (toolchainResult, error) {
	comp := w.Toolchains[idx]
	objPath := w.objectPath(idx)
	args := comp.CompilerArgs
	if comp.UseTempFile {
		args = substituteTempFilename(args, objPath)
	}
	spec := compiledriver.Spec{Exe: comp.CompilerExe, Args: args, Timeout: w.Timeout}

	res, err := compiledriver.CompileWithFlakeRecheck(ctx, w.sourcePath(), src, []compiledriver.Spec{spec}, maxCompileRetries)
	if err != nil {
		return toolchainResult{}, err
	}
	if res.Outcome != compiledriver.OutcomeSuccess {
		return toolchainResult{res: res}, nil
	}

	if !comp.UseTempFile {
		return toolchainResult{res: res, obj: res.Stdout}, nil
	}
	obj, err := os.ReadFile(objPath)
	if err != nil {
		return toolchainResult{}, fmt.Errorf("fuzzloop: read object file %s: %w", objPath, err)
	}
	return toolchainResult{res: res, obj: obj}, nil
}

// compileAll runs every configured toolchain against src independently
// (each toolchain's object is compared against every other's at execute
// time, so none may gate another).
func (w *Worker) compileAll(ctx context.Context, src string) ([]toolchainResult, error) {
	results := make([]toolchainResult, len(w.Toolchains))
	for i := range w.Toolchains {
		r, err := w.compileToolchain(ctx, i, src)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	return results, nil
}

func firstFailure(results []toolchainResult) (int, bool) {
	for i, r := range results {
		if r.res.Outcome != compiledriver.OutcomeSuccess {
			return i, true
		}
	}
	return 0, false
}

func closePages(pages []*arena.Page) {
	for _, p := range pages {
		if p != nil {
			_ = p.Close()
		}
	}
}

// RunIteration executes exactly one fuzz iteration: generate, emit,
// compile every toolchain, then either minimize+archive a compiler
// failure, or (in diff mode) execute+compare random inputs across the
// compiled pages and minimize+archive the first divergence (spec.md
// §4.8). It always accounts the emitted source's byte length and an
// iteration, regardless of outcome.
func (w *Worker) RunIteration(ctx context.Context) error {
	g := w.Adapter.GenerateCtx()
	src, meta := w.Adapter.Emit(g)
	defer w.Counters.addIteration(len(src))

	results, err := w.compileAll(ctx, src)
	if err != nil {
		return err
	}

	if idx, failed := firstFailure(results); failed {
		return w.handleCompilerFailure(ctx, g, src, idx, results[idx].res)
	}

	// crash mode never executes generated code: a clean compile is success.
	// crash+optbait is not yet wired to an equivalence check against masked
	// variants (see SPEC_FULL.md), so it degrades to crash-only for now.
	if w.Mode != config.ModeCrashDiff {
		return nil
	}

	pages := make([]*arena.Page, len(results))
	defer closePages(pages)
	for i, r := range results {
		page, err := loader.Load(r.obj, w.Adapter.EntryPointName(), w.DumpDir)
		if err != nil {
			// spec.md §7: loader inconsistencies (unknown relocation, a
			// missing section) are fatal to the worker that hit them, not
			// recoverable like a flaky compile — panic here and let
			// runWorker's recover stop only this goroutine; every other
			// worker keeps iterating.
			panic(fmt.Errorf("fuzzloop: worker %d: toolchain %d load failed: %w", w.ThreadID, i, err))
		}
		pages[i] = page
	}

	for trial := 0; trial < w.Adapter.InputsPerCodegen(); trial++ {
		in := w.Adapter.RandomInput(meta)

		first, err := w.Adapter.Execute(pages[0], meta, in)
		if err != nil {
			return fmt.Errorf("fuzzloop: worker %d: execute toolchain 0: %w", w.ThreadID, err)
		}
		for i := 1; i < len(pages); i++ {
			out, err := w.Adapter.Execute(pages[i], meta, in)
			if err != nil {
				return fmt.Errorf("fuzzloop: worker %d: execute toolchain %d: %w", w.ThreadID, i, err)
			}
			if !w.Adapter.OutputsEqual(first, out) {
				return w.handleRuntimeDiff(ctx, g, src, meta, in, 0, i)
			}
		}
	}
	return nil
}

// handleCompilerFailure minimizes g under the predicate "recompiling
// against the same failing toolchain still fails" and archives it as
// either a timeout or a compiler-failure reproducer.
func (w *Worker) handleCompilerFailure(ctx context.Context, g any, src string, idx int, failing compiledriver.Result) error {
	predicate := func(candidate any) bool {
		candSrc, _ := w.Adapter.Emit(candidate)
		r, err := w.compileToolchain(ctx, idx, candSrc)
		if err != nil {
			return false
		}
		return r.res.Outcome != compiledriver.OutcomeSuccess
	}

	minimized := w.Adapter.Minimize(g, predicate)
	minSrc, _ := w.Adapter.Emit(minimized)

	category := archive.CategoryCompilerFail
	if failing.Outcome == compiledriver.OutcomeTimeout {
		category = archive.CategoryTimeout
	}

	stem, err := w.Archive.Save(archive.Failure{
		Category:     category,
		OriginalSrc:  src,
		MinimizedSrc: minSrc,
	})
	if err != nil {
		return err
	}
	w.Counters.addBug()
	glog.Infof("fuzzloop: worker %d: archived %s/%s (toolchain %d, exit=%d)", w.ThreadID, category, stem, idx, failing.ExitCode)
	return nil
}

// handleRuntimeDiff minimizes g under the predicate "candidate still
// compiles on both diverging toolchains and still disagrees on the
// captured input", then archives it as a runtime diff.
func (w *Worker) handleRuntimeDiff(ctx context.Context, g any, src string, meta adapter.Meta, in adapter.Input, idxA, idxB int) error {
	predicate := func(candidate any) bool {
		candSrc, candMeta := w.Adapter.Emit(candidate)

		var pages []*arena.Page
		defer func() { closePages(pages) }()
		for _, idx := range []int{idxA, idxB} {
			r, err := w.compileToolchain(ctx, idx, candSrc)
			if err != nil || r.res.Outcome != compiledriver.OutcomeSuccess {
				return false
			}
			page, err := loader.Load(r.obj, w.Adapter.EntryPointName(), w.DumpDir)
			if err != nil {
				return false
			}
			pages = append(pages, page)
		}

		outA, err := w.Adapter.Execute(pages[0], candMeta, in)
		if err != nil {
			return false
		}
		outB, err := w.Adapter.Execute(pages[1], candMeta, in)
		if err != nil {
			return false
		}
		return !w.Adapter.OutputsEqual(outA, outB)
	}

	minimized := w.Adapter.Minimize(g, predicate)
	minSrc, minMeta := w.Adapter.Emit(minimized)

	stem, err := w.Archive.Save(archive.Failure{
		Category:     archive.CategoryRuntimeDiff,
		OriginalSrc:  src,
		MinimizedSrc: minSrc,
		Input:        in.Serialize(),
		MinMeta:      serializeMeta(minMeta),
	})
	if err != nil {
		return err
	}
	w.Counters.addBug()
	glog.Infof("fuzzloop: worker %d: archived runtime_diffs/%s (toolchains %d vs %d)", w.ThreadID, stem, idxA, idxB)
	return nil
}
