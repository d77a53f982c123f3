// Package fuzzloop orchestrates a flavor adapter, the compile driver, the
// object loader, and the minimizer/archive into the worker loop spec.md
// §4.8 describes, driven generically over adapter.Adapter so the same
// orchestration runs x86, ARM, scalar-loop, and inline-asm fuzzing
// unchanged. Concurrency here uses goroutines, sync.WaitGroup, and
// sync/atomic rather than the teacher's raw clone()/futex thread
// primitives in parallel.go: those are specific to the teacher's
// hot-reload execution model, while fuzz workers are independent,
// share-nothing loops for which Go's native concurrency primitives are
// the idiomatic fit. detectWorkerCount still adapts the teacher's
// /proc/cpuinfo probe for the default thread count.
package fuzzloop

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/archive"
	"github.com/xyproto/simddiff/internal/config"
)

// Options configures one Run invocation.
type Options struct {
	Config *config.Config

	// NewAdapter builds a fresh, thread-owned adapter instance seeded by
	// the given RNG seed. Supplied by the cmd/ entry point so fuzzloop
	// stays flavor-agnostic.
	NewAdapter func(seed uint64) adapter.Adapter

	// TempDir holds per-worker generated source and object files.
	TempDir string
	// DumpDir receives unrelocatable objects the loader cannot handle.
	DumpDir string
	// ArchiveRoot is the directory fuzz_issues/ is created under.
	ArchiveRoot string

	// BootTimestamp seeds the per-worker RNG derivation (spec.md §4.8);
	// callers pass the process start time so every run's seed sequence
	// diverges from every other run's, even for the same thread id.
	BootTimestamp uint64
}

// Run launches Config.Threads worker goroutines (or a /proc/cpuinfo-based
// default if unset) plus a once-per-second status printer, and blocks
// until ctx is canceled.
func Run(ctx context.Context, opt Options) error {
	threads := opt.Config.Threads
	if threads <= 0 {
		threads = detectWorkerCount()
	}

	counters := &Counters{}
	arc := archive.New(opt.ArchiveRoot)
	timeout := time.Duration(opt.Config.CompilationTimeoutSeconds) * time.Second

	statusCtx, stopStatus := context.WithCancel(ctx)
	defer stopStatus()
	go runStatusPrinter(statusCtx, counters, time.Now())

	glog.Infof("fuzzloop: starting %d worker(s) in mode %s", threads, opt.Config.Mode)

	var wg sync.WaitGroup
	for id := 0; id < threads; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			seed := deriveSeed(id, opt.BootTimestamp)
			w := &Worker{
				ThreadID:   id,
				Adapter:    opt.NewAdapter(seed),
				Toolchains: opt.Config.Compilations,
				Mode:       opt.Config.Mode,
				Timeout:    timeout,
				TempDir:    opt.TempDir,
				DumpDir:    opt.DumpDir,
				Archive:    arc,
				Counters:   counters,
			}
			runWorker(ctx, w)
		}(id)
	}
	wg.Wait()
	return nil
}

// runWorker loops RunIteration until ctx is canceled, logging (but not
// stopping on) per-iteration errors — a single bad iteration (e.g. a
// transient I/O error) should not take down the whole worker pool. A
// loader inconsistency is fatal to the worker (spec.md §7): RunIteration
// panics in that case, and the recover below stops this goroutine alone,
// logging loudly, while every other worker's loop is untouched.
func runWorker(ctx context.Context, w *Worker) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("fuzzloop: worker %d: fatal, exiting: %v", w.ThreadID, r)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := w.RunIteration(ctx); err != nil {
			glog.Errorf("fuzzloop: worker %d: %v", w.ThreadID, err)
		}
	}
}
