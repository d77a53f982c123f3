// Command fuzz-x86 runs the x86 SIMD-intrinsic flavor of the differential
// and crash fuzzer (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/adapter/x86"
	"github.com/xyproto/simddiff/internal/cli"
	"github.com/xyproto/simddiff/internal/fuzzloop"
)

// capLow/capHigh bound the per-iteration node budget (spec.md §4.2: "cap
// drawn uniformly from a configured range, typically 20-140").
const (
	capLow  = 20
	capHigh = 140
)

func main() {
	defer glog.Flush()

	args, err := cli.ParseFuzzArgs("fuzz-x86", os.Args[1:], true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		glog.Exitf("fuzz-x86: %v", err)
	}

	tempDir, dumpDir, err := cli.MakeWorkdirs("fuzz-x86")
	if err != nil {
		glog.Exitf("fuzz-x86: %v", err)
	}
	defer os.RemoveAll(tempDir)

	ctx, cancel := cli.SignalContext()
	defer cancel()

	inputsPer := cli.InputsPerCodegen(cfg.Mode)
	newAdapter := func(seed uint64) adapter.Adapter {
		return x86.New(seed, capLow, capHigh, inputsPer)
	}

	if err := fuzzloop.Run(ctx, fuzzloop.Options{
		Config:        cfg,
		NewAdapter:    newAdapter,
		TempDir:       tempDir,
		DumpDir:       dumpDir,
		ArchiveRoot:   ".",
		BootTimestamp: cli.BootTimestamp(),
	}); err != nil {
		glog.Exitf("fuzz-x86: %v", err)
	}
}
