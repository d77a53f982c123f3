// Command fuzz-asm runs the inline-asm-block flavor of the differential
// and crash fuzzer (spec.md §6). Like fuzz-loop, it takes no positional
// config path and reads internal/cli.DefaultConfigPath from the working
// directory.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/adapter/asmflavor"
	"github.com/xyproto/simddiff/internal/cli"
	"github.com/xyproto/simddiff/internal/fuzzloop"
)

func main() {
	defer glog.Flush()

	args, err := cli.ParseFuzzArgs("fuzz-asm", os.Args[1:], false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		glog.Exitf("fuzz-asm: %v", err)
	}

	tempDir, dumpDir, err := cli.MakeWorkdirs("fuzz-asm")
	if err != nil {
		glog.Exitf("fuzz-asm: %v", err)
	}
	defer os.RemoveAll(tempDir)

	ctx, cancel := cli.SignalContext()
	defer cancel()

	inputsPer := cli.InputsPerCodegen(cfg.Mode)
	newAdapter := func(seed uint64) adapter.Adapter {
		return asmflavor.New(seed, inputsPer)
	}

	if err := fuzzloop.Run(ctx, fuzzloop.Options{
		Config:        cfg,
		NewAdapter:    newAdapter,
		TempDir:       tempDir,
		DumpDir:       dumpDir,
		ArchiveRoot:   ".",
		BootTimestamp: cli.BootTimestamp(),
	}); err != nil {
		glog.Exitf("fuzz-asm: %v", err)
	}
}
