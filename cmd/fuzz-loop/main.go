// Command fuzz-loop runs the scalar-loop-body flavor of the differential
// and crash fuzzer (spec.md §6). Unlike fuzz-x86/fuzz-arm it takes no
// positional config path; it reads internal/cli.DefaultConfigPath
// ("config.json") from the working directory.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/adapter/scalarloop"
	"github.com/xyproto/simddiff/internal/cli"
	"github.com/xyproto/simddiff/internal/fuzzloop"
)

func main() {
	defer glog.Flush()

	args, err := cli.ParseFuzzArgs("fuzz-loop", os.Args[1:], false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		glog.Exitf("fuzz-loop: %v", err)
	}

	tempDir, dumpDir, err := cli.MakeWorkdirs("fuzz-loop")
	if err != nil {
		glog.Exitf("fuzz-loop: %v", err)
	}
	defer os.RemoveAll(tempDir)

	ctx, cancel := cli.SignalContext()
	defer cancel()

	inputsPer := cli.InputsPerCodegen(cfg.Mode)
	newAdapter := func(seed uint64) adapter.Adapter {
		return scalarloop.New(seed, inputsPer)
	}

	if err := fuzzloop.Run(ctx, fuzzloop.Options{
		Config:        cfg,
		NewAdapter:    newAdapter,
		TempDir:       tempDir,
		DumpDir:       dumpDir,
		ArchiveRoot:   ".",
		BootTimestamp: cli.BootTimestamp(),
	}); err != nil {
		glog.Exitf("fuzz-loop: %v", err)
	}
}
