// Command fuzz-arm runs the ARM NEON-intrinsic flavor of the differential
// and crash fuzzer (spec.md §6). When the config's extra_config.exe_server
// is set, generated code executes on a remote device over the wire
// protocol in spec.md §4.10 instead of in-process (the fuzzing host
// usually cannot run AArch64 natively).
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/xyproto/simddiff/internal/adapter"
	"github.com/xyproto/simddiff/internal/adapter/arm"
	"github.com/xyproto/simddiff/internal/cli"
	"github.com/xyproto/simddiff/internal/fuzzloop"
	"github.com/xyproto/simddiff/internal/remote"
)

const (
	capLow  = 20
	capHigh = 140
)

func main() {
	defer glog.Flush()

	args, err := cli.ParseFuzzArgs("fuzz-arm", os.Args[1:], true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		glog.Exitf("fuzz-arm: %v", err)
	}

	tempDir, dumpDir, err := cli.MakeWorkdirs("fuzz-arm")
	if err != nil {
		glog.Exitf("fuzz-arm: %v", err)
	}
	defer os.RemoveAll(tempDir)

	var remoteClient *remote.Client
	if cfg.ExtraConfig.ExeServer != "" {
		remoteClient, err = remote.Dial(cfg.ExtraConfig.ExeServer)
		if err != nil {
			glog.Exitf("fuzz-arm: dial remote exec server %s: %v", cfg.ExtraConfig.ExeServer, err)
		}
		defer remoteClient.Close()
		glog.Infof("fuzz-arm: executing remotely via %s", cfg.ExtraConfig.ExeServer)
	}

	ctx, cancel := cli.SignalContext()
	defer cancel()

	inputsPer := cli.InputsPerCodegen(cfg.Mode)
	newAdapter := func(seed uint64) adapter.Adapter {
		a := arm.New(seed, capLow, capHigh, inputsPer)
		if remoteClient != nil {
			a = a.WithRemote(remoteClient)
		}
		return a
	}

	if err := fuzzloop.Run(ctx, fuzzloop.Options{
		Config:        cfg,
		NewAdapter:    newAdapter,
		TempDir:       tempDir,
		DumpDir:       dumpDir,
		ArchiveRoot:   ".",
		BootTimestamp: cli.BootTimestamp(),
	}); err != nil {
		glog.Exitf("fuzz-arm: %v", err)
	}
}
