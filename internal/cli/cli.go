// Package cli holds the argument parsing and process plumbing shared by
// every fuzz-* entry point under cmd/ (spec.md §6): all four fuzz loops
// load the same JSON config, accept the same --threads override, and run
// until SIGINT/SIGTERM. Only repro-arm's one-shot reproduction flow
// (distinct arguments, distinct exit-code contract) stays out of this
// package.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xyproto/simddiff/internal/config"
)

// DefaultConfigPath is used by the fuzz-loop and fuzz-asm entry points,
// whose CLI signature in spec.md §6 takes no explicit config path
// argument (unlike fuzz-x86/fuzz-arm's `<config.json>` positional).
const DefaultConfigPath = "config.json"

// FuzzArgs is one fuzz-* binary's parsed command line.
type FuzzArgs struct {
	ConfigPath string
	Threads    int
}

// ParseFuzzArgs parses `<config.json> [--threads N]` (or, when
// positionalConfig is false, just `[--threads N]`, defaulting the config
// path to DefaultConfigPath).
func ParseFuzzArgs(progName string, args []string, positionalConfig bool) (FuzzArgs, error) {
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	threads := fs.Int("threads", 0, "worker thread count (0 = auto-detect)")
	if err := fs.Parse(args); err != nil {
		return FuzzArgs{}, err
	}

	rest := fs.Args()
	configPath := DefaultConfigPath
	if positionalConfig {
		if len(rest) < 1 {
			return FuzzArgs{}, fmt.Errorf("usage: %s <config.json> [--threads N]", progName)
		}
		configPath = rest[0]
	}

	return FuzzArgs{ConfigPath: configPath, Threads: *threads}, nil
}

// LoadConfig loads args.ConfigPath and applies an explicit --threads
// override on top of whatever config.Load already resolved from the
// environment.
func LoadConfig(args FuzzArgs) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	if args.Threads > 0 {
		cfg.Threads = args.Threads
	}
	return cfg, nil
}

// SignalContext returns a context canceled on SIGINT/SIGTERM, the only
// cancellation mechanism spec.md §5 defines ("Ctrl-C terminates the
// process").
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// BootTimestamp returns the current Unix time in seconds; each fuzz-*
// main calls it once and feeds it into every worker's seed derivation
// (spec.md §4.8) so that two runs of the same binary started in different
// seconds do not replay the same per-thread RNG sequence.
func BootTimestamp() uint64 {
	return uint64(time.Now().Unix())
}

// InputsPerCodegen picks the per-compiled-program random-input trial count
// spec.md §4.1 calls "typical: 1 for pure crash, ~1000 for differential".
func InputsPerCodegen(mode config.Mode) int {
	if mode == config.ModeCrashDiff {
		return 1000
	}
	return 1
}

// MakeWorkdirs creates (and returns) the temp and dump directories every
// fuzz-* binary needs for per-worker generated source/object files and
// unrelocatable-object dumps.
func MakeWorkdirs(prefix string) (tempDir, dumpDir string, err error) {
	tempDir, err = os.MkdirTemp("", prefix+"-work-")
	if err != nil {
		return "", "", fmt.Errorf("cli: create temp dir: %w", err)
	}
	dumpDir, err = os.MkdirTemp("", prefix+"-dumps-")
	if err != nil {
		return "", "", fmt.Errorf("cli: create dump dir: %w", err)
	}
	return tempDir, dumpDir, nil
}
