// Command repro-arm replays an archived ARM reproducer (spec.md §6):
// `repro-arm <config> <code.cpp> <meta> <input>`. It recompiles code.cpp
// against every toolchain the config lists, loads each successful object,
// and executes it with the recorded input. Exit code 0 means the bug
// reproduced (a toolchain still fails to compile, or two toolchains'
// outputs still disagree); any other exit code means it did not, or the
// CLI/config/artifacts were malformed.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xyproto/simddiff/internal/adapter/arm"
	"github.com/xyproto/simddiff/internal/compiledriver"
	"github.com/xyproto/simddiff/internal/config"
	"github.com/xyproto/simddiff/internal/loader"
)

// tmpFilePlaceholder mirrors internal/fuzzloop's constant of the same
// name: the marker a compiler's argument vector carries when it insists
// on writing its object to a named file instead of stdout.
const tmpFilePlaceholder = "^TMP_FILENAME^"

func usageError() {
	fmt.Fprintln(os.Stderr, "usage: repro-arm <config> <code.cpp> <meta> <input>")
	os.Exit(2)
}

func main() {
	if len(os.Args) != 5 {
		usageError()
	}
	configPath, codePath, metaPath, inputPath := os.Args[1], os.Args[2], os.Args[3], os.Args[4]

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro-arm: %v\n", err)
		os.Exit(1)
	}

	src, err := os.ReadFile(codePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro-arm: read %s: %v\n", codePath, err)
		os.Exit(1)
	}
	metaText, err := os.ReadFile(metaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro-arm: read %s: %v\n", metaPath, err)
		os.Exit(1)
	}
	meta, err := arm.DeserializeMeta(string(metaText))
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro-arm: %v\n", err)
		os.Exit(1)
	}
	inputText, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro-arm: read %s: %v\n", inputPath, err)
		os.Exit(1)
	}
	in, err := arm.DeserializeInput(string(inputText))
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro-arm: %v\n", err)
		os.Exit(1)
	}

	tempDir, err := os.MkdirTemp("", "repro-arm-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro-arm: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tempDir)

	timeout := time.Duration(cfg.CompilationTimeoutSeconds) * time.Second
	ctx := context.Background()

	anyCompileFailed := false
	var outputs [][]byte
	for i, comp := range cfg.Compilations {
		srcPath := fmt.Sprintf("%s/repro_%d.cpp", tempDir, i)
		objPath := fmt.Sprintf("%s/repro_%d.o", tempDir, i)
		args := comp.CompilerArgs
		if comp.UseTempFile {
			substituted := make([]string, len(args))
			for j, a := range args {
				substituted[j] = strings.ReplaceAll(a, tmpFilePlaceholder, objPath)
			}
			args = substituted
		}
		spec := compiledriver.Spec{Exe: comp.CompilerExe, Args: args, Timeout: timeout}
		res, err := compiledriver.CompileWithFlakeRecheck(ctx, srcPath, string(src), []compiledriver.Spec{spec}, 3)
		if err != nil {
			fmt.Fprintf(os.Stderr, "repro-arm: toolchain %d: %v\n", i, err)
			os.Exit(1)
		}
		if res.Outcome != compiledriver.OutcomeSuccess {
			fmt.Printf("toolchain %d: compile failed (outcome=%v, exit=%d)\n", i, res.Outcome, res.ExitCode)
			anyCompileFailed = true
			continue
		}

		objBytes := res.Stdout
		if comp.UseTempFile {
			objBytes, err = os.ReadFile(objPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "repro-arm: toolchain %d: read object: %v\n", i, err)
				os.Exit(1)
			}
		}

		page, err := loader.Load(objBytes, arm.FuncName, tempDir)
		if err != nil {
			fmt.Printf("toolchain %d: load failed: %v\n", i, err)
			anyCompileFailed = true
			continue
		}

		out, err := arm.Execute(page, meta, in)
		page.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "repro-arm: toolchain %d: execute: %v\n", i, err)
			os.Exit(1)
		}
		fmt.Printf("toolchain %d: % x\n", i, out.Bytes())
		outputs = append(outputs, out.Bytes())
	}

	if anyCompileFailed {
		fmt.Println("repro: reproduced (compiler failure)")
		os.Exit(0)
	}

	for i := 1; i < len(outputs); i++ {
		if string(outputs[i]) != string(outputs[0]) {
			fmt.Println("repro: reproduced (runtime divergence)")
			os.Exit(0)
		}
	}

	fmt.Println("repro: did not reproduce")
	os.Exit(1)
}
