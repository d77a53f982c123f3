package compiledriver

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRunSuccess(t *testing.T) {
	res, err := Run(context.Background(), Spec{Exe: "true", Timeout: 2 * time.Second}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %v", res.Outcome)
	}
}

func TestRunFailure(t *testing.T) {
	res, err := Run(context.Background(), Spec{Exe: "false", Timeout: 2 * time.Second}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != OutcomeFailure {
		t.Fatalf("expected failure, got %v", res.Outcome)
	}
	if res.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", res.ExitCode)
	}
}

func TestRunTimeout(t *testing.T) {
	res, err := Run(context.Background(), Spec{Exe: "sleep", Args: []string{"5"}, Timeout: 300 * time.Millisecond}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != OutcomeTimeout {
		t.Fatalf("expected timeout, got %v", res.Outcome)
	}
}

func TestCompileStopsAtFirstNonSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.cpp")

	specs := []Spec{
		{Exe: "true", Timeout: time.Second},
		{Exe: "false", Timeout: time.Second},
		{Exe: "true", Timeout: time.Second}, // must never run
	}
	res, err := Compile(context.Background(), path, "int main(){}", specs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != OutcomeFailure {
		t.Fatalf("expected failure result from second compiler, got %v", res.Outcome)
	}
}

func TestCompileWithFlakeRecheckReportsPersistentFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.cpp")

	// "false" always fails, so recheck should exhaust retries and report
	// the failure rather than loop forever.
	res, err := CompileWithFlakeRecheck(context.Background(), path, "x", []Spec{{Exe: "false", Timeout: time.Second}}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != OutcomeFailure {
		t.Fatalf("expected persistent failure to be reported, got %v", res.Outcome)
	}
}
