package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{
		"compilation_timeout_seconds": 15,
		"mode": "crash+diff",
		"compilations": [{"compiler_exe": "/usr/bin/g++", "compiler_args": ["-O2"], "use_temp_file": false}],
		"mitigations": ["AVOID_FLOATING_POINT"]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeCrashDiff {
		t.Fatalf("expected crash+diff mode, got %q", cfg.Mode)
	}
	if cfg.CompilationTimeoutSeconds != 15 {
		t.Fatalf("expected explicit timeout to survive, got %d", cfg.CompilationTimeoutSeconds)
	}
	if !cfg.HasMitigation("AVOID_FLOATING_POINT") {
		t.Fatalf("expected mitigation to be recognized")
	}
	if cfg.HasMitigation("AVOID_POLY128") {
		t.Fatalf("did not expect unlisted mitigation to be recognized")
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{"mode": "bogus", "compilations": [{"compiler_exe": "/usr/bin/gcc"}]}`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestLoadRejectsEmptyCompilations(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{"mode": "crash", "compilations": []}`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty compilations list")
	}
}

func TestLoadFillsDefaultTimeoutFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{"mode": "crash", "compilations": [{"compiler_exe": "/usr/bin/gcc"}]}`)

	t.Setenv("SIMDDIFF_COMPILE_TIMEOUT_SECONDS", "42")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CompilationTimeoutSeconds != 42 {
		t.Fatalf("expected env override 42, got %d", cfg.CompilationTimeoutSeconds)
	}
}
