// Package config loads the fuzzer's JSON configuration (spec.md §6) and
// layers environment-variable overrides on top of it. The schema parser
// itself is out of core scope per the spec's Non-goals, but the ambient
// concern of "how does this repo read config" still follows the teacher's
// own pattern: xyproto/env/v2 for env fallbacks (a dependency carried
// straight from the teacher's go.mod) plus the standard library's
// encoding/json for the schema, since no example repo in the pack ships a
// richer config-struct library (koanf, viper) worth adopting instead.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// Mode selects which checks the fuzz loop performs after a successful
// compile (spec.md §4.8, §9).
type Mode string

const (
	ModeCrash        Mode = "crash"
	ModeCrashDiff     Mode = "crash+diff"
	ModeCrashOptBait  Mode = "crash+optbait"
)

// Compilation describes one compiler invocation in the pipeline.
type Compilation struct {
	CompilerExe  string   `json:"compiler_exe"`
	CompilerArgs []string `json:"compiler_args"`
	UseTempFile  bool     `json:"use_temp_file"`
}

// ExtraConfig carries optional, flavor-specific settings not common to
// every fuzz mode.
type ExtraConfig struct {
	ExeServer string `json:"exe_server,omitempty"`
}

// Config is the top-level JSON document described in spec.md §6.
type Config struct {
	CompilationTimeoutSeconds int           `json:"compilation_timeout_seconds"`
	Mode                      Mode          `json:"mode"`
	Compilations              []Compilation `json:"compilations"`
	Mitigations               []string      `json:"mitigations"`
	ExtraConfig               ExtraConfig   `json:"extra_config"`

	// Threads is never part of the JSON document (it's a CLI flag per
	// spec.md §6); it is populated by Load from the SIMDDIFF_THREADS
	// environment variable as a default, then may be overridden again by
	// an explicit --threads flag in cmd/.
	Threads int `json:"-"`
}

// HasMitigation reports whether a named mitigation (e.g.
// "AVOID_FLOATING_POINT") is enabled.
func (c *Config) HasMitigation(name string) bool {
	for _, m := range c.Mitigations {
		if m == name {
			return true
		}
	}
	return false
}

// defaultThreads is used when SIMDDIFF_THREADS does not specify a worker
// count (the JSON document never does); spec.md §5 calls out 4 as the
// default.
const defaultThreads = 4

// Load reads and validates a config document at path, then applies
// environment overrides: SIMDDIFF_THREADS for the default worker count
// and SIMDDIFF_COMPILE_TIMEOUT_SECONDS to override a document that didn't
// set compilation_timeout_seconds (0).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	cfg.Threads = env.Int("SIMDDIFF_THREADS", defaultThreads)
	if cfg.CompilationTimeoutSeconds == 0 {
		cfg.CompilationTimeoutSeconds = env.Int("SIMDDIFF_COMPILE_TIMEOUT_SECONDS", 30)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeCrash, ModeCrashDiff, ModeCrashOptBait:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if len(c.Compilations) == 0 {
		return fmt.Errorf("compilations must list at least one compiler")
	}
	for i, comp := range c.Compilations {
		if comp.CompilerExe == "" {
			return fmt.Errorf("compilations[%d].compiler_exe is required", i)
		}
	}
	return nil
}
