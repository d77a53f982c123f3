// Package archive persists minimized failures to disk (spec.md §4.9).
// Category directories and filename stems are the only layout the spec
// fixes; everything else (human-readable divergence reports) is ambient
// tooling carried over from the teacher's own dependency set. The
// go-diff/diffmatchpatch dependency is grounded on google-kati's go.mod,
// which pulls in the same library for readable text diffing.
package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Category names one of the four bug buckets spec.md §4.9 defines.
type Category string

const (
	CategoryTimeout       Category = "timeouts"
	CategoryCompilerFail  Category = "compiler_fails"
	CategoryRuntimeDiff   Category = "runtime_diffs"
	CategoryOptBait       Category = "opt_bait"
)

// Failure is everything needed to archive one reproducer.
type Failure struct {
	Category     Category
	OriginalSrc  string
	MinimizedSrc string
	// Input is the serialized random input that triggered a runtime diff
	// (empty for timeouts/compiler failures).
	Input string
	// MinMeta is the minimized program's serialized CodeMeta (empty unless
	// Input is also set).
	MinMeta string
}

// Archive is rooted at a fuzz_issues/ directory.
type Archive struct {
	root string
}

// New returns an Archive rooted at root/fuzz_issues, creating category
// subdirectories lazily on first write.
func New(root string) *Archive {
	return &Archive{root: filepath.Join(root, "fuzz_issues")}
}

// Stem computes the archive filename stem: the first 10 hex characters of
// the SHA-256 hash of the minimized source.
func Stem(minimizedSrc string) string {
	sum := sha256.Sum256([]byte(minimizedSrc))
	return hex.EncodeToString(sum[:])[:10]
}

// Save writes a failure's artifacts and returns the stem used, so callers
// can log/report it.
func (a *Archive) Save(f Failure) (string, error) {
	stem := Stem(f.MinimizedSrc)
	dir := filepath.Join(a.root, string(f.Category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: mkdir %s: %w", dir, err)
	}

	writes := map[string]string{
		stem + "_orig.cpp": f.OriginalSrc,
		stem + "_min.cpp":  f.MinimizedSrc,
	}
	if f.Input != "" {
		writes[stem+"_input.input"] = f.Input
		writes[stem+"_min_meta.meta"] = f.MinMeta
	}

	for name, content := range writes {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("archive: write %s: %w", path, err)
		}
	}

	glog.Infof("archive: saved %s/%s (%d bytes minimized source)", f.Category, stem, len(f.MinimizedSrc))
	return stem, nil
}

// DivergenceReport renders a human-readable inline diff (ANSI-coloured
// insertions and deletions, not unified-diff format) between two
// programs' minimized source, for the bug console (spec.md: "stderr is
// saved only to the bug console, not to disk" — this mirrors that for
// the minimized-source comparison).
func DivergenceReport(origMinimized, otherToolchainMinimized string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(origMinimized, otherToolchainMinimized, false)
	return dmp.DiffPrettyText(diffs)
}
