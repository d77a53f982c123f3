package arm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xyproto/simddiff/internal/rng"
)

// RandomInputs is a compiled ARM program's three typed argument buffers,
// symmetric across all three (see Meta's doc comment on the ARM
// input-layout Open Question).
type RandomInputs struct {
	IVals []int32
	FVals []float32
	DVals []float64
}

// Serialize implements adapter.Input using the same count-prefixed
// per-buffer repro format as x86.RandomInputs.Serialize (spec.md §6).
func (in RandomInputs) Serialize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", len(in.IVals))
	for i, v := range in.IVals {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%d\n", len(in.FVals))
	for i, v := range in.FVals {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g", v)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%d\n", len(in.DVals))
	for i, v := range in.DVals {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g", v)
	}
	b.WriteByte('\n')
	return b.String()
}

// RandomInput draws a fresh RandomInputs for meta's declared slot counts.
func RandomInput(r *rng.Rand, meta Meta) RandomInputs {
	in := RandomInputs{
		IVals: make([]int32, meta.NumI),
		FVals: make([]float32, meta.NumF),
		DVals: make([]float64, meta.NumD),
	}
	for i := range in.IVals {
		in.IVals[i] = r.BiasedInt32()
	}
	for i := range in.FVals {
		in.FVals[i] = r.SignedFloat()
	}
	for i := range in.DVals {
		in.DVals[i] = float64(r.SignedFloat())
	}
	return in
}

// DeserializeInput parses the repro-arm on-disk input format produced by
// Serialize (spec.md §6). Blank value lines (count 0) are accepted.
func DeserializeInput(text string) (RandomInputs, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	var in RandomInputs
	idx := 0

	readInts := func() ([]int32, error) {
		if idx >= len(lines) {
			return nil, fmt.Errorf("arm: truncated input: expected a count line")
		}
		n, err := strconv.Atoi(strings.TrimSpace(lines[idx]))
		if err != nil {
			return nil, fmt.Errorf("arm: parse count: %w", err)
		}
		idx++
		vals := make([]int32, 0, n)
		if n > 0 {
			if idx >= len(lines) {
				return nil, fmt.Errorf("arm: truncated input: expected %d values", n)
			}
			for _, f := range strings.Fields(lines[idx]) {
				v, err := strconv.ParseInt(f, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("arm: parse int value: %w", err)
				}
				vals = append(vals, int32(v))
			}
			idx++
		} else if idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
			idx++
		}
		return vals, nil
	}
	readFloats := func() ([]float32, error) {
		if idx >= len(lines) {
			return nil, fmt.Errorf("arm: truncated input: expected a count line")
		}
		n, err := strconv.Atoi(strings.TrimSpace(lines[idx]))
		if err != nil {
			return nil, fmt.Errorf("arm: parse count: %w", err)
		}
		idx++
		vals := make([]float32, 0, n)
		if n > 0 {
			if idx >= len(lines) {
				return nil, fmt.Errorf("arm: truncated input: expected %d values", n)
			}
			for _, f := range strings.Fields(lines[idx]) {
				v, err := strconv.ParseFloat(f, 32)
				if err != nil {
					return nil, fmt.Errorf("arm: parse float value: %w", err)
				}
				vals = append(vals, float32(v))
			}
			idx++
		} else if idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
			idx++
		}
		return vals, nil
	}

	ivals, err := readInts()
	if err != nil {
		return RandomInputs{}, err
	}
	in.IVals = ivals

	fvals, err := readFloats()
	if err != nil {
		return RandomInputs{}, err
	}
	in.FVals = fvals

	if idx >= len(lines) {
		return RandomInputs{}, fmt.Errorf("arm: truncated input: expected double count line")
	}
	nd, err := strconv.Atoi(strings.TrimSpace(lines[idx]))
	if err != nil {
		return RandomInputs{}, fmt.Errorf("arm: parse double count: %w", err)
	}
	idx++
	dvals := make([]float64, 0, nd)
	if nd > 0 {
		if idx >= len(lines) {
			return RandomInputs{}, fmt.Errorf("arm: truncated input: expected %d double values", nd)
		}
		for _, f := range strings.Fields(lines[idx]) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return RandomInputs{}, fmt.Errorf("arm: parse double value: %w", err)
			}
			dvals = append(dvals, v)
		}
	}
	in.DVals = dvals

	return in, nil
}
