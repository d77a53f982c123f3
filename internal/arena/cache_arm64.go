// Package arena: AArch64 cache-maintenance primitives (spec.md §4.6/§4.7).
// The instructions below have no Go assembler mnemonics, so they are encoded
// as raw WORD directives in cache_arm64.s, the same technique
// golang.org/x/sys/cpu uses for MRS reads of other system registers Go's
// assembler doesn't know about.

//go:build arm64

package arena

func ctrEL0() uint64

func dcCVAU(addr uintptr)

func icIVAU(addr uintptr)

func dsbISH()

func isb()
