// Package arena: non-AArch64 stub for the cache-maintenance primitives in
// cache_arm64.s. x86 has coherent instruction/data caches, so FlushCache
// has nothing to do there; these no-ops let arena.go call it unconditionally.

//go:build !arm64

package arena

func ctrEL0() uint64 { return 0 }

func dcCVAU(addr uintptr) {}

func icIVAU(addr uintptr) {}

func dsbISH() {}

func isb() {}
