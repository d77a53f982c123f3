package fuzzloop

// seedP and seedQ are the small fixed primes spec.md §4.8 requires when
// deriving a worker's RNG seed, chosen (as the prototype does) simply to
// be small and coprime with typical thread counts and boot-timestamp
// magnitudes, not for any cryptographic property.
const (
	seedP uint64 = 7
	seedQ uint64 = 2654435761
)

// deriveSeed computes a worker's RNG seed from its thread id and the
// process boot timestamp, per spec.md §4.8: (thread_id + p) * q +
// boot_timestamp. Distinct thread ids always diverge; distinct runs
// (distinct boot timestamps) always diverge too, even for the same
// thread id.
func deriveSeed(threadID int, bootTimestamp uint64) uint64 {
	return (uint64(threadID)+seedP)*seedQ + bootTimestamp
}
