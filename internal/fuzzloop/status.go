package fuzzloop

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// statusInterval is the once-per-second cadence spec.md §4.8 describes for
// the status printer thread.
const statusInterval = time.Second

// runStatusPrinter logs a single uptime/iterations/iters-per-sec/bugs/KB-s
// line every statusInterval until ctx is canceled. It reads the shared
// counters only; it never mutates them.
func runStatusPrinter(ctx context.Context, counters *Counters, start time.Time) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	var last Snapshot
	lastAt := start

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cur := counters.Snapshot()
			elapsed := now.Sub(lastAt).Seconds()
			uptime := now.Sub(start)

			itersPerSec := 0.0
			kbPerSec := 0.0
			if elapsed > 0 {
				itersPerSec = float64(cur.Iterations-last.Iterations) / elapsed
				kbPerSec = float64(cur.Bytes-last.Bytes) / 1024 / elapsed
			}

			glog.Infof("uptime=%s iterations=%d iters/s=%.1f bugs=%d KB/s=%.1f",
				uptime.Truncate(time.Second), cur.Iterations, itersPerSec, cur.Bugs, kbPerSec)

			last = cur
			lastAt = now
		}
	}
}
