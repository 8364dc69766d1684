package canopy

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame timing and batching metrics.
// Only populated when Scene debug mode is on.
type frameStats struct {
	cullTime     time.Duration
	batchTime    time.Duration
	elementCount int
	visibleCount int
	batchCount   int
}

// debugLog prints timing and batching stats to stderr.
func (s *Scene) debugLog(stats frameStats) {
	if !s.debug {
		return
	}
	total := stats.cullTime + stats.batchTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] cull: %v | batch: %v | total: %v\n",
		stats.cullTime, stats.batchTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] elements: %d | visible: %d | batches: %d\n",
		stats.elementCount, stats.visibleCount, stats.batchCount)
}
