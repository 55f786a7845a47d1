// Package dedup collapses temporally clustered signals into one representative per cluster.
package dedup

import (
	"sort"
	"time"

	"SignalLab/internal/domain/models"
	xutil "SignalLab/pkg/util"
)

// Options control clustering. Items less than MinGapDays calendar days apart share a
// cluster; KeepStrongest picks the highest strength instead of the earliest item.
type Options struct {
	MinGapDays    int
	KeepStrongest bool
}

// Deduplicate sorts items by date and clusters them greedily: an item joins the
// current cluster while its gap to the cluster's last item is under MinGapDays.
// Each cluster yields its strongest item (first on ties) or its earliest one.
// The input slice is not modified.
func Deduplicate[T any](items []T, date func(T) time.Time, strength func(T) float64, opts Options) []T {
	if len(items) == 0 {
		return nil
	}
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(a, b int) bool {
		return date(sorted[a]).Before(date(sorted[b]))
	})

	out := make([]T, 0, len(sorted))
	pick := func(cluster []T) T {
		best := cluster[0]
		if !opts.KeepStrongest {
			return best
		}
		for _, it := range cluster[1:] {
			if strength(it) > strength(best) {
				best = it
			}
		}
		return best
	}

	start := 0
	for i := 1; i < len(sorted); i++ {
		if gapDays(date(sorted[i-1]), date(sorted[i])) >= opts.MinGapDays {
			out = append(out, pick(sorted[start:i]))
			start = i
		}
	}
	return append(out, pick(sorted[start:]))
}

// Signals deduplicates enriched signals on entry date.
func Signals(sigs []models.EnrichedSignal, opts Options) []models.EnrichedSignal {
	return Deduplicate(sigs,
		func(s models.EnrichedSignal) time.Time { return s.EntryDate },
		func(s models.EnrichedSignal) float64 { return s.Strength },
		opts)
}

// Detections deduplicates raw detections on their bar timestamp.
func Detections(dets []models.RawDetection, opts Options) []models.RawDetection {
	return Deduplicate(dets,
		func(d models.RawDetection) time.Time { return d.Timestamp },
		func(d models.RawDetection) float64 { return d.Strength },
		opts)
}

// gapDays counts calendar days between the trading days of a and b, ignoring time of day.
func gapDays(a, b time.Time) int {
	return int(xutil.TradingDay(b).Sub(xutil.TradingDay(a)).Hours() / 24)
}
