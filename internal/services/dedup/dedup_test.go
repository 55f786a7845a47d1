package dedup

import (
	"testing"
	"time"

	"SignalLab/internal/domain/models"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func sig(d int, strength float64) models.EnrichedSignal {
	return models.EnrichedSignal{EntryDate: day(d), Strength: strength}
}

func TestSignalsCollapseCluster(t *testing.T) {
	in := []models.EnrichedSignal{sig(2, 80), sig(1, 40)}
	got := Signals(in, Options{MinGapDays: 3, KeepStrongest: true})
	if len(got) != 1 || got[0].Strength != 80 {
		t.Fatalf("expected strongest of cluster, got %+v", got)
	}
	got = Signals(in, Options{MinGapDays: 3, KeepStrongest: false})
	if len(got) != 1 || !got[0].EntryDate.Equal(day(1)) {
		t.Fatalf("expected earliest of cluster, got %+v", got)
	}
	if in[0].Strength != 80 {
		t.Fatalf("input must not be reordered")
	}
}

func TestSignalsTransitiveMerge(t *testing.T) {
	// day 1 and 2 are 1 apart, day 4 is 2 after day 2: one cluster even though 4-1 = 3
	in := []models.EnrichedSignal{sig(1, 10), sig(2, 20), sig(4, 30), sig(10, 5)}
	got := Signals(in, Options{MinGapDays: 3, KeepStrongest: true})
	if len(got) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(got))
	}
	if got[0].Strength != 30 || !got[1].EntryDate.Equal(day(10)) {
		t.Fatalf("unexpected representatives %+v", got)
	}
}

func TestSignalsGapBoundary(t *testing.T) {
	in := []models.EnrichedSignal{sig(1, 10), sig(4, 20)}
	if got := Signals(in, Options{MinGapDays: 3}); len(got) != 2 {
		t.Fatalf("gap equal to MinGapDays starts a new cluster, got %d", len(got))
	}
	if got := Signals(in, Options{MinGapDays: 0}); len(got) != 2 {
		t.Fatalf("zero gap keeps everything")
	}
}

func TestSignalsGapIgnoresTimeOfDay(t *testing.T) {
	late := sig(1, 10)
	late.EntryDate = day(1).Add(15 * time.Hour)
	early := sig(4, 20)
	early.EntryDate = day(4).Add(9 * time.Hour)
	if got := Signals([]models.EnrichedSignal{late, early}, Options{MinGapDays: 3}); len(got) != 2 {
		t.Fatalf("three trading days apart must start a new cluster, got %d", len(got))
	}
}

func TestSignalsTieKeepsFirst(t *testing.T) {
	a := sig(1, 50)
	a.Signal = "first"
	b := sig(2, 50)
	b.Signal = "second"
	got := Signals([]models.EnrichedSignal{a, b}, Options{MinGapDays: 5, KeepStrongest: true})
	if len(got) != 1 || got[0].Signal != "first" {
		t.Fatalf("tie should keep chronologically first, got %+v", got)
	}
}

func TestDetectionsAscendingOutput(t *testing.T) {
	in := []models.RawDetection{
		{Timestamp: day(20), Strength: 1},
		{Timestamp: day(1), Strength: 1},
		{Timestamp: day(10), Strength: 1},
	}
	got := Detections(in, Options{MinGapDays: 3, KeepStrongest: true})
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Timestamp.Before(got[i].Timestamp) {
			t.Fatalf("output not ascending")
		}
	}
	if Detections(nil, Options{}) != nil {
		t.Fatalf("empty input should return nil")
	}
}
