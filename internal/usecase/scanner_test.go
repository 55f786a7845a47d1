package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"SignalLab/internal/domain/models"
	"SignalLab/internal/services/detectors"
	"SignalLab/internal/services/enrich"
	"SignalLab/internal/services/market"
)

func defaultParams() ScanParams {
	return ScanParams{
		Strategies:     []string{detectors.MAGoldenCross},
		HoldingDays:    5,
		MinGapDays:     3,
		KeepStrongest:  true,
		ExcludeST:      true,
		ExcludeNew:     true,
		MinListingDays: 60,
		LookbackDays:   400,
	}
}

func newTestScanner(m *fakeMarket, metrics *fakeMetrics) *Scanner {
	enr := enrich.NewEnricher(market.NewPriceLimitOracle(10, 5, 20), market.NewAShareCostModel(), models.CostConfig{Commission: 0.0003, StampDuty: 0.001, Slippage: 0.001})
	return NewScanner(m, m, enr, metrics, nil, defaultParams(), 4)
}

func TestAnalyzeRejections(t *testing.T) {
	s := newTestScanner(&fakeMarket{}, newFakeMetrics())
	tests := []struct {
		name   string
		stock  models.Stock
		bars   int
		mutate func(*ScanParams)
		want   string
	}{
		{"st excluded", models.Stock{Symbol: "600001", IsST: true}, 200, nil, SkipST},
		{"new listing", models.Stock{Symbol: "600002"}, 50, nil, SkipNewListing},
		{"insufficient", models.Stock{Symbol: "600003"}, 34, func(p *ScanParams) { p.ExcludeNew = false }, SkipInsufficient},
		{"unknown strategy", models.Stock{Symbol: "600004"}, 200, func(p *ScanParams) { p.Strategies = []string{"nope"} }, SkipUnknown},
		{"st allowed", models.Stock{Symbol: "600005", IsST: true}, 200, func(p *ScanParams) { p.ExcludeST = false }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams()
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			res := s.Analyze(context.Background(), tt.stock, sineBars(tt.bars), p)
			if !strings.HasPrefix(res.SkipReason, tt.want) || (tt.want == "" && res.SkipReason != "") {
				t.Fatalf("skip reason %q want %q", res.SkipReason, tt.want)
			}
			if tt.want != "" && (res.TotalSignals != 0 || len(res.Signals) != 0) {
				t.Fatalf("rejected symbol must have an empty result: %+v", res)
			}
		})
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	s := newTestScanner(&fakeMarket{}, newFakeMetrics())
	p := defaultParams()
	p.Strategies = []string{detectors.MAGoldenCross, detectors.MADeathCross}
	p.WithCosts = true
	bars := sineBars(300)
	res := s.Analyze(context.Background(), models.Stock{Symbol: "600000"}, bars, p)
	if res.SkipReason != "" || res.TotalSignals == 0 {
		t.Fatalf("expected signals, got %+v", res)
	}
	lastByDetector := map[string]int{}
	wins := 0
	for i, sig := range res.Signals {
		entry := int(sig.EntryDate.Sub(t0).Hours() / 24)
		exit := int(sig.ExitDate.Sub(t0).Hours() / 24)
		if entry < Warmup || exit != entry+p.HoldingDays || exit >= len(bars) {
			t.Fatalf("signal %d out of bounds: entry=%d exit=%d", i, entry, exit)
		}
		if !sig.Status.Executable() || sig.NetReturnPct == nil {
			t.Fatalf("unexpected signal %+v", sig)
		}
		if *sig.NetReturnPct > sig.ReturnPct {
			t.Fatalf("costs must not improve the return: %+v", sig)
		}
		if i > 0 && sig.EntryDate.Before(res.Signals[i-1].EntryDate) {
			t.Fatalf("signals not in date order")
		}
		if prev, ok := lastByDetector[sig.Signal]; ok && entry-prev < p.MinGapDays {
			t.Fatalf("dedup gap violated for %s", sig.Signal)
		}
		lastByDetector[sig.Signal] = entry
		if sig.IsWin {
			wins++
		}
	}
	if res.CompletedSignals != res.TotalSignals || res.WinSignals != wins {
		t.Fatalf("aggregate mismatch %+v", res)
	}
	if res.MinReturn > res.AvgReturn || res.AvgReturn > res.MaxReturn {
		t.Fatalf("min/avg/max out of order: %+v", res)
	}
}

func TestAnalyzeStrengthBand(t *testing.T) {
	s := newTestScanner(&fakeMarket{}, newFakeMetrics())
	p := defaultParams()
	over := 1000.0
	p.MinStrength = &over
	res := s.Analyze(context.Background(), models.Stock{Symbol: "600000"}, sineBars(300), p)
	if res.TotalSignals != 0 {
		t.Fatalf("strength floor above 100 must filter everything")
	}
}

func TestAnalyzeDropsUnexecutable(t *testing.T) {
	metrics := newFakeMetrics()
	enr := enrich.NewEnricher(limitUpOracle{}, nil, models.CostConfig{})
	s := NewScanner(&fakeMarket{}, &fakeMarket{}, enr, metrics, nil, defaultParams(), 1)
	res := s.Analyze(context.Background(), models.Stock{Symbol: "600000"}, sineBars(300), defaultParams())
	if res.TotalSignals != 0 {
		t.Fatalf("buys at limit-up must be dropped, got %d", res.TotalSignals)
	}
	if metrics.dropped[string(models.StatusCannotBuy)] == 0 {
		t.Fatalf("dropped signals not recorded")
	}
}

func TestScanSymbols(t *testing.T) {
	m := &fakeMarket{
		bars: map[string][]models.Bar{
			"600000": sineBars(300),
			"600001": sineBars(300),
			"000001": sineBars(300),
		},
		stocks: map[string]models.Stock{
			"600000": {Symbol: "600000"},
			"600001": {Symbol: "600001", IsST: true},
			"000001": {Symbol: "000001"},
		},
	}
	s := newTestScanner(m, newFakeMetrics())
	var calls []int
	res, err := s.ScanSymbols(context.Background(), []string{"600001", "999999", "600000", "000001"}, defaultParams(), func(c, total int) {
		calls = append(calls, c)
		if total != 4 {
			t.Errorf("total=%d", total)
		}
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res) != 4 || len(calls) != 4 || calls[3] != 4 {
		t.Fatalf("expected 4 results and progress calls, got %d / %v", len(res), calls)
	}
	want := []string{"000001", "600000", "600001", "999999"}
	for i, r := range res {
		if r.Symbol != want[i] {
			t.Fatalf("results not sorted by symbol: %v", r.Symbol)
		}
	}
	if res[2].SkipReason != SkipST || res[3].SkipReason != SkipNotFound {
		t.Fatalf("unexpected skip reasons %q %q", res[2].SkipReason, res[3].SkipReason)
	}

	if _, err := s.ScanSymbols(context.Background(), nil, defaultParams(), nil); !errors.Is(err, ErrNoSymbols) {
		t.Fatalf("expected ErrNoSymbols, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ScanSymbols(ctx, want, defaultParams(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	base := defaultParams()
	off := false
	floor := 20.0
	p := base.Resolve(models.ScanOptions{HoldingDays: 10, ExcludeST: &off, MinStrength: &floor})
	if p.HoldingDays != 10 || p.ExcludeST || *p.MinStrength != 20 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.MinGapDays != base.MinGapDays || len(p.Strategies) != 1 || !p.ExcludeNew {
		t.Fatalf("unset options must keep defaults: %+v", p)
	}
}

func TestScanRange(t *testing.T) {
	m := &fakeMarket{
		bars:   map[string][]models.Bar{"600000": sineBars(300)},
		stocks: map[string]models.Stock{"600000": {Symbol: "600000"}},
	}
	s := newTestScanner(m, newFakeMetrics())

	from, to := t0.AddDate(0, 0, 100), t0.AddDate(0, 0, 199)
	res, err := s.ScanRange(context.Background(), "600000", from, to, defaultParams())
	if err != nil {
		t.Fatalf("scan range: %v", err)
	}
	if res.SkipReason != "" {
		t.Fatalf("unexpected skip %q", res.SkipReason)
	}
	for _, sig := range res.Signals {
		if sig.EntryDate.Before(from.AddDate(0, 0, Warmup)) || sig.ExitDate.After(to) {
			t.Fatalf("signal outside window: %v -> %v", sig.EntryDate, sig.ExitDate)
		}
	}

	short, err := s.ScanRange(context.Background(), "600000", from, from.AddDate(0, 0, 20), defaultParams())
	if err != nil {
		t.Fatalf("scan range: %v", err)
	}
	if short.SkipReason != SkipNewListing {
		t.Fatalf("expected %q for a 21-bar window, got %q", SkipNewListing, short.SkipReason)
	}

	if _, err := s.ScanRange(context.Background(), "600000", to, from, defaultParams()); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}
