package detectors

import (
	"math"
	"testing"
	"time"

	"SignalLab/internal/domain/models"
	"SignalLab/internal/services/indicators"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func flatBars(n int, close float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Time: t0.AddDate(0, 0, i), Open: close, High: close, Low: close, Close: close, Volume: 100}
	}
	return bars
}

func emptySet(n int) *indicators.Set {
	nan := func() []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	return &indicators.Set{
		SMA5: nan(), SMA10: nan(), SMA20: nan(), SMA60: nan(),
		EMA12: nan(), EMA26: nan(), RSI: nan(),
		MACD: indicators.MACDSeries{DIF: nan(), DEA: nan(), Histogram: nan()},
		Boll: indicators.BollSeries{Upper: nan(), Middle: nan(), Lower: nan()},
	}
}

func mustLookup(t *testing.T, name string) Detector {
	t.Helper()
	d, ok := Lookup(name)
	if !ok {
		t.Fatalf("detector %s not registered", name)
	}
	return d
}

func TestRegistry(t *testing.T) {
	names := Names()
	if len(names) != 9 {
		t.Fatalf("expected 9 detectors, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	if _, ok := Lookup("does_not_exist"); ok {
		t.Fatalf("unknown detector must not resolve")
	}
}

func TestMACDCross(t *testing.T) {
	bars := flatBars(3, 10)
	tests := []struct {
		name      string
		detector  string
		prev      float64
		curr      float64
		wantFired bool
	}{
		{"golden from zero", MACDGoldenCross, 0, 0.1, true},
		{"golden from below", MACDGoldenCross, -0.2, 0.1, true},
		{"golden stays above", MACDGoldenCross, 0.1, 0.2, false},
		{"golden touches zero", MACDGoldenCross, -0.1, 0, false},
		{"death from zero", MACDDeathCross, 0, -0.1, true},
		{"death stays below", MACDDeathCross, -0.1, -0.2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := emptySet(3)
			ind.MACD.DIF[1], ind.MACD.DEA[1] = tt.prev, 0
			ind.MACD.DIF[2], ind.MACD.DEA[2] = tt.curr, 0
			got := mustLookup(t, tt.detector).Detect(bars, 2, ind)
			if (got != nil) != tt.wantFired {
				t.Fatalf("fired=%v want %v", got != nil, tt.wantFired)
			}
			if got != nil {
				if got.Strength < 0 || got.Strength > 100 {
					t.Fatalf("strength out of range: %v", got.Strength)
				}
				if got.Price != 10 || !got.Timestamp.Equal(bars[2].Time) || got.Index != 2 {
					t.Fatalf("unexpected detection %+v", got)
				}
			}
		})
	}
}

func TestMACrossNeedsHistory(t *testing.T) {
	bars := flatBars(3, 10)
	ind := emptySet(3)
	ind.SMA5[2], ind.SMA20[2] = 11, 10
	if got := mustLookup(t, MAGoldenCross).Detect(bars, 2, ind); got != nil {
		t.Fatalf("NaN previous value must not fire")
	}
	ind.SMA5[1], ind.SMA20[1] = 9, 10
	got := mustLookup(t, MAGoldenCross).Detect(bars, 2, ind)
	if got == nil || got.Type != models.SignalBuy || got.Signal != MAGoldenCross {
		t.Fatalf("expected golden cross, got %+v", got)
	}
	if got := mustLookup(t, MAGoldenCross).Detect(bars, 0, ind); got != nil {
		t.Fatalf("index 0 has no previous bar")
	}
}

func TestRSIZoneEntry(t *testing.T) {
	bars := flatBars(3, 10)
	ind := emptySet(3)
	ind.RSI[1], ind.RSI[2] = 35, 25
	got := mustLookup(t, RSIOversold).Detect(bars, 2, ind)
	if got == nil || math.Abs(got.Strength-25) > 1e-9 {
		t.Fatalf("expected oversold strength 25, got %+v", got)
	}
	ind.RSI[1] = 28
	if got := mustLookup(t, RSIOversold).Detect(bars, 2, ind); got != nil {
		t.Fatalf("already inside zone must not fire")
	}
	ind.RSI[1], ind.RSI[2] = 70, 72
	if got := mustLookup(t, RSIOverbought).Detect(bars, 2, ind); got == nil || got.Type != models.SignalSell {
		t.Fatalf("expected overbought sell, got %+v", got)
	}
}

func TestBollTouchFiresEveryBar(t *testing.T) {
	bars := flatBars(4, 10)
	ind := emptySet(4)
	for i := 1; i < 4; i++ {
		ind.Boll.Upper[i], ind.Boll.Middle[i], ind.Boll.Lower[i] = 12, 11, 10
	}
	d := mustLookup(t, BollLowerTouch)
	for i := 1; i < 4; i++ {
		got := d.Detect(bars, i, ind)
		if got == nil {
			t.Fatalf("bar %d at lower band must fire", i)
		}
		if got.Strength != 50 {
			t.Fatalf("touch exactly at band should be 50, got %v", got.Strength)
		}
	}
	if got := mustLookup(t, BollUpperTouch).Detect(bars, 2, ind); got != nil {
		t.Fatalf("upper touch must not fire below the band")
	}
}

func TestVolumeBreakout(t *testing.T) {
	bars := flatBars(26, 10)
	ind := emptySet(26)
	i := 25
	bars[i].Close, bars[i].High = 11, 11
	bars[i].Volume = 250
	d := mustLookup(t, VolumeBreakout)
	got := d.Detect(bars, i, ind)
	if got == nil {
		t.Fatalf("expected breakout")
	}
	if math.Abs(got.Strength-62.5) > 1e-9 {
		t.Fatalf("strength=%v want 62.5", got.Strength)
	}

	bars[i].Volume = 200
	if d.Detect(bars, i, ind) != nil {
		t.Fatalf("volume must be strictly above 2x average")
	}
	bars[i].Volume = 300
	bars[i].Close = 10
	if d.Detect(bars, i, ind) != nil {
		t.Fatalf("close must be above the trailing high")
	}
	if d.Detect(bars, 10, ind) != nil {
		t.Fatalf("insufficient history must not fire")
	}
}
