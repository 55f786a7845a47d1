package indicators

import (
	"math"
	"testing"
	"time"

	"SignalLab/internal/domain/models"
)

func seq(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func leadingNaN(xs []float64) int {
	n := 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			break
		}
		n++
	}
	return n
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if len(got) != 5 {
		t.Fatalf("length mismatch: %d", len(got))
	}
	if leadingNaN(got) != 2 {
		t.Fatalf("expected 2 leading NaN, got %v", got)
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(got[i+2]-w) > 1e-12 {
			t.Fatalf("sma[%d]=%v want %v", i+2, got[i+2], w)
		}
	}
}

func TestSMAPeriodLongerThanData(t *testing.T) {
	got := SMA([]float64{1, 2}, 5)
	if len(got) != 2 || leadingNaN(got) != 2 {
		t.Fatalf("expected all NaN, got %v", got)
	}
}

func TestEMASeedAndRecurrence(t *testing.T) {
	got := EMA([]float64{10, 20, 30}, 3)
	// k = 0.5
	want := []float64{10, 15, 22.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("ema[%d]=%v want %v", i, got[i], want[i])
		}
	}
	if len(EMA(nil, 5)) != 0 {
		t.Fatalf("expected empty output for empty input")
	}
}

func TestRSI(t *testing.T) {
	rising := seq(20, func(i int) float64 { return float64(i + 1) })
	got := RSI(rising, 14)
	for i := 0; i < 14; i++ {
		if got[i] != 50 {
			t.Fatalf("rsi[%d]=%v want neutral 50", i, got[i])
		}
	}
	if got[14] != 100 {
		t.Fatalf("expected 100 with no losses, got %v", got[14])
	}

	alt := seq(30, func(i int) float64 {
		if i%2 == 0 {
			return 10
		}
		return 11
	})
	got = RSI(alt, 14)
	// 14-bar window over an alternating series holds 7 gains and 7 losses of equal size
	if math.Abs(got[20]-50) > 1e-9 {
		t.Fatalf("expected balanced RSI 50, got %v", got[20])
	}
}

func TestMACDLengthsAndHistogram(t *testing.T) {
	data := seq(60, func(i int) float64 { return 100 + math.Sin(float64(i)/5)*10 })
	m := MACD(data, 12, 26, 9)
	if len(m.DIF) != 60 || len(m.DEA) != 60 || len(m.Histogram) != 60 {
		t.Fatalf("length mismatch")
	}
	for i := range data {
		if math.Abs(m.Histogram[i]-(m.DIF[i]-m.DEA[i])*2) > 1e-12 {
			t.Fatalf("histogram mismatch at %d", i)
		}
	}
	if m.DIF[0] != 0 {
		t.Fatalf("dif must start at 0 with shared seed, got %v", m.DIF[0])
	}
}

func TestBollingerBands(t *testing.T) {
	flat := seq(25, func(int) float64 { return 7 })
	b := BollingerBands(flat, 20, 2)
	if leadingNaN(b.Upper) != 19 || leadingNaN(b.Middle) != 19 || leadingNaN(b.Lower) != 19 {
		t.Fatalf("expected 19 leading NaN")
	}
	if b.Upper[24] != 7 || b.Lower[24] != 7 {
		t.Fatalf("zero variance must collapse bands, got %v/%v", b.Upper[24], b.Lower[24])
	}

	data := []float64{1, 2, 3, 4}
	b = BollingerBands(data, 4, 2)
	// population sd of 1..4 is sqrt(1.25)
	sd := math.Sqrt(1.25)
	if math.Abs(b.Upper[3]-(2.5+2*sd)) > 1e-12 || math.Abs(b.Lower[3]-(2.5-2*sd)) > 1e-12 {
		t.Fatalf("unexpected bands %v %v", b.Upper[3], b.Lower[3])
	}
}

func TestComputeAlignsWithBars(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 70)
	for i := range bars {
		bars[i] = models.Bar{Time: t0.AddDate(0, 0, i), Close: 10 + float64(i%7)}
	}
	s := Compute(bars)
	if s.Len() != 70 {
		t.Fatalf("expected 70, got %d", s.Len())
	}
	cases := map[string]struct {
		series []float64
		warmup int
	}{
		"sma5":  {s.SMA5, 4},
		"sma10": {s.SMA10, 9},
		"sma20": {s.SMA20, 19},
		"sma60": {s.SMA60, 59},
		"ema12": {s.EMA12, 0},
		"rsi":   {s.RSI, 0},
		"boll":  {s.Boll.Middle, 19},
	}
	for name, c := range cases {
		if len(c.series) != 70 {
			t.Errorf("%s: length %d", name, len(c.series))
		}
		if got := leadingNaN(c.series); got != c.warmup {
			t.Errorf("%s: %d leading NaN, want %d", name, got, c.warmup)
		}
	}
}
