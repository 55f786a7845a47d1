package detectors

import (
	"math"

	"SignalLab/internal/domain/models"
	"SignalLab/internal/services/features"
	"SignalLab/internal/services/indicators"
)

type series func(*indicators.Set) []float64

func macdDIF(s *indicators.Set) []float64 { return s.MACD.DIF }
func macdDEA(s *indicators.Set) []float64 { return s.MACD.DEA }
func sma5(s *indicators.Set) []float64    { return s.SMA5 }
func sma20(s *indicators.Set) []float64   { return s.SMA20 }

// crossDetector fires on a strict sign change of fast-slow between i-1 and i.
type crossDetector struct {
	name string
	typ  models.SignalType
	fast series
	slow series
}

func (d crossDetector) Name() string            { return d.name }
func (d crossDetector) Type() models.SignalType { return d.typ }

func (d crossDetector) Detect(bars []models.Bar, i int, ind *indicators.Set) *models.RawDetection {
	if !inRange(bars, i, ind) {
		return nil
	}
	f, s := d.fast(ind), d.slow(ind)
	if anyNaN(f[i-1], s[i-1], f[i], s[i]) {
		return nil
	}
	prev, curr := f[i-1]-s[i-1], f[i]-s[i]
	fired := false
	switch d.typ {
	case models.SignalBuy:
		fired = prev <= 0 && curr > 0
	case models.SignalSell:
		fired = prev >= 0 && curr < 0
	}
	if !fired || bars[i].Close <= 0 {
		return nil
	}
	// spread in per-mille of price
	return detection(d, bars, i, math.Abs(curr)/bars[i].Close*1000)
}

// rsiDetector fires when RSI crosses into its zone, not while it stays there.
type rsiDetector struct {
	name      string
	typ       models.SignalType
	threshold float64
}

func (d rsiDetector) Name() string            { return d.name }
func (d rsiDetector) Type() models.SignalType { return d.typ }

func (d rsiDetector) Detect(bars []models.Bar, i int, ind *indicators.Set) *models.RawDetection {
	if !inRange(bars, i, ind) {
		return nil
	}
	prev, curr := ind.RSI[i-1], ind.RSI[i]
	if anyNaN(prev, curr) {
		return nil
	}
	switch d.typ {
	case models.SignalBuy:
		if prev >= d.threshold && curr < d.threshold {
			return detection(d, bars, i, (d.threshold-curr)*5)
		}
	case models.SignalSell:
		if prev <= d.threshold && curr > d.threshold {
			return detection(d, bars, i, (curr-d.threshold)*5)
		}
	}
	return nil
}

// bollDetector fires on every bar whose close is at or beyond the band.
type bollDetector struct {
	name string
	typ  models.SignalType
}

func (d bollDetector) Name() string            { return d.name }
func (d bollDetector) Type() models.SignalType { return d.typ }

func (d bollDetector) Detect(bars []models.Bar, i int, ind *indicators.Set) *models.RawDetection {
	if !inRange(bars, i, ind) {
		return nil
	}
	upper, lower, c := ind.Boll.Upper[i], ind.Boll.Lower[i], bars[i].Close
	if anyNaN(upper, lower) {
		return nil
	}
	width := upper - lower
	var beyond float64
	switch d.typ {
	case models.SignalBuy:
		if c > lower {
			return nil
		}
		beyond = lower - c
	case models.SignalSell:
		if c < upper {
			return nil
		}
		beyond = c - upper
	}
	if width <= 0 {
		return detection(d, bars, i, 50)
	}
	return detection(d, bars, i, 50+beyond/width*100)
}

// volumeBreakout needs volume above multiple x the trailing average and a close over the trailing high.
type volumeBreakout struct {
	volWindow  int
	highWindow int
	multiple   float64
}

func (volumeBreakout) Name() string            { return VolumeBreakout }
func (volumeBreakout) Type() models.SignalType { return models.SignalBuy }

func (d volumeBreakout) Detect(bars []models.Bar, i int, ind *indicators.Set) *models.RawDetection {
	if !inRange(bars, i, ind) {
		return nil
	}
	avgVol := features.AverageVolume(bars, i, d.volWindow)
	high := features.HighestHigh(bars, i, d.highWindow)
	if anyNaN(avgVol, high) || avgVol <= 0 {
		return nil
	}
	ratio := bars[i].Volume / avgVol
	if ratio <= d.multiple || bars[i].Close <= high {
		return nil
	}
	return detection(d, bars, i, 50+(ratio-d.multiple)*25)
}
