// Package indicators computes bar-aligned technical indicator series.
// Every function returns a slice as long as its input; entries without
// enough history are NaN.
package indicators

import "math"

// SMA is the trailing simple moving average.
func SMA(data []float64, period int) []float64 {
	out := nanSlice(len(data))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(data); i++ {
		out[i] = windowMean(data[i-period+1 : i+1])
	}
	return out
}

// EMA seeds with data[0] and applies ema[i] = (data[i]-ema[i-1])*k + ema[i-1], k = 2/(period+1).
func EMA(data []float64, period int) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	if period <= 0 {
		period = 1
	}
	k := 2.0 / float64(period+1)
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = (data[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// RSI uses the plain trailing-window average gain and loss (no Wilder smoothing).
// Bars before the first full window read a neutral 50.
func RSI(data []float64, period int) []float64 {
	out := make([]float64, len(data))
	if period <= 0 {
		period = 14
	}
	gains := make([]float64, len(data))
	losses := make([]float64, len(data))
	for i := 1; i < len(data); i++ {
		d := data[i] - data[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	for i := range data {
		if i < period {
			out[i] = 50
			continue
		}
		avgGain := windowMean(gains[i-period+1 : i+1])
		avgLoss := windowMean(losses[i-period+1 : i+1])
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACDSeries holds the three MACD lines.
type MACDSeries struct {
	DIF       []float64
	DEA       []float64
	Histogram []float64
}

// MACD computes dif = EMA(fast) - EMA(slow), dea = EMA(dif, signal), histogram = (dif-dea)*2.
func MACD(data []float64, fast, slow, signal int) MACDSeries {
	ef := EMA(data, fast)
	es := EMA(data, slow)
	dif := make([]float64, len(data))
	for i := range data {
		dif[i] = ef[i] - es[i]
	}
	dea := EMA(dif, signal)
	hist := make([]float64, len(data))
	for i := range data {
		hist[i] = (dif[i] - dea[i]) * 2
	}
	return MACDSeries{DIF: dif, DEA: dea, Histogram: hist}
}

// BollSeries holds the three Bollinger bands.
type BollSeries struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerBands uses the population standard deviation over the SMA window.
func BollingerBands(data []float64, period int, k float64) BollSeries {
	mid := SMA(data, period)
	up := nanSlice(len(data))
	low := nanSlice(len(data))
	for i := range data {
		if math.IsNaN(mid[i]) {
			continue
		}
		variance := 0.0
		for _, v := range data[i-period+1 : i+1] {
			d := v - mid[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		up[i] = mid[i] + k*sd
		low[i] = mid[i] - k*sd
	}
	return BollSeries{Upper: up, Middle: mid, Lower: low}
}

func windowMean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
