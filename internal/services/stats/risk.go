package stats

import "math"

type RiskAdjusted struct {
	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// CalculateRiskAdjusted works on per-period returns and a per-period risk-free rate
// in the same units. Sortino is +Inf when nothing is below zero and the mean beats
// riskFree; callers cap it. MaxDrawdown is the largest peak-to-trough fall of the
// cumulative sum of returns, starting from a zero baseline.
func CalculateRiskAdjusted(returns []float64, riskFree float64) RiskAdjusted {
	var ra RiskAdjusted
	if len(returns) == 0 {
		return ra
	}
	m := Mean(returns)
	if sd := StdDev(returns); sd > 0 {
		ra.Sharpe = (m - riskFree) / sd
	}

	dd := DownsideDeviation(returns)
	switch {
	case dd > 0:
		ra.Sortino = (m - riskFree) / dd
	case m > riskFree:
		ra.Sortino = math.Inf(1)
	}

	var cum, peak float64
	for _, r := range returns {
		cum += r
		if cum > peak {
			peak = cum
		}
		if peak-cum > ra.MaxDrawdown {
			ra.MaxDrawdown = peak - cum
		}
	}
	return ra
}

// DownsideDeviation is the root mean square of the negative returns only.
func DownsideDeviation(returns []float64) float64 {
	var sum float64
	n := 0
	for _, r := range returns {
		if r < 0 {
			sum += r * r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// CalculateVaR is the magnitude of the (1-confidence) percentile when it is a loss, else 0.
func CalculateVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	q := Percentile(returns, (1-confidence)*100)
	if q < 0 {
		return -q
	}
	return 0
}

// CalculateCVaR is the magnitude of the mean of returns at or below the VaR threshold.
// It is 0 whenever VaR is 0.
func CalculateCVaR(returns []float64, confidence float64) float64 {
	v := CalculateVaR(returns, confidence)
	if v == 0 {
		return 0
	}
	var tail []float64
	for _, r := range returns {
		if r <= -v {
			tail = append(tail, r)
		}
	}
	return math.Abs(Mean(tail))
}
