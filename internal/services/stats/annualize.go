package stats

import (
	"math"

	"SignalLab/internal/domain/models"
)

const DefaultTradingDays = 252

// AnnualizedReturn takes a fractional total return over periodDays trading periods
// and returns the compounded annual rate in percent.
func AnnualizedReturn(totalReturn float64, periodDays, tradingDays int) float64 {
	if periodDays <= 0 || tradingDays <= 0 {
		return 0
	}
	base := 1 + totalReturn
	if base <= 0 {
		return -100
	}
	return (math.Pow(base, float64(tradingDays)/float64(periodDays)) - 1) * 100
}

// AnnualizedVolatility scales the per-period standard deviation by sqrt(tradingDays).
func AnnualizedVolatility(periodReturns []float64, tradingDays int) float64 {
	return StdDev(periodReturns) * math.Sqrt(float64(tradingDays))
}

// PeriodReturns are the point-to-point percentage changes of the curve.
func PeriodReturns(equity []models.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (equity[i].Equity-prev)/prev*100)
	}
	return out
}

// TotalReturn is the first-to-last change of the curve as a fraction.
func TotalReturn(equity []models.EquityPoint) float64 {
	if len(equity) < 2 || equity[0].Equity == 0 {
		return 0
	}
	return equity[len(equity)-1].Equity/equity[0].Equity - 1
}
