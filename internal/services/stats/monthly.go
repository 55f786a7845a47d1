package stats

import "SignalLab/internal/domain/models"

// MonthlyReturns buckets the curve by "YYYY-MM" in order of appearance. Each
// bucket's return is the change from its first to its last point.
func MonthlyReturns(equity []models.EquityPoint) []models.MonthlyReturn {
	var out []models.MonthlyReturn
	for _, p := range equity {
		label := p.Date.Format("2006-01")
		if n := len(out); n > 0 && out[n-1].Month == label {
			out[n-1].EndEquity = p.Equity
			continue
		}
		out = append(out, models.MonthlyReturn{Month: label, StartEquity: p.Equity, EndEquity: p.Equity})
	}
	for i := range out {
		if out[i].StartEquity != 0 {
			out[i].ReturnPct = (out[i].EndEquity - out[i].StartEquity) / out[i].StartEquity * 100
		}
	}
	return out
}

// CalculateMonthlyStats reports nil best/worst months for empty input.
func CalculateMonthlyStats(months []models.MonthlyReturn) models.MonthlyStats {
	ms := models.MonthlyStats{TotalMonths: len(months)}
	if len(months) == 0 {
		return ms
	}
	sum := 0.0
	for _, m := range months {
		sum += m.ReturnPct
		switch {
		case m.ReturnPct > 0:
			ms.PositiveMonths++
		case m.ReturnPct < 0:
			ms.NegativeMonths++
		}
		if ms.BestMonth == nil || m.ReturnPct > ms.BestMonth.ReturnPct {
			best := m
			ms.BestMonth = &best
		}
		if ms.WorstMonth == nil || m.ReturnPct < ms.WorstMonth.ReturnPct {
			worst := m
			ms.WorstMonth = &worst
		}
	}
	ms.AverageReturn = sum / float64(len(months))
	ms.MonthlyWinRate = float64(ms.PositiveMonths) / float64(len(months)) * 100
	return ms
}
