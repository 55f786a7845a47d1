package stats

import (
	"time"

	"SignalLab/internal/domain/models"
)

type DrawdownAnalysis struct {
	MaxDrawdown         float64                 `json:"max_drawdown"`
	MaxDrawdownDuration int                     `json:"max_drawdown_duration"`
	CurrentDrawdown     float64                 `json:"current_drawdown"`
	Periods             []models.DrawdownPeriod `json:"periods"`
}

// AnalyzeDrawdowns walks the equity curve keeping a running peak. A period opens on the
// first point below the peak and closes on the first point that meets or exceeds it
// again. At most one period is open and it is always last. Depths are percentages.
func AnalyzeDrawdowns(equity []models.EquityPoint) DrawdownAnalysis {
	var res DrawdownAnalysis
	if len(equity) < 2 {
		return res
	}

	peak, peakDate := equity[0].Equity, equity[0].Date
	var open *models.DrawdownPeriod
	for _, p := range equity[1:] {
		if p.Equity >= peak {
			if open != nil {
				recovered := p.Date
				days := calendarDays(open.TroughDate, p.Date)
				open.IsRecovered = true
				open.RecoveryDate = &recovered
				open.RecoveryDays = &days
				open.DurationDays = calendarDays(open.PeakDate, p.Date)
				res.Periods = append(res.Periods, *open)
				open = nil
			}
			peak, peakDate = p.Equity, p.Date
			continue
		}
		depth := (peak - p.Equity) / peak * 100
		if open == nil {
			open = &models.DrawdownPeriod{PeakDate: peakDate, TroughDate: p.Date, DepthPct: depth}
		} else if depth > open.DepthPct {
			open.DepthPct, open.TroughDate = depth, p.Date
		}
	}

	last := equity[len(equity)-1]
	if open != nil {
		open.DurationDays = calendarDays(open.PeakDate, last.Date)
		res.Periods = append(res.Periods, *open)
	}
	res.CurrentDrawdown = (peak - last.Equity) / peak * 100

	for _, dp := range res.Periods {
		res.MaxDrawdown = max(res.MaxDrawdown, dp.DepthPct)
		res.MaxDrawdownDuration = max(res.MaxDrawdownDuration, dp.DurationDays)
	}
	return res
}

func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
