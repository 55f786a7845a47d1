package usecase

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"SignalLab/internal/domain/models"
	"SignalLab/internal/services/stats"
	xutil "SignalLab/pkg/util"
)

// InitialEquity is the starting value of equity curves built from signals.
const InitialEquity = 100.0

var ErrInvalidCurve = errors.New("invalid equity curve")

// ScanReport is the performance view of a batch scan.
type ScanReport struct {
	Equity       []models.EquityPoint     `json:"equity"`
	Performance  models.PerformanceReport `json:"performance"`
	Streaks      stats.Streaks            `json:"streaks"`
	Distribution stats.Distribution       `json:"distribution"`
}

type ReportBuilder struct {
	params stats.Params
}

func NewReportBuilder(params stats.Params) *ReportBuilder {
	return &ReportBuilder{params: params}
}

func (b *ReportBuilder) Params() stats.Params { return b.params }

// WithRiskFree returns a builder that uses rf as the annual risk-free rate.
func (b *ReportBuilder) WithRiskFree(rf float64) *ReportBuilder {
	p := b.params
	p.RiskFreeRate = rf
	return &ReportBuilder{params: p}
}

// ValidateCurve checks that a caller supplied curve is strictly time-ordered with positive equity.
func ValidateCurve(curve []models.EquityPoint) error {
	for i, pt := range curve {
		if !(pt.Equity > 0) || math.IsInf(pt.Equity, 0) {
			return fmt.Errorf("%w: equity at %d must be positive and finite", ErrInvalidCurve, i)
		}
		if i > 0 && !pt.Date.After(curve[i-1].Date) {
			return fmt.Errorf("%w: date at %d is not after its predecessor", ErrInvalidCurve, i)
		}
	}
	return nil
}

// FromResults compounds completed signal returns on their exit dates into an
// equity curve and reduces it, the signal ledger and the optional benchmark.
func (b *ReportBuilder) FromResults(results []*models.StockSignalResult, benchmark []models.EquityPoint) *ScanReport {
	var completed []models.EnrichedSignal
	for _, r := range results {
		for _, sig := range r.Signals {
			if sig.Status == models.StatusCompleted {
				completed = append(completed, sig)
			}
		}
	}
	equity := EquityFromSignals(completed, InitialEquity)
	returns := make([]float64, len(completed))
	for i, sig := range completed {
		returns[i] = sig.EffectiveReturn()
	}

	report := &ScanReport{
		Equity:       equity,
		Performance:  b.FromEquity(equity, benchmark, LedgerFromSignals(completed)),
		Streaks:      stats.CalculateStreaks(stats.SignalSequence(completed)),
		Distribution: stats.CalculateDistribution(returns),
	}
	return report
}

// FromEquity builds the unified metrics for a curve. Trading metrics are
// included only when trades are given, benchmark comparison only when it aligns.
func (b *ReportBuilder) FromEquity(equity, benchmark []models.EquityPoint, trades []models.TradeRecord) models.PerformanceReport {
	pr := models.PerformanceReport{
		Return: stats.BuildReturnMetrics(equity, b.params),
		Risk:   stats.BuildRiskMetrics(equity, b.params),
	}
	if len(trades) > 0 {
		tm := stats.BuildTradingMetrics(trades)
		pr.Trading = &tm
	}
	if len(benchmark) > 0 {
		pr.Benchmark = stats.CompareToBenchmark(equity, benchmark, b.params)
	}
	return pr
}

// EquityFromSignals starts at initial on the earliest entry day and applies each
// signal's return on its exit day. One point per distinct day. Equity never goes
// below zero: a wipeout ends the curve at 0.
func EquityFromSignals(sigs []models.EnrichedSignal, initial float64) []models.EquityPoint {
	if len(sigs) == 0 {
		return nil
	}
	sorted := make([]models.EnrichedSignal, len(sigs))
	copy(sorted, sigs)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].ExitDate.Before(sorted[b].ExitDate) })

	first := sorted[0].EntryDate
	for _, s := range sorted {
		if s.EntryDate.Before(first) {
			first = s.EntryDate
		}
	}
	out := []models.EquityPoint{{Date: xutil.TradingDay(first), Equity: initial}}
	eq := initial
	for _, s := range sorted {
		eq = math.Max(0, eq*(1+s.EffectiveReturn()/100))
		d := xutil.TradingDay(s.ExitDate)
		if last := &out[len(out)-1]; last.Date.Equal(d) {
			last.Equity = eq
		} else {
			out = append(out, models.EquityPoint{Date: d, Equity: eq})
		}
		if eq == 0 {
			break
		}
	}
	return out
}

// LedgerFromSignals writes each completed signal as an opening record and a
// realizing sell-side record carrying the return and holding period.
func LedgerFromSignals(sigs []models.EnrichedSignal) []models.TradeRecord {
	out := make([]models.TradeRecord, 0, len(sigs)*2)
	for _, s := range sigs {
		pnl := s.EffectiveReturn()
		hold := s.HoldingDays
		out = append(out,
			models.TradeRecord{Date: s.EntryDate, Symbol: s.Symbol, Side: s.Type, Price: s.EntryPrice},
			models.TradeRecord{Date: s.ExitDate, Symbol: s.Symbol, Side: models.SignalSell, Price: s.ExitPrice, PnLPercent: &pnl, HoldingDays: &hold},
		)
	}
	return out
}

