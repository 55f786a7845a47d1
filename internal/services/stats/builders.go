package stats

import (
	"math"

	"SignalLab/internal/domain/models"
)

const (
	// SortinoCap and CalmarCap bound ratios whose denominator vanished.
	SortinoCap = 10
	CalmarCap  = 10
	// ProfitFactorCap replaces an infinite profit factor (wins, no losses) in reports.
	ProfitFactorCap = 999.99
)

// Params carries the annual risk-free rate (fraction), the trading-day year and the VaR level.
type Params struct {
	RiskFreeRate  float64
	TradingDays   int
	VaRConfidence float64
}

func DefaultParams() Params {
	return Params{RiskFreeRate: 0.03, TradingDays: DefaultTradingDays, VaRConfidence: 0.95}
}

func (p Params) tradingDays() int {
	if p.TradingDays <= 0 {
		return DefaultTradingDays
	}
	return p.TradingDays
}

// perPeriodRiskFree converts the annual fraction into per-period percent.
func (p Params) perPeriodRiskFree() float64 {
	return p.RiskFreeRate / float64(p.tradingDays()) * 100
}

func BuildReturnMetrics(equity []models.EquityPoint, p Params) models.ReturnMetrics {
	var rm models.ReturnMetrics
	if len(equity) < 2 {
		rm.Monthly = CalculateMonthlyStats(nil)
		return rm
	}
	returns := PeriodReturns(equity)
	total := TotalReturn(equity)
	months := MonthlyReturns(equity)
	dist := CalculateDistribution(returns)

	rm.TotalReturn = RoundReturn(total * 100)
	rm.PeriodDays = len(returns)
	rm.AnnualizedReturn = RoundReturn(AnnualizedReturn(total, rm.PeriodDays, p.tradingDays()))
	rm.AverageDailyReturn = RoundTo(dist.Mean, RatioPrecision)
	rm.BestDay = RoundReturn(dist.Max)
	rm.WorstDay = RoundReturn(dist.Min)
	rm.MonthlyReturns = make([]models.MonthlyReturn, len(months))
	for i, m := range months {
		m.ReturnPct = RoundReturn(m.ReturnPct)
		rm.MonthlyReturns[i] = m
	}
	rm.Monthly = CalculateMonthlyStats(months)
	rm.Monthly.AverageReturn = RoundReturn(rm.Monthly.AverageReturn)
	rm.Monthly.MonthlyWinRate = RoundPercentage(rm.Monthly.MonthlyWinRate)
	return rm
}

// BuildRiskMetrics annualizes per-period ratios by sqrt(tradingDays). Sortino is 0
// without downside when the mean does not beat the risk-free rate and capped at
// SortinoCap otherwise. Calmar is 0 without drawdown and non-positive return,
// CalmarCap without drawdown and positive return.
func BuildRiskMetrics(equity []models.EquityPoint, p Params) models.RiskMetrics {
	var rk models.RiskMetrics
	if len(equity) < 2 {
		return rk
	}
	td := p.tradingDays()
	scale := math.Sqrt(float64(td))
	returns := PeriodReturns(equity)
	ra := CalculateRiskAdjusted(returns, p.perPeriodRiskFree())
	dd := AnalyzeDrawdowns(equity)
	annual := AnnualizedReturn(TotalReturn(equity), len(returns), td)

	sortino := ra.Sortino * scale
	if math.IsInf(ra.Sortino, 1) || sortino > SortinoCap {
		sortino = SortinoCap
	}

	var calmar float64
	switch {
	case dd.MaxDrawdown > 0:
		calmar = annual / dd.MaxDrawdown
	case annual > 0:
		calmar = CalmarCap
	}

	rk.Volatility = RoundPercentage(AnnualizedVolatility(returns, td))
	rk.DownsideDeviation = RoundPercentage(DownsideDeviation(returns) * scale)
	rk.SharpeRatio = RoundRatio(ra.Sharpe * scale)
	rk.SortinoRatio = RoundRatio(sortino)
	rk.CalmarRatio = RoundRatio(calmar)
	rk.MaxDrawdown = RoundPercentage(dd.MaxDrawdown)
	rk.MaxDrawdownDuration = dd.MaxDrawdownDuration
	rk.CurrentDrawdown = RoundPercentage(dd.CurrentDrawdown)
	rk.VaR95 = RoundReturn(CalculateVaR(returns, p.VaRConfidence))
	rk.CVaR95 = RoundReturn(CalculateCVaR(returns, p.VaRConfidence))
	rk.DrawdownPeriods = dd.Periods
	if rk.DrawdownPeriods == nil {
		rk.DrawdownPeriods = []models.DrawdownPeriod{}
	}
	return rk
}

// BuildTradingMetrics counts only sell-side records carrying a PnL. A missing
// HoldingDays contributes 0.
func BuildTradingMetrics(trades []models.TradeRecord) models.TradingMetrics {
	closing := closingTrades(trades)
	pnls := make([]float64, len(closing))
	var holding float64
	for i, t := range closing {
		pnls[i] = *t.PnLPercent
		if t.HoldingDays != nil {
			holding += float64(*t.HoldingDays)
		}
	}
	ws := CalculateWinStats(pnls)
	st := CalculateStreaks(TradeSequence(trades))

	tm := models.TradingMetrics{
		TotalTrades:          ws.Total,
		WinningTrades:        ws.Wins,
		LosingTrades:         ws.Losses,
		WinRate:              RoundPercentage(ws.WinRate),
		AvgWin:               RoundReturn(ws.AvgWin),
		AvgLoss:              RoundReturn(ws.AvgLoss),
		LargestWin:           RoundReturn(ws.LargestWin),
		LargestLoss:          RoundReturn(ws.LargestLoss),
		ProfitFactor:         RoundRatio(math.Min(ws.ProfitFactor, ProfitFactorCap)),
		Expectancy:           RoundReturn(ws.Expectancy),
		MaxConsecutiveWins:   st.MaxConsecutiveWins,
		MaxConsecutiveLosses: st.MaxConsecutiveLosses,
	}
	if len(closing) > 0 {
		tm.AvgHoldingDays = RoundTo(holding/float64(len(closing)), 1)
	}
	return tm
}

// CompareToBenchmark aligns both curves on calendar date and compares their period
// returns. Fewer than two shared dates yields nil.
func CompareToBenchmark(strategy, benchmark []models.EquityPoint, p Params) *models.BenchmarkComparison {
	byDay := make(map[string]float64, len(benchmark))
	for _, b := range benchmark {
		byDay[b.Date.Format("2006-01-02")] = b.Equity
	}
	var s, b []models.EquityPoint
	for _, pt := range strategy {
		if eq, ok := byDay[pt.Date.Format("2006-01-02")]; ok {
			s = append(s, pt)
			b = append(b, models.EquityPoint{Date: pt.Date, Equity: eq})
		}
	}
	if len(s) < 2 {
		return nil
	}

	td := float64(p.tradingDays())
	rf := p.perPeriodRiskFree()
	sr, br := PeriodReturns(s), PeriodReturns(b)
	ms, mb := Mean(sr), Mean(br)

	var cov float64
	active := make([]float64, len(sr))
	for i := range sr {
		cov += (sr[i] - ms) * (br[i] - mb)
		active[i] = sr[i] - br[i]
	}
	cov /= float64(len(sr))

	cmp := &models.BenchmarkComparison{
		StrategyReturn:  RoundReturn(TotalReturn(s) * 100),
		BenchmarkReturn: RoundReturn(TotalReturn(b) * 100),
	}
	cmp.ExcessReturn = RoundReturn((TotalReturn(s) - TotalReturn(b)) * 100)

	var beta float64
	sdS, sdB := StdDev(sr), StdDev(br)
	if sdB > 0 {
		beta = cov / (sdB * sdB)
	}
	if sdS > 0 && sdB > 0 {
		cmp.Correlation = RoundRatio(cov / (sdS * sdB))
	}
	cmp.Beta = RoundRatio(beta)
	cmp.Alpha = RoundReturn(((ms - rf) - beta*(mb-rf)) * td)

	te := StdDev(active) * math.Sqrt(td)
	cmp.TrackingError = RoundPercentage(te)
	if te > 0 {
		cmp.InformationRatio = RoundRatio(Mean(active) * td / te)
	}
	return cmp
}
