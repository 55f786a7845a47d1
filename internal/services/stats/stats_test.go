package stats

import (
	"math"
	"testing"
	"time"

	"SignalLab/internal/domain/models"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func curve(values ...float64) []models.EquityPoint {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.EquityPoint, len(values))
	for i, v := range values {
		out[i] = models.EquityPoint{Date: t0.AddDate(0, 0, i), Equity: v}
	}
	return out
}

func TestRoundTo(t *testing.T) {
	if !math.IsInf(RoundTo(math.Inf(1), 2), 1) || !math.IsInf(RoundTo(math.Inf(-1), 2), -1) {
		t.Fatalf("infinities must pass through")
	}
	if !math.IsNaN(RoundTo(math.NaN(), 2)) {
		t.Fatalf("NaN must pass through")
	}
	for _, x := range []float64{1.005, -2.345, 3.14159, 0, 123456.789} {
		once := RoundTo(x, 2)
		if RoundTo(once, 2) != once {
			t.Fatalf("RoundTo not idempotent for %v", x)
		}
	}
	if RoundRatio(1.23456) != 1.2346 || RoundPrice(9.999) != 10 || RoundCount(2.5) != 3 {
		t.Fatalf("unexpected precisions")
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatPrice(12.3), "12.30"},
		{FormatReturn(-1.234), "-1.23%"},
		{FormatRatio(0.5), "0.5000"},
		{FormatPercentage(55.555), "55.56%"},
		{FormatCount(7.4), "7"},
		{FormatRatio(math.Inf(1)), "N/A"},
		{FormatReturn(math.NaN()), "N/A"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q want %q", tt.got, tt.want)
		}
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{5, 1, 4, 2, 3}
	if Percentile(xs, 0) != 5 {
		t.Fatalf("p=0 must return first element in input order")
	}
	if Percentile(xs, 100) != 3 {
		t.Fatalf("p=100 must return last element in input order")
	}
	if Percentile([]float64{1, 2, 3, 4, 5}, 50) != 3 {
		t.Fatalf("median of 1..5 is 3")
	}
	if got := Percentile([]float64{1, 2, 3, 4}, 50); !approx(got, 2.5) {
		t.Fatalf("interpolated median=%v", got)
	}
	if Percentile(nil, 50) != 0 {
		t.Fatalf("empty percentile is 0")
	}
	if xs[0] != 5 {
		t.Fatalf("input must not be sorted in place")
	}
}

func TestCalculateWinStats(t *testing.T) {
	if got := CalculateWinStats(nil); got != (WinStats{}) {
		t.Fatalf("empty input must be all zeros, got %+v", got)
	}
	ws := CalculateWinStats([]float64{10, -5, 20, -5, 0})
	if ws.Total != 5 || ws.Wins != 2 || ws.Losses != 2 {
		t.Fatalf("counts %+v", ws)
	}
	if !approx(ws.WinRate, 40) || !approx(ws.AvgWin, 15) || !approx(ws.AvgLoss, 5) {
		t.Fatalf("averages %+v", ws)
	}
	if !approx(ws.ProfitFactor, 3) || !approx(ws.Expectancy, 0.4*15-0.4*5) {
		t.Fatalf("ratios %+v", ws)
	}
	if ws.LargestWin != 20 || ws.LargestLoss != 5 {
		t.Fatalf("extremes %+v", ws)
	}
	if !math.IsInf(CalculateWinStats([]float64{1, 2}).ProfitFactor, 1) {
		t.Fatalf("no losses means infinite profit factor")
	}
}

func TestCalculateStreaks(t *testing.T) {
	empty := CalculateStreaks(SignalSequence(nil))
	if empty != (Streaks{CurrentStreakType: StreakNone}) {
		t.Fatalf("unexpected empty streaks %+v", empty)
	}

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var wins []models.EnrichedSignal
	for i := 0; i < 5; i++ {
		wins = append(wins, models.EnrichedSignal{EntryDate: t0.AddDate(0, 0, i), IsWin: true})
	}
	st := CalculateStreaks(SignalSequence(wins))
	if st.MaxConsecutiveWins != 5 || st.CurrentStreak != 5 || st.CurrentStreakType != StreakWin {
		t.Fatalf("unexpected %+v", st)
	}

	// out of order input is sorted by entry date first: W L L W
	mixed := []models.EnrichedSignal{
		{EntryDate: t0.AddDate(0, 0, 3), IsWin: true},
		{EntryDate: t0, IsWin: true},
		{EntryDate: t0.AddDate(0, 0, 2), IsWin: false},
		{EntryDate: t0.AddDate(0, 0, 1), IsWin: false},
	}
	st = CalculateStreaks(SignalSequence(mixed))
	if st.MaxConsecutiveLosses != 2 || st.MaxConsecutiveWins != 1 || st.CurrentStreakType != StreakWin || st.CurrentStreak != 1 {
		t.Fatalf("unexpected %+v", st)
	}
}

func TestCalculateRiskAdjusted(t *testing.T) {
	if got := CalculateRiskAdjusted(nil, 0); got != (RiskAdjusted{}) {
		t.Fatalf("empty input %+v", got)
	}
	flat := CalculateRiskAdjusted([]float64{0, 0, 0}, 0.01)
	if flat.Sharpe != 0 || flat.Sortino != 0 {
		t.Fatalf("flat returns %+v", flat)
	}
	up := CalculateRiskAdjusted([]float64{1, 2, 1}, 0)
	if !math.IsInf(up.Sortino, 1) {
		t.Fatalf("no downside with mean above rf must be +Inf, got %v", up.Sortino)
	}
	ra := CalculateRiskAdjusted([]float64{2, -1, -2, 3}, 0)
	if !approx(ra.MaxDrawdown, 3) {
		t.Fatalf("cumulative-sum drawdown=%v want 3", ra.MaxDrawdown)
	}
	if !approx(ra.Sortino, 0.5/math.Sqrt(2.5)) {
		t.Fatalf("sortino=%v", ra.Sortino)
	}
	neg := CalculateRiskAdjusted([]float64{-1, -1}, 0)
	if !approx(neg.MaxDrawdown, 2) {
		t.Fatalf("drawdown from zero baseline=%v want 2", neg.MaxDrawdown)
	}
}

func TestAnalyzeDrawdowns(t *testing.T) {
	rec := AnalyzeDrawdowns(curve(100, 90, 80, 90, 100))
	if !approx(rec.MaxDrawdown, 20) || rec.CurrentDrawdown != 0 {
		t.Fatalf("recovered curve %+v", rec)
	}
	if len(rec.Periods) != 1 || !rec.Periods[0].IsRecovered {
		t.Fatalf("expected one recovered period, got %+v", rec.Periods)
	}
	p := rec.Periods[0]
	if p.RecoveryDays == nil || *p.RecoveryDays != 2 || p.DurationDays != 4 || rec.MaxDrawdownDuration != 4 {
		t.Fatalf("period timing %+v", p)
	}

	open := AnalyzeDrawdowns(curve(100, 95, 85))
	if open.CurrentDrawdown <= 0 {
		t.Fatalf("expected open drawdown")
	}
	last := open.Periods[len(open.Periods)-1]
	if last.IsRecovered || last.RecoveryDate != nil || last.RecoveryDays != nil {
		t.Fatalf("last period must be open %+v", last)
	}

	multi := AnalyzeDrawdowns(curve(100, 90, 100, 110, 99, 105))
	if len(multi.Periods) != 2 || !multi.Periods[0].IsRecovered || multi.Periods[1].IsRecovered {
		t.Fatalf("expected closed then open period, got %+v", multi.Periods)
	}
	for _, dp := range multi.Periods[:len(multi.Periods)-1] {
		if !dp.IsRecovered {
			t.Fatalf("only the last period may be open")
		}
	}

	if got := AnalyzeDrawdowns(curve(100)); got.MaxDrawdown != 0 || got.Periods != nil {
		t.Fatalf("single point must be zeros")
	}
}

func TestVaRAndCVaR(t *testing.T) {
	if CalculateVaR([]float64{1, 2, 3, 4}, 0.95) != 0 || CalculateCVaR([]float64{1, 2, 3}, 0.95) != 0 {
		t.Fatalf("all-positive returns carry no VaR")
	}
	returns := []float64{-5, -3, -1, 0, 1, 2, 3, 4, 5, 6}
	v := CalculateVaR(returns, 0.9)
	c := CalculateCVaR(returns, 0.9)
	if v <= 0 || c < v {
		t.Fatalf("expected |CVaR| >= |VaR| > 0, got %v %v", c, v)
	}
	if !approx(v, 3.2) {
		t.Fatalf("VaR=%v want 3.2", v)
	}
}

func TestMonthly(t *testing.T) {
	eq := []models.EquityPoint{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Equity: 100},
		{Date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Equity: 110},
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Equity: 110},
		{Date: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), Equity: 99},
	}
	months := MonthlyReturns(eq)
	if len(months) != 2 || months[0].Month != "2024-01" || !approx(months[0].ReturnPct, 10) || !approx(months[1].ReturnPct, -10) {
		t.Fatalf("unexpected months %+v", months)
	}
	ms := CalculateMonthlyStats(months)
	if ms.PositiveMonths != 1 || ms.NegativeMonths != 1 || !approx(ms.MonthlyWinRate, 50) {
		t.Fatalf("unexpected stats %+v", ms)
	}
	if ms.BestMonth.Month != "2024-01" || ms.WorstMonth.Month != "2024-02" {
		t.Fatalf("best/worst mismatch")
	}
	if empty := CalculateMonthlyStats(nil); empty.BestMonth != nil || empty.TotalMonths != 0 {
		t.Fatalf("empty stats %+v", empty)
	}
}

func TestAnnualization(t *testing.T) {
	if got := AnnualizedReturn(0.1, 252, 252); !approx(got, 10) {
		t.Fatalf("one year of 10%% is 10%%, got %v", got)
	}
	if got := AnnualizedReturn(0.21, 504, 252); !approx(got, 10) {
		t.Fatalf("two years of 21%% is 10%% annual, got %v", got)
	}
	if AnnualizedReturn(0.1, 0, 252) != 0 {
		t.Fatalf("zero period yields 0")
	}
	if got := AnnualizedVolatility([]float64{1, -1, 1, -1}, 252); !approx(got, math.Sqrt(252)) {
		t.Fatalf("volatility=%v", got)
	}
}

func TestBuildRiskMetricsGuards(t *testing.T) {
	p := DefaultParams()
	flat := BuildRiskMetrics(curve(100, 100, 100, 100), p)
	if flat.SortinoRatio != 0 || flat.CalmarRatio != 0 || flat.SharpeRatio != 0 {
		t.Fatalf("flat curve %+v", flat)
	}
	rising := BuildRiskMetrics(curve(100, 101, 102, 103, 104), p)
	if rising.CalmarRatio != CalmarCap || rising.SortinoRatio != SortinoCap || rising.MaxDrawdown != 0 {
		t.Fatalf("rising curve %+v", rising)
	}
	dd := BuildRiskMetrics(curve(100, 90, 95, 80, 120), p)
	if !approx(dd.MaxDrawdown, 20) || dd.CalmarRatio <= 0 || len(dd.DrawdownPeriods) != 1 {
		t.Fatalf("drawdown curve %+v", dd)
	}
}

func TestBuildReturnMetrics(t *testing.T) {
	rm := BuildReturnMetrics(curve(100, 110, 99, 121), DefaultParams())
	if rm.TotalReturn != 21 || rm.PeriodDays != 3 || rm.BestDay != 22.22 || rm.WorstDay != -10 {
		t.Fatalf("unexpected %+v", rm)
	}
	if len(rm.MonthlyReturns) != 1 || rm.Monthly.TotalMonths != 1 {
		t.Fatalf("monthly %+v", rm.MonthlyReturns)
	}
	if empty := BuildReturnMetrics(nil, DefaultParams()); empty.TotalReturn != 0 || empty.MonthlyReturns != nil {
		t.Fatalf("empty %+v", empty)
	}
}

func TestBuildTradingMetrics(t *testing.T) {
	pnl := func(v float64) *float64 { return &v }
	days := func(v int) *int { return &v }
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []models.TradeRecord{
		{Date: t0, Side: models.SignalBuy, Price: 10},
		{Date: t0.AddDate(0, 0, 5), Side: models.SignalSell, Price: 11, PnLPercent: pnl(10), HoldingDays: days(5)},
		{Date: t0.AddDate(0, 0, 6), Side: models.SignalBuy, Price: 11, PnLPercent: pnl(99)},
		{Date: t0.AddDate(0, 0, 9), Side: models.SignalSell, Price: 10, PnLPercent: pnl(-4)},
		{Date: t0.AddDate(0, 0, 10), Side: models.SignalSell, Price: 10},
	}
	tm := BuildTradingMetrics(trades)
	if tm.TotalTrades != 2 || tm.WinningTrades != 1 || tm.LosingTrades != 1 {
		t.Fatalf("only sell trades with pnl count: %+v", tm)
	}
	if tm.AvgHoldingDays != 2.5 {
		t.Fatalf("missing holding days contribute 0, got %v", tm.AvgHoldingDays)
	}
	if tm.ProfitFactor != 2.5 || tm.MaxConsecutiveWins != 1 || tm.MaxConsecutiveLosses != 1 {
		t.Fatalf("unexpected %+v", tm)
	}
	if BuildTradingMetrics(trades[:2]).ProfitFactor != ProfitFactorCap {
		t.Fatalf("infinite profit factor must be capped")
	}
}

func TestCompareToBenchmark(t *testing.T) {
	s := curve(100, 102, 104, 103, 106)
	if got := CompareToBenchmark(s, s, DefaultParams()); got == nil || got.Beta != 1 || got.Correlation != 1 || got.TrackingError != 0 || got.ExcessReturn != 0 {
		t.Fatalf("self comparison %+v", got)
	}
	if CompareToBenchmark(s, curve(100), DefaultParams()) != nil {
		t.Fatalf("insufficient overlap yields nil")
	}
	double := curve(100, 104, 108, 106, 112)
	got := CompareToBenchmark(double, s, DefaultParams())
	if got == nil || got.StrategyReturn != 12 || got.BenchmarkReturn != 6 || got.ExcessReturn != 6 {
		t.Fatalf("unexpected %+v", got)
	}
	if got.Beta <= 1 {
		t.Fatalf("amplified strategy should have beta > 1, got %v", got.Beta)
	}
}
