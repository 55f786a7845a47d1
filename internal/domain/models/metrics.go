package models

import "time"

// EquityPoint is one sample of an equity curve. Curves are strictly time-ordered with Equity > 0.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// DrawdownPeriod spans a peak to its recovery. Only the last period of a list may be open.
type DrawdownPeriod struct {
	PeakDate     time.Time  `json:"peak_date"`
	TroughDate   time.Time  `json:"trough_date"`
	DepthPct     float64    `json:"depth_pct"`
	DurationDays int        `json:"duration_days"`
	IsRecovered  bool       `json:"is_recovered"`
	RecoveryDate *time.Time `json:"recovery_date"`
	RecoveryDays *int       `json:"recovery_days"`
}

// TradeRecord is a single fill as reported by a backtest ledger.
// Only sell-side records carrying PnLPercent close a round trip.
type TradeRecord struct {
	Date        time.Time  `json:"date" validate:"required"`
	Symbol      string     `json:"symbol"`
	Side        SignalType `json:"side" validate:"required,oneof=buy sell"`
	Price       float64    `json:"price" validate:"gt=0"`
	PnLPercent  *float64   `json:"pnl_percent,omitempty"`
	HoldingDays *int       `json:"holding_days,omitempty"`
}

type MonthlyReturn struct {
	Month       string  `json:"month"`
	StartEquity float64 `json:"start_equity"`
	EndEquity   float64 `json:"end_equity"`
	ReturnPct   float64 `json:"return_pct"`
}

type MonthlyStats struct {
	AverageReturn  float64        `json:"average_return"`
	BestMonth      *MonthlyReturn `json:"best_month"`
	WorstMonth     *MonthlyReturn `json:"worst_month"`
	PositiveMonths int            `json:"positive_months"`
	NegativeMonths int            `json:"negative_months"`
	TotalMonths    int            `json:"total_months"`
	MonthlyWinRate float64        `json:"monthly_win_rate"`
}

type ReturnMetrics struct {
	TotalReturn        float64         `json:"total_return"`
	AnnualizedReturn   float64         `json:"annualized_return"`
	AverageDailyReturn float64         `json:"average_daily_return"`
	BestDay            float64         `json:"best_day"`
	WorstDay           float64         `json:"worst_day"`
	PeriodDays         int             `json:"period_days"`
	MonthlyReturns     []MonthlyReturn `json:"monthly_returns"`
	Monthly            MonthlyStats    `json:"monthly"`
}

type RiskMetrics struct {
	Volatility          float64          `json:"volatility"`
	DownsideDeviation   float64          `json:"downside_deviation"`
	SharpeRatio         float64          `json:"sharpe_ratio"`
	SortinoRatio        float64          `json:"sortino_ratio"`
	CalmarRatio         float64          `json:"calmar_ratio"`
	MaxDrawdown         float64          `json:"max_drawdown"`
	MaxDrawdownDuration int              `json:"max_drawdown_duration"`
	CurrentDrawdown     float64          `json:"current_drawdown"`
	VaR95               float64          `json:"var_95"`
	CVaR95              float64          `json:"cvar_95"`
	DrawdownPeriods     []DrawdownPeriod `json:"drawdown_periods"`
}

type TradingMetrics struct {
	TotalTrades          int     `json:"total_trades"`
	WinningTrades        int     `json:"winning_trades"`
	LosingTrades         int     `json:"losing_trades"`
	WinRate              float64 `json:"win_rate"`
	AvgWin               float64 `json:"avg_win"`
	AvgLoss              float64 `json:"avg_loss"`
	LargestWin           float64 `json:"largest_win"`
	LargestLoss          float64 `json:"largest_loss"`
	ProfitFactor         float64 `json:"profit_factor"`
	Expectancy           float64 `json:"expectancy"`
	AvgHoldingDays       float64 `json:"avg_holding_days"`
	MaxConsecutiveWins   int     `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

type BenchmarkComparison struct {
	StrategyReturn   float64 `json:"strategy_return"`
	BenchmarkReturn  float64 `json:"benchmark_return"`
	ExcessReturn     float64 `json:"excess_return"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
	Correlation      float64 `json:"correlation"`
	TrackingError    float64 `json:"tracking_error"`
	InformationRatio float64 `json:"information_ratio"`
}

// PerformanceReport bundles the unified metrics for one analysis run.
type PerformanceReport struct {
	Return    ReturnMetrics        `json:"return"`
	Risk      RiskMetrics          `json:"risk"`
	Trading   *TradingMetrics      `json:"trading,omitempty"`
	Benchmark *BenchmarkComparison `json:"benchmark,omitempty"`
}
