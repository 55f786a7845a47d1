package models

import "time"

type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
)

type SignalStatus string

const (
	StatusCompleted  SignalStatus = "completed"
	StatusHolding    SignalStatus = "holding"
	StatusSuspended  SignalStatus = "suspended"
	StatusCannotBuy  SignalStatus = "cannot_buy"
	StatusCannotSell SignalStatus = "cannot_sell"
)

// Executable reports whether a signal with this status may enter a result set.
func (s SignalStatus) Executable() bool {
	return s != StatusCannotBuy && s != StatusCannotSell
}

// RawDetection is what a detector emits at a single bar index.
type RawDetection struct {
	Type      SignalType `json:"type"`
	Signal    string     `json:"signal"`
	Strength  float64    `json:"strength"`
	Price     float64    `json:"price"`
	Timestamp time.Time  `json:"timestamp"`
	Index     int        `json:"-"`
}

// EnrichedSignal is a detection resolved into a trade over a fixed holding period.
type EnrichedSignal struct {
	Symbol            string       `json:"symbol"`
	Type              SignalType   `json:"type"`
	Signal            string       `json:"signal"`
	Strength          float64      `json:"strength"`
	EntryDate         time.Time    `json:"entry_date"`
	ExitDate          time.Time    `json:"exit_date"`
	EntryPrice        float64      `json:"entry_price"`
	ExitPrice         float64      `json:"exit_price"`
	ReturnPct         float64      `json:"return_pct"`
	NetReturnPct      *float64     `json:"net_return_pct,omitempty"`
	IsWin             bool         `json:"is_win"`
	HoldingDays       int          `json:"holding_days"`
	Status            SignalStatus `json:"status"`
	StatusReason      string       `json:"status_reason,omitempty"`
	IsLimitUp         bool         `json:"is_limit_up,omitempty"`
	IsLimitDown       bool         `json:"is_limit_down,omitempty"`
	IsSuspended       bool         `json:"is_suspended,omitempty"`
	ActualHoldingDays *int         `json:"actual_holding_days,omitempty"`
}

// EffectiveReturn is the net return when costs were modeled, else the gross return.
func (s EnrichedSignal) EffectiveReturn() float64 {
	if s.NetReturnPct != nil {
		return *s.NetReturnPct
	}
	return s.ReturnPct
}

// StockSignalResult aggregates one symbol's scan.
type StockSignalResult struct {
	Symbol           string           `json:"symbol"`
	Name             string           `json:"name,omitempty"`
	Signals          []EnrichedSignal `json:"signals"`
	TotalSignals     int              `json:"total_signals"`
	CompletedSignals int              `json:"completed_signals"`
	WinSignals       int              `json:"win_signals"`
	WinRate          float64          `json:"win_rate"`
	AvgReturn        float64          `json:"avg_return"`
	MaxReturn        float64          `json:"max_return"`
	MinReturn        float64          `json:"min_return"`
	SkipReason       string           `json:"skip_reason,omitempty"`
}
