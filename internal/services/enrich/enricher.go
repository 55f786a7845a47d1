// Package enrich resolves raw detections into trades over a fixed holding period.
package enrich

import (
	"context"

	"SignalLab/internal/domain/models"
	"SignalLab/internal/domain/service"
)

// Enricher consults the market status oracle for entry/exit tradability and an
// optional cost model for net returns. A nil oracle treats every bar as normal.
type Enricher struct {
	oracle service.MarketStatusOracle
	costs  service.CostModel
	cfg    models.CostConfig
}

func NewEnricher(oracle service.MarketStatusOracle, costs service.CostModel, cfg models.CostConfig) *Enricher {
	return &Enricher{oracle: oracle, costs: costs, cfg: cfg}
}

// WithoutCosts returns a copy that reports gross returns only.
func (e *Enricher) WithoutCosts() *Enricher {
	cp := *e
	cp.costs = nil
	return &cp
}

// Register forwards listing attributes to an oracle that needs them.
func (e *Enricher) Register(stock models.Stock) {
	if aware, ok := e.oracle.(service.STAware); ok {
		aware.MarkST(stock.Symbol, stock.IsST)
	}
}

// Enrich resolves det over holding bars. The returned signal may carry a
// cannot_buy/cannot_sell status; callers drop those.
func (e *Enricher) Enrich(ctx context.Context, symbol string, bars []models.Bar, det models.RawDetection, holding int) models.EnrichedSignal {
	i := det.Index
	sig := models.EnrichedSignal{
		Symbol:      symbol,
		Type:        det.Type,
		Signal:      det.Signal,
		Strength:    det.Strength,
		EntryDate:   det.Timestamp,
		EntryPrice:  det.Price,
		HoldingDays: holding,
	}

	entry := e.classify(ctx, symbol, bars, i)
	sig.IsLimitUp, sig.IsLimitDown = entry.IsLimitUp, entry.IsLimitDown
	if det.Type == models.SignalBuy && entry.IsLimitUp {
		sig.Status, sig.StatusReason = models.StatusCannotBuy, "entry bar is limit-up"
		return sig
	}
	if det.Type == models.SignalSell && entry.IsLimitDown {
		sig.Status, sig.StatusReason = models.StatusCannotSell, "entry bar is limit-down"
		return sig
	}

	exitIdx := i + holding
	if exitIdx >= len(bars) {
		last := len(bars) - 1
		actual := last - i
		sig.Status = models.StatusHolding
		sig.StatusReason = "position open at end of data"
		sig.ActualHoldingDays = &actual
		sig.ExitDate, sig.ExitPrice = bars[last].Time, bars[last].Close
		e.fillReturns(&sig)
		sig.IsSuspended = entry.IsSuspended
		return sig
	}

	sig.ExitDate, sig.ExitPrice = bars[exitIdx].Time, bars[exitIdx].Close
	e.fillReturns(&sig)

	exit := e.classify(ctx, symbol, bars, exitIdx)
	switch {
	case entry.IsSuspended:
		sig.IsSuspended = true
		sig.Status, sig.StatusReason = models.StatusSuspended, "entry bar suspended"
	case exit.IsSuspended:
		sig.IsSuspended = true
		sig.Status, sig.StatusReason = models.StatusSuspended, "exit bar suspended, exit may be delayed"
	default:
		sig.Status = models.StatusCompleted
	}
	return sig
}

func (e *Enricher) classify(ctx context.Context, symbol string, bars []models.Bar, i int) models.MarketStatus {
	if e.oracle == nil {
		return models.MarketStatus{}
	}
	return e.oracle.Classify(ctx, symbol, bars, i)
}

func (e *Enricher) fillReturns(sig *models.EnrichedSignal) {
	sig.ReturnPct = GrossReturn(sig.EntryPrice, sig.ExitPrice, sig.Type)
	sig.IsWin = sig.ReturnPct > 0
	if e.costs != nil {
		net := e.costs.NetReturn(sig.EntryPrice, sig.ExitPrice, sig.Type, e.cfg)
		sig.NetReturnPct = &net
		sig.IsWin = net > 0
	}
}

// GrossReturn is the directional percentage return. A zero entry price yields 0.
func GrossReturn(entry, exit float64, dir models.SignalType) float64 {
	if entry == 0 {
		return 0
	}
	if dir == models.SignalSell {
		return (entry - exit) / entry * 100
	}
	return (exit - entry) / entry * 100
}
