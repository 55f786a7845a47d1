package market

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"SignalLab/internal/domain/models"
	domsvc "SignalLab/internal/domain/service"
)

// PriceLimitOracle classifies bars against the daily price limit band.
// Growth boards (300/301/688) use GrowthLimitPct, ST stocks STLimitPct,
// everything else LimitPct. Zero volume means suspended.
type PriceLimitOracle struct {
	LimitPct       float64
	STLimitPct     float64
	GrowthLimitPct float64

	mu sync.RWMutex
	st map[string]bool
}

func NewPriceLimitOracle(limitPct, stLimitPct, growthLimitPct float64) *PriceLimitOracle {
	return &PriceLimitOracle{
		LimitPct:       limitPct,
		STLimitPct:     stLimitPct,
		GrowthLimitPct: growthLimitPct,
		st:             make(map[string]bool),
	}
}

// MarkST records whether symbol trades under the ST band.
func (o *PriceLimitOracle) MarkST(symbol string, isST bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if isST {
		o.st[symbol] = true
	} else {
		delete(o.st, symbol)
	}
}

// LimitFor returns the limit band for symbol as a fraction.
func (o *PriceLimitOracle) LimitFor(symbol string) float64 {
	if isGrowthBoard(symbol) {
		return o.GrowthLimitPct / 100
	}
	o.mu.RLock()
	st := o.st[symbol]
	o.mu.RUnlock()
	if st {
		return o.STLimitPct / 100
	}
	return o.LimitPct / 100
}

func (o *PriceLimitOracle) Classify(_ context.Context, symbol string, bars []models.Bar, i int) models.MarketStatus {
	var st models.MarketStatus
	if i < 0 || i >= len(bars) {
		return st
	}
	st.IsSuspended = bars[i].Volume == 0
	if i == 0 || bars[i-1].Close <= 0 {
		return st
	}

	prev := decimal.NewFromFloat(bars[i-1].Close)
	limit := decimal.NewFromFloat(o.LimitFor(symbol))
	one := decimal.NewFromInt(1)
	up := prev.Mul(one.Add(limit)).Round(2)
	down := prev.Mul(one.Sub(limit)).Round(2)
	c := decimal.NewFromFloat(bars[i].Close).Round(2)

	st.IsLimitUp = c.GreaterThanOrEqual(up)
	st.IsLimitDown = c.LessThanOrEqual(down)
	return st
}

func isGrowthBoard(symbol string) bool {
	code := strings.TrimLeft(strings.ToLower(symbol), "shz.")
	return strings.HasPrefix(code, "300") || strings.HasPrefix(code, "301") || strings.HasPrefix(code, "688")
}

var (
	_ domsvc.MarketStatusOracle = (*PriceLimitOracle)(nil)
	_ domsvc.STAware            = (*PriceLimitOracle)(nil)
)
