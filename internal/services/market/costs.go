package market

import (
	"github.com/shopspring/decimal"

	"SignalLab/internal/domain/models"
	domsvc "SignalLab/internal/domain/service"
)

// AShareCostModel charges commission on both legs, stamp duty on the selling
// leg and slippage against the trader on both fills. Returns are relative to
// the signal entry price.
type AShareCostModel struct{}

func NewAShareCostModel() *AShareCostModel { return &AShareCostModel{} }

func (AShareCostModel) NetReturn(entryPrice, exitPrice float64, dir models.SignalType, cfg models.CostConfig) float64 {
	if entryPrice == 0 {
		return 0
	}
	one := decimal.NewFromInt(1)
	entry := decimal.NewFromFloat(entryPrice)
	exit := decimal.NewFromFloat(exitPrice)
	comm := decimal.NewFromFloat(cfg.Commission)
	stamp := decimal.NewFromFloat(cfg.StampDuty)
	slip := decimal.NewFromFloat(cfg.Slippage)

	// buy leg pays price*(1+slip)*(1+comm); sell leg receives price*(1-slip)*(1-comm-stamp)
	buyCost := func(p decimal.Decimal) decimal.Decimal { return p.Mul(one.Add(slip)).Mul(one.Add(comm)) }
	sellProceeds := func(p decimal.Decimal) decimal.Decimal {
		return p.Mul(one.Sub(slip)).Mul(one.Sub(comm).Sub(stamp))
	}

	var pnl decimal.Decimal
	if dir == models.SignalSell {
		pnl = sellProceeds(entry).Sub(buyCost(exit))
	} else {
		pnl = sellProceeds(exit).Sub(buyCost(entry))
	}
	return pnl.Div(entry).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

var _ domsvc.CostModel = AShareCostModel{}
