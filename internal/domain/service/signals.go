package service

import (
	"context"

	"SignalLab/internal/domain/models"
)

// MarketStatusOracle classifies bars[index] of a symbol's series.
type MarketStatusOracle interface {
	Classify(ctx context.Context, symbol string, bars []models.Bar, index int) models.MarketStatus
}

// CostModel converts a gross trade into a net return percentage.
type CostModel interface {
	NetReturn(entryPrice, exitPrice float64, direction models.SignalType, cfg models.CostConfig) float64
}

// STAware oracles apply a separate limit band to ST stocks.
type STAware interface {
	MarkST(symbol string, isST bool)
}
