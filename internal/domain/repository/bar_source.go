package repository

import (
	"context"
	"errors"
	"time"

	"SignalLab/internal/domain/models"
)

var ErrStockNotFound = errors.New("stock not found")

// BarSource provides ordered daily bars per symbol.
type BarSource interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	GetLatestBars(ctx context.Context, symbol string, n int) ([]models.Bar, error)
}

// StockDirectory resolves listing attributes (ST flag, listing date).
type StockDirectory interface {
	GetStock(ctx context.Context, symbol string) (models.Stock, error)
	ListSymbols(ctx context.Context) ([]string, error)
}
