package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	pkgch "SignalLab/pkg/clickhouse"
	applogger "SignalLab/pkg/logger"
	xutil "SignalLab/pkg/util"
)

// CHMarketStore implements BarSource and StockDirectory backed by ClickHouse.
type CHMarketStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger

	bars   string
	stocks string
}

func NewCHMarketStore(ch *pkgch.Client, l *applogger.Logger) *CHMarketStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHMarketStore{
		ch:     ch,
		db:     ch.DB(),
		l:      l,
		bars:   ch.Database() + ".daily_bars",
		stocks: ch.Database() + ".stocks",
	}
}

// Schema is the idempotent DDL for the two tables the store reads.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.daily_bars (
            symbol LowCardinality(String),
            date   Date,
            open   Float64,
            high   Float64,
            low    Float64,
            close  Float64,
            volume Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, date)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.stocks (
            symbol    String,
            name      String,
            is_st     UInt8,
            listed_at Date
        ) ENGINE = ReplacingMergeTree
        ORDER BY symbol`, database),
	}
}

// Init ensures the schema exists.
func (s *CHMarketStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, Schema(s.ch.Database()))
}

func (s *CHMarketStore) Health(ctx context.Context) error { return s.ch.Health(ctx) }
func (s *CHMarketStore) Close() error                     { return s.ch.Close() }

func (s *CHMarketStore) GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT date, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `, s.bars)
	rows, err := s.db.QueryContext(ctx, q, symbol, xutil.TradingDay(from), xutil.TradingDay(to))
	if err != nil {
		s.l.Error("clickhouse get_bars query error", applogger.String("symbol", symbol), applogger.Error(err))
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out, err := scanBars(rows, 256)
	if err != nil {
		s.l.Error("clickhouse get_bars scan error", applogger.String("symbol", symbol), applogger.Error(err))
		return nil, err
	}
	s.l.Debug("clickhouse get_bars ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func (s *CHMarketStore) GetLatestBars(ctx context.Context, symbol string, n int) ([]models.Bar, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT date, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT ?
    `, s.bars)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		s.l.Error("clickhouse latest_bars query error", applogger.String("symbol", symbol), applogger.Int("limit", n), applogger.Error(err))
		return nil, fmt.Errorf("get latest bars: %w", err)
	}
	defer rows.Close()

	out, err := scanBars(rows, n)
	if err != nil {
		s.l.Error("clickhouse latest_bars scan error", applogger.String("symbol", symbol), applogger.Error(err))
		return nil, err
	}
	reverseBars(out)
	s.l.Debug("clickhouse latest_bars ok",
		applogger.String("symbol", symbol),
		applogger.Int("limit", n),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func (s *CHMarketStore) GetStock(ctx context.Context, symbol string) (models.Stock, error) {
	q := fmt.Sprintf(`SELECT symbol, name, is_st, listed_at FROM %s FINAL WHERE symbol = ? LIMIT 1`, s.stocks)
	var (
		st   models.Stock
		isST uint8
	)
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(&st.Symbol, &st.Name, &isST, &st.ListedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Stock{}, fmt.Errorf("%s: %w", symbol, domrepo.ErrStockNotFound)
	}
	if err != nil {
		s.l.Error("clickhouse get_stock error", applogger.String("symbol", symbol), applogger.Error(err))
		return models.Stock{}, fmt.Errorf("get stock: %w", err)
	}
	st.IsST = isST != 0
	return st, nil
}

func (s *CHMarketStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT DISTINCT symbol FROM %s ORDER BY symbol`, s.stocks))
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanBars(rows *sql.Rows, capHint int) ([]models.Bar, error) {
	out := make([]models.Bar, 0, max(capHint, 0))
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = xutil.TradingDay(b.Time)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// reverseBars flips a DESC query result to ascending order.
func reverseBars(b []models.Bar) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

var (
	_ domrepo.BarSource      = (*CHMarketStore)(nil)
	_ domrepo.StockDirectory = (*CHMarketStore)(nil)
	_ domrepo.Storage        = (*CHMarketStore)(nil)
)
