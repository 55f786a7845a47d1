package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
)

var t0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func sineBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		c := 100 + 10*math.Sin(float64(i)/6)
		bars[i] = models.Bar{Time: t0.AddDate(0, 0, i), Open: c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: 1000}
	}
	return bars
}

type fakeMarket struct {
	bars   map[string][]models.Bar
	stocks map[string]models.Stock
}

func (f *fakeMarket) GetBars(_ context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	var out []models.Bar
	for _, b := range f.bars[symbol] {
		if !b.Time.Before(from) && !b.Time.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeMarket) GetLatestBars(_ context.Context, symbol string, n int) ([]models.Bar, error) {
	b := f.bars[symbol]
	if n > 0 && len(b) > n {
		b = b[len(b)-n:]
	}
	return b, nil
}

func (f *fakeMarket) GetStock(_ context.Context, symbol string) (models.Stock, error) {
	s, ok := f.stocks[symbol]
	if !ok {
		return models.Stock{}, domrepo.ErrStockNotFound
	}
	return s, nil
}

func (f *fakeMarket) ListSymbols(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(f.stocks))
	for s := range f.stocks {
		out = append(out, s)
	}
	return out, nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	dropped  map[string]int
	skipped  map[string]int
	progress []int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{dropped: map[string]int{}, skipped: map[string]int{}}
}

func (m *fakeMetrics) RecordScan(int, float64)   {}
func (m *fakeMetrics) RecordSignals(string, int) {}
func (m *fakeMetrics) RecordError(string)        {}

func (m *fakeMetrics) RecordSkip(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped[reason]++
}

func (m *fakeMetrics) RecordDropped(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[status]++
}

func (m *fakeMetrics) RecordProgress(_ string, completed, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, completed)
}

type limitUpOracle struct{}

func (limitUpOracle) Classify(context.Context, string, []models.Bar, int) models.MarketStatus {
	return models.MarketStatus{IsLimitUp: true}
}

type fakePublisher struct {
	mu      sync.Mutex
	jobs    []string
	results int
}

func (p *fakePublisher) PublishResult(_ context.Context, jobID string, _ *models.StockSignalResult) error {
	return p.PublishBatch(context.Background(), jobID, make([]*models.StockSignalResult, 1))
}

func (p *fakePublisher) PublishBatch(_ context.Context, jobID string, results []*models.StockSignalResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, jobID)
	p.results += len(results)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
