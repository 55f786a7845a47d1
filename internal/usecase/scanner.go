package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	"SignalLab/internal/services/dedup"
	"SignalLab/internal/services/detectors"
	"SignalLab/internal/services/enrich"
	"SignalLab/internal/services/indicators"
	"SignalLab/internal/services/stats"
	"SignalLab/pkg/logger"
)

// Warmup is the first bar index a detector is evaluated at.
const Warmup = 30

const (
	SkipST           = "st_excluded"
	SkipNewListing   = "new_listing"
	SkipInsufficient = "insufficient_data"
	SkipUnknown      = "unknown_strategy"
	SkipNotFound     = "stock_not_found"
	SkipFetchFailed  = "fetch_failed"
)

var ErrNoSymbols = errors.New("no symbols to scan")

// ScanParams are the resolved knobs for one scan.
type ScanParams struct {
	Strategies     []string
	HoldingDays    int
	MinGapDays     int
	KeepStrongest  bool
	ExcludeST      bool
	ExcludeNew     bool
	MinListingDays int
	MinStrength    *float64
	MaxStrength    *float64
	LookbackDays   int
	WithCosts      bool
}

// Resolve overlays request options on top of p.
func (p ScanParams) Resolve(o models.ScanOptions) ScanParams {
	out := p
	if len(o.Strategies) > 0 {
		out.Strategies = o.Strategies
	}
	if o.HoldingDays > 0 {
		out.HoldingDays = o.HoldingDays
	}
	if o.MinGapDays > 0 {
		out.MinGapDays = o.MinGapDays
	}
	if o.MinListingDays > 0 {
		out.MinListingDays = o.MinListingDays
	}
	if o.LookbackDays > 0 {
		out.LookbackDays = o.LookbackDays
	}
	if o.KeepStrongest != nil {
		out.KeepStrongest = *o.KeepStrongest
	}
	if o.ExcludeST != nil {
		out.ExcludeST = *o.ExcludeST
	}
	if o.ExcludeNew != nil {
		out.ExcludeNew = *o.ExcludeNew
	}
	if o.WithCosts != nil {
		out.WithCosts = *o.WithCosts
	}
	if o.MinStrength != nil {
		out.MinStrength = o.MinStrength
	}
	if o.MaxStrength != nil {
		out.MaxStrength = o.MaxStrength
	}
	return out
}

// ProgressFunc receives (completed, total) once per finished symbol.
type ProgressFunc func(completed, total int)

type Scanner struct {
	bars     domrepo.BarSource
	stocks   domrepo.StockDirectory
	enricher *enrich.Enricher
	metrics  domrepo.Metrics
	log      *logger.Logger
	defaults ScanParams
	workers  int
}

func NewScanner(bars domrepo.BarSource, stocks domrepo.StockDirectory, enricher *enrich.Enricher, metrics domrepo.Metrics, log *logger.Logger, defaults ScanParams, workers int) *Scanner {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{bars: bars, stocks: stocks, enricher: enricher, metrics: metrics, log: log, defaults: defaults, workers: workers}
}

func (s *Scanner) Defaults() ScanParams { return s.defaults }

// ScanSymbol fetches bars and listing data for one symbol and analyzes it.
func (s *Scanner) ScanSymbol(ctx context.Context, symbol string, p ScanParams) (*models.StockSignalResult, error) {
	stock, err := s.stocks.GetStock(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("get stock %s: %w", symbol, err)
	}
	bars, err := s.bars.GetLatestBars(ctx, symbol, p.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("get bars %s: %w", symbol, err)
	}
	return s.analyzeTimed(ctx, stock, bars, p), nil
}

// ScanRange is ScanSymbol over an explicit [from, to] window instead of the lookback.
func (s *Scanner) ScanRange(ctx context.Context, symbol string, from, to time.Time, p ScanParams) (*models.StockSignalResult, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("scan range: to %s before from %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	stock, err := s.stocks.GetStock(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("get stock %s: %w", symbol, err)
	}
	bars, err := s.bars.GetBars(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bars %s: %w", symbol, err)
	}
	return s.analyzeTimed(ctx, stock, bars, p), nil
}

func (s *Scanner) analyzeTimed(ctx context.Context, stock models.Stock, bars []models.Bar, p ScanParams) *models.StockSignalResult {
	start := time.Now()
	res := s.Analyze(ctx, stock, bars, p)
	if s.metrics != nil {
		s.metrics.RecordScan(res.TotalSignals, time.Since(start).Seconds())
	}
	return &res
}

// Analyze runs the detection pipeline over an already fetched series.
func (s *Scanner) Analyze(ctx context.Context, stock models.Stock, bars []models.Bar, p ScanParams) models.StockSignalResult {
	res := models.StockSignalResult{Symbol: stock.Symbol, Name: stock.Name, Signals: []models.EnrichedSignal{}}

	if reason := s.reject(stock, bars, p); reason != "" {
		res.SkipReason = reason
		s.skipped(stock.Symbol, reason)
		return res
	}
	dets := make([]detectors.Detector, 0, len(p.Strategies))
	for _, name := range p.Strategies {
		d, ok := detectors.Lookup(name)
		if !ok {
			res.SkipReason = SkipUnknown + ": " + name
			s.skipped(stock.Symbol, SkipUnknown)
			return res
		}
		dets = append(dets, d)
	}

	enr := s.enricher
	if !p.WithCosts {
		enr = enr.WithoutCosts()
	}
	enr.Register(stock)

	ind := indicators.Compute(bars)
	opts := dedup.Options{MinGapDays: p.MinGapDays, KeepStrongest: p.KeepStrongest}
	for _, d := range dets {
		var found []models.EnrichedSignal
		for i := Warmup; i < len(bars)-p.HoldingDays; i++ {
			det := d.Detect(bars, i, ind)
			if det == nil || !p.inBand(det.Strength) {
				continue
			}
			sig := enr.Enrich(ctx, stock.Symbol, bars, *det, p.HoldingDays)
			if !sig.Status.Executable() {
				if s.metrics != nil {
					s.metrics.RecordDropped(string(sig.Status))
				}
				continue
			}
			found = append(found, sig)
		}
		kept := dedup.Signals(found, opts)
		if s.metrics != nil {
			s.metrics.RecordSignals(d.Name(), len(kept))
		}
		res.Signals = append(res.Signals, kept...)
	}
	sort.SliceStable(res.Signals, func(a, b int) bool { return res.Signals[a].EntryDate.Before(res.Signals[b].EntryDate) })
	aggregate(&res)
	return res
}

func (s *Scanner) reject(stock models.Stock, bars []models.Bar, p ScanParams) string {
	switch {
	case p.ExcludeST && stock.IsST:
		return SkipST
	case p.ExcludeNew && len(bars) < p.MinListingDays:
		return SkipNewListing
	case len(bars) < Warmup+p.HoldingDays:
		return SkipInsufficient
	}
	return ""
}

func (s *Scanner) skipped(symbol, reason string) {
	s.log.Debug("scan.symbol skipped", logger.String("symbol", symbol), logger.String("reason", reason))
	if s.metrics != nil {
		s.metrics.RecordSkip(reason)
	}
}

func (p ScanParams) inBand(strength float64) bool {
	if p.MinStrength != nil && strength < *p.MinStrength {
		return false
	}
	if p.MaxStrength != nil && strength > *p.MaxStrength {
		return false
	}
	return true
}

// aggregate fills the summary fields from completed signals only.
func aggregate(res *models.StockSignalResult) {
	res.TotalSignals = len(res.Signals)
	maxRet, minRet := math.Inf(-1), math.Inf(1)
	var sum float64
	for _, sig := range res.Signals {
		if sig.Status != models.StatusCompleted {
			continue
		}
		r := sig.EffectiveReturn()
		res.CompletedSignals++
		if sig.IsWin {
			res.WinSignals++
		}
		sum += r
		maxRet = math.Max(maxRet, r)
		minRet = math.Min(minRet, r)
	}
	if res.CompletedSignals == 0 {
		return
	}
	n := float64(res.CompletedSignals)
	res.WinRate = stats.RoundPercentage(float64(res.WinSignals) / n * 100)
	res.AvgReturn = stats.RoundReturn(sum / n)
	res.MaxReturn = stats.RoundReturn(maxRet)
	res.MinReturn = stats.RoundReturn(minRet)
}

// ScanSymbols fans symbols out to a bounded worker pool. Per-symbol failures become
// skip reasons. Cancelling ctx stops submission; symbols already submitted finish.
// Results are sorted by symbol.
func (s *Scanner) ScanSymbols(ctx context.Context, symbols []string, p ScanParams, progress ProgressFunc) ([]*models.StockSignalResult, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	start := time.Now()
	total := len(symbols)

	jobs := make(chan string)
	results := make(chan *models.StockSignalResult, total)
	var wg sync.WaitGroup
	for w := 0; w < min(s.workers, total); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				results <- s.scanOne(ctx, sym, p)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, sym := range symbols {
			select {
			case jobs <- sym:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() { wg.Wait(); close(results) }()

	out := make([]*models.StockSignalResult, 0, total)
	for r := range results {
		out = append(out, r)
		if progress != nil {
			progress(len(out), total)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Symbol < out[b].Symbol })

	s.log.Info("scan.batch done",
		logger.Int("symbols", total),
		logger.Int("completed", len(out)),
		logger.Duration("elapsed_ms", time.Since(start)),
	)
	return out, ctx.Err()
}

func (s *Scanner) scanOne(ctx context.Context, symbol string, p ScanParams) *models.StockSignalResult {
	res, err := s.ScanSymbol(ctx, symbol, p)
	if err == nil {
		return res
	}
	reason := SkipFetchFailed
	if errors.Is(err, domrepo.ErrStockNotFound) {
		reason = SkipNotFound
	} else {
		s.log.Warn("scan.symbol failed", logger.String("symbol", symbol), logger.Error(err))
		if s.metrics != nil {
			s.metrics.RecordError("scan_fetch")
		}
	}
	s.skipped(symbol, reason)
	return &models.StockSignalResult{Symbol: symbol, Signals: []models.EnrichedSignal{}, SkipReason: reason}
}
