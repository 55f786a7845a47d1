package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	applogger "SignalLab/pkg/logger"
)

// AllSymbols in a watchlist expands to every symbol in the stock directory.
const AllSymbols = "*"

// JobRunner executes one scan job and publishes its results.
type JobRunner interface {
	Run(ctx context.Context, job models.ScanJob) (string, error)
}

// Scheduler runs the watchlist scan on a cron spec (with seconds field).
type Scheduler struct {
	cron       *cron.Cron
	runner     JobRunner
	stocks     domrepo.StockDirectory
	spec       string
	watchlist  []string
	strategies []string
	log        *applogger.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func New(runner JobRunner, stocks domrepo.StockDirectory, spec string, watchlist, strategies []string, l *applogger.Logger) *Scheduler {
	if l == nil {
		l = applogger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner:     runner,
		stocks:     stocks,
		spec:       spec,
		watchlist:  watchlist,
		strategies: strategies,
		log:        l,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Register adds the watchlist scan; an invalid spec is an error.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.spec, func() { _ = s.RunNow(s.ctx) }); err != nil {
		return fmt.Errorf("register watchlist scan %q: %w", s.spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", applogger.String("spec", s.spec), applogger.Int("watchlist", len(s.watchlist)))
}

// Stop cancels a running scan and waits for it to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// RunNow executes the watchlist scan immediately.
func (s *Scheduler) RunNow(ctx context.Context) error {
	symbols, err := s.resolveWatchlist(ctx)
	if err != nil {
		s.log.Error("scheduler.watchlist resolve failed", applogger.Error(err))
		return err
	}
	job := models.ScanJob{
		Symbols:     symbols,
		Submitted:   time.Now().UTC(),
		ScanOptions: models.ScanOptions{Strategies: s.strategies},
	}
	start := time.Now()
	id, err := s.runner.Run(ctx, job)
	if err != nil {
		s.log.Error("scheduler.watchlist scan failed", applogger.String("job_id", id), applogger.Error(err))
		return err
	}
	s.log.Info("scheduler.watchlist scan done",
		applogger.String("job_id", id),
		applogger.Int("symbols", len(symbols)),
		applogger.Duration("elapsed_ms", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) resolveWatchlist(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(s.watchlist))
	seen := make(map[string]bool, len(s.watchlist))
	add := func(sym string) {
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	for _, sym := range s.watchlist {
		if sym != AllSymbols {
			add(sym)
			continue
		}
		if s.stocks == nil {
			return nil, fmt.Errorf("watchlist %q needs a stock directory", AllSymbols)
		}
		all, err := s.stocks.ListSymbols(ctx)
		if err != nil {
			return nil, fmt.Errorf("list symbols: %w", err)
		}
		for _, a := range all {
			add(a)
		}
	}
	return out, nil
}
