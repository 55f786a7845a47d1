package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "SignalLab/internal/domain/repository"
	"SignalLab/internal/scheduler"
	"SignalLab/pkg/config"
	xhttp "SignalLab/pkg/http"
	pkgkafka "SignalLab/pkg/kafka"
	applogger "SignalLab/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	http      *xhttp.Server
	consumer  *pkgkafka.Consumer
	scheduler *scheduler.Scheduler
	publisher domrepo.ResultPublisher
	deps      map[string]domrepo.Storage
}

// New creates a new App. consumer, scheduler and publisher are optional.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	sched *scheduler.Scheduler,
	pub domrepo.ResultPublisher,
	deps map[string]domrepo.Storage,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:       cfg,
		log:       l,
		http:      srv,
		consumer:  consumer,
		scheduler: sched,
		publisher: pub,
		deps:      deps,
	}
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve starts every component and shuts them down once ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.closeDeps()
			return fmt.Errorf("kafka consumer: %w", err)
		}
	}
	if a.scheduler != nil {
		a.scheduler.Start()
	}
	if a.http != nil {
		if err := a.http.Start(); err != nil {
			a.log.Error("http server start error", applogger.Error(err))
			_ = a.shutdown()
			return err
		}
	}
	a.log.Info("signallab started",
		applogger.String("env", a.cfg.Environment),
		applogger.Bool("kafka", a.consumer != nil),
		applogger.Bool("schedule", a.scheduler != nil),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops inbound work first, then flushes results and closes clients.
func (a *App) shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.http != nil {
		if err := a.http.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			a.log.Warn("scheduler stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("result publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if err := a.closeDeps(); err != nil {
		errs = append(errs, err)
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeDeps() error {
	var errs []error
	for name, d := range a.deps {
		if err := d.Close(); err != nil {
			a.log.Warn("dependency close error", applogger.String("dependency", name), applogger.Error(err))
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
