package di

import (
	"context"
	"fmt"
	"time"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	"SignalLab/internal/domain/service"
	"SignalLab/internal/handler/api"
	"SignalLab/internal/repository"
	"SignalLab/internal/scheduler"
	icache "SignalLab/internal/service/cache"
	"SignalLab/internal/service/ratelimit"
	"SignalLab/internal/services/detectors"
	"SignalLab/internal/services/enrich"
	"SignalLab/internal/services/market"
	"SignalLab/internal/services/stats"
	"SignalLab/internal/usecase"
	pkgch "SignalLab/pkg/clickhouse"
	"SignalLab/pkg/config"
	xhttp "SignalLab/pkg/http"
	pkgkafka "SignalLab/pkg/kafka"
	applogger "SignalLab/pkg/logger"
	"SignalLab/pkg/metrics"
	"SignalLab/pkg/server"
)

const initTimeout = 10 * time.Second

// Dependencies are the health-checked infrastructure clients keyed by name.
type Dependencies map[string]domrepo.Storage

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideMarketStore wraps ClickHouse as the bar source and stock directory.
func ProvideMarketStore(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (*repository.CHMarketStore, error) {
	store := repository.NewCHMarketStore(ch, l)
	if !cfg.ClickHouse.InitSchema {
		return store, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

func ProvideOracle(cfg *config.Config, l *applogger.Logger) service.MarketStatusOracle {
	if cfg.Market.Oracle == "http" {
		return market.NewHTTPOracle(cfg.Market.ServiceURL, cfg.Market.Timeout, cfg.Market.Retries+1, l)
	}
	return market.NewPriceLimitOracle(cfg.Market.LimitPct, cfg.Market.STLimitPct, cfg.Market.GrowthLimitPct)
}

func ProvideEnricher(cfg *config.Config, oracle service.MarketStatusOracle) *enrich.Enricher {
	return enrich.NewEnricher(oracle, market.NewAShareCostModel(), models.CostConfig{
		Commission: cfg.Costs.Commission,
		StampDuty:  cfg.Costs.StampDuty,
		Slippage:   cfg.Costs.Slippage,
	})
}

// ProvideScanParams maps the scan section onto scanner defaults. All detectors run unless a request names some.
func ProvideScanParams(cfg *config.Config) usecase.ScanParams {
	return usecase.ScanParams{
		Strategies:     detectors.Names(),
		HoldingDays:    cfg.Scan.HoldingDays,
		MinGapDays:     cfg.Scan.MinGapDays,
		KeepStrongest:  cfg.Scan.KeepStrongest,
		ExcludeST:      cfg.Scan.ExcludeST,
		ExcludeNew:     cfg.Scan.ExcludeNew,
		MinListingDays: cfg.Scan.MinListingDays,
		LookbackDays:   cfg.Scan.LookbackDays,
		WithCosts:      cfg.Costs.Enabled,
	}
}

func ProvideScanner(cfg *config.Config, store *repository.CHMarketStore, enricher *enrich.Enricher, m domrepo.Metrics, l *applogger.Logger, p usecase.ScanParams) *usecase.Scanner {
	return usecase.NewScanner(store, store, enricher, m, l, p, cfg.Scan.Workers)
}

func ProvideReportBuilder(cfg *config.Config) *usecase.ReportBuilder {
	return usecase.NewReportBuilder(stats.Params{
		RiskFreeRate:  cfg.Stats.RiskFreeRate,
		TradingDays:   cfg.Stats.TradingDays,
		VaRConfidence: cfg.Stats.VaRConfidence,
	})
}

// ProvideResponseCache uses Redis when enabled, otherwise an in-process TTL cache.
func ProvideResponseCache(cfg *config.Config) (icache.BytesCache, error) {
	if !cfg.Redis.Enabled {
		return icache.NewTTLCache(), nil
	}
	rc := icache.NewRedisCache(icache.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := rc.Init(ctx); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.PerMinute(cfg.Server.BatchRateLimit)
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithAutoCreateTopics(cfg.Kafka.AutoCreate),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideResultPublisher returns a nil interface (not a typed nil) without a producer.
func ProvideResultPublisher(cfg *config.Config, producer *pkgkafka.Producer) domrepo.ResultPublisher {
	if producer == nil {
		return nil
	}
	return repository.NewKafkaResultPublisher(producer, cfg.Kafka.ResultsTopic)
}

func ProvideScanJobHandler(cfg *config.Config, scanner *usecase.Scanner, pub domrepo.ResultPublisher, m domrepo.Metrics, l *applogger.Logger) *usecase.ScanJobHandler {
	return usecase.NewScanJobHandler(cfg.Kafka.JobsTopic, scanner, pub, m, l)
}

// ProvideKafkaConsumer subscribes the job handler; nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, h *usecase.ScanJobHandler, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(h)
	return consumer, nil
}

// ProvideScheduler returns nil when the watchlist schedule is disabled.
func ProvideScheduler(cfg *config.Config, h *usecase.ScanJobHandler, store *repository.CHMarketStore, l *applogger.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Schedule.Enabled {
		return nil, nil
	}
	s := scheduler.New(h, store, cfg.Schedule.Spec, cfg.Schedule.Watchlist, cfg.Schedule.Strategies, l)
	if err := s.Register(); err != nil {
		return nil, err
	}
	return s, nil
}

func ProvideDependencies(store *repository.CHMarketStore, cache icache.BytesCache) Dependencies {
	deps := Dependencies{"clickhouse": store}
	if s, ok := cache.(domrepo.Storage); ok {
		deps["redis"] = s
	}
	return deps
}

func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	scanner *usecase.Scanner,
	reports *usecase.ReportBuilder,
	cache icache.BytesCache,
	rl *ratelimit.Limiter,
	deps Dependencies,
) *xhttp.Server {
	handlers := []xhttp.Handler{
		api.NewScanEchoHandler(l, scanner, reports, cache, cfg.Redis.TTL, rl),
		api.NewMetricsEchoHandler(l, reports, cache, cfg.Redis.TTL),
		api.NewSystemEchoHandler(deps),
	}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	sched *scheduler.Scheduler,
	pub domrepo.ResultPublisher,
	deps Dependencies,
) *server.App {
	return server.New(cfg, l, srv, consumer, sched, pub, deps)
}
