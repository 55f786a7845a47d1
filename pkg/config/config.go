package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SignalLab/pkg/logger"
)

type Config struct {
	Environment string           `yaml:"environment" default:"development"`
	Server      ServerConfig     `yaml:"server"`
	Log         logger.Config    `yaml:"log"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	Redis       RedisConfig      `yaml:"redis"`
	Scan        ScanConfig       `yaml:"scan"`
	Market      MarketConfig     `yaml:"market"`
	Costs       CostsConfig      `yaml:"costs"`
	Stats       StatsConfig      `yaml:"stats"`
	Schedule    ScheduleConfig   `yaml:"schedule"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	BatchRateLimit  int           `yaml:"batch_rate_limit" default:"10"` // batch scans per minute per client
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type ClickHouseConfig struct {
	Enabled          bool          `yaml:"enabled" default:"true"`
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"market"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	InitSchema       bool          `yaml:"init_schema" default:"true"`
}

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	JobsTopic    string   `yaml:"jobs_topic" default:"scan.jobs"`
	ResultsTopic string   `yaml:"results_topic" default:"scan.results"`
	RequiredAcks int      `yaml:"required_acks" default:"-1"`
	Compression  string   `yaml:"compression" default:"snappy"`
	AutoCreate   bool     `yaml:"auto_create_topics" default:"true"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"5"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"producer"`
	Consumer struct {
		GroupID    string        `yaml:"group_id" default:"signallab-scanner"`
		Workers    int           `yaml:"workers" default:"2"`
		DLQTopic   string        `yaml:"dlq_topic" default:"scan.jobs.dlq"`
		RetryMax   int           `yaml:"retry_max" default:"3"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"200ms"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
		MinBytes   int           `yaml:"min_bytes" default:"1"`
		MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
	} `yaml:"consumer"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" default:"localhost:6379"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl" default:"10m"`
}

type ScanConfig struct {
	HoldingDays    int  `yaml:"holding_days" default:"5"`
	MinGapDays     int  `yaml:"min_gap_days" default:"3"`
	KeepStrongest  bool `yaml:"keep_strongest" default:"true"`
	ExcludeST      bool `yaml:"exclude_st" default:"true"`
	ExcludeNew     bool `yaml:"exclude_new" default:"true"`
	MinListingDays int  `yaml:"min_listing_days" default:"60"`
	Workers        int  `yaml:"workers" default:"8"`
	LookbackDays   int  `yaml:"lookback_days" default:"400"`
}

type MarketConfig struct {
	Oracle         string        `yaml:"oracle" default:"price_limit"` // price_limit or http
	LimitPct       float64       `yaml:"limit_pct" default:"10"`
	STLimitPct     float64       `yaml:"st_limit_pct" default:"5"`
	GrowthLimitPct float64       `yaml:"growth_limit_pct" default:"20"`
	ServiceURL     string        `yaml:"service_url"`
	Timeout        time.Duration `yaml:"timeout" default:"3s"`
	Retries        int           `yaml:"retries" default:"2"`
}

type CostsConfig struct {
	Enabled    bool    `yaml:"enabled" default:"true"`
	Commission float64 `yaml:"commission" default:"0.0003"`
	StampDuty  float64 `yaml:"stamp_duty" default:"0.001"`
	Slippage   float64 `yaml:"slippage" default:"0.001"`
}

type StatsConfig struct {
	RiskFreeRate  float64 `yaml:"risk_free_rate" default:"0.03"`
	TradingDays   int     `yaml:"trading_days" default:"252"`
	VaRConfidence float64 `yaml:"var_confidence" default:"0.95"`
}

type ScheduleConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Spec       string   `yaml:"spec" default:"0 30 15 * * 1-5"`
	Watchlist  []string `yaml:"watchlist"`
	Strategies []string `yaml:"strategies"`
}

// Load applies struct defaults, then the YAML file on top, then validates.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads .env (if present) into the process environment, then the YAML
// config, then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("MARKET_SERVICE_URL"); v != "" {
		c.Market.ServiceURL = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Schedule.Watchlist = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Scan.HoldingDays < 1 {
		return fmt.Errorf("scan.holding_days must be >= 1, got %d", c.Scan.HoldingDays)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be >= 1, got %d", c.Scan.Workers)
	}
	switch c.Market.Oracle {
	case "price_limit":
	case "http":
		if c.Market.ServiceURL == "" {
			return fmt.Errorf("market.service_url is required for the http oracle")
		}
	default:
		return fmt.Errorf("market.oracle must be 'price_limit' or 'http', got '%s'", c.Market.Oracle)
	}
	if c.Stats.TradingDays <= 0 {
		return fmt.Errorf("stats.trading_days must be positive")
	}
	if c.Stats.VaRConfidence <= 0 || c.Stats.VaRConfidence >= 1 {
		return fmt.Errorf("stats.var_confidence must be in (0,1), got %v", c.Stats.VaRConfidence)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Schedule.Enabled && len(c.Schedule.Watchlist) == 0 {
		return fmt.Errorf("schedule.watchlist cannot be empty when schedule is enabled")
	}
	return nil
}
