package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Scan.HoldingDays != 5 || c.Scan.MinGapDays != 3 || !c.Scan.KeepStrongest {
		t.Fatalf("scan defaults not applied: %+v", c.Scan)
	}
	if c.Costs.Commission != 0.0003 || c.Stats.TradingDays != 252 || c.Stats.VaRConfidence != 0.95 {
		t.Fatalf("cost/stats defaults not applied: %+v %+v", c.Costs, c.Stats)
	}
	if c.Kafka.JobsTopic != "scan.jobs" || c.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", c.Kafka)
	}
	if c.Kafka.Consumer.Workers != 2 || c.Kafka.Consumer.DLQTopic != "scan.jobs.dlq" || !c.Kafka.AutoCreate {
		t.Fatalf("kafka consumer defaults not applied: %+v", c.Kafka.Consumer)
	}
	if c.Schedule.Spec != "0 30 15 * * 1-5" {
		t.Fatalf("schedule spec default %q", c.Schedule.Spec)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: prod
scan:
  holding_days: 10
  keep_strongest: false
market:
  oracle: price_limit
  limit_pct: 5
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Scan.HoldingDays != 10 || c.Scan.KeepStrongest {
		t.Fatalf("yaml did not override: %+v", c.Scan)
	}
	if c.Market.LimitPct != 5 || c.Market.STLimitPct != 5 {
		t.Fatalf("unexpected market config %+v", c.Market)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown oracle", "market:\n  oracle: magic\n"},
		{"http oracle without url", "market:\n  oracle: http\n"},
		{"kafka without brokers", "kafka:\n  enabled: true\n"},
		{"bad confidence", "stats:\n  var_confidence: 1.5\n"},
		{"schedule without watchlist", "schedule:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
