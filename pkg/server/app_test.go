package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	"SignalLab/pkg/config"
)

type closeRecorder struct {
	closed bool
	err    error
}

func (c *closeRecorder) Init(context.Context) error   { return nil }
func (c *closeRecorder) Health(context.Context) error { return nil }
func (c *closeRecorder) Close() error                 { c.closed = true; return c.err }

type nopPublisher struct{ closed bool }

func (p *nopPublisher) PublishResult(context.Context, string, *models.StockSignalResult) error {
	return nil
}
func (p *nopPublisher) PublishBatch(context.Context, string, []*models.StockSignalResult) error {
	return nil
}
func (p *nopPublisher) Close() error { p.closed = true; return nil }

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := &config.Config{Environment: "test"}
	cfg.Server.ShutdownTimeout = time.Second
	store := &closeRecorder{}
	cache := &closeRecorder{err: errors.New("already closed")}
	pub := &nopPublisher{}

	app := New(cfg, nil, nil, nil, nil, pub, map[string]domrepo.Storage{"clickhouse": store, "redis": cache})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err == nil || !errors.Is(err, cache.err) {
			t.Fatalf("expected close error to surface, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
	if !store.closed || !cache.closed || !pub.closed {
		t.Fatalf("not all resources closed: store=%v cache=%v pub=%v", store.closed, cache.closed, pub.closed)
	}
}
