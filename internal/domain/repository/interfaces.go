package repository

import (
	"context"

	"SignalLab/internal/domain/models"
)

type ResultPublisher interface {
	PublishResult(ctx context.Context, jobID string, res *models.StockSignalResult) error
	PublishBatch(ctx context.Context, jobID string, results []*models.StockSignalResult) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordScan(signals int, seconds float64)
	RecordSignals(strategy string, n int)
	RecordSkip(reason string)
	RecordDropped(status string)
	RecordProgress(jobID string, completed, total int)
	RecordError(kind string)
}
