package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	pkgkafka "SignalLab/pkg/kafka"
	"SignalLab/pkg/logger"
)

// ScanJobHandler consumes scan jobs from Kafka and publishes per-symbol results.
type ScanJobHandler struct {
	topic     string
	scanner   *Scanner
	publisher domrepo.ResultPublisher
	metrics   domrepo.Metrics
	log       *logger.Logger
}

func NewScanJobHandler(topic string, scanner *Scanner, publisher domrepo.ResultPublisher, metrics domrepo.Metrics, log *logger.Logger) *ScanJobHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ScanJobHandler{topic: topic, scanner: scanner, publisher: publisher, metrics: metrics, log: log}
}

func (h *ScanJobHandler) Topic() string { return h.topic }

// incoming message schema: models.ScanJob
func (h *ScanJobHandler) Handle(ctx context.Context, b []byte) error {
	var job models.ScanJob
	if err := json.Unmarshal(b, &job); err != nil {
		h.recordError("job_unmarshal")
		// malformed payloads are not retried
		h.log.Warn("scan.job malformed", logger.Error(err))
		return nil
	}
	_, err := h.Run(ctx, job)
	return err
}

// Run executes a job and publishes its results. A missing JobID is generated.
func (h *ScanJobHandler) Run(ctx context.Context, job models.ScanJob) (string, error) {
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if len(job.Symbols) == 0 {
		return job.JobID, ErrNoSymbols
	}
	start := time.Now()
	p := h.scanner.Defaults().Resolve(job.ScanOptions)

	results, err := h.scanner.ScanSymbols(ctx, job.Symbols, p, func(completed, total int) {
		if h.metrics != nil {
			h.metrics.RecordProgress(job.JobID, completed, total)
		}
		h.log.Debug("scan.job progress", logger.String("job_id", job.JobID), logger.Int("completed", completed), logger.Int("total", total))
	})
	if err != nil {
		h.recordError("job_scan")
		return job.JobID, fmt.Errorf("scan job %s: %w", job.JobID, err)
	}

	if h.publisher != nil {
		if err := h.publisher.PublishBatch(ctx, job.JobID, results); err != nil {
			h.recordError("job_publish")
			return job.JobID, fmt.Errorf("publish job %s: %w", job.JobID, err)
		}
	}
	h.log.Info("scan.job done",
		logger.String("job_id", job.JobID),
		logger.Int("symbols", len(job.Symbols)),
		logger.Duration("elapsed_ms", time.Since(start)),
	)
	return job.JobID, nil
}

func (h *ScanJobHandler) recordError(kind string) {
	if h.metrics != nil {
		h.metrics.RecordError(kind)
	}
}

var _ pkgkafka.MessageHandler = (*ScanJobHandler)(nil)
