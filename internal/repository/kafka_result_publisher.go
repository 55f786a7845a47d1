package repository

import (
	"context"
	"time"

	"SignalLab/internal/domain/models"
	domrepo "SignalLab/internal/domain/repository"
	pkgkafka "SignalLab/pkg/kafka"
)

// ResultEnvelope is the value written to the results topic, keyed by symbol.
type ResultEnvelope struct {
	JobID       string                    `json:"job_id"`
	PublishedAt time.Time                 `json:"published_at"`
	Result      *models.StockSignalResult `json:"result"`
}

// Producer is the part of pkg/kafka.Producer the publisher needs.
type Producer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaResultPublisher writes scan results to a topic.
type KafkaResultPublisher struct {
	producer Producer
	topic    string
	now      func() time.Time
}

func NewKafkaResultPublisher(producer Producer, topic string) *KafkaResultPublisher {
	return &KafkaResultPublisher{producer: producer, topic: topic, now: time.Now}
}

func (p *KafkaResultPublisher) PublishResult(ctx context.Context, jobID string, res *models.StockSignalResult) error {
	return p.PublishBatch(ctx, jobID, []*models.StockSignalResult{res})
}

func (p *KafkaResultPublisher) PublishBatch(ctx context.Context, jobID string, results []*models.StockSignalResult) error {
	if len(results) == 0 {
		return nil
	}
	at := p.now().UTC()
	msgs := make([]pkgkafka.Message, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{
			Key:     []byte(r.Symbol),
			Value:   ResultEnvelope{JobID: jobID, PublishedAt: at, Result: r},
			Headers: map[string]string{"job_id": jobID},
		})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaResultPublisher) Close() error { return p.producer.Close() }

var _ domrepo.ResultPublisher = (*KafkaResultPublisher)(nil)
