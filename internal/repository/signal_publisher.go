package repository

import (
	"context"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
	pkgkafka "TradePulse/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka signal publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, r *models.ScanResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Symbol), signalPayload(r))
}

func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, rs []*models.ScanResult) error {
	if len(rs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(rs))
	for i, r := range rs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(r.Symbol),
			Value: signalPayload(r),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func signalPayload(r *models.ScanResult) map[string]interface{} {
	return map[string]interface{}{
		"symbol":          r.Symbol,
		"direction":       r.Direction,
		"conviction":      r.Conviction,
		"composite_score": r.CompositeScore,
		"confidence":      r.Confidence,
		"current_price":   r.CurrentPrice,
	}
}
