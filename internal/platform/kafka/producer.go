// Package kafka wraps the franz-go producer used for audit fan-out.
package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"vitaledge/internal/platform/config"
)

// Producer publishes records to a single topic.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer builds a producer from config. Returns nil when no brokers are
// configured (Kafka fan-out disabled).
func NewProducer(cfg config.AuditConfig) (*Producer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.KafkaBrokers...),
		kgo.DefaultProduceTopic(cfg.KafkaTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client, topic: cfg.KafkaTopic}, nil
}

// Publish produces one record synchronously. The audit worker is the only
// caller and already runs off the request path.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (p *Producer) Close() {
	if p != nil {
		p.client.Close()
	}
}
