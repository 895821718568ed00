package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// NewConsumer builds a Kafka client consuming the inbound event topic as part
// of the service's consumer group. Offsets commit only after an event is
// fully applied, which preserves at-least-once delivery into the aggregate.
func NewConsumer(brokers []string, group, topic string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("building kafka consumer: %w", err)
	}
	return client, nil
}

// NewProducer builds a Kafka client for the outbound lifecycle topic.
func NewProducer(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("building kafka producer: %w", err)
	}
	return client, nil
}

// EnsureTopics creates the given topics when they do not exist yet, so local
// and test environments come up without manual topic wiring.
func EnsureTopics(ctx context.Context, client *kgo.Client, topics ...string) error {
	adm := kadm.NewClient(client)

	existing, err := adm.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("listing topics: %w", err)
	}

	for _, topic := range topics {
		if existing.Has(topic) {
			continue
		}
		if _, err := adm.CreateTopic(ctx, -1, -1, nil, topic); err != nil {
			return fmt.Errorf("creating topic %s: %w", topic, err)
		}
	}
	return nil
}
