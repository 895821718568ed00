// Package varsling publishes period lifecycle notifications for downstream
// consumers (payment calculation, claimant notifications).
package varsling

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/navikt/dp-rapportering/internal/rapportering/ports"
)

// Producer is the subset of the kgo client the publisher needs, narrowed for
// testability.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher writes period notifications to the outbound topic, keyed by
// subject ident so one claimant's notifications stay ordered.
type Publisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// NewPublisher constructs a Publisher.
func NewPublisher(producer Producer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

var _ ports.NotificationPublisher = (*Publisher)(nil)

func (p *Publisher) PublishPeriodChanged(ctx context.Context, notification ports.PeriodNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal period notification: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(notification.Ident),
		Value: payload,
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce period notification: %w", err)
	}

	p.logger.DebugContext(ctx, "published period notification",
		"period_id", notification.PeriodID,
		"event_kind", notification.EventKind,
	)
	return nil
}
