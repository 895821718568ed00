package mottak

import (
	"context"
	"errors"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	dErrors "github.com/navikt/dp-rapportering/pkg/domain-errors"
)

// EventHandler applies a decoded event.
type EventHandler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// Consumer pulls inbound events off Kafka and applies them. Offsets commit
// only after every record in a fetch has been handled or classified as
// unretryable, preserving at-least-once delivery into the aggregate.
type Consumer struct {
	client  *kgo.Client
	handler EventHandler
	logger  *slog.Logger
}

// NewConsumer constructs a Consumer around a configured kgo client.
func NewConsumer(client *kgo.Client, handler EventHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var failed bool
		fetches.EachRecord(func(record *kgo.Record) {
			if failed {
				return
			}
			if err := c.process(ctx, record); err != nil {
				failed = true
			}
		})
		if failed {
			// Skip the commit; the failed record is redelivered.
			continue
		}

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.logger.ErrorContext(ctx, "kafka offset commit failed", "error", err)
		}
	}
}

// process applies one record. Malformed payloads and domain rejections are
// logged and dropped so a poison message cannot wedge the partition; only
// infrastructure failures are returned for redelivery.
func (c *Consumer) process(ctx context.Context, record *kgo.Record) error {
	event, err := Decode(record.Value)
	if err != nil {
		c.logger.WarnContext(ctx, "dropping undecodable event",
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
			"error", err,
		)
		return nil
	}

	err = c.handler.Handle(ctx, event)
	switch {
	case err == nil:
		return nil
	case isRetryable(err):
		c.logger.ErrorContext(ctx, "event handling failed, will redeliver",
			"event_id", event.Meta().EventID,
			"error", err,
		)
		return err
	default:
		c.logger.WarnContext(ctx, "dropping rejected event",
			"event_id", event.Meta().EventID,
			"error", err,
		)
		return nil
	}
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return dErrors.HasCode(err, dErrors.CodeInternal) || dErrors.HasCode(err, dErrors.CodeTimeout)
}
