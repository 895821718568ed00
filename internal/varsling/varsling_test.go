package varsling

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/navikt/dp-rapportering/internal/rapportering/ports"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishPeriodChanged(t *testing.T) {
	notification := ports.PeriodNotification{
		Ident:     "12345678901",
		PeriodID:  uuid.New(),
		EventKind: "period_submitted",
		Timestamp: time.Now(),
	}

	t.Run("publishes keyed by ident", func(t *testing.T) {
		producer := &fakeProducer{}
		publisher := NewPublisher(producer, "rapportering.perioder.v1", discardLogger())

		err := publisher.PublishPeriodChanged(context.Background(), notification)
		require.NoError(t, err)
		require.Len(t, producer.records, 1)

		record := producer.records[0]
		require.Equal(t, "rapportering.perioder.v1", record.Topic)
		require.Equal(t, []byte("12345678901"), record.Key)

		var decoded ports.PeriodNotification
		require.NoError(t, json.Unmarshal(record.Value, &decoded))
		require.Equal(t, notification.PeriodID, decoded.PeriodID)
		require.Equal(t, "period_submitted", decoded.EventKind)
	})

	t.Run("propagates produce errors", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("broker unavailable")}
		publisher := NewPublisher(producer, "rapportering.perioder.v1", discardLogger())

		err := publisher.PublishPeriodChanged(context.Background(), notification)
		require.Error(t, err)
	})
}
