package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	"github.com/navikt/dp-rapportering/pkg/testutil"
)

func TestProjectionRoundTrip(t *testing.T) {
	ident := "12345678901"
	start := domain.Date(2024, time.January, 1)
	meta := func() domain.EventMeta {
		return domain.EventMeta{EventID: uuid.New(), Ident: ident, CreatedAt: time.Now()}
	}

	subject := domain.NewSubject(ident)

	testutil.Given(t, "a subject with an approved period holding activities", func(t *testing.T) {
		require.NoError(t, subject.Handle(domain.ApplicationSubmitted{
			EventMeta:       meta(),
			ApplicationDate: start,
		}))
		require.NoError(t, subject.Handle(domain.NewCycleStarted{
			EventMeta:  meta(),
			RangeStart: start,
		}))

		period := subject.Periods()[0]
		activity, err := domain.NewActivity(start.AddDate(0, 0, 1), domain.ActivityWork, 6*time.Hour)
		require.NoError(t, err)
		require.NoError(t, subject.Handle(domain.ActivityRecorded{
			EventMeta: meta(),
			PeriodID:  period.ID(),
			Activity:  activity,
		}))
		require.NoError(t, subject.Handle(domain.PeriodApproved{
			EventMeta: meta(),
			PeriodID:  period.ID(),
			Actor:     domain.Actor{Kind: domain.ActorClaimant, ID: ident},
		}))
	})

	var projection *Projection
	testutil.When(t, "the subject is projected to rows", func(t *testing.T) {
		projection = Project(subject)

		require.Equal(t, ident, projection.Ident)
		require.NotNil(t, projection.Obligation)
		require.Len(t, projection.Periods, 1)
	})

	testutil.Then(t, "rehydration rebuilds an equivalent aggregate", func(t *testing.T) {
		rebuilt, err := projection.Rehydrate()
		require.NoError(t, err)

		require.Equal(t, subject.Ident(), rebuilt.Ident())
		require.Equal(t, subject.Obligation().EffectiveFrom, rebuilt.Obligation().EffectiveFrom)

		original := subject.Periods()[0]
		loaded := rebuilt.Periods()[0]
		require.Equal(t, original.ID(), loaded.ID())
		require.Equal(t, original.Start(), loaded.Start())
		require.Equal(t, original.State(), loaded.State())

		_, wasApproved := original.Approvals().CurrentApproval()
		_, isApproved := loaded.Approvals().CurrentApproval()
		require.Equal(t, wasApproved, isApproved)

		require.Equal(t, Project(rebuilt), projection)
	})
}
