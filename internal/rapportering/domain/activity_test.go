package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
)

func TestNewActivityValidation(t *testing.T) {
	date := domain.Date(2024, time.January, 3)

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := domain.NewActivity(date, domain.ActivityType("holiday"), 0)
		require.Error(t, err)
	})

	t.Run("rejects negative duration", func(t *testing.T) {
		_, err := domain.NewActivity(date, domain.ActivityWork, -time.Hour)
		require.Error(t, err)
	})

	t.Run("rejects duration on non time-denominated types", func(t *testing.T) {
		for _, typ := range []domain.ActivityType{domain.ActivitySick, domain.ActivityVacation, domain.ActivityAbsence} {
			_, err := domain.NewActivity(date, typ, 2*time.Hour)
			require.Error(t, err, "type %s", typ)
		}
	})

	t.Run("accepts worked hours", func(t *testing.T) {
		a, err := domain.NewActivity(date, domain.ActivityWork, 7*time.Hour+30*time.Minute)
		require.NoError(t, err)
		require.Equal(t, domain.ActivityOpen, a.State())
		require.Equal(t, 7*time.Hour+30*time.Minute, a.Duration())
	})
}

func TestActivityMutation(t *testing.T) {
	date := domain.Date(2024, time.January, 3)

	t.Run("open activity accepts changes", func(t *testing.T) {
		a, err := domain.NewActivity(date, domain.ActivityWork, 4*time.Hour)
		require.NoError(t, err)

		require.NoError(t, a.SetDuration(6*time.Hour))
		require.Equal(t, 6*time.Hour, a.Duration())

		require.NoError(t, a.SetType(domain.ActivitySick))
		require.Equal(t, domain.ActivitySick, a.Type())
		require.Zero(t, a.Duration(), "non time-denominated type drops the duration")
	})

	t.Run("locked activity rejects every mutation for every type", func(t *testing.T) {
		for _, typ := range domain.ActivityTypes() {
			var dur time.Duration
			if typ.TimeDenominated() {
				dur = 5 * time.Hour
			}
			a, err := domain.NewActivity(date, typ, dur)
			require.NoError(t, err)

			a.Lock()
			require.ErrorIs(t, a.SetDuration(time.Hour), domain.ErrIllegalTransition, "type %s", typ)
			require.ErrorIs(t, a.SetType(domain.ActivityWork), domain.ErrIllegalTransition, "type %s", typ)
			require.Equal(t, typ, a.Type(), "failed mutation must not change state")
		}
	})

	t.Run("lock is idempotent", func(t *testing.T) {
		a, err := domain.NewActivity(date, domain.ActivityAbsence, 0)
		require.NoError(t, err)
		a.Lock()
		a.Lock()
		require.Equal(t, domain.ActivityLocked, a.State())
	})
}

func TestRehydrateActivity(t *testing.T) {
	a, err := domain.NewActivity(domain.Date(2024, time.January, 3), domain.ActivityWork, 4*time.Hour)
	require.NoError(t, err)
	a.Lock()

	r := domain.RehydrateActivity(a.ID(), a.Date(), a.Type(), a.Duration(), a.State())
	require.Equal(t, a.ID(), r.ID())
	require.Equal(t, a.Date(), r.Date())
	require.Equal(t, a.Type(), r.Type())
	require.Equal(t, a.Duration(), r.Duration())
	require.Equal(t, domain.ActivityLocked, r.State())
	require.ErrorIs(t, r.SetDuration(time.Hour), domain.ErrIllegalTransition)
}
