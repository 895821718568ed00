package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	"github.com/navikt/dp-rapportering/internal/rapportering/ports"
	"github.com/navikt/dp-rapportering/internal/rapportering/store"
	"github.com/navikt/dp-rapportering/pkg/platform/sentinel"
)

// PostgresSubjectStore persists projected subject rows in PostgreSQL. Save
// replaces the whole subject in one transaction; approval changes and
// activities keep their recording order through a position column.
type PostgresSubjectStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed subject store.
func NewPostgres(db *sql.DB) *PostgresSubjectStore {
	return &PostgresSubjectStore{db: db}
}

// Migrate creates the schema when it does not exist yet.
func (s *PostgresSubjectStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
			ident            TEXT PRIMARY KEY,
			obligation_kind  TEXT,
			effective_from   TIMESTAMPTZ,
			application_date TIMESTAMPTZ,
			decision_date    TIMESTAMPTZ,
			active           BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS periods (
			id              UUID PRIMARY KEY,
			ident           TEXT NOT NULL REFERENCES subjects(ident) ON DELETE CASCADE,
			range_start     TIMESTAMPTZ NOT NULL,
			range_end       TIMESTAMPTZ NOT NULL,
			compute_after   TIMESTAMPTZ NOT NULL,
			state           TEXT NOT NULL,
			approvable_from TIMESTAMPTZ,
			corrects        UUID,
			corrected_by    UUID,
			position        INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS approval_changes (
			id            UUID PRIMARY KEY,
			period_id     UUID NOT NULL REFERENCES periods(id) ON DELETE CASCADE,
			kind          TEXT NOT NULL,
			actor_kind    TEXT NOT NULL,
			actor_id      TEXT NOT NULL,
			justification TEXT NOT NULL DEFAULT '',
			revokes       UUID,
			recorded_at   TIMESTAMPTZ NOT NULL,
			position      INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id               UUID PRIMARY KEY,
			period_id        UUID NOT NULL REFERENCES periods(id) ON DELETE CASCADE,
			activity_date    TIMESTAMPTZ NOT NULL,
			activity_type    TEXT NOT NULL,
			duration_seconds BIGINT NOT NULL DEFAULT 0,
			state            TEXT NOT NULL,
			position         INT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_periods_state_deadline ON periods(state, compute_after)`,
		`CREATE INDEX IF NOT EXISTS idx_periods_ident ON periods(ident)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate subject schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresSubjectStore) Save(ctx context.Context, subject *domain.Subject) error {
	projection := store.Project(subject)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save subject: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var kind, effectiveFrom any
	var applicationDate, decisionDate any
	active := false
	if o := projection.Obligation; o != nil {
		kind = string(o.Kind)
		effectiveFrom = o.EffectiveFrom
		active = o.Active
		if o.ApplicationDate != nil {
			applicationDate = *o.ApplicationDate
		}
		if o.DecisionDate != nil {
			decisionDate = *o.DecisionDate
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subjects (ident, obligation_kind, effective_from, application_date, decision_date, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (ident) DO UPDATE SET
			obligation_kind = EXCLUDED.obligation_kind,
			effective_from = EXCLUDED.effective_from,
			application_date = EXCLUDED.application_date,
			decision_date = EXCLUDED.decision_date,
			active = EXCLUDED.active,
			updated_at = now()`,
		projection.Ident, kind, effectiveFrom, applicationDate, decisionDate, active)
	if err != nil {
		return fmt.Errorf("upsert subject: %w", err)
	}

	// Replace child rows wholesale. Simpler than diffing and the row counts
	// per subject are small.
	if _, err := tx.ExecContext(ctx, `DELETE FROM periods WHERE ident = $1`, projection.Ident); err != nil {
		return fmt.Errorf("clear periods: %w", err)
	}

	for i, period := range projection.Periods {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO periods (id, ident, range_start, range_end, compute_after, state, approvable_from, corrects, corrected_by, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			period.ID, projection.Ident, period.Start, period.End, period.ComputeAfter,
			string(period.State), nullableTime(period.ApprovableFrom),
			nullableUUID(period.Corrects), nullableUUID(period.CorrectedBy), i)
		if err != nil {
			return fmt.Errorf("insert period %s: %w", period.ID, err)
		}

		for j, change := range projection.Approvals[period.ID] {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO approval_changes (id, period_id, kind, actor_kind, actor_id, justification, revokes, recorded_at, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				change.ID, period.ID, string(change.Kind), string(change.Actor.Kind), change.Actor.ID,
				change.Justification, nullableUUID(change.Revokes), change.Timestamp, j)
			if err != nil {
				return fmt.Errorf("insert approval change %s: %w", change.ID, err)
			}
		}

		for j, activity := range projection.Activities[period.ID] {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO activities (id, period_id, activity_date, activity_type, duration_seconds, state, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				activity.ID, period.ID, activity.Date, string(activity.Type),
				int64(activity.Duration/time.Second), string(activity.State), j)
			if err != nil {
				return fmt.Errorf("insert activity %s: %w", activity.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save subject: %w", err)
	}
	return nil
}

func (s *PostgresSubjectStore) Find(ctx context.Context, ident string) (*domain.Subject, error) {
	projection := &store.Projection{
		Approvals:  make(map[uuid.UUID][]domain.ApprovalChange),
		Activities: make(map[uuid.UUID][]domain.ActivitySnapshot),
	}

	var kind sql.NullString
	var effectiveFrom, applicationDate, decisionDate sql.NullTime
	var active bool
	err := s.db.QueryRowContext(ctx, `
		SELECT ident, obligation_kind, effective_from, application_date, decision_date, active
		FROM subjects WHERE ident = $1`, ident).
		Scan(&projection.Ident, &kind, &effectiveFrom, &applicationDate, &decisionDate, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %s: %w", ident, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}

	if kind.Valid {
		projection.Obligation = &domain.ObligationSnapshot{
			Kind:            domain.ObligationKind(kind.String),
			EffectiveFrom:   effectiveFrom.Time,
			ApplicationDate: timePtr(applicationDate),
			DecisionDate:    timePtr(decisionDate),
			Active:          active,
		}
	}

	if err := s.loadPeriods(ctx, ident, projection); err != nil {
		return nil, err
	}
	return projection.Rehydrate()
}

func (s *PostgresSubjectStore) loadPeriods(ctx context.Context, ident string, projection *store.Projection) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, range_start, range_end, compute_after, state, approvable_from, corrects, corrected_by
		FROM periods WHERE ident = $1 ORDER BY position`, ident)
	if err != nil {
		return fmt.Errorf("load periods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var snap domain.PeriodSnapshot
		var state string
		var approvableFrom sql.NullTime
		var corrects, correctedBy uuid.NullUUID
		if err := rows.Scan(&snap.ID, &snap.Start, &snap.End, &snap.ComputeAfter, &state, &approvableFrom, &corrects, &correctedBy); err != nil {
			return fmt.Errorf("scan period: %w", err)
		}
		snap.State = domain.PeriodState(state)
		snap.ApprovableFrom = timePtr(approvableFrom)
		snap.Corrects = uuidPtr(corrects)
		snap.CorrectedBy = uuidPtr(correctedBy)
		projection.Periods = append(projection.Periods, snap)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate periods: %w", err)
	}

	for _, period := range projection.Periods {
		if err := s.loadApprovals(ctx, period.ID, projection); err != nil {
			return err
		}
		if err := s.loadActivities(ctx, period.ID, projection); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresSubjectStore) loadApprovals(ctx context.Context, periodID uuid.UUID, projection *store.Projection) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, actor_kind, actor_id, justification, revokes, recorded_at
		FROM approval_changes WHERE period_id = $1 ORDER BY position`, periodID)
	if err != nil {
		return fmt.Errorf("load approval changes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var change domain.ApprovalChange
		var kind, actorKind string
		var revokes uuid.NullUUID
		if err := rows.Scan(&change.ID, &kind, &actorKind, &change.Actor.ID, &change.Justification, &revokes, &change.Timestamp); err != nil {
			return fmt.Errorf("scan approval change: %w", err)
		}
		change.Kind = domain.ChangeKind(kind)
		change.Actor.Kind = domain.ActorKind(actorKind)
		change.Revokes = uuidPtr(revokes)
		projection.Approvals[periodID] = append(projection.Approvals[periodID], change)
	}
	return rows.Err()
}

func (s *PostgresSubjectStore) loadActivities(ctx context.Context, periodID uuid.UUID, projection *store.Projection) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, activity_date, activity_type, duration_seconds, state
		FROM activities WHERE period_id = $1 ORDER BY position`, periodID)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var snap domain.ActivitySnapshot
		var typ, state string
		var seconds int64
		if err := rows.Scan(&snap.ID, &snap.Date, &typ, &seconds, &state); err != nil {
			return fmt.Errorf("scan activity: %w", err)
		}
		snap.Type = domain.ActivityType(typ)
		snap.State = domain.ActivityState(state)
		snap.Duration = time.Duration(seconds) * time.Second
		projection.Activities[periodID] = append(projection.Activities[periodID], snap)
	}
	return rows.Err()
}

func (s *PostgresSubjectStore) DueForSubmission(ctx context.Context, now time.Time) ([]ports.SubmissionCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ident, id FROM periods
		WHERE state = $1 AND compute_after <= $2
		ORDER BY ident, id`, string(domain.PeriodAwaitingCompletion), now)
	if err != nil {
		return nil, fmt.Errorf("query due periods: %w", err)
	}
	defer rows.Close()

	var due []ports.SubmissionCandidate
	for rows.Next() {
		var candidate ports.SubmissionCandidate
		if err := rows.Scan(&candidate.Ident, &candidate.PeriodID); err != nil {
			return nil, fmt.Errorf("scan due period: %w", err)
		}
		due = append(due, candidate)
	}
	return due, rows.Err()
}

func (s *PostgresSubjectStore) DueForNewCycle(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.ident FROM subjects s
		WHERE s.active
		  AND EXISTS (SELECT 1 FROM periods p WHERE p.ident = s.ident)
		  AND NOT EXISTS (SELECT 1 FROM periods p WHERE p.ident = s.ident AND p.range_end >= $1)
		ORDER BY s.ident`, now)
	if err != nil {
		return nil, fmt.Errorf("query due subjects: %w", err)
	}
	defer rows.Close()

	var due []string
	for rows.Next() {
		var ident string
		if err := rows.Scan(&ident); err != nil {
			return nil, fmt.Errorf("scan due subject: %w", err)
		}
		due = append(due, ident)
	}
	return due, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func uuidPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := id.UUID
	return &v
}
