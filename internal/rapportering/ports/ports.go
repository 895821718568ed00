package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
)

// SubjectStore persists claimant reporting state keyed by national ident.
// Implementations must return sentinel.ErrNotFound when the subject does not
// exist so callers can distinguish "new claimant" from infrastructure failure.
type SubjectStore interface {
	// Find loads a fully rehydrated subject.
	Find(ctx context.Context, ident string) (*domain.Subject, error)

	// Save replaces the stored projection of the subject.
	Save(ctx context.Context, subject *domain.Subject) error

	// DueForSubmission lists open periods whose deadline has passed as of now.
	DueForSubmission(ctx context.Context, now time.Time) ([]SubmissionCandidate, error)

	// DueForNewCycle lists idents whose latest period ended before now and
	// whose obligation is still active.
	DueForNewCycle(ctx context.Context, now time.Time) ([]string, error)
}

// SubmissionCandidate identifies one period that has passed its deadline.
type SubmissionCandidate struct {
	Ident    string
	PeriodID uuid.UUID
}

// NotificationPublisher emits period lifecycle notifications to downstream
// consumers.
type NotificationPublisher interface {
	PublishPeriodChanged(ctx context.Context, notification PeriodNotification) error
}

// PeriodNotification is the outbound message shape for period changes.
type PeriodNotification struct {
	Ident     string    `json:"ident"`
	PeriodID  uuid.UUID `json:"periodId"`
	EventKind string    `json:"eventKind"`
	Timestamp time.Time `json:"timestamp"`
}

// DuplicateRegistry tracks processed event IDs. Callers check Seen before
// applying an event and call Register only after the event's effects are
// durable, so a failed save leaves the id unregistered and the redelivery
// is processed rather than acknowledged.
type DuplicateRegistry interface {
	// Seen reports whether the event id was registered inside the
	// retention window.
	Seen(ctx context.Context, eventID uuid.UUID) (bool, error)

	// Register records the event id as processed.
	Register(ctx context.Context, eventID uuid.UUID) error
}
