package mottak

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	dErrors "github.com/navikt/dp-rapportering/pkg/domain-errors"
)

// Envelope is the wire shape of inbound events. The event name selects the
// domain type; the remaining fields are read per kind.
type Envelope struct {
	EventName     string     `json:"@event_name"`
	EventID       uuid.UUID  `json:"@id"`
	Ident         string     `json:"ident"`
	CreatedAt     time.Time  `json:"@opprettet"`
	Date          string     `json:"dato,omitempty"`
	PeriodID      *uuid.UUID `json:"periodeId,omitempty"`
	ActivityType  string     `json:"aktivitetType,omitempty"`
	Hours         float64    `json:"timer,omitempty"`
	ActorKind     string     `json:"aktorType,omitempty"`
	ActorID       string     `json:"aktorId,omitempty"`
	Justification string     `json:"begrunnelse,omitempty"`
}

// Event names on the inbound topic.
const (
	NameApplicationSubmitted     = "soknad_innsendt"
	NameObligationDateDetermined = "meldeplikt_dato_fastsatt"
	NameDecisionApproved         = "vedtak_innvilget"
	NameDecisionRejected         = "vedtak_avslaatt"
	NameNewCycleStarted          = "meldeperiode_opprettet"
	NameActivityRecorded         = "aktivitet_registrert"
	NamePeriodApproved           = "periode_godkjent"
	NamePeriodDeapproved         = "periode_avgodkjent"
	NamePeriodSubmitted          = "periode_innsendt"
	NamePeriodCorrected          = "periode_korrigert"
)

// Decode parses one wire message into a domain event.
func Decode(payload []byte) (domain.Event, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed event envelope")
	}

	meta := domain.EventMeta{
		EventID:   env.EventID,
		Ident:     env.Ident,
		CreatedAt: env.CreatedAt,
	}

	switch env.EventName {
	case NameApplicationSubmitted:
		date, err := env.date()
		if err != nil {
			return nil, err
		}
		return domain.ApplicationSubmitted{EventMeta: meta, ApplicationDate: date}, nil

	case NameObligationDateDetermined:
		date, err := env.date()
		if err != nil {
			return nil, err
		}
		return domain.ObligationDateDetermined{EventMeta: meta, CandidateDate: date}, nil

	case NameDecisionApproved:
		date, err := env.date()
		if err != nil {
			return nil, err
		}
		return domain.DecisionApproved{EventMeta: meta, EffectiveDate: date}, nil

	case NameDecisionRejected:
		return domain.DecisionRejected{EventMeta: meta}, nil

	case NameNewCycleStarted:
		date, err := env.date()
		if err != nil {
			return nil, err
		}
		return domain.NewCycleStarted{EventMeta: meta, RangeStart: date}, nil

	case NameActivityRecorded:
		periodID, err := env.periodID()
		if err != nil {
			return nil, err
		}
		date, err := env.date()
		if err != nil {
			return nil, err
		}
		activity, err := domain.NewActivity(date, domain.ActivityType(env.ActivityType),
			time.Duration(env.Hours*float64(time.Hour)))
		if err != nil {
			return nil, err
		}
		return domain.ActivityRecorded{EventMeta: meta, PeriodID: periodID, Activity: activity}, nil

	case NamePeriodApproved:
		periodID, err := env.periodID()
		if err != nil {
			return nil, err
		}
		return domain.PeriodApproved{
			EventMeta:     meta,
			PeriodID:      periodID,
			Actor:         env.actor(),
			Justification: env.Justification,
		}, nil

	case NamePeriodDeapproved:
		periodID, err := env.periodID()
		if err != nil {
			return nil, err
		}
		return domain.PeriodDeapproved{
			EventMeta:     meta,
			PeriodID:      periodID,
			Actor:         env.actor(),
			Justification: env.Justification,
		}, nil

	case NamePeriodSubmitted:
		periodID, err := env.periodID()
		if err != nil {
			return nil, err
		}
		return domain.PeriodSubmitted{EventMeta: meta, PeriodID: periodID}, nil

	case NamePeriodCorrected:
		periodID, err := env.periodID()
		if err != nil {
			return nil, err
		}
		return domain.PeriodCorrected{EventMeta: meta, PriorPeriodID: periodID}, nil

	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown event name %q", env.EventName))
	}
}

func (e *Envelope) date() (time.Time, error) {
	date, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "dato must be on the form YYYY-MM-DD")
	}
	return date, nil
}

func (e *Envelope) periodID() (uuid.UUID, error) {
	if e.PeriodID == nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "periodeId is required")
	}
	return *e.PeriodID, nil
}

func (e *Envelope) actor() domain.Actor {
	kind := domain.ActorKind(e.ActorKind)
	if kind != domain.ActorCaseworker {
		kind = domain.ActorClaimant
	}
	id := e.ActorID
	if id == "" {
		id = e.Ident
	}
	return domain.Actor{Kind: kind, ID: id}
}
