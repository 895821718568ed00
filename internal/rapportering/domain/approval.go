package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActorKind identifies who made an approval decision.
type ActorKind string

const (
	ActorClaimant   ActorKind = "claimant"
	ActorCaseworker ActorKind = "caseworker"
)

// Actor attributes an approval decision to a claimant or caseworker.
type Actor struct {
	Kind ActorKind
	ID   string
}

// ChangeKind distinguishes approvals from de-approvals in the log.
type ChangeKind string

const (
	ChangeApproval   ChangeKind = "approval"
	ChangeDeapproval ChangeKind = "deapproval"
)

// ApprovalChange is one immutable entry in the approval history. A
// de-approval references the approval it revokes.
type ApprovalChange struct {
	ID            uuid.UUID
	Kind          ChangeKind
	Actor         Actor
	Timestamp     time.Time
	Revokes       *uuid.UUID
	Justification string
}

// ApprovalLog is the append-only history of approval decisions for a period.
// The currently approved state is always derived by replaying the log, which
// keeps live application and replay from storage provably equivalent.
type ApprovalLog struct {
	changes []ApprovalChange
}

// NewApprovalLog returns an empty log.
func NewApprovalLog() *ApprovalLog {
	return &ApprovalLog{}
}

// RehydrateApprovalLog reconstructs a log from stored entries, emission order
// preserved. No side effects are re-fired.
func RehydrateApprovalLog(changes []ApprovalChange) *ApprovalLog {
	log := &ApprovalLog{changes: make([]ApprovalChange, len(changes))}
	copy(log.changes, changes)
	return log
}

// RecordApproval appends an approval. Only one approval can be live at a
// time; a duplicate is suppressed with ErrAlreadyApproved, not re-recorded.
// This rejects regardless of actor kind: a caseworker approving a period the
// claimant already approved must de-approve first, so the log never holds
// two live approvals.
func (l *ApprovalLog) RecordApproval(actor Actor, justification string, at time.Time) error {
	if _, ok := l.CurrentApproval(); ok {
		return ErrAlreadyApproved
	}
	l.changes = append(l.changes, ApprovalChange{
		ID:            uuid.New(),
		Kind:          ChangeApproval,
		Actor:         actor,
		Timestamp:     at,
		Justification: justification,
	})
	return nil
}

// RecordDeapproval appends a de-approval revoking the live approval. A
// caseworker must supply a justification.
func (l *ApprovalLog) RecordDeapproval(actor Actor, justification string, at time.Time) error {
	if actor.Kind == ActorCaseworker && justification == "" {
		return ErrJustificationRequired
	}
	live, ok := l.CurrentApproval()
	if !ok {
		return ErrNothingToRevoke
	}
	revokes := live.ID
	l.changes = append(l.changes, ApprovalChange{
		ID:            uuid.New(),
		Kind:          ChangeDeapproval,
		Actor:         actor,
		Timestamp:     at,
		Revokes:       &revokes,
		Justification: justification,
	})
	return nil
}

// CurrentApproval replays the log and returns the live approval, if any. A
// later de-approval nullifies the prior approval entirely.
func (l *ApprovalLog) CurrentApproval() (ApprovalChange, bool) {
	var live ApprovalChange
	var ok bool
	for _, c := range l.changes {
		switch c.Kind {
		case ChangeApproval:
			live, ok = c, true
		case ChangeDeapproval:
			live, ok = ApprovalChange{}, false
		}
	}
	return live, ok
}

// LastApprovedAt returns the timestamp of the most recent approval entry,
// revoked or not.
func (l *ApprovalLog) LastApprovedAt() (time.Time, bool) {
	for i := len(l.changes) - 1; i >= 0; i-- {
		if l.changes[i].Kind == ChangeApproval {
			return l.changes[i].Timestamp, true
		}
	}
	return time.Time{}, false
}

// NextApprovableFrom returns the earliest date a fresh approval is permitted:
// one day before the most recent de-approval's effective date. False when the
// log holds no de-approval and no gate applies.
func (l *ApprovalLog) NextApprovableFrom() (time.Time, bool) {
	for i := len(l.changes) - 1; i >= 0; i-- {
		if l.changes[i].Kind == ChangeDeapproval {
			return ToDate(l.changes[i].Timestamp).AddDate(0, 0, -1), true
		}
	}
	return time.Time{}, false
}

// Changes returns the log entries in emission order.
func (l *ApprovalLog) Changes() []ApprovalChange {
	out := make([]ApprovalChange, len(l.changes))
	copy(out, l.changes)
	return out
}
