package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for aggregate invariant violations. Mutating operations
// validate preconditions before touching state, so a returned error means the
// aggregate is exactly as it was before the call. The service layer wraps
// these with transport-facing codes.
var (
	// ErrIllegalTransition covers operations attempted against a state that
	// forbids them, e.g. mutating a locked activity.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrPeriodClosed is an illegal transition against a period no longer in
	// AwaitingCompletion.
	ErrPeriodClosed = fmt.Errorf("%w: period closed for edits", ErrIllegalTransition)

	// ErrOutOfRange means a date falls outside the owning period's range.
	ErrOutOfRange = errors.New("date out of period range")

	// ErrAlreadyApproved means an approval is already live; the duplicate is
	// suppressed, not re-recorded.
	ErrAlreadyApproved = errors.New("period already approved")

	// ErrNothingToRevoke means de-approval was requested with no live approval.
	ErrNothingToRevoke = errors.New("no live approval to revoke")

	// ErrNotYetApprovable means re-approval was requested before the computed
	// eligibility date.
	ErrNotYetApprovable = errors.New("period not yet approvable")

	// ErrAlreadyCorrected means a correction was requested against a period
	// that already has a successor.
	ErrAlreadyCorrected = errors.New("period already corrected")

	// ErrUnknownEvent means the event kind is not part of the handled set.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrUnresolvedTarget means the event references a period or subject with
	// no matching aggregate.
	ErrUnresolvedTarget = errors.New("event target not found")

	// ErrJustificationRequired means a caseworker action arrived without the
	// mandatory justification.
	ErrJustificationRequired = errors.New("justification required for caseworker action")
)
