package errors

import (
	stderrors "errors"
	"testing"
)

func TestNewCarriesCode(t *testing.T) {
	err := New(CodeNotFound, "subject not found")
	if !HasCode(err, CodeNotFound) {
		t.Fatalf("expected CodeNotFound on %v", err)
	}
	if HasCode(err, CodeConflict) {
		t.Fatalf("did not expect CodeConflict on %v", err)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeInternal, "failed to load subject")

	if !stderrors.Is(err, cause) {
		t.Fatalf("expected cause to stay reachable through errors.Is")
	}
	if !HasCode(err, CodeInternal) {
		t.Fatalf("expected CodeInternal on %v", err)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(nil, CodeInternal, "ignored") != nil {
		t.Fatalf("expected nil for nil cause")
	}
}

func TestHasCodeWalksChain(t *testing.T) {
	inner := New(CodeInvariantViolation, "already corrected")
	outer := Wrap(inner, CodeInternal, "apply event")

	if !HasCode(outer, CodeInvariantViolation) {
		t.Fatalf("expected inner code to be found")
	}
	if !HasCode(outer, CodeInternal) {
		t.Fatalf("expected outer code to be found")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeBadRequest, "nope")); got != CodeBadRequest {
		t.Fatalf("expected bad_request, got %s", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeInternal {
		t.Fatalf("expected internal fallback, got %s", got)
	}
}
