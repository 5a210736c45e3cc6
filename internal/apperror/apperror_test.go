package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"eventboard/internal/apperror"
)

func TestKindAndCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apperror.Kind
		wantCode string
	}{
		{
			name:     "not_found",
			err:      apperror.NotFound("event_not_found", "event %s doesn't exist", "e1"),
			wantKind: apperror.KindNotFound,
			wantCode: "event_not_found",
		},
		{
			name:     "rule_violation",
			err:      apperror.RuleViolation("event_full", "no capacity left"),
			wantKind: apperror.KindRuleViolation,
			wantCode: "event_full",
		},
		{
			name:     "invalid_argument",
			err:      apperror.InvalidArgument("invalid_window", "bad window"),
			wantKind: apperror.KindInvalidArgument,
			wantCode: "invalid_window",
		},
		{
			name:     "unexpected",
			err:      apperror.Unexpected(errors.New("boom"), "storage failed"),
			wantKind: apperror.KindUnexpected,
			wantCode: "internal",
		},
		{
			name:     "plain_error",
			err:      errors.New("boom"),
			wantKind: apperror.KindUnexpected,
			wantCode: "internal",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := apperror.KindOf(tt.err); got != tt.wantKind {
				t.Fatalf("got kind %v, want %v", got, tt.wantKind)
			}
			if got := apperror.CodeOf(tt.err); got != tt.wantCode {
				t.Fatalf("got code %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestUnexpectedPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperror.Unexpected(cause, "could not persist event %s", "e1")

	if !errors.Is(err, cause) {
		t.Fatal("cause lost through wrapping")
	}
}

func TestWrappedAppErrorSurvivesFurtherWrapping(t *testing.T) {
	inner := apperror.RuleViolation("already_registered", "duplicate")
	outer := fmt.Errorf("handling request: %w", inner)

	if apperror.KindOf(outer) != apperror.KindRuleViolation {
		t.Fatalf("got kind %v through wrap", apperror.KindOf(outer))
	}
	if apperror.CodeOf(outer) != "already_registered" {
		t.Fatalf("got code %q through wrap", apperror.CodeOf(outer))
	}
}
