package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"parkade/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "BadRequestFromString",
			err:     failure.BadRequestFromString("bad input"),
			code:    http.StatusBadRequest,
			message: "bad input",
		},
		{
			name:    "Unauthorized",
			err:     failure.Unauthorized("missing session"),
			code:    http.StatusUnauthorized,
			message: "missing session",
		},
		{
			name:    "PaymentRequired",
			err:     failure.PaymentRequired("payment below the listed price"),
			code:    http.StatusPaymentRequired,
			message: "payment below the listed price",
		},
		{
			name:    "Forbidden",
			err:     failure.Forbidden("not the host"),
			code:    http.StatusForbidden,
			message: "not the host",
		},
		{
			name:    "NotFound",
			err:     failure.NotFound("listing"),
			code:    http.StatusNotFound,
			message: "listing",
		},
		{
			name:    "Conflict",
			err:     failure.Conflict("spot is already booked"),
			code:    http.StatusConflict,
			message: "spot is already booked",
		},
		{
			name:    "InternalError",
			err:     failure.InternalError(errors.New("boom")),
			code:    http.StatusInternalServerError,
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}

			if tt.err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Error())
			}
		})
	}
}

func TestGetCode_WrappedFailure(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", failure.Conflict("inner"))

	if got := failure.GetCode(wrapped); got != http.StatusConflict {
		t.Errorf("expected wrapped failure code %d, got %d", http.StatusConflict, got)
	}
}

func TestGetCode_PlainError(t *testing.T) {
	if got := failure.GetCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("expected plain errors to map to %d, got %d", http.StatusInternalServerError, got)
	}
}

func TestNilConstructorsReturnNil(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("BadRequest(nil) should be nil")
	}

	if failure.InternalError(nil) != nil {
		t.Error("InternalError(nil) should be nil")
	}
}
