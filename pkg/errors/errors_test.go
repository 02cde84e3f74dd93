package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Internal("Failed to admit reservation", cause)

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.StatusCode())
	}
}

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFoundWithID("Reservation", "abc"), CodeNotFound, http.StatusNotFound},
		{"not available", NotAvailable("Desk"), CodeNotAvailable, http.StatusBadRequest},
		{"past date", PastDate("2020-01-01"), CodePastDate, http.StatusBadRequest},
		{"conflict", Conflict("slot taken"), CodeConflict, http.StatusConflict},
		{"forbidden", Forbidden("not the owner"), CodeForbidden, http.StatusForbidden},
		{"validation", Validation("bad interval", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("empty id"), CodeInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	if !HasCode(Conflict("taken"), CodeConflict) {
		t.Error("expected HasCode to match conflict")
	}
	if HasCode(fmt.Errorf("plain"), CodeConflict) {
		t.Error("plain errors must not match")
	}
	if HasCode(nil, CodeConflict) {
		t.Error("nil must not match")
	}
}

func TestAsAppError(t *testing.T) {
	orig := PastDate("2020-01-01")
	if AsAppError(orig) != orig {
		t.Error("AppError must pass through unchanged")
	}

	wrapped := AsAppError(fmt.Errorf("boom"))
	if wrapped.Code != CodeInternal {
		t.Errorf("expected internal code for plain error, got %s", wrapped.Code)
	}
}
