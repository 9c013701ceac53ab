package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{name: "passthrough", err: NewForbidden("nope"), wantCode: "FORBIDDEN", wantStatus: http.StatusForbidden},
		{name: "wrapped domain error", err: errors.Join(errors.New("ctx"), NewNotFound("ticket", nil)), wantCode: "NOT_FOUND", wantStatus: http.StatusNotFound},
		{name: "no rows maps to not found", err: pgx.ErrNoRows, wantCode: "NOT_FOUND", wantStatus: http.StatusNotFound},
		{name: "unknown maps to internal", err: errors.New("boom"), wantCode: "INTERNAL_ERROR", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", got.HTTPStatus, tt.wantStatus)
			}
		})
	}

	if ToDomainError(nil) != nil {
		t.Error("nil error should map to nil")
	}
}

func TestIsCode(t *testing.T) {
	err := NewValidationError("bad", nil)
	if !IsCode(err, "VALIDATION_FAILED") {
		t.Error("IsCode missed matching code")
	}
	if IsCode(err, "NOT_FOUND") {
		t.Error("IsCode matched wrong code")
	}
	if IsCode(errors.New("plain"), "VALIDATION_FAILED") {
		t.Error("IsCode matched non-domain error")
	}
}
