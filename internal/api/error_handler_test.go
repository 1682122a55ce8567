package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "validation", err: domain.NewValidationError("title", "title is required"), wantCode: http.StatusBadRequest, wantMsg: "title: title is required"},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", domain.NewValidationError("", "empty upload")), wantCode: http.StatusBadRequest, wantMsg: "empty upload"},
		{name: "project not found", err: domain.ErrProjectNotFound, wantCode: http.StatusNotFound, wantMsg: "project not found"},
		{name: "client not found", err: fmt.Errorf("get: %w", domain.ErrClientNotFound), wantCode: http.StatusNotFound, wantMsg: "client not found"},
		{name: "duplicate email", err: domain.ErrUserExists, wantCode: http.StatusConflict, wantMsg: "user already exists"},
		{name: "duplicate client", err: domain.ErrClientNameTaken, wantCode: http.StatusConflict, wantMsg: "client name already exists"},
		{name: "bad credentials", err: domain.ErrInvalidCredentials, wantCode: http.StatusUnauthorized, wantMsg: "invalid credentials"},
		{name: "bad token", err: domain.ErrInvalidToken, wantCode: http.StatusUnauthorized, wantMsg: "invalid or expired token"},
		{name: "forbidden", err: domain.ErrForbidden, wantCode: http.StatusForbidden, wantMsg: "access forbidden"},
		{name: "throttled", err: domain.ErrTooManyAttempts, wantCode: http.StatusTooManyRequests},
		{name: "echo error", err: echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too large"), wantCode: http.StatusRequestEntityTooLarge, wantMsg: "too large"},
		{name: "unexpected", err: errors.New("mongo: connection reset"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if tt.wantMsg != "" && resp.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Fatalf("committed response must not be rewritten, got %q", rec.Body.String())
	}
}
