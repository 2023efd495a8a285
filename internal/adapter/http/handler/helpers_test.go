package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/goforecast/internal/adapter/http/dto"
	"github.com/iho/goforecast/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/budget-suggestions?month=5", nil)
	if got, err := parseIntQuery(req, "month", 0); err != nil || got != 5 {
		t.Fatalf("expected month=5, got %d (%v)", got, err)
	}

	if got, err := parseIntQuery(req, "year", 0); err != nil || got != 0 {
		t.Fatalf("expected default when missing, got %d (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/budget-suggestions?month=may", nil)
	if _, err := parseIntQuery(req, "month", 0); err == nil {
		t.Fatal("expected error for non-integer value")
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"goal not found", domain.ErrGoalNotFound, http.StatusNotFound},
		{"wrapped debt not found", fmt.Errorf("failed to load debt 3: %w", domain.ErrDebtNotFound), http.StatusNotFound},
		{"category not found", domain.ErrCategoryNotFound, http.StatusNotFound},
		{"invalid period", domain.ErrInvalidPeriod, http.StatusBadRequest},
		{"invalid horizon", domain.ErrInvalidHorizon, http.StatusUnprocessableEntity},
		{"horizon too long", domain.ErrHorizonTooLong, http.StatusUnprocessableEntity},
		{"balance out of range", domain.ErrBalanceOutOfRange, http.StatusUnprocessableEntity},
		{"invalid schedule", domain.ErrInvalidSchedule, http.StatusUnprocessableEntity},
		{"invalid goal", domain.ErrInvalidGoal, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" || resp.Message != "detail" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
