package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/adapter/http/dto"
	"github.com/iho/goforecast/internal/domain"
	"github.com/iho/goforecast/internal/projection"
	"github.com/iho/goforecast/internal/usecase"
)

type projectionServiceStub struct {
	projectGoalFn func(ctx context.Context, input usecase.GoalInput) (*projection.Result, error)
	goalSeriesFn  func(ctx context.Context, input usecase.GoalInput) (*projection.Series, error)
	projectDebtFn func(ctx context.Context, input usecase.DebtInput) (*projection.DebtResult, error)
	debtSeriesFn  func(ctx context.Context, input usecase.DebtInput) (*projection.Series, error)
	previewFn     func(ctx context.Context, input usecase.PreviewGoalInput) (*usecase.GoalPreview, error)
}

func (s *projectionServiceStub) ProjectGoal(ctx context.Context, input usecase.GoalInput) (*projection.Result, error) {
	return s.projectGoalFn(ctx, input)
}

func (s *projectionServiceStub) GoalSeries(ctx context.Context, input usecase.GoalInput) (*projection.Series, error) {
	return s.goalSeriesFn(ctx, input)
}

func (s *projectionServiceStub) ProjectDebt(ctx context.Context, input usecase.DebtInput) (*projection.DebtResult, error) {
	return s.projectDebtFn(ctx, input)
}

func (s *projectionServiceStub) DebtSeries(ctx context.Context, input usecase.DebtInput) (*projection.Series, error) {
	return s.debtSeriesFn(ctx, input)
}

func (s *projectionServiceStub) PreviewGoal(ctx context.Context, input usecase.PreviewGoalInput) (*usecase.GoalPreview, error) {
	return s.previewFn(ctx, input)
}

// withURLParams attaches chi route parameters to a request.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestProjectionHandler_GoalProjection_Success(t *testing.T) {
	var captured usecase.GoalInput
	handler := NewProjectionHandler(&projectionServiceStub{
		projectGoalFn: func(ctx context.Context, input usecase.GoalInput) (*projection.Result, error) {
			captured = input
			return &projection.Result{
				ProjectedBalance: decimal.NewFromInt(1000),
				IsOnTrack:        true,
				Shortfall:        decimal.Zero,
			}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"userID": "7", "goalID": "10"})
	rec := httptest.NewRecorder()

	handler.GoalProjection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "7" || captured.GoalID != "10" {
		t.Fatalf("expected route params to reach the use case, got %+v", captured)
	}

	var resp projection.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IsOnTrack || !resp.ProjectedBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestProjectionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", domain.ErrDebtNotFound, http.StatusNotFound},
		{"past payoff date", domain.ErrInvalidHorizon, http.StatusUnprocessableEntity},
		{"database down", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewProjectionHandler(&projectionServiceStub{
				projectDebtFn: func(ctx context.Context, input usecase.DebtInput) (*projection.DebtResult, error) {
					return nil, tt.err
				},
			})

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"userID": "7", "debtID": "3"})
			rec := httptest.NewRecorder()

			handler.DebtProjection(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestProjectionHandler_Series(t *testing.T) {
	series := &projection.Series{
		Labels: []string{"Jan 2025", "Feb 2025"},
		Values: []decimal.Decimal{decimal.NewFromInt(1200), decimal.NewFromInt(1000)},
	}
	handler := NewProjectionHandler(&projectionServiceStub{
		debtSeriesFn: func(ctx context.Context, input usecase.DebtInput) (*projection.Series, error) {
			if input.DebtID != "3" {
				t.Fatalf("unexpected debt id %s", input.DebtID)
			}
			return series, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"userID": "7", "debtID": "3"})
	rec := httptest.NewRecorder()

	handler.DebtSeries(rec, req)

	var resp projection.Series
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Labels) != 2 || resp.Labels[1] != "Feb 2025" || !resp.Values[1].Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected series %+v", resp)
	}
}

func TestProjectionHandler_PreviewGoal(t *testing.T) {
	var captured usecase.PreviewGoalInput
	handler := NewProjectionHandler(&projectionServiceStub{
		previewFn: func(ctx context.Context, input usecase.PreviewGoalInput) (*usecase.GoalPreview, error) {
			captured = input
			return &usecase.GoalPreview{
				Goal: domain.Goal{ID: "g-1", Name: input.Name, TargetAmount: input.TargetAmount, TargetDate: input.TargetDate},
				Projections: []domain.Projection{
					{ID: "p-1", Description: "Monthly", Amount: decimal.NewFromInt(100), Date: input.TargetDate, Status: domain.ProjectionStatusPlanned},
				},
				Result: &projection.Result{ProjectedBalance: decimal.NewFromInt(100)},
				Series: &projection.Series{},
			}, nil
		},
	})

	body := `{"name":"Bike","target_amount":"100","target_date":"2025-12-01",
		"schedules":[{"description":"Monthly","amount":"100","type":"income","frequency":"once","date":"2025-12-01"}]}`
	req := withURLParams(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body)), map[string]string{"userID": "7"})
	rec := httptest.NewRecorder()

	handler.PreviewGoal(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "7" || len(captured.Schedules) != 1 {
		t.Fatalf("unexpected use case input %+v", captured)
	}

	var resp dto.GoalPreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "g-1" || len(resp.Projections) != 1 || resp.Projections[0].Status != "planned" {
		t.Fatalf("unexpected preview %+v", resp)
	}
}

func TestProjectionHandler_PreviewGoal_InvalidJSON(t *testing.T) {
	handler := NewProjectionHandler(&projectionServiceStub{
		previewFn: func(ctx context.Context, input usecase.PreviewGoalInput) (*usecase.GoalPreview, error) {
			t.Fatal("PreviewGoal should not be called for invalid payload")
			return nil, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{invalid")), map[string]string{"userID": "7"})
	rec := httptest.NewRecorder()

	handler.PreviewGoal(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProjectionHandler_PreviewGoal_InvalidSchedule(t *testing.T) {
	handler := NewProjectionHandler(&projectionServiceStub{
		previewFn: func(ctx context.Context, input usecase.PreviewGoalInput) (*usecase.GoalPreview, error) {
			return nil, domain.ErrInvalidSchedule
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"x"}`)), map[string]string{"userID": "7"})
	rec := httptest.NewRecorder()

	handler.PreviewGoal(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
