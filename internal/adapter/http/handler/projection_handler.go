package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goforecast/internal/adapter/http/dto"
	"github.com/iho/goforecast/internal/projection"
	"github.com/iho/goforecast/internal/usecase"
)

// ProjectionService defines the behavior needed by ProjectionHandler.
type ProjectionService interface {
	ProjectGoal(ctx context.Context, input usecase.GoalInput) (*projection.Result, error)
	GoalSeries(ctx context.Context, input usecase.GoalInput) (*projection.Series, error)
	ProjectDebt(ctx context.Context, input usecase.DebtInput) (*projection.DebtResult, error)
	DebtSeries(ctx context.Context, input usecase.DebtInput) (*projection.Series, error)
	PreviewGoal(ctx context.Context, input usecase.PreviewGoalInput) (*usecase.GoalPreview, error)
}

// ProjectionHandler handles goal and debt projection requests.
type ProjectionHandler struct {
	projectionUC ProjectionService
}

// NewProjectionHandler creates a new ProjectionHandler.
func NewProjectionHandler(projectionUC ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{projectionUC: projectionUC}
}

// GoalProjection projects a goal's balance at its target date.
func (h *ProjectionHandler) GoalProjection(w http.ResponseWriter, r *http.Request) {
	input := goalInput(r)

	result, err := h.projectionUC.ProjectGoal(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, "failed to project goal", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GoalSeries returns the month-by-month balance of a goal.
func (h *ProjectionHandler) GoalSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.projectionUC.GoalSeries(r.Context(), goalInput(r))
	if err != nil {
		writeServiceError(w, r, "failed to build goal series", err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}

// DebtProjection projects a debt's balance at its payoff date.
func (h *ProjectionHandler) DebtProjection(w http.ResponseWriter, r *http.Request) {
	result, err := h.projectionUC.ProjectDebt(r.Context(), debtInput(r))
	if err != nil {
		writeServiceError(w, r, "failed to project debt", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DebtSeries returns the month-by-month balance of a debt.
func (h *ProjectionHandler) DebtSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.projectionUC.DebtSeries(r.Context(), debtInput(r))
	if err != nil {
		writeServiceError(w, r, "failed to build debt series", err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}

// PreviewGoal projects a goal described in the request body without saving it.
func (h *ProjectionHandler) PreviewGoal(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	preview, err := h.projectionUC.PreviewGoal(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "userID")))
	if err != nil {
		writeServiceError(w, r, "failed to preview goal", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GoalPreviewFromUseCase(preview))
}

func goalInput(r *http.Request) usecase.GoalInput {
	return usecase.GoalInput{
		UserID: chi.URLParam(r, "userID"),
		GoalID: chi.URLParam(r, "goalID"),
	}
}

func debtInput(r *http.Request) usecase.DebtInput {
	return usecase.DebtInput{
		UserID: chi.URLParam(r, "userID"),
		DebtID: chi.URLParam(r, "debtID"),
	}
}
