package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
	"github.com/iho/goforecast/internal/projection"
	"github.com/iho/goforecast/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ProjectionResponse represents a planned event in API responses.
type ProjectionResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Status      string          `json:"status"`
}

// ProjectionsFromDomain converts domain projections to responses.
func ProjectionsFromDomain(projections []domain.Projection) []ProjectionResponse {
	result := make([]ProjectionResponse, len(projections))
	for i, p := range projections {
		result[i] = ProjectionResponse{
			ID:          p.ID,
			Description: p.Description,
			Amount:      p.Amount,
			Date:        Date{p.Date},
			Status:      string(p.Status),
		}
	}
	return result
}

// GoalPreviewResponse represents a projected, unsaved goal.
type GoalPreviewResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	TargetAmount decimal.Decimal      `json:"target_amount"`
	TargetDate   Date                 `json:"target_date"`
	Projections  []ProjectionResponse `json:"projections"`
	Projection   *projection.Result   `json:"projection"`
	Series       *projection.Series   `json:"series"`
}

// GoalPreviewFromUseCase converts a goal preview to a response.
func GoalPreviewFromUseCase(p *usecase.GoalPreview) *GoalPreviewResponse {
	return &GoalPreviewResponse{
		ID:           p.Goal.ID,
		Name:         p.Goal.Name,
		TargetAmount: p.Goal.TargetAmount,
		TargetDate:   Date{p.Goal.TargetDate},
		Projections:  ProjectionsFromDomain(p.Projections),
		Projection:   p.Result,
		Series:       p.Series,
	}
}
