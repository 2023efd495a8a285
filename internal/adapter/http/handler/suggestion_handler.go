package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goforecast/internal/suggestion"
	"github.com/iho/goforecast/internal/usecase"
)

// SuggestionService defines the behavior needed by SuggestionHandler.
type SuggestionService interface {
	Suggest(ctx context.Context, input usecase.SuggestInput) (*suggestion.Report, error)
}

// SuggestionHandler handles budget suggestion requests.
type SuggestionHandler struct {
	suggestionUC SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestionUC SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionUC: suggestionUC}
}

// Suggest returns budget suggestions for ?year=&month=, defaulting to the current month.
func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	year, err := parseIntQuery(r, "year", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err.Error())
		return
	}

	month, err := parseIntQuery(r, "month", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}

	report, err := h.suggestionUC.Suggest(r.Context(), usecase.SuggestInput{
		UserID: chi.URLParam(r, "userID"),
		Year:   year,
		Month:  month,
	})
	if err != nil {
		writeServiceError(w, r, "failed to suggest budgets", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
