package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
	"github.com/iho/goforecast/internal/projection"
	"github.com/iho/goforecast/internal/usecase"
)

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// UnmarshalJSON parses a quoted YYYY-MM-DD date. An empty string leaves the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

// ScheduleRequest describes a planned contribution or withdrawal.
type ScheduleRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Frequency   string          `json:"frequency"`
	Date        Date            `json:"date"`
	StartDate   Date            `json:"start_date"`
	EndDate     Date            `json:"end_date"`
}

// PreviewGoalRequest represents a request to project a goal before saving it.
type PreviewGoalRequest struct {
	Name               string            `json:"name"`
	TargetAmount       decimal.Decimal   `json:"target_amount"`
	TargetDate         Date              `json:"target_date"`
	YearlyInterestRate decimal.Decimal   `json:"yearly_interest_rate"`
	StartingBalance    decimal.Decimal   `json:"starting_balance"`
	Schedules          []ScheduleRequest `json:"schedules"`
}

// ToUseCaseInput converts to use case input.
func (r *PreviewGoalRequest) ToUseCaseInput(userID string) usecase.PreviewGoalInput {
	schedules := make([]projection.Schedule, len(r.Schedules))
	for i, s := range r.Schedules {
		schedules[i] = projection.Schedule{
			Description: s.Description,
			Amount:      s.Amount,
			Flow:        domain.CategoryType(s.Type),
			Frequency:   projection.Frequency(s.Frequency),
			Date:        s.Date.Time,
			StartDate:   s.StartDate.Time,
			EndDate:     s.EndDate.Time,
		}
	}

	return usecase.PreviewGoalInput{
		UserID:             userID,
		Name:               r.Name,
		TargetAmount:       r.TargetAmount,
		TargetDate:         r.TargetDate.Time,
		YearlyInterestRate: r.YearlyInterestRate,
		StartingBalance:    r.StartingBalance,
		Schedules:          schedules,
	}
}
