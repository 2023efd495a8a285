package projection

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// Frequency controls how often a schedule repeats.
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyMonthly Frequency = "monthly"
)

// maxScheduleOccurrences bounds monthly expansion to the horizon cap.
const maxScheduleOccurrences = domain.MaxHorizonYears * 12

// IDGenerator generates identifiers for expanded projections.
type IDGenerator interface {
	Generate() string
}

// Schedule describes one recurring or one-off planned event before expansion.
type Schedule struct {
	Description string
	Amount      decimal.Decimal
	Flow        domain.CategoryType
	Frequency   Frequency
	Date        time.Time
	StartDate   time.Time
	EndDate     time.Time
}

// Validate checks the schedule is complete for its frequency.
func (s Schedule) Validate() error {
	if strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrInvalidSchedule)
	}

	if s.Flow != domain.CategoryTypeIncome && s.Flow != domain.CategoryTypeExpense {
		return fmt.Errorf("%w: type must be income or expense, got %q", domain.ErrInvalidSchedule, s.Flow)
	}

	switch s.Frequency {
	case FrequencyOnce:
		if s.Date.IsZero() {
			return fmt.Errorf("%w: date is required for a one-off schedule", domain.ErrInvalidSchedule)
		}
	case FrequencyMonthly:
		if s.StartDate.IsZero() || s.EndDate.IsZero() {
			return fmt.Errorf("%w: start and end dates are required for a monthly schedule", domain.ErrInvalidSchedule)
		}
		if domain.Date(s.EndDate).Before(domain.Date(s.StartDate)) {
			return fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidSchedule)
		}
		if domain.MonthsBetween(s.StartDate, s.EndDate) >= maxScheduleOccurrences {
			return fmt.Errorf("%w: schedule exceeds %d years", domain.ErrInvalidSchedule, domain.MaxHorizonYears)
		}
	default:
		return fmt.Errorf("%w: unknown frequency %q", domain.ErrInvalidSchedule, s.Frequency)
	}

	return nil
}

// signedAmount returns the amount with expenses negated.
func (s Schedule) signedAmount() decimal.Decimal {
	amount := s.Amount.Abs()
	if s.Flow == domain.CategoryTypeExpense {
		return amount.Neg()
	}
	return amount
}

// Expand turns schedules into planned projections.
//
// Monthly schedules repeat on the start date's day of month. When a month is
// shorter, the last day of that month is used instead.
func Expand(schedules []Schedule, ids IDGenerator) ([]domain.Projection, error) {
	var out []domain.Projection

	for i, s := range schedules {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("schedule %d: %w", i, err)
		}

		amount := s.signedAmount()

		if s.Frequency == FrequencyOnce {
			out = append(out, domain.Projection{
				ID:          ids.Generate(),
				Description: s.Description,
				Amount:      amount,
				Date:        domain.Date(s.Date),
				Status:      domain.ProjectionStatusPlanned,
			})
			continue
		}

		start, end := domain.Date(s.StartDate), domain.Date(s.EndDate)
		for n := 0; ; n++ {
			date := domain.AddMonths(start, n)
			if date.After(end) {
				break
			}
			out = append(out, domain.Projection{
				ID:          ids.Generate(),
				Description: s.Description,
				Amount:      amount,
				Date:        date,
				Status:      domain.ProjectionStatusPlanned,
			})
		}
	}

	return out, nil
}
