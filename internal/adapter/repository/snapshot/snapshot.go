// Package snapshot serves the repository ports from a JSON or TOML file so
// forecasts can be replayed offline against a frozen copy of a user's data.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// Day is a calendar date written as YYYY-MM-DD in both file formats.
type Day struct {
	Time time.Time
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(text []byte) error {
	t, err := time.Parse(time.DateOnly, string(text))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", text, err)
	}
	d.Time = t
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.Time.Format(time.DateOnly)), nil
}

// File is the on-disk layout of a snapshot. Amounts are decimal strings.
type File struct {
	Categories   []CategoryRecord    `json:"categories" toml:"categories"`
	Goals        []GoalRecord        `json:"goals" toml:"goals"`
	Debts        []DebtRecord        `json:"debts" toml:"debts"`
	Budgets      []BudgetRecord      `json:"budgets" toml:"budgets"`
	Transactions []TransactionRecord `json:"transactions" toml:"transactions"`
}

type CategoryRecord struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
	Type string `json:"type" toml:"type"`
}

type GoalRecord struct {
	ID                 string             `json:"id" toml:"id"`
	UserID             string             `json:"user_id" toml:"user_id"`
	Name               string             `json:"name" toml:"name"`
	TargetAmount       decimal.Decimal    `json:"target_amount" toml:"target_amount"`
	TargetDate         Day                `json:"target_date" toml:"target_date"`
	YearlyInterestRate decimal.Decimal    `json:"yearly_interest_rate" toml:"yearly_interest_rate"`
	Transactions       []ActivityRecord   `json:"transactions" toml:"transactions"`
	Projections        []ProjectionRecord `json:"projections" toml:"projections"`
}

type DebtRecord struct {
	ID                 string             `json:"id" toml:"id"`
	UserID             string             `json:"user_id" toml:"user_id"`
	Name               string             `json:"name" toml:"name"`
	InitialAmount      decimal.Decimal    `json:"initial_amount" toml:"initial_amount"`
	TargetPayoffDate   *Day               `json:"target_payoff_date,omitempty" toml:"target_payoff_date,omitempty"`
	YearlyInterestRate decimal.Decimal    `json:"yearly_interest_rate" toml:"yearly_interest_rate"`
	Transactions       []ActivityRecord   `json:"transactions" toml:"transactions"`
	Projections        []ProjectionRecord `json:"projections" toml:"projections"`
}

// ActivityRecord is a goal contribution or debt payment.
type ActivityRecord struct {
	ID                  string          `json:"id" toml:"id"`
	Amount              decimal.Decimal `json:"amount" toml:"amount"`
	Date                Day             `json:"date" toml:"date"`
	PlannedProjectionID string          `json:"planned_projection_id,omitempty" toml:"planned_projection_id,omitempty"`
}

type ProjectionRecord struct {
	ID          string          `json:"id" toml:"id"`
	Description string          `json:"description" toml:"description"`
	Amount      decimal.Decimal `json:"amount" toml:"amount"`
	Date        Day             `json:"date" toml:"date"`
	Status      string          `json:"status" toml:"status"`
}

type BudgetRecord struct {
	ID         string          `json:"id" toml:"id"`
	UserID     string          `json:"user_id" toml:"user_id"`
	CategoryID string          `json:"category_id" toml:"category_id"`
	Amount     decimal.Decimal `json:"amount" toml:"amount"`
	Year       int             `json:"year" toml:"year"`
	Month      int             `json:"month" toml:"month"`
}

type TransactionRecord struct {
	ID         string          `json:"id" toml:"id"`
	UserID     string          `json:"user_id" toml:"user_id"`
	CategoryID string          `json:"category_id" toml:"category_id"`
	Amount     decimal.Decimal `json:"amount" toml:"amount"`
	Date       Day             `json:"date" toml:"date"`
}

// Load reads a snapshot file. The format is chosen by extension: .toml for
// TOML, anything else is parsed as JSON.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", filepath.Base(path), err)
	}

	return New(f)
}

// New builds a Store from an already decoded snapshot.
func New(f File) (*Store, error) {
	s := &Store{categories: make(map[string]domain.Category, len(f.Categories))}

	for _, c := range f.Categories {
		typ := domain.CategoryType(c.Type)
		if typ != domain.CategoryTypeIncome && typ != domain.CategoryTypeExpense {
			return nil, fmt.Errorf("category %s: unknown type %q", c.ID, c.Type)
		}
		cat := domain.Category{ID: c.ID, Name: c.Name, Type: typ}
		s.categories[c.ID] = cat
		s.categoryList = append(s.categoryList, cat)
	}

	for _, g := range f.Goals {
		txns, projs, err := convertActivity(g.Transactions, g.Projections)
		if err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		s.goals = append(s.goals, domain.Goal{
			ID:                 g.ID,
			UserID:             g.UserID,
			Name:               g.Name,
			TargetAmount:       g.TargetAmount,
			TargetDate:         g.TargetDate.Time,
			YearlyInterestRate: g.YearlyInterestRate,
			Transactions:       txns,
			Projections:        projs,
		})
	}

	for _, d := range f.Debts {
		txns, projs, err := convertActivity(d.Transactions, d.Projections)
		if err != nil {
			return nil, fmt.Errorf("debt %s: %w", d.ID, err)
		}
		debt := domain.Debt{
			ID:                 d.ID,
			UserID:             d.UserID,
			Name:               d.Name,
			InitialAmount:      d.InitialAmount,
			YearlyInterestRate: d.YearlyInterestRate,
			Transactions:       txns,
			Projections:        projs,
		}
		if d.TargetPayoffDate != nil {
			payoff := d.TargetPayoffDate.Time
			debt.TargetPayoffDate = &payoff
		}
		s.debts = append(s.debts, debt)
	}

	for _, b := range f.Budgets {
		cat, ok := s.categories[b.CategoryID]
		if !ok {
			return nil, fmt.Errorf("budget %s: %w: %s", b.ID, domain.ErrCategoryNotFound, b.CategoryID)
		}
		if err := domain.ValidatePeriod(b.Year, b.Month); err != nil {
			return nil, fmt.Errorf("budget %s: %w", b.ID, err)
		}
		s.budgets = append(s.budgets, domain.Budget{
			ID:           b.ID,
			UserID:       b.UserID,
			CategoryID:   b.CategoryID,
			CategoryName: cat.Name,
			CategoryType: cat.Type,
			Amount:       b.Amount,
			Year:         b.Year,
			Month:        time.Month(b.Month),
		})
	}

	for _, t := range f.Transactions {
		txn := domain.CashTransaction{
			ID:         t.ID,
			UserID:     t.UserID,
			CategoryID: t.CategoryID,
			Amount:     t.Amount,
			Date:       t.Date.Time,
		}
		if cat, ok := s.categories[t.CategoryID]; ok {
			txn.CategoryType = cat.Type
		}
		s.transactions = append(s.transactions, txn)
	}

	return s, nil
}

func convertActivity(records []ActivityRecord, planned []ProjectionRecord) ([]domain.Transaction, []domain.Projection, error) {
	txns := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		txn := domain.Transaction{ID: r.ID, Amount: r.Amount, Date: r.Date.Time}
		if r.PlannedProjectionID != "" {
			id := r.PlannedProjectionID
			txn.PlannedProjectionID = &id
		}
		txns = append(txns, txn)
	}

	projs := make([]domain.Projection, 0, len(planned))
	for _, p := range planned {
		status := domain.ProjectionStatus(p.Status)
		if status == "" {
			status = domain.ProjectionStatusPlanned
		}
		if !status.IsValid() {
			return nil, nil, fmt.Errorf("projection %s: unknown status %q", p.ID, p.Status)
		}
		projs = append(projs, domain.Projection{
			ID:          p.ID,
			Description: p.Description,
			Amount:      p.Amount,
			Date:        p.Date.Time,
			Status:      status,
		})
	}

	return txns, projs, nil
}
