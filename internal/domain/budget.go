package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType distinguishes income from expense categories.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// System category names targeted by budget suggestions.
const (
	CategoryLoans   = "Loans"
	CategorySavings = "Savings or Investments"
)

// Category is a user-visible bucket for income or expenses.
type Category struct {
	ID   string
	Name string
	Type CategoryType
}

// Budget is a planned spending limit for one category in one month.
type Budget struct {
	ID           string
	UserID       string
	CategoryID   string
	CategoryName string
	CategoryType CategoryType
	Amount       decimal.Decimal
	Year         int
	Month        time.Month
}

// Period returns the budget's calendar month.
func (b *Budget) Period() Month {
	return Month{Year: b.Year, Month: b.Month}
}

// CashTransaction is a row of the user's income and expense ledger.
type CashTransaction struct {
	ID           string
	UserID       string
	CategoryID   string
	CategoryType CategoryType
	Amount       decimal.Decimal
	Date         time.Time
}

// Categories is a set of categories searchable by name and type.
type Categories []Category

// Lookup finds a category by name and type.
func (c Categories) Lookup(name string, typ CategoryType) (Category, bool) {
	for _, cat := range c {
		if cat.Name == name && cat.Type == typ {
			return cat, true
		}
	}
	return Category{}, false
}
