package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateHorizon(t *testing.T) {
	t.Parallel()

	start := day(2025, time.March, 1)

	t.Run("end in same month", func(t *testing.T) {
		if err := ValidateHorizon(start, day(2025, time.March, 20)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("end before start rejected", func(t *testing.T) {
		err := ValidateHorizon(start, day(2025, time.February, 28))
		if !errors.Is(err, ErrInvalidHorizon) {
			t.Fatalf("expected ErrInvalidHorizon, got %v", err)
		}
	})

	t.Run("exactly fifty years allowed", func(t *testing.T) {
		if err := ValidateHorizon(start, day(2075, time.March, 1)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("beyond fifty years rejected", func(t *testing.T) {
		err := ValidateHorizon(start, day(2075, time.March, 2))
		if !errors.Is(err, ErrHorizonTooLong) {
			t.Fatalf("expected ErrHorizonTooLong, got %v", err)
		}
		if !errors.Is(err, ErrInvalidHorizon) {
			t.Fatalf("expected horizon error to wrap ErrInvalidHorizon, got %v", err)
		}
	})
}

func TestValidateBalance(t *testing.T) {
	t.Parallel()

	if err := ValidateBalance(decimal.NewFromInt(-5000)); err != nil {
		t.Fatalf("expected small balance to pass, got %v", err)
	}

	huge := decimal.RequireFromString(MaxProjectedBalance).Add(decimal.NewFromInt(1))
	err := ValidateBalance(huge.Neg())
	if !errors.Is(err, ErrBalanceOutOfRange) || !errors.Is(err, ErrInvalidHorizon) {
		t.Fatalf("expected ErrBalanceOutOfRange wrapping ErrInvalidHorizon, got %v", err)
	}
}

func TestValidatePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{"valid", 2025, 6, false},
		{"month zero", 2025, 0, true},
		{"month thirteen", 2025, 13, true},
		{"year too small", 1900, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.year, tt.month)
			if tt.wantErr && !errors.Is(err, ErrInvalidPeriod) {
				t.Fatalf("expected ErrInvalidPeriod, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestExceedsTolerance(t *testing.T) {
	t.Parallel()

	if ExceedsTolerance(decimal.RequireFromString("0.01")) {
		t.Fatalf("one cent should be within tolerance")
	}
	if !ExceedsTolerance(decimal.RequireFromString("-0.02")) {
		t.Fatalf("two cents should exceed tolerance")
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	got := Percent(decimal.NewFromInt(25), decimal.NewFromInt(200))
	if !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5, got %s", got)
	}

	if got := Percent(decimal.NewFromInt(25), decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero for zero whole, got %s", got)
	}
}
