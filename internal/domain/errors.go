package domain

import (
	"errors"
	"fmt"
)

var (
	// Entity lookup errors
	ErrGoalNotFound     = errors.New("goal not found")
	ErrDebtNotFound     = errors.New("debt not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Simulation errors
	ErrInvalidHorizon    = errors.New("invalid projection horizon")
	ErrHorizonTooLong    = fmt.Errorf("%w: horizon exceeds %d years", ErrInvalidHorizon, MaxHorizonYears)
	ErrBalanceOutOfRange = fmt.Errorf("%w: projected balance out of range", ErrInvalidHorizon)

	// Input errors
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrInvalidSchedule = errors.New("invalid projection schedule")
	ErrInvalidGoal     = errors.New("invalid goal")
)
