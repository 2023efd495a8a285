// Package clock supplies the calculation day to the use cases.
package clock

import (
	"time"

	"github.com/iho/goforecast/internal/domain"
)

// System reports the current day in a fixed location.
type System struct {
	loc *time.Location
	now func() time.Time
}

// NewSystem creates a clock that reads the wall clock in loc. A nil loc means UTC.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.UTC
	}
	return &System{loc: loc, now: time.Now}
}

// Today returns the current calendar day in the clock's location as UTC midnight.
func (c *System) Today() time.Time {
	return domain.Date(c.now().In(c.loc))
}

// Fixed always reports the same day.
type Fixed struct {
	day time.Time
}

// NewFixed creates a clock pinned to day.
func NewFixed(day time.Time) *Fixed {
	return &Fixed{day: domain.Date(day)}
}

// Today returns the pinned day.
func (c *Fixed) Today() time.Time {
	return c.day
}
