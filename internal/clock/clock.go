// Package clock abstracts wall-clock access so business logic that depends
// on "today" and the current shift window can be tested deterministically.
package clock

import "time"

// DateLayout is the day-granularity format used across the sheet boundary.
// Comparisons on it are exact string equality, not calendar-aware.
const DateLayout = "02.01.2006"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time { return f.Instant }

// Today formats the clock's current day as DD.MM.YYYY.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}
