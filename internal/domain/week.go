package domain

import (
	"fmt"
	"time"
)

// MaxWeek is the highest aligned week number a year can have.
const MaxWeek = 53

// WeekKey identifies one weekly source file.
type WeekKey struct {
	Year int
	Week int
}

// NewWeekKey validates the week number. A week outside [1, MaxWeek] is a
// programming or configuration error, not a missing file.
func NewWeekKey(year, week int) (WeekKey, error) {
	k := WeekKey{Year: year, Week: week}
	if err := k.Validate(); err != nil {
		return WeekKey{}, err
	}
	return k, nil
}

// Validate rejects a key built directly with a week outside [1, MaxWeek].
func (k WeekKey) Validate() error {
	if k.Week < 1 || k.Week > MaxWeek {
		return fmt.Errorf("%w: week %d not in [1, %d]", ErrInvalidWeek, k.Week, MaxWeek)
	}
	return nil
}

// WeekOf returns the aligned week of the date's calendar year. Week 1 always
// starts on January 1st regardless of the weekday: (yearDay-1)/7 + 1.
func WeekOf(date time.Time) WeekKey {
	return WeekKey{
		Year: date.Year(),
		Week: (date.YearDay()-1)/7 + 1,
	}
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-%d", k.Year, k.Week)
}

// FileName is the name the source publishes the week under.
func (k WeekKey) FileName() string {
	return k.String() + ".csv"
}

// DateOf truncates t to its calendar day in UTC, keeping the wall-clock
// year, month and day of t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
