// Package calendar provides UTC calendar-day arithmetic for the planner timeline:
// ISO date parsing and formatting, weekend detection, business-day counting and
// offsetting, and clamping of date ranges against a visible window.
package calendar

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// ISOLayout is the only textual date format understood by the planner.
const ISOLayout = "2006-01-02"

// ErrInvalidDate is returned when a string is not a valid YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid ISO date")

// Date is a calendar day normalized to UTC midnight. It never carries a time of day.
// The zero value is not a valid planner date; use IsZero to detect it.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day. Out-of-range values are
// normalized the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its UTC calendar day.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Today returns the current UTC calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// ParseISO parses a YYYY-MM-DD string.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return Date{t: t}, nil
}

// MustParseISO is like ParseISO but panics on malformed input.
// Intended for constants and tests.
func MustParseISO(s string) Date {
	d, err := ParseISO(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ToISO formats the UTC calendar day of t as YYYY-MM-DD.
func ToISO(t time.Time) string {
	return FromTime(t).String()
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Time returns the date as a UTC midnight time.Time.
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Weekday returns the UTC weekday of d.
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Year returns the calendar year of d.
func (d Date) Year() int {
	return d.t.Year()
}

// Month returns the calendar month of d.
func (d Date) Month() time.Month {
	return d.t.Month()
}

// Day returns the day of the month of d.
func (d Date) Day() int {
	return d.t.Day()
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseISO(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so dates are stored as TEXT columns.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner for TEXT and timestamp columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case time.Time:
		*d = FromTime(v)
		return nil
	default:
		return fmt.Errorf("failed to scan date from %T", src)
	}
}

// EachDay returns count consecutive calendar days starting at start.
func EachDay(start Date, count int) []Date {
	if count <= 0 {
		return []Date{}
	}
	days := make([]Date, count)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// DaysBetweenInclusive counts calendar days from a to b, both included.
// The result is only positive when a <= b; ordering is the caller's job.
func DaysBetweenInclusive(a, b Date) int {
	return int(b.t.Sub(a.t).Hours()/24) + 1
}

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}
