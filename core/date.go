package core

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	NowFunc = time.Now // mockable

	ErrInvalidDate  = errors.New("invalid date, expected yyyy-MM-dd")
	ErrInvalidMonth = errors.New("invalid month, expected yyyy-MM")
)

// Date is a calendar day in its canonical `yyyy-MM-dd` form.
// Lexical order of valid Dates is chronological order.
type Date string

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	// reject non canonical forms such as "2024-1-2"
	if t.Format(DateLayout) != s {
		return "", ErrInvalidDate
	}
	return Date(s), nil
}

// DateOf is the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today is the current calendar day in loc.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(NowFunc().In(loc))
}

func (d Date) String() string { return string(d) }

func (d Date) Valid() bool {
	_, err := ParseDate(string(d))
	return err == nil
}

// Time is midnight UTC of d. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// DaysUntil is the number of days from d to other, negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Between reports whether from <= d <= to.
func (d Date) Between(from, to Date) bool {
	return from <= d && d <= to
}

func (d Date) Month() Month {
	return Month(string(d)[:7])
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = Date(v.Format(DateLayout))
	case string:
		*d = Date(v[:min(len(v), len(DateLayout))])
	case []byte:
		*d = Date(string(v[:min(len(v), len(DateLayout))]))
	case nil:
		*d = ""
	default:
		return fmt.Errorf("cannot scan %T into core.Date", value)
	}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

// Month is a calendar month in its canonical `yyyy-MM` form.
type Month string

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil || t.Format(MonthLayout) != s {
		return "", ErrInvalidMonth
	}
	return Month(s), nil
}

func (m Month) String() string { return string(m) }

func (m Month) FirstDay() Date {
	return Date(string(m) + "-01")
}

func (m Month) LastDay() Date {
	return DateOf(m.FirstDay().Time().AddDate(0, 1, -1))
}
