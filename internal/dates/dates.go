// Package dates resolves the date/time fragments found in log files and
// provides the workday arithmetic used for forecasting.
package dates

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Resolution failures. Callers wrap these into line-level parse errors.
var (
	ErrUnparseableDate = errors.New("unparseable date")
	ErrUnparseableTime = errors.New("unparseable time")
	ErrMissingTime     = errors.New("missing time component")
)

// dateLayout is the strict format tried before falling back to
// free-form recognition.
const dateLayout = "2006-01-02"

var timeLayouts = []string{"15:04:05", "15:04"}

// Clock supplies the current time. It is injected so that "now" range
// endpoints and forecast windows are reproducible in tests.
type Clock func() time.Time

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ResolveTime parses a time-of-day string. A bare hour like "9" is
// retried as "9:00" before giving up.
func ResolveTime(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, attempt := range []string{s, s + ":00"} {
		for _, layout := range timeLayouts {
			t, err := time.Parse(layout, attempt)
			if err == nil {
				return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
			}
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
}

// ResolveDate parses a calendar date. Strict YYYY-MM-DD is tried first,
// then free-form recognition ("Jan 2 2020", "02.01.2020", ...).
func ResolveDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}
	return Midnight(t), nil
}

// ResolveDateTime parses a timestamp of at most two whitespace-separated
// parts (date and time-of-day). The literal "now" yields the clock's
// current time, read once. A lone time-of-day borrows its date from
// reference; without a reference it is an error.
func ResolveDateTime(s string, reference *time.Time, now Clock) (time.Time, error) {
	parts := strings.Fields(s)

	if len(parts) == 1 && parts[0] == "now" {
		return now(), nil
	}

	var date time.Time
	var tod TimeOfDay
	var err error
	switch {
	case len(parts) == 1 && reference != nil:
		date = Midnight(*reference)
		if tod, err = ResolveTime(parts[0]); err != nil {
			return time.Time{}, err
		}
	case len(parts) >= 2:
		if date, err = ResolveDate(parts[0]); err != nil {
			return time.Time{}, err
		}
		if tod, err = ResolveTime(parts[1]); err != nil {
			return time.Time{}, err
		}
	default:
		return time.Time{}, fmt.Errorf("%w in %q", ErrMissingTime, s)
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour, tod.Minute, tod.Second, 0, time.Local), nil
}

// Midnight truncates a timestamp to the start of its day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekday maps to the Monday=0 .. Sunday=6 convention the workday
// arithmetic is written in.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// daysBetween counts calendar days from a to b, both at midnight.
// Rounding absorbs DST-shortened or -lengthened days.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Workdays counts the Mon-Fri days in [from, to). Both bounds are
// truncated to midnight. The result is antisymmetric: swapping the
// arguments negates it, and Workdays(d, d) is zero.
func Workdays(from, to time.Time) int {
	from = Midnight(from)
	to = Midnight(to)
	if from.Equal(to) {
		return 0
	}
	if from.After(to) {
		return -Workdays(to, from)
	}

	days := 0

	// Trim the partial leading week so from lands on a Monday.
	if wd := weekday(from); wd != 0 {
		if wd < 5 {
			days += min(5-wd, daysBetween(from, to))
		}
		from = from.AddDate(0, 0, 7-wd)
	}

	if !from.Before(to) {
		return days
	}

	// Trim the partial trailing week so to lands on a Monday.
	if wd := weekday(to); wd != 0 {
		if wd > 5 {
			to = to.AddDate(0, 0, 5-wd)
			wd = 5
		}
		days += min(wd, daysBetween(from, to))
		to = to.AddDate(0, 0, -wd)
	}

	// What remains is a whole number of weeks, 5 workdays each.
	days += daysBetween(from, to) / 7 * 5
	return days
}

// Weeks returns the possibly fractional number of weeks between two
// timestamps, each truncated to midnight.
func Weeks(from, to time.Time) float64 {
	return float64(daysBetween(Midnight(from), Midnight(to))) / 7
}
