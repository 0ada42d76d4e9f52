// Package model defines the core data structures for TimeLedger.
package model

import (
	"fmt"
	"time"
)

// Setting keys read by the forecast engine.
const (
	SettingHoursPerDay  = "hours_per_day"
	SettingHoursPerWeek = "hours_per_week"
)

// TaskID identifies a billing/work category. Intervals without a
// bracketed tag carry the zero TaskID (Tagged is false). Two tags with
// the same numeric ID but different task labels are distinct.
type TaskID struct {
	ID     int
	Task   string
	Tagged bool
}

// String renders the tag the way it appears in log files, e.g. "0042"
// or "0042/review".
func (t TaskID) String() string {
	if !t.Tagged {
		return "untagged"
	}
	if t.Task != "" {
		return fmt.Sprintf("%04d/%s", t.ID, t.Task)
	}
	return fmt.Sprintf("%04d", t.ID)
}

// Interval is a contiguous span of worked time. End is never before
// Start; a zero-length interval is legal and contributes zero hours.
type Interval struct {
	Start time.Time
	End   time.Time
	Task  TaskID
}

// Hours returns the interval's length in hours.
func (iv Interval) Hours() float64 {
	return iv.End.Sub(iv.Start).Hours()
}

// Squash is a pre-aggregated duration not tied to specific start/end
// times. It counts toward the total but not the per-day breakdown.
type Squash time.Duration

// Hours returns the squashed duration in hours.
func (s Squash) Hours() float64 {
	return time.Duration(s).Hours()
}

// Settings holds the key/value pairs written by "set" lines. Values are
// restricted literals (numbers, strings, booleans, lists, mappings).
type Settings map[string]any

// Float looks up a setting and coerces it to float64. The second return
// is false when the key is absent or the value is not numeric.
func (s Settings) Float(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// FileData is the aggregate parsed from one log file. Start and End are
// the contract boundary dates; End is stored as midnight of the day
// after the literal end date, so it is an exclusive upper bound and nil
// means open-ended. Result is populated by forecast.Finalize.
type FileData struct {
	Name      string
	Settings  Settings
	Start     *time.Time
	End       *time.Time
	Intervals []Interval
	Squashes  []Squash
	IDNotes   map[TaskID]string

	Result *Result
}

// NewFileData returns an empty aggregate ready for parsing.
func NewFileData(name string) *FileData {
	return &FileData{
		Name:     name,
		Settings: Settings{},
		IDNotes:  map[TaskID]string{},
	}
}

// NoteFor records a free-text label for a TaskID. The first note wins;
// later notes for the same TaskID are ignored.
func (fd *FileData) NoteFor(id TaskID, note string) {
	if _, ok := fd.IDNotes[id]; !ok {
		fd.IDNotes[id] = note
	}
}

// Result holds the derived figures computed by finalization. The three
// forecast fields are target hours for their horizon, to be compared
// against TotalHours by the caller; each is nil when its horizon does
// not apply or its required setting is missing.
type Result struct {
	TotalHours float64

	// DailyIDs buckets tagged interval hours by the interval's start
	// day (midnight) and TaskID. Untagged intervals and squashes are
	// excluded.
	DailyIDs map[time.Time]map[TaskID]float64

	HoursToNight   *float64 // target by end of today
	HoursToWeekend *float64 // target by end of this week
	HoursToEnd     *float64 // target by end of contract

	// Errs collects per-horizon configuration errors. A ConfigError
	// for one horizon leaves the totals and other horizons valid.
	Errs []error
}

// ParseError reports the first unparseable line of a file. Line is the
// 0-based index into the input; Text is the cleaned line.
type ParseError struct {
	Line int
	Text string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("failed to parse line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("failed to parse line %d", e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports a setting that a forecast horizon needs but the
// file does not define (or defines with a non-numeric value).
type ConfigError struct {
	Setting string
	Horizon string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("setting %q required for %s forecast is not set", e.Setting, e.Horizon)
}
