// Package parser turns the lines of one time-log file into a
// model.FileData aggregate.
//
// Each non-blank line is matched against an ordered list of line forms;
// the first matching form's handler mutates the accumulator. The order
// matters: "start"/"end" lines look like settings and like date-only
// ranges, so the boundary form is tried first.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/timeledger/internal/dates"
	"github.com/bryan-cox/timeledger/internal/model"
)

// Line-form patterns, in match-priority order.
var (
	boundaryRegex = regexp.MustCompile(`^(start|end)\s+(.+)$`)
	setRegex      = regexp.MustCompile(`^set\s+([0-9A-Za-z_]+)\s+(.+)$`)
	rangeRegex    = regexp.MustCompile(`^([0-9.: -]+)(--|–)\s*([0-9.: -]+|now)\s*(.*)$`)
	squashRegex   = regexp.MustCompile(`^squashed\s+([0-9]+):([0-9]{2}):([0-9]{2}(?:\.[0-9]*)?)$`)

	keyedNoteRegex = regexp.MustCompile(`^\[([0-9]+)(?:/([\w\s]+))?\]\s*(.*)$`)
)

// accumulator is the mutable parse context for one file. prevDate
// carries the last range's resolved start so later range lines can
// elide their date.
type accumulator struct {
	fd       *model.FileData
	prevDate *time.Time
}

type lineForm struct {
	re      *regexp.Regexp
	handler func(p *Parser, acc *accumulator, m []string) error
}

var lineForms = []lineForm{
	{boundaryRegex, (*Parser).handleBoundary},
	{setRegex, (*Parser).handleSet},
	{rangeRegex, (*Parser).handleRange},
	{squashRegex, (*Parser).handleSquash},
}

// Parser drives line classification for log files. The zero value is
// not usable; construct with New.
type Parser struct {
	now dates.Clock
}

// New returns a Parser that reads the current time from clock when a
// range endpoint is the literal "now".
func New(clock dates.Clock) *Parser {
	return &Parser{now: clock}
}

// Parse consumes all lines of one file and returns the accumulated
// FileData. Parsing stops at the first unparseable line, which is
// reported as a *model.ParseError carrying the 0-based line index; the
// file then yields no data.
func (p *Parser) Parse(name string, lines []string) (*model.FileData, error) {
	acc := &accumulator{fd: model.NewFileData(name)}

	for i, raw := range lines {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		if err := p.parseLine(acc, line); err != nil {
			if perr, ok := err.(*model.ParseError); ok {
				perr.Line = i
				return nil, perr
			}
			return nil, &model.ParseError{Line: i, Text: line, Err: err}
		}
	}

	return acc.fd, nil
}

// cleanLine strips the comment suffix after the first '#' and trims
// surrounding whitespace.
func cleanLine(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

func (p *Parser) parseLine(acc *accumulator, line string) error {
	for _, form := range lineForms {
		m := form.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if err := form.handler(p, acc, m); err != nil {
			return &model.ParseError{Text: line, Err: err}
		}
		return nil
	}
	return &model.ParseError{Text: line, Msg: "no parser for line"}
}

// handleBoundary stores the contract start or end date as midnight.
// The end date is stored as midnight of the following day, so "end
// 2020-01-31" includes all of January 31.
func (p *Parser) handleBoundary(acc *accumulator, m []string) error {
	date, err := dates.ResolveDate(m[2])
	if err != nil {
		return err
	}
	switch m[1] {
	case "start":
		acc.fd.Start = &date
	case "end":
		date = date.AddDate(0, 0, 1)
		acc.fd.End = &date
	}
	return nil
}

// handleSet decodes the value as a restricted literal and stores it,
// overwriting any prior value for the key. YAML scalars, sequences and
// mappings cover exactly the literal grammar allowed here; decoding
// into a plain value cannot execute anything.
func (p *Parser) handleSet(acc *accumulator, m []string) error {
	var value any
	if err := yaml.Unmarshal([]byte(m[2]), &value); err != nil {
		return fmt.Errorf("invalid literal %q: %w", m[2], err)
	}
	acc.fd.Settings[m[1]] = value
	return nil
}

// handleRange appends one worked interval. The start may elide its date
// (borrowed from the previous range's start) and the end may elide its
// date (borrowed from the resolved start).
func (p *Parser) handleRange(acc *accumulator, m []string) error {
	start, err := dates.ResolveDateTime(m[1], acc.prevDate, p.now)
	if err != nil {
		return fmt.Errorf("invalid interval start: %w", err)
	}
	end, err := dates.ResolveDateTime(m[3], &start, p.now)
	if err != nil {
		return fmt.Errorf("invalid interval end: %w", err)
	}

	task := parseNote(acc.fd, strings.TrimSpace(m[4]))

	acc.fd.Intervals = append(acc.fd.Intervals, model.Interval{
		Start: start,
		End:   end,
		Task:  task,
	})
	acc.prevDate = &start
	return nil
}

// parseNote extracts a bracketed task tag from the note text, if any,
// and registers its free-text label. Only the first label for a TaskID
// is kept.
func parseNote(fd *model.FileData, note string) model.TaskID {
	m := keyedNoteRegex.FindStringSubmatch(note)
	if m == nil {
		return model.TaskID{}
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return model.TaskID{}
	}
	task := model.TaskID{ID: id, Task: m[2], Tagged: true}
	fd.NoteFor(task, m[3])
	return task
}

// handleSquash appends a pre-aggregated duration.
func (p *Parser) handleSquash(acc *accumulator, m []string) error {
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return err
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return err
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return err
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	acc.fd.Squashes = append(acc.fd.Squashes, model.Squash(d))
	return nil
}
