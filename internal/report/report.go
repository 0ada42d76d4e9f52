// Package report renders hour breakdowns and forecasts as text.
package report

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/bryan-cox/timeledger/internal/model"
)

const dayFormat = "2006-01-02"

// FormatHours renders an hour count as H:MM:SS. With precision > 0 the
// seconds field carries that many fractional digits.
func FormatHours(hours float64, precision int) string {
	seconds := hours * 3600
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := math.Floor(seconds / 3600)
	rem := seconds - h*3600
	m := math.Floor(rem / 60)
	s := rem - m*60

	width := 2
	if precision > 0 {
		width = precision + 3
	}
	return fmt.Sprintf("%s%.0f:%02.0f:%0*.*f", sign, h, m, width, precision, s)
}

// RoundHours rounds an hour count to whole seconds, so the formatted
// output does not show 59.999... artifacts.
func RoundHours(hours float64) float64 {
	return math.Round(hours*3600) / 3600
}

// PrintDaily writes per-day totals with per-task detail, with a
// subtotal line at every month rollover. With monthly set, each month
// subtotal is followed by its per-task hour summary.
func PrintDaily(out io.Writer, fd *model.FileData, monthly bool) {
	if fd.Result == nil {
		return
	}

	days := make([]time.Time, 0, len(fd.Result.DailyIDs))
	for day := range fd.Result.DailyIDs {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var prevMonth time.Time
	var monthTotal float64
	monthTasks := map[model.TaskID]float64{}

	flushMonth := func() {
		fmt.Fprintf(out, "month: %s\n", FormatHours(RoundHours(monthTotal), 0))
		if monthly {
			printTaskHours(out, monthTasks)
		}
		monthTotal = 0
		monthTasks = map[model.TaskID]float64{}
	}

	for _, day := range days {
		month := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		if !prevMonth.IsZero() && !month.Equal(prevMonth) {
			flushMonth()
		}
		prevMonth = month

		daily := fd.Result.DailyIDs[day]
		var dayTotal float64
		for _, task := range sortedTasks(daily) {
			hours := daily[task]
			dayTotal += hours
			monthTasks[task] += hours
			if task.Tagged {
				fmt.Fprintf(out, "%s %s %s\n",
					day.Format(dayFormat), task, FormatHours(RoundHours(hours), 0))
			}
		}
		fmt.Fprintf(out, "%s total %s\n", day.Format(dayFormat), FormatHours(RoundHours(dayTotal), 0))
		monthTotal += dayTotal
	}

	if !prevMonth.IsZero() && monthly {
		flushMonth()
	}
}

func printTaskHours(out io.Writer, tasks map[model.TaskID]float64) {
	for _, task := range sortedTasks(tasks) {
		if !task.Tagged {
			continue
		}
		fmt.Fprintf(out, "  ID %s  %.2f\n", task, tasks[task])
	}
}

func sortedTasks(m map[model.TaskID]float64) []model.TaskID {
	tasks := make([]model.TaskID, 0, len(m))
	for task := range m {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Tagged != b.Tagged {
			return !a.Tagged
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Task < b.Task
	})
	return tasks
}

// PrintForecasts writes the remaining-hours lines for every horizon the
// finalized file defines, comparing each target against the hours
// already logged.
func PrintForecasts(out io.Writer, fd *model.FileData, now time.Time) {
	if fd.Result == nil {
		return
	}
	res := fd.Result
	name := filepath.Base(fd.Name)

	if res.HoursToNight != nil {
		delta := *res.HoursToNight - res.TotalHours
		if delta >= 0 {
			finish := now.Add(time.Duration(delta * float64(time.Hour)))
			fmt.Fprintf(out, "in %s: %sh missing until end of day (~= %s)\n",
				name, FormatHours(RoundHours(delta), 0), finish.Format("15:04:05"))
		} else {
			fmt.Fprintf(out, "in %s: %sh overtime today\n",
				name, FormatHours(RoundHours(-delta), 0))
		}
	}

	if res.HoursToWeekend != nil {
		delta := *res.HoursToWeekend - res.TotalHours
		fmt.Fprintf(out, "in %s: %sh missing until weekend\n",
			name, FormatHours(RoundHours(delta), 0))
	}

	if res.HoursToEnd != nil && fd.End != nil && !fd.End.Before(now) {
		delta := *res.HoursToEnd - res.TotalHours
		fmt.Fprintf(out, "in %s: %sh missing until end of contract\n",
			name, FormatHours(RoundHours(delta), 0))
	}
}

// PrintTotal writes the file's accumulated hours as a single line.
func PrintTotal(out io.Writer, fd *model.FileData) {
	if fd.Result == nil {
		return
	}
	fmt.Fprintf(out, "%s: total %sh (%.2f h)\n",
		filepath.Base(fd.Name), FormatHours(fd.Result.TotalHours, 0), fd.Result.TotalHours)
}

// Ongoing reports whether the file's logging period is still open at
// the given time (no end boundary, or an end boundary not yet passed).
func Ongoing(fd *model.FileData, now time.Time) bool {
	return fd.End == nil || !fd.End.Before(now)
}
