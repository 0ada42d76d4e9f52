// Package forecast computes hour totals and remaining-hours targets
// from a parsed log file.
package forecast

import (
	"time"

	"github.com/bryan-cox/timeledger/internal/dates"
	"github.com/bryan-cox/timeledger/internal/model"
)

// Engine finalizes FileData aggregates. The clock is read exactly once
// per Finalize call so all horizon windows agree on "now".
type Engine struct {
	now dates.Clock
}

// New returns an Engine using the given clock.
func New(clock dates.Clock) *Engine {
	return &Engine{now: clock}
}

// Finalize computes totals, the per-day per-task breakdown and the
// applicable forecast targets, attaches them to fd and returns them.
// It recomputes from scratch, so calling it again (with the clock held
// fixed) yields the same result.
//
// A missing setting disables only the horizon that needs it; the
// failure is recorded on Result.Errs and everything else stays valid.
func (e *Engine) Finalize(fd *model.FileData) *model.Result {
	res := &model.Result{
		DailyIDs: map[time.Time]map[model.TaskID]float64{},
	}

	for _, iv := range fd.Intervals {
		hours := iv.Hours()
		res.TotalHours += hours

		day := dates.Midnight(iv.Start)
		daily := res.DailyIDs[day]
		if daily == nil {
			daily = map[model.TaskID]float64{}
			res.DailyIDs[day] = daily
		}
		daily[iv.Task] += hours
	}

	for _, sq := range fd.Squashes {
		res.TotalHours += sq.Hours()
	}

	if fd.Start != nil {
		e.forecast(fd, res)
	}

	fd.Result = res
	return res
}

func (e *Engine) forecast(fd *model.FileData, res *model.Result) {
	now := e.now()

	if fd.End == nil || !fd.End.Before(now) {
		today := dates.Midnight(now)
		endOfDay := today.AddDate(0, 0, 1)
		// Monday=0; a Monday projects to the following Monday.
		weekday := (int(today.Weekday()) + 6) % 7
		endOfWeek := today.AddDate(0, 0, 7-weekday)

		if fd.End == nil || !endOfWeek.After(*fd.End) {
			if hpd, ok := fd.Settings.Float(model.SettingHoursPerDay); ok {
				target := float64(dates.Workdays(*fd.Start, endOfWeek)) * hpd
				res.HoursToWeekend = &target
			} else {
				res.Errs = append(res.Errs, &model.ConfigError{
					Setting: model.SettingHoursPerDay, Horizon: "end of week",
				})
			}
		}

		if fd.End == nil || !endOfDay.After(*fd.End) {
			// hours_per_day of zero reads as "do not project my days"
			// and suppresses this horizon without an error.
			if hpd, ok := fd.Settings.Float(model.SettingHoursPerDay); ok {
				if hpd != 0 {
					target := float64(dates.Workdays(*fd.Start, endOfDay)) * hpd
					res.HoursToNight = &target
				}
			} else {
				res.Errs = append(res.Errs, &model.ConfigError{
					Setting: model.SettingHoursPerDay, Horizon: "end of day",
				})
			}
		}
	}

	if fd.End != nil {
		if hpw, ok := fd.Settings.Float(model.SettingHoursPerWeek); ok {
			target := dates.Weeks(*fd.Start, *fd.End) * hpw
			res.HoursToEnd = &target
		} else {
			res.Errs = append(res.Errs, &model.ConfigError{
				Setting: model.SettingHoursPerWeek, Horizon: "end of contract",
			})
		}
	}
}
