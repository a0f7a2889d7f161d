// Package schedule implements the weekly outing schedule: resolving which
// day's window and location references apply for a reference time, the
// one-day rollover rule, and the versioned settings migration pipeline.
package schedule

import (
	"time"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// Resolution is the outcome of resolving the weekly schedule against a
// reference time. Schedule is nil when no outing applies.
type Resolution struct {
	// When tells the presentation layer whether today's or tomorrow's
	// schedule applies, so it can frame the result accordingly.
	When     types.ScheduleDay
	Weekday  types.Weekday
	Schedule *types.DaySchedule
}

// ForDay returns the applicable schedule for today or tomorrow relative to
// now. A disabled day yields nil regardless of its other fields.
func ForDay(week types.WeeklySchedule, now time.Time, when types.ScheduleDay) *types.DaySchedule {
	day := types.Weekday(now.Weekday())
	if when == types.DayTomorrow {
		day = day.Next()
	}
	ds := week[day]
	if !ds.Enabled {
		return nil
	}
	return &ds
}

// Resolve applies the day-rollover rule: when today has no outing, or the
// current clock time is already past today's outing end, the resolution
// switches to tomorrow and is flagged via When so callers recompute with
// tomorrow's location references.
//
// The end comparison uses minutes since midnight and is deliberately not
// midnight-wrap aware. The lookahead is exactly one day: if tomorrow is also
// disabled the result is simply "no outing".
func Resolve(week types.WeeklySchedule, now time.Time) Resolution {
	today := types.Weekday(now.Weekday())
	ds := ForDay(week, now, types.DayToday)

	if ds != nil && !pastOutingEnd(ds.End, now) {
		return Resolution{When: types.DayToday, Weekday: today, Schedule: ds}
	}

	return Resolution{
		When:     types.DayTomorrow,
		Weekday:  today.Next(),
		Schedule: ForDay(week, now, types.DayTomorrow),
	}
}

// pastOutingEnd reports whether now's clock time is strictly past the given
// outing end. An unparseable end never triggers rollover; settings are
// validated before they reach the resolver.
func pastOutingEnd(end string, now time.Time) bool {
	endMinutes, err := types.ParseClock(end)
	if err != nil {
		return false
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	return nowMinutes > endMinutes
}
