// Package reminder computes when the user should next be reminded about an
// umbrella check. It only produces instants; delivery belongs to the
// platform notification layer.
package reminder

import (
	"sort"
	"time"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// Plan is one upcoming reminder instant.
type Plan struct {
	Kind    types.ReminderKind `json:"kind"`
	At      time.Time          `json:"at"`
	Weekday types.Weekday      `json:"weekday"`
}

// Planner derives reminder instants from the weekly schedule and the
// independent reminder toggles.
type Planner struct {
	// MorningAt is the clock time for the morning-of reminder.
	MorningAt string
	// PreOutingLead is how long before the outing start the pre-outing
	// reminder fires.
	PreOutingLead time.Duration
}

// NewPlanner returns a Planner with the default reminder times.
func NewPlanner() Planner {
	return Planner{
		MorningAt:     "07:00",
		PreOutingLead: 30 * time.Minute,
	}
}

// Next returns the next upcoming instant for each enabled reminder kind,
// sorted by time. Disabled days are skipped; the scan looks at most one week
// ahead, which is always sufficient since the schedule repeats weekly.
func (p Planner) Next(settings *types.Settings, now time.Time) []Plan {
	var plans []Plan

	if settings.Reminders.Morning {
		if plan, ok := p.nextAtClock(settings, now, p.MorningAt, 0, types.ReminderMorning); ok {
			plans = append(plans, plan)
		}
	}
	if settings.Reminders.PreOuting {
		if plan, ok := p.nextPreOuting(settings, now); ok {
			plans = append(plans, plan)
		}
	}

	sort.Slice(plans, func(i, j int) bool { return plans[i].At.Before(plans[j].At) })
	return plans
}

// nextAtClock finds the next enabled day whose reminder instant, at the given
// clock time minus lead, is still in the future.
func (p Planner) nextAtClock(settings *types.Settings, now time.Time, clock string, lead time.Duration, kind types.ReminderKind) (Plan, bool) {
	minutes, err := types.ParseClock(clock)
	if err != nil {
		return Plan{}, false
	}

	for offset := 0; offset < 7; offset++ {
		date := now.AddDate(0, 0, offset)
		day := types.Weekday(date.Weekday())
		if !settings.Week[day].Enabled {
			continue
		}
		at := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, now.Location()).Add(-lead)
		if at.After(now) {
			return Plan{Kind: kind, At: at, Weekday: day}, true
		}
	}
	return Plan{}, false
}

// nextPreOuting finds the next pre-outing reminder, anchored to each day's
// own outing start.
func (p Planner) nextPreOuting(settings *types.Settings, now time.Time) (Plan, bool) {
	for offset := 0; offset < 7; offset++ {
		date := now.AddDate(0, 0, offset)
		day := types.Weekday(date.Weekday())
		ds := settings.Week[day]
		if !ds.Enabled {
			continue
		}
		minutes, err := types.ParseClock(ds.Start)
		if err != nil {
			continue
		}
		at := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, now.Location()).Add(-p.PreOutingLead)
		if at.After(now) {
			return Plan{Kind: types.ReminderPreOuting, At: at, Weekday: day}, true
		}
	}
	return Plan{}, false
}
