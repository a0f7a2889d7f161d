package types

// Decision is the three-valued outcome of an umbrella evaluation.
type Decision string

const (
	DecisionRequired    Decision = "required"
	DecisionRecommended Decision = "recommended"
	DecisionNotRequired Decision = "not_required"
)

// decisionRank orders decisions by severity for worst-case reduction.
var decisionRank = map[Decision]int{
	DecisionNotRequired: 0,
	DecisionRecommended: 1,
	DecisionRequired:    2,
}

// Worse returns the more severe of two decisions under the ordering
// required > recommended > not_required.
func (d Decision) Worse(other Decision) Decision {
	if decisionRank[other] > decisionRank[d] {
		return other
	}
	return d
}

// CriteriaLogic determines how the probability and precipitation thresholds
// are combined.
type CriteriaLogic string

const (
	LogicAnd CriteriaLogic = "AND"
	LogicOr  CriteriaLogic = "OR"
)

// Weekday indexes the weekly schedule. 0 = Sunday, matching time.Weekday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// IsWeekend reports whether the day is Saturday or Sunday.
func (w Weekday) IsWeekend() bool {
	return w == Saturday || w == Sunday
}

// Next returns the following weekday, wrapping Saturday to Sunday.
func (w Weekday) Next() Weekday {
	return (w + 1) % 7
}

// ScheduleDay identifies which day's schedule a result was computed for.
type ScheduleDay string

const (
	DayToday    ScheduleDay = "today"
	DayTomorrow ScheduleDay = "tomorrow"
)

// ReminderKind identifies an independent reminder toggle.
type ReminderKind string

const (
	ReminderMorning   ReminderKind = "morning"
	ReminderPreOuting ReminderKind = "pre_outing"
)
