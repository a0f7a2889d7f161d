package types

import "time"

// Location represents a saved place the user can attach to a day's outing.
// GPS-resolved locations are ephemeral and carry the fixed ID "gps".
type Location struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	AreaCode string   `json:"area_code"`
	IsGPS    bool     `json:"is_gps"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

// GPSLocationID is the reserved ID for the ephemeral GPS-resolved location.
const GPSLocationID = "gps"

// ResolvedLocation is the outcome of resolving the device's current position
// to a supported forecast area.
type ResolvedLocation struct {
	AreaCode string `json:"area_code"`
	AreaName string `json:"area_name"`
}

// Window is an outing time window in 24-hour "HH:MM" clock strings.
// End may precede Start, meaning the window wraps past midnight.
// Equal Start and End means the window covers the whole day.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UmbrellaCriteria is the user-configurable threshold rule. Validation runs
// through Validate so failures carry the API error codes.
type UmbrellaCriteria struct {
	PopThreshold    float64       `json:"pop_threshold"`
	PrecipThreshold float64       `json:"precip_threshold"`
	Logic           CriteriaLogic `json:"logic"`
}

// DefaultCriteria returns the documented default rule: pop >= 50% OR
// precipitation >= 1mm.
func DefaultCriteria() UmbrellaCriteria {
	return UmbrellaCriteria{
		PopThreshold:    50,
		PrecipThreshold: 1,
		Logic:           LogicOr,
	}
}

// DaySchedule holds one weekday's outing configuration. A nil OriginID means
// "resolve the origin via GPS"; a nil DestinationID means "no destination".
type DaySchedule struct {
	Enabled       bool    `json:"enabled"`
	OriginID      *string `json:"origin_id,omitempty"`
	DestinationID *string `json:"destination_id,omitempty"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
}

// WeeklySchedule holds exactly one DaySchedule per weekday, indexed 0=Sunday.
// All 7 slots always exist; disabling a day flips Enabled, never deletes.
type WeeklySchedule [7]DaySchedule

// DefaultWeeklySchedule returns the documented defaults: weekdays enabled
// 09:00-18:00, weekend disabled.
func DefaultWeeklySchedule() WeeklySchedule {
	var week WeeklySchedule
	for d := Sunday; d <= Saturday; d++ {
		week[d] = DaySchedule{
			Enabled: !d.IsWeekend(),
			Start:   "09:00",
			End:     "18:00",
		}
	}
	return week
}

// ReminderToggles holds the independent notification switches.
type ReminderToggles struct {
	Morning   bool `json:"morning"`
	PreOuting bool `json:"pre_outing"`
}

// Settings is the full persisted user settings document. It is saved and
// loaded as a whole; SchemaVersion drives the migration pipeline.
type Settings struct {
	SchemaVersion int              `json:"schema_version"`
	Criteria      UmbrellaCriteria `json:"criteria"`
	Week          WeeklySchedule   `json:"week"`
	Locations     []Location       `json:"locations"`
	Reminders     ReminderToggles  `json:"reminders"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// SettingsSchemaVersion is the current settings document version.
const SettingsSchemaVersion = 1

// DefaultSettings returns a settings document with all documented defaults.
func DefaultSettings() *Settings {
	return &Settings{
		SchemaVersion: SettingsSchemaVersion,
		Criteria:      DefaultCriteria(),
		Week:          DefaultWeeklySchedule(),
		Reminders:     ReminderToggles{Morning: true, PreOuting: true},
	}
}

// LocationByID returns the saved location with the given ID, or nil.
func (s *Settings) LocationByID(id string) *Location {
	for i := range s.Locations {
		if s.Locations[i].ID == id {
			return &s.Locations[i]
		}
	}
	return nil
}

// RemoveLocation deletes a saved location and clears any weekly schedule
// reference to it. Deleting an unknown ID is a no-op.
func (s *Settings) RemoveLocation(id string) {
	kept := s.Locations[:0]
	for _, loc := range s.Locations {
		if loc.ID != id {
			kept = append(kept, loc)
		}
	}
	s.Locations = kept
	for d := range s.Week {
		if s.Week[d].OriginID != nil && *s.Week[d].OriginID == id {
			s.Week[d].OriginID = nil
		}
		if s.Week[d].DestinationID != nil && *s.Week[d].DestinationID == id {
			s.Week[d].DestinationID = nil
		}
	}
}

// TimedValue is a single provider series entry: a timestamp paired with the
// numeric value the provider supplied for it.
type TimedValue struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Forecast is the normalized internal forecast shape. Provider field-name
// variants are resolved at parse time; consumers only ever see these
// canonical fields. Absent optional quantities are empty slices, never nil
// surprises mid-series.
type Forecast struct {
	AreaCode  string    `json:"area_code"`
	AreaName  string    `json:"area_name"`
	Publisher string    `json:"publisher"`
	IssuedAt  time.Time `json:"issued_at"`

	Weathers     []string `json:"weathers"`
	WeatherCodes []string `json:"weather_codes"`

	// Pops is the rain probability series in percent.
	Pops []TimedValue `json:"pops"`
	// Precip is the precipitation amount series in millimeters.
	Precip []TimedValue `json:"precip"`

	// Temperature arrays keep genuinely-missing entries as nil rather than
	// coercing to zero degrees.
	TempsMin []*float64 `json:"temps_min"`
	TempsMax []*float64 `json:"temps_max"`
	Temps    []*float64 `json:"temps"`
}

// TemperatureRange is the best-effort min/max extraction result. Either bound
// may be nil when the provider supplied no usable value.
type TemperatureRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// HourlySample is one representative time point within an outing window.
type HourlySample struct {
	TimeLabel   string  `json:"time_label"`
	Weather     string  `json:"weather"`
	WeatherCode string  `json:"weather_code"`
	Pop         float64 `json:"pop"`
	Precip      float64 `json:"precip"`
}

// UmbrellaResult is the per-location evaluation outcome. It is derived, never
// persisted, and recomputed on every fetch cycle.
type UmbrellaResult struct {
	Decision  Decision       `json:"decision"`
	Message   string         `json:"message"`
	MaxPop    float64        `json:"max_pop"`
	MaxPrecip float64        `json:"max_precip"`
	Hourly    []HourlySample `json:"hourly_forecasts"`
}

// LocationResult pairs a location with its evaluation.
type LocationResult struct {
	Location Location       `json:"location"`
	Result   UmbrellaResult `json:"result"`
}

// CombinedResult merges the optional origin and destination evaluations into
// one overall decision, worst-case wins.
type CombinedResult struct {
	Decision    Decision        `json:"overall_decision"`
	Message     string          `json:"overall_message"`
	Origin      *LocationResult `json:"origin,omitempty"`
	Destination *LocationResult `json:"destination,omitempty"`
}
