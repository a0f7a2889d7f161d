package schedule

import (
	"encoding/json"
	"time"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// settingsDocument is the loosely-typed on-disk settings shape. It carries
// both the current fields and the legacy flat single-location fields so the
// migration pipeline can decide which transforms apply from what is present.
type settingsDocument struct {
	SchemaVersion int                     `json:"schema_version"`
	Criteria      *types.UmbrellaCriteria `json:"criteria,omitempty"`
	Week          *types.WeeklySchedule   `json:"week,omitempty"`
	Locations     []types.Location        `json:"locations,omitempty"`
	Reminders     *types.ReminderToggles  `json:"reminders,omitempty"`
	UpdatedAt     time.Time               `json:"updated_at"`

	// Legacy flat single-location layout (pre-weekly-schedule).
	Origin      *types.Location `json:"origin,omitempty"`
	Destination *types.Location `json:"destination,omitempty"`
	OutingStart string          `json:"outing_start,omitempty"`
	OutingEnd   string          `json:"outing_end,omitempty"`

	// Legacy exclusive notification mode, replaced by independent toggles.
	NotifyMode string `json:"notify_mode,omitempty"`
}

// transform is one step of the migration pipeline. Each step declares when it
// applies based on which fields are present, keeping the upgrade path
// testable in isolation instead of inline conditionals.
type transform struct {
	name    string
	applies func(doc *settingsDocument) bool
	apply   func(doc *settingsDocument, out *types.Settings)
}

var transforms = []transform{
	{
		name: "flat_single_location_to_weekly",
		applies: func(doc *settingsDocument) bool {
			return doc.Week == nil &&
				(doc.Origin != nil || doc.Destination != nil || doc.OutingStart != "")
		},
		apply: expandFlatSchedule,
	},
	{
		name: "exclusive_notify_mode_to_toggles",
		applies: func(doc *settingsDocument) bool {
			return doc.Reminders == nil && doc.NotifyMode != ""
		},
		apply: splitNotifyMode,
	},
}

// Migrate decodes a persisted settings document, applying only the transforms
// whose legacy fields are present, and returns a current-version Settings.
// Empty input yields defaults. This is a one-time upgrade path executed on
// load, not a recurring behavior.
func Migrate(raw []byte) (*types.Settings, error) {
	if len(raw) == 0 {
		return types.DefaultSettings(), nil
	}

	var doc settingsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidSettings,
			"settings document is not valid JSON", err)
	}

	out := types.DefaultSettings()
	out.UpdatedAt = doc.UpdatedAt
	if doc.Criteria != nil {
		out.Criteria = *doc.Criteria
	}
	if doc.Week != nil {
		out.Week = *doc.Week
	}
	if doc.Locations != nil {
		out.Locations = doc.Locations
	}
	if doc.Reminders != nil {
		out.Reminders = *doc.Reminders
	}

	for _, t := range transforms {
		if t.applies(&doc) {
			t.apply(&doc, out)
		}
	}

	out.SchemaVersion = types.SettingsSchemaVersion
	return out, nil
}

// expandFlatSchedule turns the legacy single origin/destination/time values
// into a uniform weekly schedule: weekdays inherit the old values, weekends
// default to disabled.
func expandFlatSchedule(doc *settingsDocument, out *types.Settings) {
	start := doc.OutingStart
	if start == "" {
		start = "09:00"
	}
	end := doc.OutingEnd
	if end == "" {
		end = "18:00"
	}

	var originID, destinationID *string
	if doc.Origin != nil {
		out.Locations = appendLocation(out.Locations, *doc.Origin)
		if !doc.Origin.IsGPS {
			originID = &doc.Origin.ID
		}
	}
	if doc.Destination != nil {
		out.Locations = appendLocation(out.Locations, *doc.Destination)
		destinationID = &doc.Destination.ID
	}

	for d := types.Sunday; d <= types.Saturday; d++ {
		out.Week[d] = types.DaySchedule{
			Enabled:       !d.IsWeekend(),
			OriginID:      originID,
			DestinationID: destinationID,
			Start:         start,
			End:           end,
		}
	}
}

// splitNotifyMode converts the legacy exclusive notification mode into the
// independent toggle pair.
func splitNotifyMode(doc *settingsDocument, out *types.Settings) {
	out.Reminders = types.ReminderToggles{
		Morning:   doc.NotifyMode == "morning",
		PreOuting: doc.NotifyMode == "pre_outing",
	}
}

// appendLocation adds a location unless one with the same ID already exists.
// GPS-resolved locations are ephemeral and never persisted.
func appendLocation(locations []types.Location, loc types.Location) []types.Location {
	if loc.IsGPS || loc.ID == types.GPSLocationID {
		return locations
	}
	for _, existing := range locations {
		if existing.ID == loc.ID {
			return locations
		}
	}
	return append(locations, loc)
}
