package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiten-project/umbrella-app/internal/types"
)

func TestMigrate(t *testing.T) {
	t.Run("empty input yields defaults", func(t *testing.T) {
		s, err := Migrate(nil)
		require.NoError(t, err)
		assert.Equal(t, types.DefaultSettings(), s)
	})

	t.Run("invalid JSON is rejected", func(t *testing.T) {
		_, err := Migrate([]byte(`{broken`))
		require.Error(t, err)
		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeValidationInvalidSettings, appErr.Code)
	})

	t.Run("current document round-trips unchanged", func(t *testing.T) {
		original := types.DefaultSettings()
		original.Criteria = types.UmbrellaCriteria{PopThreshold: 70, PrecipThreshold: 2, Logic: types.LogicAnd}
		original.Locations = []types.Location{{ID: "loc-1", Name: "Home", AreaCode: "130000"}}
		original.Reminders = types.ReminderToggles{Morning: false, PreOuting: true}
		id := "loc-1"
		original.Week[types.Wednesday].OriginID = &id

		raw, err := json.Marshal(original)
		require.NoError(t, err)

		migrated, err := Migrate(raw)
		require.NoError(t, err)
		assert.Equal(t, original.Criteria, migrated.Criteria)
		assert.Equal(t, original.Week, migrated.Week)
		assert.Equal(t, original.Locations, migrated.Locations)
		assert.Equal(t, original.Reminders, migrated.Reminders)
		assert.Equal(t, types.SettingsSchemaVersion, migrated.SchemaVersion)
	})

	t.Run("flat single location document expands into a weekly schedule", func(t *testing.T) {
		raw := []byte(`{
			"origin": {"id": "loc-home", "name": "Home", "area_code": "130000"},
			"destination": {"id": "loc-office", "name": "Office", "area_code": "140000"},
			"outing_start": "08:30",
			"outing_end": "19:00"
		}`)

		s, err := Migrate(raw)
		require.NoError(t, err)

		require.Len(t, s.Locations, 2)
		assert.NotNil(t, s.LocationByID("loc-home"))
		assert.NotNil(t, s.LocationByID("loc-office"))

		for d := types.Sunday; d <= types.Saturday; d++ {
			day := s.Week[d]
			assert.Equal(t, !d.IsWeekend(), day.Enabled, "weekday %d", d)
			assert.Equal(t, "08:30", day.Start)
			assert.Equal(t, "19:00", day.End)
			require.NotNil(t, day.OriginID)
			assert.Equal(t, "loc-home", *day.OriginID)
			require.NotNil(t, day.DestinationID)
			assert.Equal(t, "loc-office", *day.DestinationID)
		}
		assert.Equal(t, types.SettingsSchemaVersion, s.SchemaVersion)
	})

	t.Run("flat GPS origin becomes a nil origin reference", func(t *testing.T) {
		raw := []byte(`{
			"origin": {"id": "gps", "name": "Current location", "area_code": "130000", "is_gps": true},
			"outing_start": "09:00",
			"outing_end": "18:00"
		}`)

		s, err := Migrate(raw)
		require.NoError(t, err)
		assert.Empty(t, s.Locations)
		assert.Nil(t, s.Week[types.Monday].OriginID)
		assert.True(t, s.Week[types.Monday].Enabled)
	})

	t.Run("flat document without times falls back to default window", func(t *testing.T) {
		raw := []byte(`{"origin": {"id": "loc-1", "name": "Home", "area_code": "130000"}, "outing_start": "07:00"}`)
		s, err := Migrate(raw)
		require.NoError(t, err)
		assert.Equal(t, "07:00", s.Week[types.Monday].Start)
		assert.Equal(t, "18:00", s.Week[types.Monday].End)
	})

	t.Run("weekly document skips the flat expansion", func(t *testing.T) {
		current := types.DefaultSettings()
		raw, err := json.Marshal(current)
		require.NoError(t, err)

		s, err := Migrate(raw)
		require.NoError(t, err)
		assert.Equal(t, current.Week, s.Week)
	})

	t.Run("exclusive notify mode splits into toggles", func(t *testing.T) {
		tests := []struct {
			mode          string
			wantMorning   bool
			wantPreOuting bool
		}{
			{"morning", true, false},
			{"pre_outing", false, true},
			{"off", false, false},
		}
		for _, tt := range tests {
			t.Run(tt.mode, func(t *testing.T) {
				raw := []byte(`{"notify_mode": "` + tt.mode + `"}`)
				s, err := Migrate(raw)
				require.NoError(t, err)
				assert.Equal(t, tt.wantMorning, s.Reminders.Morning)
				assert.Equal(t, tt.wantPreOuting, s.Reminders.PreOuting)
			})
		}
	})

	t.Run("present toggles win over a stale notify mode", func(t *testing.T) {
		raw := []byte(`{"reminders": {"morning": true, "pre_outing": true}, "notify_mode": "off"}`)
		s, err := Migrate(raw)
		require.NoError(t, err)
		assert.True(t, s.Reminders.Morning)
		assert.True(t, s.Reminders.PreOuting)
	})

	t.Run("duplicate legacy locations are collapsed", func(t *testing.T) {
		raw := []byte(`{
			"origin": {"id": "loc-1", "name": "Home", "area_code": "130000"},
			"destination": {"id": "loc-1", "name": "Home", "area_code": "130000"},
			"outing_start": "09:00"
		}`)
		s, err := Migrate(raw)
		require.NoError(t, err)
		assert.Len(t, s.Locations, 1)
	})
}
