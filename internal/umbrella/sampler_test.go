package umbrella

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiten-project/umbrella-app/internal/types"
)

func timedAt(hour int, value float64) types.TimedValue {
	return types.TimedValue{
		Time:  time.Date(2026, 8, 30, hour, 0, 0, 0, time.UTC),
		Value: value,
	}
}

func testForecast() *types.Forecast {
	return &types.Forecast{
		AreaCode:     "130010",
		AreaName:     "東京地方",
		Weathers:     []string{"くもり時々雨", "晴れ"},
		WeatherCodes: []string{"212", "100"},
		Pops: []types.TimedValue{
			timedAt(0, 10), timedAt(6, 20), timedAt(12, 60), timedAt(18, 30),
		},
		Precip: []types.TimedValue{
			timedAt(0, 0), timedAt(6, 0.5), timedAt(12, 2), timedAt(18, 1),
		},
	}
}

func TestExtractHourlySamples(t *testing.T) {
	t.Run("produces four samples at window thirds", func(t *testing.T) {
		samples, err := ExtractHourlySamples(testForecast(), types.Window{Start: "09:00", End: "18:00"})
		require.NoError(t, err)
		require.Len(t, samples, SampleCount)

		assert.Equal(t, "09:00", samples[0].TimeLabel)
		assert.Equal(t, "12:00", samples[1].TimeLabel)
		assert.Equal(t, "15:00", samples[2].TimeLabel)
		assert.Equal(t, "18:00", samples[3].TimeLabel)
	})

	t.Run("weather text comes from the first entry for every sample", func(t *testing.T) {
		samples, err := ExtractHourlySamples(testForecast(), types.Window{Start: "09:00", End: "18:00"})
		require.NoError(t, err)
		for _, s := range samples {
			assert.Equal(t, "くもり時々雨", s.Weather)
			assert.Equal(t, "212", s.WeatherCode)
		}
	})

	t.Run("picks the nearest hour value for each sample point", func(t *testing.T) {
		samples, err := ExtractHourlySamples(testForecast(), types.Window{Start: "09:00", End: "18:00"})
		require.NoError(t, err)

		// 09:00 sits evenly between the 06 and 12 entries; the first minimal
		// match in scan order wins.
		assert.Equal(t, 20.0, samples[0].Pop)
		assert.Equal(t, 60.0, samples[1].Pop)
		assert.Equal(t, 60.0, samples[2].Pop)
		assert.Equal(t, 30.0, samples[3].Pop)

		assert.Equal(t, 0.5, samples[0].Precip)
		assert.Equal(t, 2.0, samples[1].Precip)
	})

	t.Run("equal bounds cover the whole day", func(t *testing.T) {
		samples, err := ExtractHourlySamples(testForecast(), types.Window{Start: "09:00", End: "09:00"})
		require.NoError(t, err)
		require.Len(t, samples, SampleCount)

		assert.Equal(t, "09:00", samples[0].TimeLabel)
		assert.Equal(t, "17:00", samples[1].TimeLabel)
		assert.Equal(t, "01:00", samples[2].TimeLabel)
		assert.Equal(t, "09:00", samples[3].TimeLabel)
	})

	t.Run("window wrapping midnight keeps valid clock labels", func(t *testing.T) {
		samples, err := ExtractHourlySamples(testForecast(), types.Window{Start: "22:00", End: "02:00"})
		require.NoError(t, err)
		require.Len(t, samples, SampleCount)

		assert.Equal(t, "22:00", samples[0].TimeLabel)
		assert.Equal(t, "23:20", samples[1].TimeLabel)
		assert.Equal(t, "00:40", samples[2].TimeLabel)
		assert.Equal(t, "02:00", samples[3].TimeLabel)

		for _, s := range samples {
			_, err := types.ParseClock(s.TimeLabel)
			assert.NoError(t, err, "label %q must stay a valid clock", s.TimeLabel)
		}
	})

	t.Run("missing rain probability series yields an empty list", func(t *testing.T) {
		fc := testForecast()
		fc.Pops = nil
		samples, err := ExtractHourlySamples(fc, types.Window{Start: "09:00", End: "18:00"})
		require.NoError(t, err)
		assert.Empty(t, samples)
	})

	t.Run("missing weather series yields an empty list", func(t *testing.T) {
		fc := testForecast()
		fc.Weathers = nil
		samples, err := ExtractHourlySamples(fc, types.Window{Start: "09:00", End: "18:00"})
		require.NoError(t, err)
		assert.Empty(t, samples)
	})

	t.Run("missing precipitation series degrades to zero", func(t *testing.T) {
		fc := testForecast()
		fc.Precip = nil
		samples, err := ExtractHourlySamples(fc, types.Window{Start: "09:00", End: "18:00"})
		require.NoError(t, err)
		require.Len(t, samples, SampleCount)
		for _, s := range samples {
			assert.Zero(t, s.Precip)
		}
	})

	t.Run("first value per hour wins over later rollover entries", func(t *testing.T) {
		fc := testForecast()
		fc.Pops = []types.TimedValue{
			timedAt(12, 60),
			{Time: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), Value: 90},
		}
		samples, err := ExtractHourlySamples(fc, types.Window{Start: "12:00", End: "13:00"})
		require.NoError(t, err)
		require.NotEmpty(t, samples)
		assert.Equal(t, 60.0, samples[0].Pop)
	})

	t.Run("invalid window start is rejected", func(t *testing.T) {
		_, err := ExtractHourlySamples(testForecast(), types.Window{Start: "9:00", End: "18:00"})
		require.Error(t, err)
		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrCodeValidationInvalidClock, appErr.Code)
	})
}
