// Package umbrella implements the decision core: sampling a normalized
// forecast over an outing window, reducing the samples to a three-valued
// umbrella decision under the user's threshold rule, and merging per-location
// decisions into one combined result.
package umbrella

import "github.com/jiten-project/umbrella-app/internal/types"

// SampleCount is the fixed number of representative time points generated
// for an outing window: the window start, two interior thirds, and the end.
const SampleCount = 4

// ExtractHourlySamples produces the ordered representative samples for an
// outing window. A window whose end precedes its start wraps past midnight;
// equal bounds mean the whole day.
//
// A forecast with no rain-probability series or no weather series yields an
// empty sample list: callers must treat that as "no data", not as zero rain.
// An absent precipitation series alone degrades to zero, not to no-data.
func ExtractHourlySamples(fc *types.Forecast, window types.Window) ([]types.HourlySample, error) {
	start, err := types.ParseClock(window.Start)
	if err != nil {
		return nil, err
	}
	duration, err := window.Duration()
	if err != nil {
		return nil, err
	}

	if len(fc.Pops) == 0 || len(fc.Weathers) == 0 {
		return []types.HourlySample{}, nil
	}

	// Weather text/code is not time-sampled: the first entry of the selected
	// area's weather arrays describes the whole window. This mirrors the
	// original presentation behavior and is intentional.
	weather := fc.Weathers[0]
	weatherCode := ""
	if len(fc.WeatherCodes) > 0 {
		weatherCode = fc.WeatherCodes[0]
	}

	popByHour := buildHourLookup(fc.Pops)
	precipByHour := buildHourLookup(fc.Precip)

	samples := make([]types.HourlySample, 0, SampleCount)
	for i := 0; i < SampleCount; i++ {
		offset := duration * i / (SampleCount - 1)
		point := (start + offset) % types.MinutesPerDay
		hour := point / 60

		samples = append(samples, types.HourlySample{
			TimeLabel:   types.FormatClock(point),
			Weather:     weather,
			WeatherCode: weatherCode,
			Pop:         popByHour.nearest(hour),
			Precip:      precipByHour.nearest(hour),
		})
	}

	return samples, nil
}

// hourLookup maps hour-of-day to a representative value, preserving the
// scan order of the source series for deterministic tie-breaking.
type hourLookup struct {
	hours  []int
	values map[int]float64
}

// buildHourLookup reduces a timed series to one value per hour component.
// The first value seen for an hour wins; later timestamps for the same hour,
// such as next-day rollover entries, are ignored in favor of today's data.
func buildHourLookup(series []types.TimedValue) hourLookup {
	l := hourLookup{values: make(map[int]float64, len(series))}
	for _, tv := range series {
		h := tv.Time.Hour()
		if _, seen := l.values[h]; seen {
			continue
		}
		l.hours = append(l.hours, h)
		l.values[h] = tv.Value
	}
	return l
}

// nearest returns the value whose hour has the smallest absolute difference
// to the requested hour. Ties resolve to the first minimal match in scan
// order. An empty lookup returns 0.
func (l hourLookup) nearest(hour int) float64 {
	if len(l.hours) == 0 {
		return 0
	}
	best := l.hours[0]
	bestDiff := absInt(best - hour)
	for _, h := range l.hours[1:] {
		if d := absInt(h - hour); d < bestDiff {
			best, bestDiff = h, d
		}
	}
	return l.values[best]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
