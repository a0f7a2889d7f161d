package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// Normalize parses a raw feed payload into the canonical Forecast shape for
// the given requested area code. A payload that fails top-level structural
// validation yields a typed api_malformed_payload error, never a panic.
// Absent optional quantity arrays degrade to empty series, not errors.
//
// Only the first forecast item is consumed; by provider convention it covers
// today through tomorrow.
func Normalize(payload []byte, areaCode string) (*types.Forecast, error) {
	var items []forecastItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, types.NewAppError(types.ErrCodeAPIMalformed,
			"payload is not a forecast item array", err)
	}
	if len(items) == 0 {
		return nil, types.NewAppError(types.ErrCodeAPIMalformed,
			"payload contains no forecast items", nil)
	}

	for i := range items {
		if err := validateItem(&items[i]); err != nil {
			return nil, err
		}
	}

	item := &items[0]

	fc := &types.Forecast{
		Publisher: item.PublishingOffice,
		IssuedAt:  parseIssuedAt(item.ReportDatetime),
	}

	// The series carrying the weather arrays anchors area selection; without
	// one, the first series anchors it.
	anchor := selectWeatherSeries(item.TimeSeries)
	area := selectArea(anchor.Areas, areaCode)
	fc.AreaCode = area.Area.Code
	fc.AreaName = area.Area.Name
	fc.Weathers = append([]string(nil), area.Weathers...)
	fc.WeatherCodes = append([]string(nil), area.WeatherCodes...)

	// Quantity series are collected per series with the same area-selection
	// rule; the first series carrying a quantity wins, favoring today's data.
	for i := range item.TimeSeries {
		series := &item.TimeSeries[i]
		if len(series.Areas) == 0 {
			continue
		}
		sa := selectArea(series.Areas, areaCode)

		if fc.Pops == nil && len(sa.Pops) > 0 {
			fc.Pops = zipSeries(series.TimeDefines, sa.Pops)
		}
		if fc.Precip == nil && len(sa.precipValues()) > 0 {
			fc.Precip = zipSeries(series.TimeDefines, sa.precipValues())
		}
		if fc.TempsMin == nil && len(sa.TempsMin) > 0 {
			fc.TempsMin = parseOptionalValues(sa.TempsMin)
		}
		if fc.TempsMax == nil && len(sa.TempsMax) > 0 {
			fc.TempsMax = parseOptionalValues(sa.TempsMax)
		}
		if fc.Temps == nil && len(sa.Temps) > 0 {
			fc.Temps = parseOptionalValues(sa.Temps)
		}
	}

	return fc, nil
}

// validateItem enforces the structural invariants for one forecast item:
// a publisher, an issued-at string, a non-empty series list, and, per series,
// a timeDefines array plus a non-empty area list. Every quantity array an
// area carries, weather and temperature arrays included, must match
// timeDefines in length; absent arrays are fine, mismatched ones are not.
func validateItem(item *forecastItem) error {
	if item.PublishingOffice == "" {
		return structural("forecast item has no publisher")
	}
	if item.ReportDatetime == "" {
		return structural("forecast item has no issued-at timestamp")
	}
	if len(item.TimeSeries) == 0 {
		return structural("forecast item has no time series")
	}

	for si := range item.TimeSeries {
		series := &item.TimeSeries[si]
		if len(series.Areas) == 0 {
			return structural(fmt.Sprintf("series %d has no areas", si))
		}
		n := len(series.TimeDefines)
		for ai := range series.Areas {
			a := &series.Areas[ai]
			if a.Area.Code == "" && a.Area.Name == "" {
				return structural(fmt.Sprintf("series %d area %d has no name or code", si, ai))
			}
			arrays := [][]string{
				a.Weathers, a.WeatherCodes,
				a.Pops, a.precipValues(),
				a.Temps, a.TempsMin, a.TempsMax,
			}
			for _, arr := range arrays {
				if len(arr) > 0 && len(arr) != n {
					return structural(fmt.Sprintf(
						"series %d area %d value array length %d != timeDefines length %d",
						si, ai, len(arr), n))
				}
			}
		}
	}
	return nil
}

func structural(msg string) error {
	return types.NewAppError(types.ErrCodeAPIMalformed, msg, nil)
}

// selectWeatherSeries finds the series carrying weather-code/text fields.
// Falls back to the first series; callers guarantee a non-empty series list.
func selectWeatherSeries(seriesList []timeSeries) *timeSeries {
	for i := range seriesList {
		for ai := range seriesList[i].Areas {
			if seriesList[i].Areas[ai].hasWeather() {
				return &seriesList[i]
			}
		}
	}
	return &seriesList[0]
}

// selectArea picks exactly one area deterministically: exact code match,
// then 2-character prefix match, then the first area. The result is total
// for any non-empty area list.
func selectArea(areas []seriesArea, areaCode string) *seriesArea {
	if areaCode != "" {
		for i := range areas {
			if areas[i].Area.Code == areaCode {
				return &areas[i]
			}
		}
		if len(areaCode) >= 2 {
			prefix := areaCode[:2]
			for i := range areas {
				code := areas[i].Area.Code
				if len(code) >= 2 && code[:2] == prefix {
					return &areas[i]
				}
			}
		}
	}
	return &areas[0]
}

// zipSeries pairs timestamps with parsed numeric values. Unparseable
// timestamps drop that pair rather than failing the whole forecast.
func zipSeries(timeDefines, values []string) []types.TimedValue {
	n := len(timeDefines)
	if len(values) < n {
		n = len(values)
	}
	out := make([]types.TimedValue, 0, n)
	for i := 0; i < n; i++ {
		ts, err := time.Parse(time.RFC3339, timeDefines[i])
		if err != nil {
			continue
		}
		out = append(out, types.TimedValue{Time: ts, Value: parseNumeric(values[i])})
	}
	return out
}

// parseNumeric converts a string-typed feed value to a float. Empty strings
// and non-finite results become 0; NaN never propagates.
func parseNumeric(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseOptionalValues converts a temperature-style array, keeping
// genuinely-missing entries (empty strings) as nil rather than zero degrees.
func parseOptionalValues(values []string) []*float64 {
	out := make([]*float64, len(values))
	for i, s := range values {
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &v
	}
	return out
}

// parseIssuedAt parses the report timestamp, returning the zero time when
// the provider value is unparseable. IssuedAt is informational only.
func parseIssuedAt(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
