package forecast

import "github.com/jiten-project/umbrella-app/internal/types"

// ExtractTemperature returns the best-effort min/max temperature for a
// forecast. Dedicated min/max arrays are tried first; a 2-element generic
// temperature array is the fallback. Missing entries stay nil so callers can
// distinguish "genuinely missing" from "zero degrees".
func ExtractTemperature(fc *types.Forecast) types.TemperatureRange {
	var tr types.TemperatureRange

	tr.Min = firstPresent(fc.TempsMin)
	tr.Max = firstPresent(fc.TempsMax)

	if tr.Min == nil && tr.Max == nil && len(fc.Temps) == 2 {
		tr.Min = fc.Temps[0]
		tr.Max = fc.Temps[1]
	}

	return tr
}

// firstPresent returns the first non-nil entry of an optional-value array.
func firstPresent(values []*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
